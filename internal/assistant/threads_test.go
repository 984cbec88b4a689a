package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadStoreOpen(t *testing.T) {
	store := NewThreadStore()

	thread, err := store.Open(Butler, "")
	require.NoError(t, err)
	assert.NotEmpty(t, thread.ID)
	assert.Equal(t, Butler, thread.Assistant)
	assert.Equal(t, 1, store.Len())

	again, err := store.Open(Butler, thread.ID)
	require.NoError(t, err)
	assert.Same(t, thread, again)

	_, err = store.Open(Trainer, thread.ID)
	assert.ErrorIs(t, err, ErrThreadNotFound, "Threads are not shared between assistants")

	_, err = store.Open(Butler, "missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)

	store.Delete(thread.ID)
	_, ok := store.Get(thread.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestThreadMessagesIsACopy(t *testing.T) {
	thread := &Thread{ID: "t1", Assistant: Butler}
	thread.record("hi", &Reply{Text: "hello"})

	msgs := thread.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: "user", Text: "hi"}, msgs[0])
	assert.Equal(t, Message{Role: "assistant", Text: "hello"}, msgs[1])

	msgs[0].Text = "changed"
	assert.Equal(t, "hi", thread.Messages()[0].Text)
}
