package assistant

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrThreadNotFound is returned for an unknown thread id
var ErrThreadNotFound = errors.New("thread not found")

// Message is one entry of a thread transcript
type Message struct {
	Role      string     `json:"role"`
	Text      string     `json:"text,omitempty"`
	Component *Component `json:"component,omitempty"`
}

// Thread is one conversation with an assistant. Turns on a thread are
// serialised; the runtime keeps its own transcript in state.
type Thread struct {
	ID        string    `json:"id"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"createdAt"`

	mu       sync.Mutex
	messages []Message
	state    any
}

// Messages returns a copy of the transcript
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// record appends a completed turn. The caller holds t.mu.
func (t *Thread) record(utterance string, reply *Reply) {
	t.messages = append(t.messages, Message{Role: "user", Text: utterance})
	t.messages = append(t.messages, Message{Role: "assistant", Text: reply.Text, Component: reply.Component})
}

// ThreadStore keeps threads in memory
type ThreadStore struct {
	mu      sync.RWMutex
	threads map[string]*Thread
}

// NewThreadStore creates an empty thread store
func NewThreadStore() *ThreadStore {
	return &ThreadStore{threads: make(map[string]*Thread)}
}

// Get returns a thread by id
func (s *ThreadStore) Get(id string) (*Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[id]
	return t, ok
}

// Open returns the thread with the given id, or starts a new thread for the
// assistant when id is empty. A thread belonging to another assistant is
// reported as not found.
func (s *ThreadStore) Open(assistant, id string) (*Thread, error) {
	if id == "" {
		t := &Thread{ID: uuid.NewString(), Assistant: assistant, CreatedAt: time.Now().UTC()}

		s.mu.Lock()
		s.threads[t.ID] = t
		s.mu.Unlock()
		return t, nil
	}

	t, ok := s.Get(id)
	if !ok || t.Assistant != assistant {
		return nil, ErrThreadNotFound
	}
	return t, nil
}

// Delete forgets a thread
func (s *ThreadStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, id)
}

// Len returns the number of threads held
func (s *ThreadStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}
