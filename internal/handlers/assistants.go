package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fittrack/internal/assistant"
	"fittrack/internal/metrics"
	"fittrack/internal/middleware"
)

// AssistantHandler serves chat turns with the butler and trainer
type AssistantHandler struct {
	agents  map[string]assistant.Agent
	threads *assistant.ThreadStore
	logger  *slog.Logger
}

// NewAssistantHandler creates the assistant endpoints. A nil or missing agent
// for a known assistant makes its endpoints answer 503.
func NewAssistantHandler(agents map[string]assistant.Agent, threads *assistant.ThreadStore) *AssistantHandler {
	return &AssistantHandler{
		agents:  agents,
		threads: threads,
		logger:  slog.Default(),
	}
}

// Register adds the assistant routes to mux
func (h *AssistantHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/assistants/{name}/messages", middleware.WrapHandler(metrics.EndpointAssistant, h.HandleMessage))
	mux.Handle("GET /api/assistants/{name}/threads/{id}", middleware.WrapHandler(metrics.EndpointAssistant, h.HandleGetThread))
	mux.Handle("DELETE /api/assistants/{name}/threads/{id}", middleware.WrapHandler(metrics.EndpointAssistant, h.HandleDeleteThread))
}

type messageRequest struct {
	ThreadID string `json:"threadId,omitempty"`
	Message  string `json:"message"`
}

type threadResponse struct {
	ID        string              `json:"id"`
	Assistant string              `json:"assistant"`
	CreatedAt time.Time           `json:"createdAt"`
	Messages  []assistant.Message `json:"messages"`
}

var errAssistantsDisabled = errors.New("assistants are disabled, set GEMINI_API_KEY to enable them")

// agent resolves the assistant named in the path
func (h *AssistantHandler) agent(w http.ResponseWriter, r *http.Request) (string, assistant.Agent, bool) {
	name := r.PathValue("name")
	if name != assistant.Butler && name != assistant.Trainer {
		writeJSON(w, h.logger, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown assistant %q", name)})
		return "", nil, false
	}

	agent := h.agents[name]
	if agent == nil {
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"error": errAssistantsDisabled.Error()})
		return "", nil, false
	}
	return name, agent, true
}

// HandleMessage handles POST /api/assistants/{name}/messages
// Body: {"threadId": optional, "message": "..."}. Without a threadId a new
// thread is started; the reply carries its id.
func (h *AssistantHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	name, agent, ok := h.agent(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, h.logger, fmt.Errorf("%w: message is required", errBadRequest))
		return
	}

	thread, err := h.threads.Open(name, req.ThreadID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Assistant message", "assistant", name, "thread_id", thread.ID, "new_thread", req.ThreadID == "")

	reply, err := agent.Respond(r.Context(), thread, req.Message)
	if err != nil {
		if !errors.Is(err, assistant.ErrToolRoundsExceeded) && !errors.Is(err, assistant.ErrThreadNotFound) {
			h.logger.Error("Assistant turn failed", "assistant", name, "thread_id", thread.ID, "error", err)
			writeJSON(w, h.logger, http.StatusBadGateway, map[string]string{"error": "assistant is unavailable, try again"})
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, reply)
}

// HandleGetThread handles GET /api/assistants/{name}/threads/{id}
func (h *AssistantHandler) HandleGetThread(w http.ResponseWriter, r *http.Request) {
	name, _, ok := h.agent(w, r)
	if !ok {
		return
	}

	thread, err := h.threads.Open(name, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, threadResponse{
		ID:        thread.ID,
		Assistant: thread.Assistant,
		CreatedAt: thread.CreatedAt,
		Messages:  thread.Messages(),
	})
}

// HandleDeleteThread handles DELETE /api/assistants/{name}/threads/{id}
func (h *AssistantHandler) HandleDeleteThread(w http.ResponseWriter, r *http.Request) {
	name, _, ok := h.agent(w, r)
	if !ok {
		return
	}

	thread, err := h.threads.Open(name, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.threads.Delete(thread.ID)
	w.WriteHeader(http.StatusNoContent)
}
