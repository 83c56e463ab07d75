package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agentops/agentops/internal/comparison"
	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/pipeline"
	"github.com/agentops/agentops/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// userIDHeader attributes requests in lieu of the authentication
	// layer, which is handled upstream of this service.
	userIDHeader  = "X-User-ID"
	anonymousUser = "anonymous"
)

type evaluateRequest struct {
	Conversation domain.Conversation `json:"conversation"`
	Model        string              `json:"model"`
	SessionID    string              `json:"session_id,omitempty"`
}

type evaluateResponse struct {
	ConversationID uuid.UUID                   `json:"conversation_id"`
	Evaluation     *domain.AggregateEvaluation `json:"evaluation"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Conversation.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta := pipeline.RunMeta{
		ConversationID: uuid.New(),
		UserID:         userID(r),
		SessionID:      req.SessionID,
	}
	agg, err := s.executor.Run(r.Context(), req.Conversation, req.Model, meta)
	if err != nil {
		status := http.StatusInternalServerError
		if !errors.Is(err, pipeline.ErrPersistence) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{ConversationID: meta.ConversationID, Evaluation: agg})
}

type compareRequest struct {
	Prompt string   `json:"prompt"`
	Models []string `json:"models"`
}

type compareResponse struct {
	Results        []domain.ComparisonResult `json:"results"`
	Recommendation *domain.ComparisonResult  `json:"recommendation,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if len(req.Models) == 0 {
		req.Models = []string{"gpt-4o", "gpt-4o-mini"}
	}

	results, err := s.engine.Run(r.Context(), req.Prompt, req.Models)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{
		Results:        results,
		Recommendation: comparison.Recommend(results),
	})
}

type listResponse struct {
	Conversations []store.ConversationRecord `json:"conversations"`
	Total         int                        `json:"total"`
	Page          int                        `json:"page"`
	PageSize      int                        `json:"page_size"`
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	records, total, err := s.records.ListConversations(r.Context(), userID(r), (page-1)*pageSize, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Conversations: records,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}
	detail, err := s.records.GetConversation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func userID(r *http.Request) string {
	if id := r.Header.Get(userIDHeader); id != "" {
		return id
	}
	return anonymousUser
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
