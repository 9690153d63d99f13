package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/service"
	"github.com/farmnet/backend/internal/transport/http/middleware"
)

type ConversationHandler struct {
	convService *service.ConversationService
	logger      *zap.Logger
}

func NewConversationHandler(convService *service.ConversationService, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{convService: convService, logger: logger}
}

// List returns the caller's conversations, most recently active first.
// The legacy ?user= parameter is still accepted but must name the caller.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if user := r.URL.Query().Get("user"); user != "" && user != identity.Username {
		writeError(w, http.StatusForbidden, "Cannot list another user's conversations")
		return
	}

	convs, err := h.convService.ListForUser(r.Context(), identity.Username)
	if err != nil {
		h.logger.Error("list conversations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (h *ConversationHandler) FindOrCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var input struct {
		Participants []string `json:"participants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv, err := h.convService.FindOrCreate(r.Context(), identity.Username, input.Participants)
	if err != nil {
		if errors.Is(err, service.ErrTooFewParticipants) {
			writeError(w, http.StatusBadRequest, "Participants array with at least 2 users is required")
		} else {
			h.logger.Error("find or create conversation failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"conversation": conv})
}

func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	convID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	messages, err := h.convService.ListMessages(r.Context(), convID, identity.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			writeError(w, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, service.ErrNotParticipant):
			writeError(w, http.StatusForbidden, "You are not a participant in this conversation")
		default:
			h.logger.Error("list messages failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	convID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.convService.AppendMessage(r.Context(), convID, identity.Username, input.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "Message text is required")
		case errors.Is(err, service.ErrConversationNotFound):
			writeError(w, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, service.ErrNotParticipant):
			writeError(w, http.StatusForbidden, "You are not a participant in this conversation")
		default:
			h.logger.Error("send message failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}
