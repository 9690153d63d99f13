package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/service"
	"github.com/farmnet/backend/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			h.logger.Error("get profile failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, true)
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, false)
}

func (h *UserHandler) setFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	identity := middleware.GetIdentity(r.Context())
	target := r.PathValue("username")

	var err error
	if follow {
		err = h.userService.Follow(r.Context(), identity.Username, target)
	} else {
		err = h.userService.Unfollow(r.Context(), identity.Username, target)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			writeError(w, http.StatusBadRequest, "Cannot follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("follow update failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	user, err := h.userService.GetProfile(r.Context(), identity.Username)
	if err != nil {
		h.logger.Error("reload profile failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
