package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/service"
	"github.com/farmnet/backend/internal/transport/http/middleware"
	"github.com/farmnet/backend/pkg/validator"
)

type ResourceHandler struct {
	resourceService *service.ResourceService
	logger          *zap.Logger
}

func NewResourceHandler(resourceService *service.ResourceService, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService, logger: logger}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resourceService.List(r.Context())
	if err != nil {
		h.logger.Error("list resources failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"resources": resources})
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var input service.CreateResourceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateResource(
		input.Name, input.Status, input.Owner,
		input.Contact, input.Location, input.NextAvailable,
	); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resource, err := h.resourceService.Create(r.Context(), identity.Username, input)
	if err != nil {
		h.logger.Error("create resource failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"resource": resource})
}

func (h *ResourceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid resource ID")
		return
	}

	var input struct {
		Status        string `json:"status"`
		NextAvailable string `json:"next_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resource, err := h.resourceService.UpdateStatus(r.Context(), id, identity.Username, input.Status, input.NextAvailable)
	if err != nil {
		h.writeResourceError(w, err, "update resource failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"resource": resource})
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid resource ID")
		return
	}

	if err := h.resourceService.Delete(r.Context(), id, identity.Username); err != nil {
		h.writeResourceError(w, err, "delete resource failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandler) writeResourceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrNotResourceOwner):
		writeError(w, http.StatusForbidden, "Only the creator can modify this resource")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
