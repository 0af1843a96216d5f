package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/api/response"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/service"
)

// SettingHandler handles HTTP requests for organization settings.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler with the provided service dependency.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
	}
}

// GetSettings handles GET requests to list all settings.
//
// Endpoint: GET /api/settings
// Response: 200 OK with array of Setting
// Error: 500 Internal Server Error if retrieval fails
func (h *SettingHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingService.GetSettings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "settings retrieved successfully", settings)
}

// GetSetting handles GET requests to read one setting by key.
//
// Endpoint: GET /api/settings/{key}
// Response: 200 OK with Setting
// Error: 404 Not Found if the key does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *SettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := h.settingService.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSettingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "setting retrieved successfully", setting)
}

// UpsertSetting handles PUT requests to create or replace one setting.
//
// Endpoint: PUT /api/settings/{key}
// Request Body: UpsertSettingRequest
// Response: 200 OK with the stored Setting
// Error: 400 Bad Request if the request body is invalid
// Error: 500 Internal Server Error if the write fails
func (h *SettingHandler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	req, err := parseJSON[request.UpsertSettingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	setting, err := h.settingService.UpsertSetting(r.Context(), key, req.Value)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to save setting", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "setting saved successfully", setting)
}
