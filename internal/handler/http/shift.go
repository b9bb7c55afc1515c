package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// ShiftHandler serves shift policies and break configurations.
type ShiftHandler interface {
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	GetPolicy(w http.ResponseWriter, r *http.Request)
	ListPolicies(w http.ResponseWriter, r *http.Request)

	CreateBreakConfig(w http.ResponseWriter, r *http.Request)
	UpdateBreakConfig(w http.ResponseWriter, r *http.Request)
	ListBreakConfigs(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftPolicyService
	breakService breaks.BreakService
}

func NewShiftHandler(shiftService shift.ShiftPolicyService, breakService breaks.BreakService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
		breakService: breakService,
	}
}

func (h *shiftHandlerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftPolicyRequest
	if !decodeJSON(w, r, &req, "CreatePolicy") {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift policy created successfully", result)
}

func (h *shiftHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftPolicyRequest
	if !decodeJSON(w, r, &req, "UpdatePolicy") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift policy updated successfully", result)
}

func (h *shiftHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}

// ========== Break configs ==========

func (h *shiftHandlerImpl) CreateBreakConfig(w http.ResponseWriter, r *http.Request) {
	var req breaks.CreateBreakConfigRequest
	if !decodeJSON(w, r, &req, "CreateBreakConfig") {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.breakService.CreateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break config created successfully", result)
}

func (h *shiftHandlerImpl) UpdateBreakConfig(w http.ResponseWriter, r *http.Request) {
	var req breaks.UpdateBreakConfigRequest
	if !decodeJSON(w, r, &req, "UpdateBreakConfig") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.breakService.UpdateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break config updated successfully", result)
}

func (h *shiftHandlerImpl) ListBreakConfigs(w http.ResponseWriter, r *http.Request) {
	result, err := h.breakService.ListConfigs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}
