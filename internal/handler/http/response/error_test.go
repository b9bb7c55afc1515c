package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "period", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"computation", &payroll.ComputationError{EmployeeID: "emp-1", Err: errors.New("boom")}, http.StatusUnprocessableEntity, "COMPUTATION_FAILED"},
		{"wrapped computation", fmt.Errorf("generate: %w", &payroll.ComputationError{EmployeeID: "emp-1", Err: errors.New("boom")}), http.StatusUnprocessableEntity, "COMPUTATION_FAILED"},
		{"unauthorized", auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", auth.ErrManagerAccessRequired, http.StatusForbidden, "FORBIDDEN"},
		{"not found", fmt.Errorf("failed to get request: %w", leave.ErrLeaveRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"period locked", payroll.ErrPeriodLocked, http.StatusConflict, "CONFLICT"},
		{"bad request", leave.ErrOverlapsExistingLeave, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, validator.ValidationErrors{{Field: "from", Message: "from must be in YYYY-MM-DD format"}})

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "from must be in YYYY-MM-DD format", resp.Error.Details["from"])
}
