package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/attendance"
	breakService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/breaks"
	calendarService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/calendar"
	employeeService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/payroll"
	shiftService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/shift"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	handler      http.Handler
	jwt          jwt.Service
	employeeRepo employee.EmployeeRepository
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	clk := clock.NewManual(time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC))
	loc := time.UTC
	transactor := memory.NewTransactor()

	shiftRepo := memory.NewShiftPolicyRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	breakRepo := memory.NewBreakRepository(store)
	leaveRepo := memory.NewLeaveRepository(store)
	payrollRepo := memory.NewPayrollRepository(store)

	locker := lock.NewKeyedMutex()
	guard := lock.NewPeriodGuard()
	gate := payrollService.NewPeriodGate(guard, transactor, payrollRepo)

	calendarSvc := calendarService.NewCalendarService(memory.NewCalendarRepository(store))
	breakSvc := breakService.NewBreakService(breakRepo, breakRepo, attendanceRepo, locker, gate, clk, loc)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		breakRepo,
		leaveRepo.LeaveTypes(),
		leaveRepo.Requests(),
		calendarSvc,
		locker,
		gate,
		clk,
		loc,
	)
	balanceSvc := leaveService.NewBalanceService(leaveRepo.Balances())
	requestSvc := leaveService.NewRequestService(leaveRepo.LeaveTypes(), leaveRepo.Requests(), employeeRepo, balanceSvc, locker, gate, clk, loc)
	leaveSvc := leaveService.NewLeaveService(leaveRepo.LeaveTypes(), leaveRepo.Requests(), employeeRepo, balanceSvc, requestSvc)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceSvc, guard, gate, transactor, clk, payrollService.Options{})

	policy, err := shiftRepo.Create(ctx, shift.Policy{
		Name:               "General",
		Type:               shift.ShiftTypeGeneral,
		CheckIn:            9 * 60,
		CheckOut:           17 * 60,
		GracePeriodMinutes: 10,
		HalfDayMinutes:     240,
		FullDayMinutes:     480,
	})
	require.NoError(t, err)
	for _, id := range []string{"emp-1", "emp-2", "mgr-1"} {
		_, err := employeeRepo.Upsert(ctx, employee.Employee{
			ID:            id,
			FullName:      "Employee " + id,
			ShiftPolicyID: &policy.ID,
			BaseSalary:    decimal.NewFromInt(30000),
			IsActive:      true,
		})
		require.NoError(t, err)
	}

	jwtService := jwt.NewJWTService("test-secret", "1h")
	router := appHTTP.NewRouter(appHTTP.RouterOptions{}, jwtService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, breakSvc),
		Shift:      appHTTP.NewShiftHandler(shiftService.NewShiftPolicyService(shiftRepo), breakSvc),
		Calendar:   appHTTP.NewCalendarHandler(calendarSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo, shiftRepo)),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
	})

	return &server{handler: router, jwt: jwtService, employeeRepo: employeeRepo}
}

func (s *server) token(t *testing.T, employeeID string, role auth.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *server) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// ===== AUTH TESTS =====

func TestRouter_RequiresToken(t *testing.T) {
	s := newServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestRouter_RejectsForeignToken(t *testing.T) {
	s := newServer(t)
	other := jwt.NewJWTService("other-secret", "1h")
	token, _, err := other.GenerateAccessToken("emp-1", auth.RoleManager)
	require.NoError(t, err)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/payroll/batches", token, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ManagerRoutes(t *testing.T) {
	s := newServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/payroll/settings", s.token(t, "emp-1", auth.RoleEmployee), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, resp = s.do(t, http.MethodGet, "/api/v1/payroll/settings", s.token(t, "mgr-1", auth.RoleOwner), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ===== ATTENDANCE TESTS =====

func TestRouter_CheckInTwiceConflicts(t *testing.T) {
	s := newServer(t)
	token := s.token(t, "emp-1", auth.RoleEmployee)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestRouter_UnknownEmployeeIsNotFound(t *testing.T) {
	s := newServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", s.token(t, "ghost", auth.RoleEmployee), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AttendanceRangeValidation(t *testing.T) {
	s := newServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/attendance/me?from=2024-06-10", s.token(t, "emp-1", auth.RoleEmployee), "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

// ===== LEAVE TESTS =====

func TestRouter_LeaveFlow(t *testing.T) {
	s := newServer(t)
	manager := s.token(t, "mgr-1", auth.RoleManager)
	emp1 := s.token(t, "emp-1", auth.RoleEmployee)
	emp2 := s.token(t, "emp-2", auth.RoleEmployee)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/leave/types", manager, `{"name":"Annual","allotted_count":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	typeID := resp.Data.(map[string]interface{})["id"].(string)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests", emp1, `{"leave_type_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests", emp1, `{"leave_type_id":"`+typeID+`","from_date":"20-06-2024","to_date":"2024-06-21"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := `{"leave_type_id":"` + typeID + `","from_date":"2024-06-20","to_date":"2024-06-21"}`
	rec, resp = s.do(t, http.MethodPost, "/api/v1/leave/requests", emp1, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	requestID := resp.Data.(map[string]interface{})["id"].(string)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests", emp1, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "overlapping request")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+requestID+"/approve", emp1, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+requestID+"/cancel", emp2, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "only the requester or a manager may cancel")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+requestID+"/approve", manager, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+requestID+"/reject", manager, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+requestID+"/cancel", emp1, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/missing/approve", manager, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ===== PAYROLL TESTS =====

func TestRouter_PayrollLifecycle(t *testing.T) {
	s := newServer(t)
	manager := s.token(t, "mgr-1", auth.RoleManager)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/payroll/batches/generate", manager, `{"period":"June"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/payroll/batches/generate", manager, `{"period":"2024-05"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	batchID := resp.Data.(map[string]interface{})["batch"].(map[string]interface{})["id"].(string)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/payroll/batches/"+batchID+"/payslips/emp-1/pdf", manager, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslip_2024-05_emp-1.pdf")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/payroll/batches/"+batchID+"/export", manager, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll_register_2024-05.xlsx")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/payroll/batches/"+batchID+"/finalize", manager, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/payroll/batches/"+batchID+"/finalize", manager, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/payroll/batches/generate", manager, `{"period":"2024-05"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/payroll/batches/missing", manager, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PayrollComputationFailure(t *testing.T) {
	s := newServer(t)
	_, err := s.employeeRepo.Upsert(context.Background(), employee.Employee{
		ID:         "emp-3",
		FullName:   "Unassigned",
		BaseSalary: decimal.NewFromInt(20000),
		IsActive:   true,
	})
	require.NoError(t, err)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/payroll/batches/generate", s.token(t, "mgr-1", auth.RoleManager), `{"period":"2024-05"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "COMPUTATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "emp-3")
}
