package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Handlers struct {
	Attendance AttendanceHandler
	Shift      ShiftHandler
	Calendar   CalendarHandler
	Leave      LeaveHandler
	Employee   EmployeeHandler
	Payroll    PayrollHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", h.Attendance.CheckIn)
			r.Post("/check-out", h.Attendance.CheckOut)
			r.Post("/breaks/start", h.Attendance.StartBreak)
			r.Post("/breaks/end", h.Attendance.EndBreak)
			r.Get("/me", h.Attendance.GetMyAttendance)

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/employees/{employeeID}", h.Attendance.GetEmployeeAttendance)
				r.Get("/export", h.Attendance.Export)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.Shift.ListPolicies)
			r.Get("/{id}", h.Shift.GetPolicy)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Post("/", h.Shift.CreatePolicy)
				r.Put("/{id}", h.Shift.UpdatePolicy)
			})
		})

		r.Route("/breaks/configs", func(r chi.Router) {
			r.Get("/", h.Shift.ListBreakConfigs)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Post("/", h.Shift.CreateBreakConfig)
				r.Put("/{id}", h.Shift.UpdateBreakConfig)
			})
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/work-week", h.Calendar.GetWorkWeek)
			r.Get("/holidays", h.Calendar.ListHolidays)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Put("/work-week", h.Calendar.UpdateWorkWeek)
				r.Post("/holidays", h.Calendar.CreateHoliday)
				r.Delete("/holidays/{id}", h.Calendar.DeleteHoliday)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.Get("/types", h.Leave.ListTypes)
			r.Post("/requests", h.Leave.CreateRequest)
			r.Get("/requests/me", h.Leave.GetMyRequests)
			r.Post("/requests/{id}/cancel", h.Leave.CancelRequest)
			r.Get("/balances/me", h.Leave.GetMyBalances)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Post("/types", h.Leave.CreateType)
				r.Get("/requests", h.Leave.ListRequests)
				r.Post("/requests/{id}/approve", h.Leave.ApproveRequest)
				r.Post("/requests/{id}/reject", h.Leave.RejectRequest)
				r.Get("/balances/{employeeID}", h.Leave.GetBalances)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.RequireManager)
			r.Get("/", h.Employee.List)
			r.Get("/{id}", h.Employee.Get)
			r.Put("/{id}", h.Employee.Upsert)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Use(middleware.RequireManager)

			r.Get("/settings", h.Payroll.GetSettings)
			r.Put("/settings", h.Payroll.UpdateSettings)

			r.Get("/components", h.Payroll.ListComponents)
			r.Post("/components", h.Payroll.CreateComponent)
			r.Delete("/components/{id}", h.Payroll.DeleteComponent)

			r.Get("/tax-slabs", h.Payroll.ListTaxSlabs)
			r.Post("/tax-slabs", h.Payroll.CreateTaxSlab)
			r.Delete("/tax-slabs/{id}", h.Payroll.DeleteTaxSlab)

			r.Get("/adjustments", h.Payroll.ListAdjustments)
			r.Post("/adjustments", h.Payroll.CreateAdjustment)
			r.Delete("/adjustments/{id}", h.Payroll.DeleteAdjustment)

			r.Route("/batches", func(r chi.Router) {
				r.Post("/generate", h.Payroll.Generate)
				r.Get("/", h.Payroll.ListBatches)
				r.Get("/{id}", h.Payroll.GetBatch)
				r.Post("/{id}/finalize", h.Payroll.Finalize)
				r.Get("/{id}/export", h.Payroll.ExportRegister)
				r.Get("/{id}/payslips/{employeeID}/pdf", h.Payroll.PayslipPDF)
			})
		})
	})
	return r
}
