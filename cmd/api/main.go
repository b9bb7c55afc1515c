package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/config"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/attendance"
	breakService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/breaks"
	calendarService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/calendar"
	employeeService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/payroll"
	shiftService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/migrations"
	"github.com/go-chi/httplog/v3"
)

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	shifts        shift.ShiftPolicyRepository
	calendar      calendar.CalendarRepository
	breakConfigs  breaks.BreakConfigRepository
	breakEvents   breaks.BreakEventRepository
	attendance    attendance.AttendanceRepository
	employees     employee.EmployeeRepository
	leaveTypes    leave.LeaveTypeRepository
	leaveBalances leave.LeaveBalanceRepository
	leaveRequests leave.LeaveRequestRepository
	payroll       payroll.PayrollRepository
	transactor    database.Transactor
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.App.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	locker, closeLocker, err := openLocker(cfg)
	if err != nil {
		slog.Error("Failed to initialize locker", "driver", cfg.Lock.Driver, "error", err)
		os.Exit(1)
	}
	defer closeLocker()

	unpaidLeave, err := payrollService.NewUnpaidLeaveDeduction(cfg.Payroll.UnpaidLeavePolicy)
	if err != nil {
		slog.Error("Invalid unpaid leave policy", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()
	clk := clock.System()
	guard := lock.NewPeriodGuard()
	gate := payrollService.NewPeriodGate(guard, repos.transactor, repos.payroll)

	calendarSvc := calendarService.NewCalendarService(repos.calendar)
	shiftSvc := shiftService.NewShiftPolicyService(repos.shifts)
	employeeSvc := employeeService.NewEmployeeService(repos.employees, repos.shifts)
	breakSvc := breakService.NewBreakService(repos.breakConfigs, repos.breakEvents, repos.attendance, locker, gate, clk, loc)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		repos.employees,
		repos.shifts,
		repos.breakEvents,
		repos.leaveTypes,
		repos.leaveRequests,
		calendarSvc,
		locker,
		gate,
		clk,
		loc,
	)
	balanceSvc := leaveService.NewBalanceService(repos.leaveBalances)
	requestSvc := leaveService.NewRequestService(
		repos.leaveTypes,
		repos.leaveRequests,
		repos.employees,
		balanceSvc,
		locker,
		gate,
		clk,
		loc,
	)
	leaveSvc := leaveService.NewLeaveService(repos.leaveTypes, repos.leaveRequests, repos.employees, balanceSvc, requestSvc)
	payrollSvc := payrollService.NewPayrollService(
		repos.payroll,
		repos.employees,
		attendanceSvc,
		guard,
		gate,
		repos.transactor,
		clk,
		payrollService.Options{
			OrganizationName: cfg.Payroll.OrganizationName,
			Location:         loc,
			DefaultPFRate:    cfg.Payroll.PFRate,
			UnpaidLeave:      unpaidLeave,
		},
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
			RequestTimeout: cfg.App.RequestTimeout,
		},
		JWTService,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, breakSvc),
			Shift:      appHTTP.NewShiftHandler(shiftSvc, breakSvc),
			Calendar:   appHTTP.NewCalendarHandler(calendarSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewDayCloseJob(attendanceSvc, clk, loc).Register(scheduler, cfg.App.DayCloseInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.App.StorageDriver, "lock", cfg.Lock.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		leaveRepo := memory.NewLeaveRepository(store)
		breakRepo := memory.NewBreakRepository(store)
		return &repositories{
			shifts:        memory.NewShiftPolicyRepository(store),
			calendar:      memory.NewCalendarRepository(store),
			breakConfigs:  breakRepo,
			breakEvents:   breakRepo,
			attendance:    memory.NewAttendanceRepository(store),
			employees:     memory.NewEmployeeRepository(store),
			leaveTypes:    leaveRepo.LeaveTypes(),
			leaveBalances: leaveRepo.Balances(),
			leaveRequests: leaveRepo.Requests(),
			payroll:       memory.NewPayrollRepository(store),
			transactor:    memory.NewTransactor(),
			close:         func() {},
		}, nil

	case config.StoragePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db, migrations.FS); err != nil {
				db.Close()
				return nil, err
			}
		}
		breakRepo := postgresql.NewBreakRepository(db)
		return &repositories{
			shifts:        postgresql.NewShiftPolicyRepository(db),
			calendar:      postgresql.NewCalendarRepository(db),
			breakConfigs:  breakRepo,
			breakEvents:   breakRepo,
			attendance:    postgresql.NewAttendanceRepository(db),
			employees:     postgresql.NewEmployeeRepository(db),
			leaveTypes:    postgresql.NewLeaveTypeRepository(db),
			leaveBalances: postgresql.NewLeaveBalanceRepository(db),
			leaveRequests: postgresql.NewLeaveRequestRepository(db),
			payroll:       postgresql.NewPayrollRepository(db),
			transactor:    postgresql.NewTransactor(db),
			close:         db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.App.StorageDriver)
}

func openLocker(cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.Lock.Driver == config.LockRedis {
		rdb, err := lock.NewRedisClient(cfg.Lock.RedisAddr, cfg.Lock.RedisPassword, cfg.Lock.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return lock.NewRedisLocker(rdb, cfg.Lock.TTL), func() { _ = rdb.Close() }, nil
	}
	return lock.NewKeyedMutex(), func() {}, nil
}
