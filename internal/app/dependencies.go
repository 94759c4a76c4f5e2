package app

import (
	"database/sql"
	"time"

	"github.com/phk910805/overtime-sub000/internal/config"
	"github.com/phk910805/overtime-sub000/internal/event_bus"
	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/carryover"
	"github.com/phk910805/overtime-sub000/pkg/dashboard"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/invite"
	"github.com/phk910805/overtime-sub000/pkg/notification"
	"github.com/phk910805/overtime-sub000/pkg/organization"
	"github.com/phk910805/overtime-sub000/pkg/settings"
	"github.com/phk910805/overtime-sub000/pkg/subscription"
	"github.com/phk910805/overtime-sub000/pkg/timeentry"
)

const settingsCacheTTL = 5 * time.Minute

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	EmployeeRepo    employee.EmployeeRepo
	EmployeeService employee.Service
	EmployeeHandler *employee.Handler

	OrganizationRepo    organization.Repository
	OrganizationService organization.Service
	OrganizationHandler *organization.Handler

	SettingsCache   *settings.Cache
	SettingsService settings.Service
	SettingsHandler *settings.Handler

	EntryRepo    timeentry.EntryRepository
	EntryService timeentry.EntryService
	EntryHandler *timeentry.EntryHandler

	CarryoverRepo    carryover.Repository
	CarryoverEngine  carryover.Engine
	CarryoverHandler *carryover.Handler

	DashboardService *dashboard.ServiceImpl
	CsvRenderer      *dashboard.CsvRendererImpl
	DashboardHandler *dashboard.Handler

	SubscriptionService subscription.Service
	SubscriptionHandler *subscription.Handler

	InviteService invite.Service
	InviteHandler *invite.Handler

	NotificationService *notification.ServiceImpl
	NotificationHandler *notification.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.EmployeeRepo = employee.NewEmployeeRepo(db)
	deps.EmployeeService = employee.NewService(deps.EmployeeRepo)
	deps.EmployeeHandler = employee.NewHandler(deps.EmployeeService)

	deps.OrganizationRepo = organization.NewRepository(db)
	deps.OrganizationService = organization.NewService(deps.OrganizationRepo, deps.EmployeeRepo, cfg.Subscription.TrialDays, deps.Clock)
	deps.OrganizationHandler = organization.NewHandler(deps.OrganizationService)

	deps.SettingsCache = settings.NewCache(settingsCacheTTL, deps.Clock)
	deps.SettingsService = settings.NewService(settings.NewRepository(db), deps.SettingsCache, deps.Clock)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.EntryRepo = timeentry.NewEntryRepo(db)
	deps.EntryService = timeentry.NewEntryService(deps.EntryRepo, deps.SettingsService, deps.Clock, deps.EventBus)
	deps.EntryHandler = timeentry.NewEntryHandler(deps.EntryService)

	deps.CarryoverRepo = carryover.NewRepository(db)
	deps.CarryoverEngine = carryover.NewEngine(deps.CarryoverRepo, deps.EntryService, deps.SettingsService, deps.EmployeeService, deps.Clock, deps.EventBus)
	deps.CarryoverHandler = carryover.NewHandler(deps.CarryoverEngine)

	deps.DashboardService = dashboard.NewService(deps.EntryService, deps.SettingsService, deps.EmployeeService, deps.CarryoverEngine)
	deps.CsvRenderer = dashboard.NewCsvRenderer()
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.CsvRenderer)

	deps.SubscriptionService = subscription.NewService(deps.OrganizationService, deps.OrganizationRepo, deps.Clock)
	deps.SubscriptionHandler = subscription.NewHandler(deps.SubscriptionService)

	deps.InviteService = invite.NewService(invite.NewRepository(db), deps.EmployeeRepo, deps.Clock)
	deps.InviteHandler = invite.NewHandler(deps.InviteService)

	deps.NotificationService = notification.NewService(notification.NewRepository(db), deps.Clock)
	deps.NotificationService.Subscribe(deps.EventBus)
	deps.NotificationHandler = notification.NewHandler(deps.NotificationService)

	return deps
}
