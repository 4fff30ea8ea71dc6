package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/config"
	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/event_bus"
	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/utils"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/billing"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/dashboard"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/export"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/fees"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	MediaPlanRepo    mediaplan.Repository
	MediaPlanService mediaplan.Service
	MediaPlanHandler *mediaplan.Handler

	ScheduleRepo        billing.Repository
	ScheduleService     billing.Service
	CsvScheduleRenderer *export.CsvScheduleRendererImpl
	ScheduleHandler     *billing.Handler

	DeliveryScheduleRepo dashboard.Repository
	DashboardService     dashboard.Service
	DashboardHandler     *dashboard.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()

	deps.MediaPlanRepo = mediaplan.NewMediaPlanRepo(db)
	deps.MediaPlanService = mediaplan.NewMediaPlanService(deps.MediaPlanRepo, deps.EventBus)
	deps.MediaPlanHandler = mediaplan.NewMediaPlanHandler(deps.MediaPlanService)

	feeParams := fees.ModelParameters{
		DefaultPercentage: decimal.NewFromFloat(cfg.Fees.DefaultPercentage),
	}
	rateCard := fees.AdServingRateCard{
		VideoRate:      decimal.NewFromFloat(cfg.AdServing.VideoRate),
		AudioRate:      decimal.NewFromFloat(cfg.AdServing.AudioRate),
		DisplayRate:    decimal.NewFromFloat(cfg.AdServing.DisplayRate),
		ImpressionRate: decimal.NewFromFloat(cfg.AdServing.ImpressionRate),
	}

	deps.ScheduleRepo = billing.NewScheduleRepo(db)
	deps.ScheduleService = billing.NewScheduleService(deps.MediaPlanService, deps.ScheduleRepo, feeParams, rateCard, deps.EventBus)
	deps.CsvScheduleRenderer = export.NewCsvScheduleRenderer()
	deps.ScheduleHandler = billing.NewScheduleHandler(deps.ScheduleService, deps.CsvScheduleRenderer)

	deps.Clock = &utils.SystemClock{}
	deps.DeliveryScheduleRepo = dashboard.NewDeliveryScheduleRepo(db)
	deps.DashboardService = dashboard.NewDashboardService(deps.MediaPlanService, deps.DeliveryScheduleRepo, deps.Clock)
	deps.DashboardHandler = dashboard.NewDashboardHandler(deps.DashboardService)

	return deps
}
