package app

import (
	"github.com/gorilla/mux"
	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Media plans
	r.HandleFunc("/api/mediaplan", deps.MediaPlanHandler.ListPlans).Methods("GET")
	r.HandleFunc("/api/mediaplan", deps.MediaPlanHandler.CreatePlan).Methods("POST")
	r.HandleFunc("/api/mediaplan/{mbaNumber}", deps.MediaPlanHandler.GetPlan).Methods("GET")
	r.HandleFunc("/api/mediaplan/{mbaNumber}", deps.MediaPlanHandler.UpdatePlan).Methods("PUT")
	r.HandleFunc("/api/mediaplan/{mbaNumber}", deps.MediaPlanHandler.DeletePlan).Methods("DELETE")

	// Plan versions and line items
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version", deps.MediaPlanHandler.CreateVersion).Methods("POST")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}", deps.MediaPlanHandler.GetVersion).Methods("GET")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/status", deps.MediaPlanHandler.UpdateVersionStatus).Methods("PUT")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/lineitem", deps.MediaPlanHandler.ListLineItems).Methods("GET")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/lineitem/{lineItemId}", deps.MediaPlanHandler.UpdateLineItem).Methods("PUT")

	// Billing schedules
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/schedule", deps.ScheduleHandler.GetSchedule).Methods("GET")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/schedule/manual", deps.ScheduleHandler.SaveManualSchedule).Methods("PUT")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/schedule/manual", deps.ScheduleHandler.ResetManualSchedule).Methods("DELETE")

	// Delivery schedules
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/deliveryschedule", deps.DashboardHandler.GetDeliverySchedule).Methods("GET")
	r.HandleFunc("/api/mediaplan/{mbaNumber}/version/{versionNumber}/deliveryschedule", deps.DashboardHandler.SaveDeliverySchedule).Methods("PUT")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetDashboard).Methods("GET")
	r.HandleFunc("/api/dashboard/{clientSlug}", deps.DashboardHandler.GetClientDashboard).Methods("GET")
}
