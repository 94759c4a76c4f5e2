package app

import (
	"github.com/gorilla/mux"
	"github.com/phk910805/overtime-sub000/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Organization
	r.HandleFunc("/api/organization", deps.OrganizationHandler.Bootstrap).Methods("POST")
	r.HandleFunc("/api/organization", deps.OrganizationHandler.GetCurrent).Methods("GET")

	// Employees
	r.HandleFunc("/api/employee/current", deps.EmployeeHandler.CurrentEmployee).Methods("GET")
	r.HandleFunc("/api/employee", deps.EmployeeHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/employee", deps.EmployeeHandler.Create).Methods("POST")
	r.HandleFunc("/api/employee/{id}", deps.EmployeeHandler.Deactivate).Methods("DELETE")

	// Time entries
	r.HandleFunc("/api/entries", deps.EntryHandler.Submit).Methods("POST")
	r.HandleFunc("/api/entries", deps.EntryHandler.GetMonthLog).Queries("month", "{month}", "employeeId", "{employeeId}").Methods("GET")
	r.HandleFunc("/api/entries/{id}/status", deps.EntryHandler.SetStatus).Methods("PATCH")

	// Monthly settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Set).Methods("PUT")

	// Carryover
	r.HandleFunc("/api/carryover/recalculate", deps.CarryoverHandler.Recalculate).Methods("POST")
	r.HandleFunc("/api/carryover", deps.CarryoverHandler.GetCarryIn).Queries("month", "{month}", "employeeId", "{employeeId}").Methods("GET")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetMonthSummary).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/dashboard/csv", deps.DashboardHandler.GetMonthSummaryCsv).Queries("month", "{month}").Methods("GET")

	// Subscription
	r.HandleFunc("/api/subscription", deps.SubscriptionHandler.GetCurrent).Methods("GET")

	// Invites
	r.HandleFunc("/api/invites", deps.InviteHandler.Create).Methods("POST")
	r.HandleFunc("/api/invites", deps.InviteHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/invites/{code}/accept", deps.InviteHandler.Accept).Methods("POST")

	// Notifications
	r.HandleFunc("/api/notifications", deps.NotificationHandler.GetMine).Methods("GET")
	r.HandleFunc("/api/notifications/{id}/read", deps.NotificationHandler.MarkRead).Methods("POST")
}
