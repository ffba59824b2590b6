package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/timesheet-management/internal/auth"
	"github.com/frahmantamala/timesheet-management/internal/project"
	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	"github.com/frahmantamala/timesheet-management/internal/transport/middleware"
	"github.com/frahmantamala/timesheet-management/internal/user"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes wires the full API surface: auth, the user workflow, the
// manager workflow and the management CRUD screens.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	projectHandler *project.Handler,
	timesheetHandler *timesheet.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
		})

		// Protected routes that require a session
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)

			// Any authenticated user can list project codes; the create
			// form selects from them.
			pr.Get("/projects", projectHandler.GetProjectCodes)

			pr.Route("/timesheets", func(tr chi.Router) {
				// User workflow
				tr.Post("/", timesheetHandler.CreateTimesheet)
				tr.Get("/", timesheetHandler.ListTimesheets)
				tr.Get("/rejected", timesheetHandler.ListRejected)
				tr.Get("/{id}", timesheetHandler.GetTimesheet)
				tr.Put("/{id}", timesheetHandler.UpdateTimesheet)
				tr.Delete("/{id}", timesheetHandler.DeleteTimesheet)
				tr.Post("/{id}/resubmit", timesheetHandler.ResubmitTimesheet)

				// Manager workflow
				tr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireManager())
					mr.Get("/pending", timesheetHandler.ListPending)
					mr.Patch("/{id}/approve", timesheetHandler.ApproveTimesheet)
					mr.Patch("/{id}/reject", timesheetHandler.RejectTimesheet)
					mr.Patch("/{id}/reopen", timesheetHandler.ReopenTimesheet)
				})
			})

			// Management screens, manager-only
			pr.Group(func(mr chi.Router) {
				mr.Use(middleware.RequireManager())

				mr.Post("/projects", projectHandler.CreateProjectCode)
				mr.Get("/projects/{id}", projectHandler.GetProjectCode)
				mr.Put("/projects/{id}", projectHandler.UpdateProjectCode)
				mr.Delete("/projects/{id}", projectHandler.DeleteProjectCode)

				mr.Get("/users", userHandler.GetUsers)
				mr.Post("/users", userHandler.CreateUser)
				mr.Put("/users/{id}", userHandler.UpdateUser)
				mr.Delete("/users/{id}", userHandler.DeleteUser)
			})
		})
	})
}
