/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/entries/*    Timesheet entries (list, add, delete)
  /api/reports/*    Report trees
  /api/exports/*    CSV/XLSX downloads
  /api/dashboard    KPI summary
  /api/projects/*   Project directory
  /api/customers/*  Client directory
  /api/employees/*  User directory

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/timetracker/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.AddEntry)
			r.Delete("/", h.DeleteEntry)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/clients", h.ClientReport)
			r.Get("/team", h.TeamReport)
			r.Get("/projects", h.ProjectReport)
		})

		r.Get("/dashboard", h.Dashboard)

		// Export routes
		r.Route("/exports", func(r chi.Router) {
			r.Get("/details", h.ExportDetails)
			r.Get("/clients", h.ExportClients)
			r.Get("/team", h.ExportTeam)
		})

		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Put("/{id}", h.UpdateProject)
			r.Delete("/{id}", h.DeleteProject)
		})

		// Client routes
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
		})

		// User routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Timetracker</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Timetracker API</h1>
<ul>
<li><a href="/api/entries">/api/entries</a> - List timesheet entries</li>
<li><a href="/api/projects">/api/projects</a> - List projects</li>
<li><a href="/api/reports/clients">/api/reports/clients</a> - Client report</li>
</ul>
</body>
</html>`))
	})

	return r
}
