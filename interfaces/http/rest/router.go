// Package rest wires the HTTP routes of the console API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/infrastructure/config"
	"fraudgraph-backend/interfaces/http/rest/handlers"
	"fraudgraph-backend/interfaces/http/rest/middleware"
	"fraudgraph-backend/pkg/auth"
	"fraudgraph-backend/pkg/common"
	"fraudgraph-backend/pkg/utils"
)

// Dependencies carries everything the router mounts
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Executor      ports.GraphExecutor
	Queries       *handlers.QueryHandler
	Nodes         *handlers.NodeHandler
	Relationships *handlers.RelationshipHandler
	Schema        *handlers.SchemaHandler

	// Optional: only mounted outside production
	Auth *handlers.AuthHandler

	// Optional: nil disables authentication entirely
	Validator   *auth.JWTValidator
	IPLimiter   *auth.IPRateLimiter
	UserLimiter *auth.UserRateLimiter
}

// NewRouter builds the chi router with middleware and every route group
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   utils.NowRFC3339(),
		})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Executor.VerifyConnectivity(r.Context()); err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondMessage(w, http.StatusOK, "ready")
	})

	r.Route("/api/v1", func(api chi.Router) {
		if deps.Auth != nil {
			api.Post("/auth/token", deps.Auth.IssueToken)
		}

		api.Group(func(protected chi.Router) {
			if deps.Validator != nil {
				protected.Use(middleware.Authenticate(deps.Validator, deps.IPLimiter, deps.UserLimiter, deps.Logger))
			}

			protected.Get("/schema", deps.Schema.GetSchema)

			protected.Get("/queries", deps.Queries.ListCatalog)
			protected.Post("/queries/{name}", deps.Queries.RunQuery)

			protected.Get("/nodes", deps.Nodes.ListNodes)
			protected.Get("/nodes/search", deps.Nodes.SearchNodes)
			protected.Get("/nodes/{id}", deps.Nodes.GetNode)
			protected.Post("/nodes", deps.Nodes.CreateNode)
			protected.Post("/nodes/filter", deps.Queries.FilterNodes)
			protected.Post("/nodes/bulk-properties", deps.Nodes.BulkNodeProperties)
			protected.Put("/nodes/{id}/properties", deps.Nodes.UpdateNodeProperties)
			protected.Delete("/nodes/{id}", deps.Nodes.DeleteNode)
			protected.Delete("/nodes/{id}/properties/{name}", deps.Nodes.RemoveNodeProperty)

			protected.Post("/relationships", deps.Relationships.CreateRelationship)
			protected.Post("/relationships/bulk-properties", deps.Relationships.BulkRelationshipProperties)
			protected.Put("/relationships/{id}/properties", deps.Relationships.UpdateRelationshipProperties)
			protected.Delete("/relationships/{id}", deps.Relationships.DeleteRelationship)
			protected.Delete("/relationships/{id}/properties/{name}", deps.Relationships.RemoveRelationshipProperty)
		})
	})

	return r
}
