// Package di assembles the application object graph by hand: providers
// build each component in dependency order and the container owns the
// pieces that need explicit shutdown.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fraudgraph-backend/application/services"
	"fraudgraph-backend/infrastructure/config"
	neo4jpersist "fraudgraph-backend/infrastructure/persistence/neo4j"
	"fraudgraph-backend/interfaces/http/rest"
	"fraudgraph-backend/interfaces/http/rest/handlers"
	"fraudgraph-backend/pkg/auth"
)

// Container holds the assembled application
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Graph  *neo4jpersist.Client
	Router *chi.Mux
}

// NewContainer builds every component and wires the router
func NewContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	graph, err := neo4jpersist.NewClient(neo4jpersist.Config{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}

	queryService := services.NewQueryService(graph, logger)
	nodeService := services.NewNodeService(graph, logger)
	relationshipService := services.NewRelationshipService(graph, logger)

	deps := rest.Dependencies{
		Config:        cfg,
		Logger:        logger,
		Executor:      graph,
		Queries:       handlers.NewQueryHandler(queryService, logger),
		Nodes:         handlers.NewNodeHandler(nodeService, logger),
		Relationships: handlers.NewRelationshipHandler(relationshipService, logger),
		Schema:        handlers.NewSchemaHandler(),
	}

	if cfg.AuthEnabled {
		validator, err := auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			return nil, fmt.Errorf("build token validator: %w", err)
		}
		deps.Validator = validator
		deps.IPLimiter = auth.NewIPRateLimiter(cfg.RequestsPerMinute)
		deps.UserLimiter = auth.NewUserRateLimiter(2 * cfg.RequestsPerMinute)

		if !cfg.IsProduction() {
			generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
				SecretKey:  cfg.JWTSecret,
				Issuer:     cfg.JWTIssuer,
				ExpiryTime: 24 * time.Hour,
			})
			if err != nil {
				return nil, fmt.Errorf("build token generator: %w", err)
			}
			deps.Auth = handlers.NewAuthHandler(generator, logger)
		}
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		Graph:  graph,
		Router: rest.NewRouter(deps),
	}, nil
}

// Shutdown releases the container's long-lived resources
func (c *Container) Shutdown(ctx context.Context) error {
	err := c.Graph.Close(ctx)
	_ = c.Logger.Sync()
	return err
}

// ProvideLogger builds the zap logger for the configured environment
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
