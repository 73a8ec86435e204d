package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, dbService database.Service) *Server {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      newRouter(cfg, logger, dbService, redisClient),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     dbService,
		redis:  redisClient,
	}

	return server
}

func newRouter(cfg *config.Config, logger *zap.Logger, dbService database.Service, redisClient *redis.Client) chi.Router {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS, cfg.Server.IsDevelopment()))

	// Health check stays outside the rate limiter
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := dbService.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	})

	// Initialize repositories
	db := dbService.DB()
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	cartRepo := repository.NewCartRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productTypeRepo := repository.NewProductTypeRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	searchService := service.NewSearchService(productRepo)
	cartService := service.NewCartService(productRepo, variantRepo, cartRepo, logger, cfg.Cart.ResolveConcurrency)
	lookupService := service.NewLookupService(categoryRepo, productTypeRepo)

	guards := transport.Guards{
		Optional: custommiddleware.OptionalAuth(cfg.JWT.Secret, logger),
		Required: custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger),
		Admin:    custommiddleware.RequireAdmin(logger),
	}

	router.Group(func(r chi.Router) {
		// Resolve the principal first so signed-in callers are limited per user
		r.Use(guards.Optional)
		r.Use(custommiddleware.RateLimitMiddleware(
			redisClient,
			custommiddleware.NewRateLimitConfig(cfg.RateLimit, "storefront"),
			logger,
		))

		transport.NewProductHandler(catalogService, searchService, logger).RegisterRoutes(r, guards)
		transport.NewCartHandler(cartService, logger).RegisterRoutes(r, guards)
		transport.NewLookupHandler(lookupService, logger).RegisterRoutes(r, guards)
	})

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
