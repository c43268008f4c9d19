package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riceguard/apiserver/config"
	"github.com/riceguard/apiserver/internal/auth"
	"github.com/riceguard/apiserver/internal/classifier"
	"github.com/riceguard/apiserver/internal/db"
	"github.com/riceguard/apiserver/internal/events"
	"github.com/riceguard/apiserver/internal/handlers"
	"github.com/riceguard/apiserver/internal/services"
	"github.com/riceguard/apiserver/internal/storage"
	"github.com/riceguard/apiserver/internal/store"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
	log        *logrus.Logger
}

// New constructs a Server: opens the database, selects the storage,
// classifier, and broker backends from config, seeds the recommendation
// catalog, and wires the routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := logrus.New()

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	tokens := auth.NewTokenIssuer(jwtSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	hasher := auth.NewPasswordHasher(cfg.Auth.MinPasswordLen)

	backend, localDir, err := newStorageBackend(ctx, cfg.Upload)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	uploads := storage.NewUploadStore(backend)

	gateway, err := newClassifierGateway(cfg.Classifier)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg.Broker)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	scanRepo := store.NewScanRepository(dbConn)
	recoRepo := store.NewRecommendationRepository(dbConn)

	accountService := services.NewAccountService(userRepo, hasher, tokens)
	scanService := services.NewScanService(scanRepo, uploads, gateway, publisher, log, cfg.Classifier.ModelVersion)
	catalogService := services.NewCatalogService(recoRepo, log)

	inserted, err := catalogService.Seed(ctx)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("seed recommendations: %w", err)
	}
	log.WithField("inserted", inserted).Info("recommendation catalog ready")

	authMiddleware := handlers.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Get("/health", handlers.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, accountService)
		})
		r.Route("/scans", func(r chi.Router) {
			handlers.ScanRouter(r, scanService, authMiddleware)
		})
		r.Route("/recommendations", func(r chi.Router) {
			handlers.RecommendationRouter(r, catalogService)
		})
	})
	if localDir != "" {
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(localDir))))
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("riceguard backend listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

// newStorageBackend selects the upload backend. The second return value
// is the local directory to serve statically, empty for remote backends.
func newStorageBackend(ctx context.Context, cfg config.UploadConfig) (storage.ObjectStorage, string, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		local, err := storage.NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, "", err
		}
		return local, local.Root(), nil
	case "minio":
		backend, err := storage.NewMinioStorage(ctx, cfg.Minio)
		return backend, "", err
	case "gcs":
		backend, err := storage.NewGCSStorage(ctx, cfg.GCS)
		return backend, "", err
	default:
		return nil, "", fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}

func newClassifierGateway(cfg config.ClassifierConfig) (*classifier.Gateway, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "stub":
		return classifier.NewGateway(classifier.NewStubClassifier(time.Now().UnixNano())), nil
	case "http":
		backend, err := classifier.NewHTTPClassifier(cfg.URL, time.Duration(cfg.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		return classifier.NewGateway(backend), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

func newPublisher(ctx context.Context, cfg config.BrokerConfig) (*events.Publisher, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		backend, err := events.NewRabbitMQBackend(cfg.URL)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend, cfg.Topic), nil
	case "pubsub":
		backend, err := events.NewPubSubBackend(ctx, cfg.ProjectID)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(backend, cfg.Topic), nil
	default:
		return nil, fmt.Errorf("unknown broker backend %q", cfg.Backend)
	}
}
