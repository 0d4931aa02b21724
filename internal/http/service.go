package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/product-catalog/api-contract"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/files"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg        config.HTTP
	storageCfg config.Storage
	logger     *slog.Logger
	metrics    *metric.Metrics

	productSvc    service.ProductService
	brandSvc      service.BrandService
	fileStorage   files.Storage
	healthChecker db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	storageCfg config.Storage,
	log *slog.Logger,
	productSvc service.ProductService,
	brandSvc service.BrandService,
	fileStorage files.Storage,
	healthChecker db.HealthChecker,
) *Service {
	return &Service{
		cfg:           cfg,
		storageCfg:    storageCfg,
		logger:        log.With(slog.String("service", "http")),
		metrics:       metric.New(),
		productSvc:    productSvc,
		brandSvc:      brandSvc,
		fileStorage:   fileStorage,
		healthChecker: healthChecker,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	var doc *openapi3.T
	if s.cfg.Swagger || s.cfg.ValidateRequests {
		var err error
		if doc, err = apicontract.Load(ctx); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	if err := s.RegisterMiddlewares(r, doc); err != nil {
		return nil, err
	}

	if s.cfg.Swagger {
		if err := swagger.Register(r, doc); err != nil {
			return nil, err
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.ErrorContext(ctx, "http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.InfoContext(ctx, "http server started", slog.String("addr", srv.Addr))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

// RegisterMiddlewares installs the middleware chain. Requests are checked
// against doc when request validation is enabled.
func (s *Service) RegisterMiddlewares(r chi.Router, doc *openapi3.T) error {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.CorrelationID(),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)

	if !s.cfg.ValidateRequests || doc == nil {
		return nil
	}

	validator, err := middleware.OpenAPIValidator(doc, s.handleResponseError)
	if err != nil {
		return err
	}
	r.Use(validator)

	return nil
}

func (s *Service) RegisterHandlers(r chi.Router) {
	products := newProductHandler(s.productSvc, s.storageCfg)
	brands := newBrandHandler(s.brandSvc)
	attachments := newAttachmentHandler(s.fileStorage, s.storageCfg)

	r.Get("/products", s.handle(products.ListProducts))
	r.Post("/products", s.handle(products.CreateProduct))
	r.Post("/products/slug", s.handle(products.PreviewSlug))
	r.Post("/products/bulk-delete", s.handle(products.BulkDeleteProducts))
	r.Get("/products/{id}", s.handle(products.GetProduct))
	r.Put("/products/{id}", s.handle(products.UpdateProduct))
	r.Delete("/products/{id}", s.handle(products.DeleteProduct))
	r.Put("/products/{id}/image", s.handle(products.SetProductImage))

	r.Get("/attachments/{name}", s.handle(attachments.GetAttachment))

	r.Get("/brands", s.handle(brands.ListBrands))
	r.Post("/brands", s.handle(brands.CreateBrand))

	r.Get("/healthz", s.healthz)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is an http.HandlerFunc that reports failures as an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, res := http.StatusOK, healthResponse{Status: "ok"}
	if ok, err := s.healthChecker.IsHealthy(ctx); !ok || err != nil {
		s.logger.WarnContext(ctx, "health check failed", slog.Any("error", err))
		status, res = http.StatusServiceUnavailable, healthResponse{Status: "unavailable"}
	}

	//nolint:errcheck
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
