package main

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yairmaster/mastercode-api/internal/assistant"
	"github.com/yairmaster/mastercode-api/internal/attachments"
	"github.com/yairmaster/mastercode-api/internal/backup"
	"github.com/yairmaster/mastercode-api/internal/clients"
	"github.com/yairmaster/mastercode-api/internal/config"
	"github.com/yairmaster/mastercode-api/internal/dashboard"
	"github.com/yairmaster/mastercode-api/internal/finance"
	"github.com/yairmaster/mastercode-api/internal/health"
	"github.com/yairmaster/mastercode-api/internal/leads"
	"github.com/yairmaster/mastercode-api/internal/obs"
	"github.com/yairmaster/mastercode-api/internal/projects"
	"github.com/yairmaster/mastercode-api/internal/quotes"
	"github.com/yairmaster/mastercode-api/internal/ratelimit"
	"github.com/yairmaster/mastercode-api/internal/security"
	"github.com/yairmaster/mastercode-api/internal/settings"
	"github.com/yairmaster/mastercode-api/internal/store"
	"github.com/yairmaster/mastercode-api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "mastercode")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)

	seed := store.Settings{
		BusinessName: cfg.Business.BusinessName,
		Owner:        cfg.Business.Owner,
		Phone:        cfg.Business.Phone,
		Email:        cfg.Business.Email,
		Website:      cfg.Business.Website,
	}
	dataStore, err := store.Open(cfg.DataFile, seed, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DataFile).Msg("open data store")
	}

	dashboardSvc := &dashboard.Service{Store: dataStore}
	dashboardHandler := &dashboard.Handler{Svc: dashboardSvc}

	clientHandler := &clients.Handler{Store: dataStore}
	projectHandler := &projects.Handler{
		Store:     dataStore,
		UploadDir: cfg.UploadDir,
		Log:       logger,
	}
	financeHandler := &finance.Handler{Store: dataStore}
	taskHandler := &tasks.Handler{Store: dataStore}
	leadHandler := &leads.Handler{Store: dataStore}

	quoteSvc := &quotes.Service{Store: dataStore}
	quoteHandler := &quotes.Handler{
		Svc: quoteSvc,
		PDF: quotes.PDFGenerator{FontDir: cfg.PDFFontDir},
	}

	attachmentSvc := &attachments.Service{
		Store:     dataStore,
		UploadDir: cfg.UploadDir,
		Log:       logger,
	}
	attachmentHandler := &attachments.Handler{
		Svc:      attachmentSvc,
		MaxFiles: cfg.MaxUploadFiles,
		MaxBytes: cfg.MaxUploadBytes,
	}

	settingsHandler := &settings.Handler{Store: dataStore}
	assistantHandler := &assistant.Handler{Store: dataStore, Responder: assistant.New()}
	backupHandler := &backup.Handler{Store: dataStore}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, nil, nil)
	}

	rateLimit := ratelimit.Handler{
		Limiter: ratelimit.NewMemoryLimiter(),
		Config: ratelimit.Config{
			Key:    ratelimit.ClientIPKey,
			Window: time.Minute,
			Max:    int(cfg.RateLimitPerMinute),
		},
		OnError: func(err error) { logger.Error().Err(err).Msg("rate limit") },
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{
		Enable:     envBool("SECURE_HEADERS_ENABLED", true),
		EnableHSTS: envBool("SECURE_HSTS_ENABLED", false),
	}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	pprofEnabled := envBool("OBS_ENABLE_PPROF", true)
	if pprofEnabled {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:       health.FSChecker{DataFile: cfg.DataFile, UploadDir: cfg.UploadDir},
		DataTimeout:   envDurationMillis("HEALTH_READY_DATA_TIMEOUT_MS", 500),
		UploadTimeout: envDurationMillis("HEALTH_READY_UPLOAD_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api", func(api chi.Router) {
		api.Use(security.BodyLimit{Max: cfg.MaxUploadBytes}.Middleware)
		api.Use(rateLimit.Middleware)

		api.Get("/dashboard", dashboardHandler.Overview)
		api.Get("/data", dashboardHandler.Data)

		api.Route("/clients", func(c chi.Router) {
			c.Get("/", clientHandler.List)
			c.Post("/", clientHandler.Create)
			c.Delete("/{id}", clientHandler.Delete)
		})

		api.Route("/projects", func(p chi.Router) {
			p.Get("/", projectHandler.List)
			p.Post("/", projectHandler.Create)
			p.Put("/{id}/status", projectHandler.UpdateStatus)
			p.Put("/{id}/paid", projectHandler.MarkPaid)
			p.Delete("/{id}", projectHandler.Delete)

			p.Post("/{id}/upload", attachmentHandler.Upload)
			p.Get("/{id}/files", attachmentHandler.List)
			p.Delete("/{projectID}/files/{fileID}", attachmentHandler.Delete)
			p.Get("/{projectID}/files/{fileID}/content", attachmentHandler.GetContent)
			p.Put("/{projectID}/files/{fileID}/content", attachmentHandler.PutContent)
		})

		api.Route("/income", func(i chi.Router) {
			i.Get("/", financeHandler.ListIncome)
			i.Post("/", financeHandler.CreateIncome)
			i.Delete("/{id}", financeHandler.DeleteIncome)
		})
		api.Route("/expenses", func(e chi.Router) {
			e.Get("/", financeHandler.ListExpenses)
			e.Post("/", financeHandler.CreateExpense)
			e.Delete("/{id}", financeHandler.DeleteExpense)
		})

		api.Route("/tasks", func(t chi.Router) {
			t.Get("/", taskHandler.List)
			t.Post("/", taskHandler.Create)
			t.Put("/{id}/complete", taskHandler.Complete)
			t.Delete("/{id}", taskHandler.Delete)
		})

		api.Route("/leads", func(l chi.Router) {
			l.Get("/", leadHandler.List)
			l.Post("/", leadHandler.Create)
			l.Post("/{id}/convert", leadHandler.Convert)
			l.Delete("/{id}", leadHandler.Delete)
		})

		api.Route("/quotes", func(q chi.Router) {
			q.Get("/", quoteHandler.List)
			q.Post("/", quoteHandler.Create)
			q.Get("/{id}", quoteHandler.Get)
			q.Get("/{id}/document", quoteHandler.Document)
			q.Get("/{id}/pdf", quoteHandler.DownloadPDF)
			q.Delete("/{id}", quoteHandler.Delete)
		})

		api.Get("/settings", settingsHandler.Get)
		api.Put("/settings", settingsHandler.Update)

		api.Post("/ai-chat", assistantHandler.Chat)
		api.Post("/backup", backupHandler.Create)
	})

	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Handle("/uploads/*", uploadsFS)
	r.Handle("/*", http.FileServer(http.Dir(cfg.PublicDir)))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	return mux
}

func protectPprof(next http.Handler, user, pass string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user == "" || pass == "" {
			http.NotFound(w, r)
			return
		}
		gotUser, gotPass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) != 1 ||
			subtle.ConstantTimeCompare([]byte(gotPass), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
