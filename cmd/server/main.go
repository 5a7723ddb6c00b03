package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tabie/internal/auth"
	"github.com/mmynk/tabie/internal/config"
	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/metrics"
	"github.com/mmynk/tabie/internal/middleware"
	"github.com/mmynk/tabie/internal/notify"
	"github.com/mmynk/tabie/internal/receipt"
	"github.com/mmynk/tabie/internal/service"
	"github.com/mmynk/tabie/internal/storage/sqlite"
	"github.com/mmynk/tabie/pkg/api/apiconnect"
	"github.com/mmynk/tabie/pkg/logging"
)

// publicProcedures accept guests without an account.
var publicProcedures = []string{
	apiconnect.TabServiceGetTabProcedure,
	apiconnect.TabServiceJoinTabProcedure,
	apiconnect.TabServiceToggleClaimProcedure,
	apiconnect.TabServiceSetQuantityClaimProcedure,
	apiconnect.TabServiceSetFractionalShareProcedure,
	apiconnect.TabServiceClearAssignmentsProcedure,
	apiconnect.TabServiceSplitEvenlyProcedure,
	apiconnect.TabServiceGetTotalsProcedure,
	apiconnect.TabServiceClaimPaymentProcedure,
	apiconnect.TabServiceSubscribeProcedure,
	apiconnect.AuthServiceRegisterProcedure,
	apiconnect.AuthServiceLoginProcedure,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == config.DevJWTSecret {
		slog.Warn("JWT_SECRET is not set; using the development secret")
	}

	// Users and rewards always live in SQLite.
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var (
		tabs        docstore.Store   = db
		revocations auth.Revocations = auth.NewMemoryRevocations()
	)
	if cfg.StoreBackend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisStore := docstore.NewRedis(client)
		defer redisStore.Close()
		tabs = redisStore
		revocations = auth.NewRedisRevocations(client)
	}
	slog.Info("Tab store selected", "backend", cfg.StoreBackend)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, revocations)
	authenticator := auth.NewPasswordAuthenticator(db)

	var extractor receipt.Extractor = receipt.MockExtractor{}
	if cfg.Mindee.APIKey != "" {
		extractor = receipt.NewMindeeClient(cfg.Mindee.APIKey, cfg.Mindee.ModelID)
	} else {
		slog.Warn("MINDEE_API_KEY is not set; receipts return sample data")
	}

	var images receipt.ImageStore
	if cfg.S3.Enabled() {
		s3Store, err := receipt.NewS3ImageStore(ctx, cfg.S3)
		if err != nil {
			return err
		}
		images = s3Store
		slog.Info("Receipt images enabled", "bucket", cfg.S3.Bucket)
	}

	if !cfg.Twilio.Enabled() {
		slog.Warn("Twilio is not configured; SMS requests will fail")
	}
	sender := notify.NewTwilioSender(cfg.Twilio)

	interceptors := connect.WithInterceptors(
		middleware.NewMetricsInterceptor(),
		middleware.NewAuthInterceptor(jwtManager, publicProcedures...),
		middleware.NewLoggingInterceptor(),
		middleware.NewValidationInterceptor(),
	)

	mux := http.NewServeMux()

	// Register Connect services
	tabPath, tabHandler := apiconnect.NewTabServiceHandler(service.NewTabService(tabs, db, db), interceptors)
	mux.Handle(tabPath, tabHandler)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, db, db, slog.Default()), interceptors)
	mux.Handle(authPath, authHandler)

	receiptPath, receiptHandler := apiconnect.NewReceiptServiceHandler(
		service.NewReceiptService(extractor, images, tabs), interceptors)
	mux.Handle(receiptPath, receiptHandler)

	notifyPath, notifyHandler := apiconnect.NewNotifyServiceHandler(
		service.NewNotifyService(sender, notify.Links{BaseURL: cfg.FrontendURL}, tabs), interceptors)
	mux.Handle(notifyPath, notifyHandler)

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		mux.Handle("/metrics", metrics.Handler(reg))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(loggedHandler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server stopped")
	return nil
}

// staticHandler serves the frontend. Unknown paths get index.html so client
// routes like /join/<tab> load the app.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tabie.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
