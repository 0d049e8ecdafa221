package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/openaudit/backend/src/config"
	"github.com/openaudit/backend/src/database"
	"github.com/openaudit/backend/src/handlers"
	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/security"
	"github.com/openaudit/backend/src/services"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":     true,
			config.Cfg.FrontendBaseURL:  true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("OpenAudit backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	otpService := services.NewOTPService()

	historyService := services.NewHistoryService(database.DB, config.Cfg.HistoryCacheTTL)
	contractService := services.NewContractService(database.DB)
	scoringService := services.NewScoringService()
	analysisService := services.NewAnalysisService(scoringService, historyService)
	auditService := services.NewAuditService(analysisService, scoringService, historyService, services.NewLOFTextScorer(), config.Cfg.AuditTopN)
	nlgService := services.NewNLGService()
	suggestionService := services.NewSuggestionService()

	authHandler := handlers.NewAuthHandler(authService, otpService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, nlgService, suggestionService, historyService)
	auditHandler := handlers.NewAuditHandler(auditService, historyService)
	contractHandler := handlers.NewContractHandler(contractService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "OpenAudit Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", authHandler.RegisterHandler)
			r.Post("/auth/verify-otp", authHandler.VerifyOTPHandler)
			r.Post("/auth/resend-otp", authHandler.ResendOTPHandler)
			r.Post("/auth/login", authHandler.LoginHandler)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authHandler.AuthMiddleware)

			r.Post("/personal/analyze", analysisHandler.HandlePersonalAnalyze)
			r.Get("/personal/history/{userID}", analysisHandler.HandlePersonalHistory)
			r.Delete("/personal/history/{userID}/{analysisID}", analysisHandler.HandleDeleteAnalysis)

			r.Post("/company/analyze", analysisHandler.HandleCompanyAnalyze)
			r.Get("/company/history/{userID}", analysisHandler.HandleCompanyHistory)
			r.Post("/company/report", analysisHandler.HandleGenerateReport)
			r.Get("/company/report/{analysisID}", analysisHandler.HandleGetReport)
			r.Post("/company/suggestions", analysisHandler.HandleSuggestions)
			r.Get("/company/analysis/{analysisID}", analysisHandler.HandleGetAnalysisByID)

			r.Post("/company/audit", auditHandler.HandleAudit)
			r.Get("/company/audit-history/{userID}", auditHandler.HandleAuditHistory)
			r.Get("/company/audit-report/{auditID}", auditHandler.HandleAuditReport)

			r.Post("/company/contract/request", contractHandler.HandleRequestContract)
			r.Post("/company/contract/sign", contractHandler.HandleSignContractCompany)
			r.Get("/company/contract/{companyID}", contractHandler.HandleGetCompanyContract)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(authHandler.AdminMiddleware)
				r.Get("/admin/contracts", contractHandler.HandleListAllContracts)
				r.Get("/admin/contracts/pending", contractHandler.HandleListPendingContracts)
				r.Post("/admin/contract/sign", contractHandler.HandleSignContractAdmin)
				r.Post("/admin/contract/update", contractHandler.HandleUpdateSignedContract)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.L.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
	logger.L.Info("Server stopped")
}
