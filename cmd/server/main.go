package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/asset"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/auth"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/board"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/config"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/db"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/export"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/live"
	mw "github.com/tueftlerdog/CoralAIScouting-sub000/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	// The hub needs the board service for snapshots and the board service
	// publishes to the hub, so the loader is bound late.
	var boardService *board.Service
	hub := live.NewHub(func(ctx context.Context, drawingID string) ([]byte, error) {
		return boardService.Data(ctx, drawingID)
	}, logger.With("component", "live"))
	boardService = board.NewService(queries, hub, cfg.MaxEntities)
	boardHandler := board.NewHandler(boardService)
	liveHandler := live.NewHandler(hub, authService, cfg.AllowedOrigins)

	hubCtx, stopHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	assets, err := asset.NewStore(cfg.AssetDir, cfg.BackgroundMaxWidth)
	if err != nil {
		slog.Error("open asset store", "error", err)
		os.Exit(1)
	}
	assetHandler := asset.NewHandler(assets)

	renderer := export.NewRenderer(cfg.FieldWidth, cfg.FieldHeight, cfg.ExportScale, cfg.MaxEntities,
		logger.With("component", "export"))
	exportHandler := export.NewHandler(renderer, boardService, assets)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Preflight requests for every path; CORS answers them.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/drawings", boardHandler.List).Methods("GET")
	api.HandleFunc("/drawings", boardHandler.Create).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", boardHandler.Get).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}", boardHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/document", boardHandler.GetDocument).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/document", boardHandler.SaveDocument).Methods("PUT")
	api.HandleFunc("/drawings/{drawingId}/export.png", exportHandler.PNG).Methods("GET")

	api.HandleFunc("/assets", assetHandler.Upload).Methods("POST")

	// Live viewers authenticate with a query token.
	r.HandleFunc("/ws/drawings/{drawingId}", liveHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Viewers hold hijacked connections that Shutdown does not wait for.
		stopHub()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
