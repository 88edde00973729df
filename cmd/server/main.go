// Package main initializes and starts the board overview server,
// setting up configuration, logging, database connections, repositories,
// services, the event bus and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"

	nethttp "net/http"

	"github.com/boardkit/boardkit/internal/config"
	"github.com/boardkit/boardkit/internal/db"
	"github.com/boardkit/boardkit/internal/events"
	"github.com/boardkit/boardkit/internal/logger"
	"github.com/boardkit/boardkit/internal/repository"
	"github.com/boardkit/boardkit/internal/server/handler/http"
	"github.com/boardkit/boardkit/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	ctx := context.Background()

	// Retry tombstoned circle cascades in the background.
	db.StartAclSweeper(ctx, postgresDB, options.SweepInterval, zapLogger)

	// Initialize repositories and host-directory adapters.
	boardRepo := repository.NewPostgresBoardRepository(postgresDB)
	cardRepo := repository.NewPostgresCardRepository(postgresDB)
	labelRepo := repository.NewPostgresLabelRepository(postgresDB)
	attachmentRepo := repository.NewPostgresAttachmentRepository(postgresDB)
	aclRepo := repository.NewPostgresAclRepository(postgresDB)
	directory := repository.NewPostgresDirectory(postgresDB)
	circles := repository.NewPostgresCircleDirectory(postgresDB)
	comments := repository.NewPostgresComments(postgresDB)

	// Initialize business-logic services.
	boardService := service.NewBoardService(boardRepo, directory, circles, zapLogger)
	overviewService := service.NewOverviewService(
		boardService, cardRepo, labelRepo, attachmentRepo, comments, directory, zapLogger)

	// Start the event bus and the circle cascade listener.
	bus := events.NewBus(zapLogger)
	circleCh, cancelCircle := bus.Subscribe(events.KindCircleDestroyed)
	defer cancelCircle()
	listener := events.NewCircleListener(aclRepo, zapLogger)
	go listener.Run(ctx, circleCh)

	// Create HTTP handlers for the overview endpoints.
	boardHandler := &http.BoardHandler{BoardService: boardService}
	overviewHandler := &http.OverviewHandler{OverviewService: overviewService}
	circleHandler := &http.CircleHandler{Bus: bus}

	// Build the router with middleware and routes.
	router := http.NewRouter(boardHandler, overviewHandler, circleHandler, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
