package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/palette/cliparse"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/metrics"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/router"
	"github.com/danielhkuo/palette/upload"
)

func main() {
	var err error

	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn, cfg.DatabaseType)

	// Pick the photo storage backend
	var uploader upload.Uploader
	switch cfg.UploadProvider {
	case cliparse.ProviderSMMS:
		uploader = upload.NewSMMSUploader(cfg.SMMSToken, cfg.MaxUploadSize)
	default:
		local, err := upload.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL, cfg.MaxUploadSize)
		if err != nil {
			slog.Error("upload directory unavailable", "error", err, "dir", cfg.UploadDir)
			os.Exit(1)
		}
		uploader = local
	}
	slog.Info("Uploads ready",
		"provider", cfg.UploadProvider,
		"max_size", humanize.IBytes(uint64(cfg.MaxUploadSize)),
	)

	// Create router
	mux := router.NewRouter(store, uploader, cfg, metrics.New())

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
