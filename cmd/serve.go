package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/ieeg-clips/api"
	"github.com/killallgit/ieeg-clips/api/types"
	"github.com/killallgit/ieeg-clips/internal/database"
	"github.com/killallgit/ieeg-clips/internal/models"
	annotationsService "github.com/killallgit/ieeg-clips/internal/services/annotations"
	clipsService "github.com/killallgit/ieeg-clips/internal/services/clips"
	"github.com/killallgit/ieeg-clips/internal/services/diurnal"
	"github.com/killallgit/ieeg-clips/internal/services/export"
	jobsService "github.com/killallgit/ieeg-clips/internal/services/jobs"
	"github.com/killallgit/ieeg-clips/internal/services/pipeline"
	recordingsService "github.com/killallgit/ieeg-clips/internal/services/recordings"
	"github.com/killallgit/ieeg-clips/internal/services/workers"
	"github.com/killallgit/ieeg-clips/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and background workers",
	Long: `Start the iEEG Clip Engine API server with the configured settings.

The server exposes dataset metadata, generated clips and the exclusion
audit list, and runs the background worker pool that processes queued
clip generation jobs.

Example:
  ieeg-clips serve
  ieeg-clips serve --port 9090
  ieeg-clips serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.Recording{},
		&models.Annotation{},
		&models.Clip{},
		&models.Job{},
	); err != nil {
		return err
	}

	pipelineCfg, err := pipelineConfigFrom(cfg)
	if err != nil {
		return err
	}

	// Build the shared service set
	recordingService := recordingsService.NewService(recordingsService.NewRepository(db.DB))
	annotationService := annotationsService.NewService(annotationsService.NewRepository(db.DB))
	clipService := clipsService.NewService(clipsService.NewRepository(db.DB))
	jobService := jobsService.NewService(jobsService.NewRepository(db.DB))

	// Worker pool with the generation processor
	pool := workers.NewWorkerPool(jobService, cfg.Processing.Workers, cfg.Processing.PollInterval)
	pool.RegisterProcessor(workers.NewGenerationProcessor(
		jobService,
		recordingService,
		annotationService,
		clipService,
		export.NewWriter(cfg.Export.Dir),
		pipelineCfg,
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("starting worker pool: %w", err)
	}
	defer pool.Stop()

	// HTTP server
	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort), cfg.Server)
	server.SetDependencies(&types.Dependencies{
		DB:                db,
		RecordingService:  recordingService,
		AnnotationService: annotationService,
		ClipService:       clipService,
		JobService:        jobService,
		WorkerPool:        pool,
		PipelineConfig:    pipelineCfg,
	})

	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("Server is ready to handle requests at %s:%d", serverHost, serverPort)

	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}

// pipelineConfigFrom maps the application config onto pipeline parameters
func pipelineConfigFrom(cfg *config.Config) (pipeline.Config, error) {
	window, err := diurnal.ParseWindow(cfg.Clips.DayStart, cfg.Clips.DayEnd)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("parsing day window: %w", err)
	}

	return pipeline.Config{
		WindowSeconds: cfg.Clips.WindowSeconds,
		BufferSeconds: cfg.Clips.InterictalBufferSeconds,
		DayWindow:     window,
	}, nil
}
