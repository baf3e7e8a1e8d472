package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagehand/internal/api"
	"stagehand/internal/capture"
	"stagehand/internal/feed"
	"stagehand/internal/modules"
	"stagehand/internal/platform/config"
	"stagehand/internal/platform/logger"
	"stagehand/internal/platform/metrics"
	"stagehand/internal/stage"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	profilePath := config.GetEnv("PROFILE_PATH", "stagehand.toml")

	log := logger.New(logLevel, logFormat)

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		log.Error("profile error", "error", err)
		os.Exit(1)
	}
	outputDir := config.GetEnv("OUTPUT_DIR", profile.Output.Dir)
	frameRate := config.GetEnvInt("FRAME_RATE", profile.Capture.FPS)

	sink, err := capture.NewFileSink(outputDir)
	if err != nil {
		log.Error("output dir error", "error", err)
		os.Exit(1)
	}

	met := metrics.New()
	hub := feed.NewHub(log)
	engine := stage.New(log, stage.Options{
		Project: profile.Project.Code,
		FPS:     frameRate,
		Metrics: met,
		Events:  hub,
		Sink:    sink,
		OnClip:  hub.ClipFinalized,
	}, modules.NewAOB(), modules.NewOrbitDemo())
	h := api.NewHandler(engine, log)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() {
			snap := engine.Snapshot()
			met.SetRecordingActive(snap.Recording)
			met.SetSceneObjects(snap.Objects)
			met.SetLoopHalted(snap.Halted)
			if snap.Batch != nil {
				met.SetBatchIndex(snap.Batch.Index)
			}
		}).ServeHTTP(w, r)
	})
	r.Get("/healthz", h.Healthz)
	r.Get("/modules", h.ListModules)
	r.Post("/modules/{module_id}/activate", h.ActivateModule)
	r.Post("/batch/start", h.StartBatch)
	r.Get("/status", h.Status)
	r.Get("/ws", hub.Handle)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := engine.Run(loopCtx); err != nil {
			log.Error("render loop stopped, control plane still serving", "error", err)
		}
	}()

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"project", profile.Project.Code,
		"output_dir", outputDir,
		"frame_rate", frameRate,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	stopLoop()
	<-loopDone
	engine.Close()
	hub.Close()

	log.Info("server stopped")
}
