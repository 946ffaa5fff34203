package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"media-analysis-api/internal/config"
	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	pg "media-analysis-api/internal/infra/db/postgres"
	"media-analysis-api/internal/infra/logging"
	"media-analysis-api/internal/usecase"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	jobRepo := pg.NewPostgresJobRepo(pool)
	mediaRepo := pg.NewPostgresMediaFileRepo(pool)
	resultRepo := pg.NewPostgresResultRepo(pool)
	transcriptionRepo := pg.NewPostgresTranscriptionRepo(pool)
	logRepo := pg.NewPostgresProcessingLogRepo(pool)

	jobUC := usecase.NewJobUseCase(jobRepo, mediaRepo, resultRepo, transcriptionRepo, logRepo, pg.NewTxManager(pool), nil, logger)
	mediaUC := usecase.NewMediaFileUseCase(jobRepo, mediaRepo, logger)
	resultUC := usecase.NewResultUseCase(jobRepo, resultRepo, logger)
	transcriptionUC := usecase.NewTranscriptionUseCase(jobRepo, transcriptionRepo, logger)
	logUC := usecase.NewProcessingLogUseCase(jobRepo, logRepo, logger)

	// If jobs already exist, do nothing
	_, total, err := jobUC.List(ctx, repository.DefaultListOptions())
	if err != nil {
		log.Fatalf("list jobs: %v", err)
	}
	if total > 0 {
		fmt.Printf("%d jobs already present. No changes.\n", total)
		return
	}

	// Seed a few sample jobs covering the media types
	seeds := []struct {
		MediaType model.MediaType
		SourceURL string
		Meta      map[string]interface{}
	}{
		{model.MediaTypeVideo, "https://cdn.example.com/samples/sunset-drone.mp4", map[string]interface{}{"description": "drone footage over the coast at sunset"}},
		{model.MediaTypeAudio, "https://cdn.example.com/samples/standup-2026-08-28.mp3", map[string]interface{}{"description": "weekly standup recording"}},
		{model.MediaTypeImage, "https://cdn.example.com/samples/warehouse-cam-04.jpg", map[string]interface{}{"description": "warehouse camera still"}},
	}

	for _, s := range seeds {
		job, err := jobUC.Create(ctx, s.MediaType, s.SourceURL, s.Meta)
		if err != nil {
			log.Fatalf("create job: %v", err)
		}
		fmt.Printf("seeded job: %s (%s)\n", job.ID, job.MediaType)

		url := s.SourceURL
		if _, err := mediaUC.Attach(ctx, job.ID, model.FileTypeSource, repository.MediaFilePatch{OriginalURL: &url}); err != nil {
			log.Fatalf("attach media file: %v", err)
		}
		if _, err := logUC.Record(ctx, job.ID, model.StageUpload, model.LogStatusCompleted, "job registered", nil, nil); err != nil {
			log.Fatalf("record log: %v", err)
		}
	}

	// Give the first job a finished analysis so dashboards have data
	jobs, err := jobUC.Pending(ctx, 1)
	if err != nil || len(jobs) == 0 {
		log.Fatalf("pending jobs: %v", err)
	}
	demo := jobs[0]
	if _, err := jobUC.MarkAsProcessing(ctx, demo.ID); err != nil {
		log.Fatalf("mark processing: %v", err)
	}
	conf := 0.93
	tokens := 412
	if _, err := resultUC.Attach(ctx, demo.ID, model.ProviderGemini, "gemini-pro",
		map[string]interface{}{"labels": []string{"coast", "sunset", "drone"}}, &conf, &tokens, nil); err != nil {
		log.Fatalf("attach result: %v", err)
	}
	if _, err := transcriptionUC.Attach(ctx, demo.ID, model.TranscriberWhisper,
		"waves rolling in as the light fades", "en", usecase.TranscriptionInput{DurationSeconds: 42}); err != nil {
		log.Fatalf("attach transcription: %v", err)
	}
	if _, err := jobUC.MarkAsCompleted(ctx, demo.ID); err != nil {
		log.Fatalf("mark completed: %v", err)
	}

	fmt.Println("Seeding complete.")
}
