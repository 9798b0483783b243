package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"docqa/chunker"
	"docqa/config"
	"docqa/db"
	"docqa/ingestion"
	"docqa/jobs"
	"docqa/llm_service"
	"docqa/logging"
	"docqa/metrics"
	"docqa/processor"
	"docqa/rag"
	"docqa/server"
	"docqa/vector_store"
)

func main() {
	cfg := config.Load()

	if err := chunker.Validate(cfg.ChunkSize, cfg.ChunkOverlap); err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	embedder := vector_store.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	store := vector_store.New(pool, embedder, logger)

	indexManager := vector_store.NewIndexManager(pool, logger)
	go indexManager.StartMaintenance(ctx, cfg.IndexMaintenance)

	jobStore := jobs.NewStore(logger)
	jobStore.StartCleanup(cfg.JobRetention, time.Hour)
	defer jobStore.StopCleanup()

	metricsStore := metrics.NewStore()

	docProcessor := processor.New(
		processor.DefaultRegistry(logger),
		cfg.ChunkSize,
		cfg.ChunkOverlap,
		logger,
	)

	ingestPool := ingestion.NewPool(
		cfg.IngestWorkers,
		cfg.IngestQueueSize,
		docProcessor,
		store,
		jobStore,
		logger,
	)
	ingestPool.Start(ctx)

	engine := rag.NewEngine(store, newLLMService(cfg, logger), metricsStore, cfg.TopK, logger)

	r := server.SetupRoutes(server.Deps{
		Jobs:      jobStore,
		Pool:      ingestPool,
		Validator: docProcessor,
		Engine:    engine,
		Metrics:   metricsStore,
		Index:     store,
		UploadDir: cfg.UploadDir,
		Logger:    logger,
	})
	n := setupNegroni(r)

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg.Domains, cfg.CertCacheDir)
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		server.ServeDevelopment(srv)
	}
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}

func newLLMService(cfg config.Config, logger *slog.Logger) llm_service.LLMService {
	switch cfg.GenerationLLM {
	case "anthropic":
		return llm_service.NewAnthropicService(cfg.AnthropicAPIKey, cfg.GenerationModel, logger)
	default:
		return llm_service.NewOpenAIService(cfg.OpenAIAPIKey, cfg.GenerationModel, logger)
	}
}

func initLogger() (*slog.Logger, error) {
	logDir := filepath.Join("logs", "docqa")

	fileHandler, err := logging.NewDailyFileHandler(logDir, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, err
	}

	return slog.New(fileHandler), nil
}
