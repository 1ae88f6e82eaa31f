package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/documents"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/llm/gemini"
	"resume-pipeline/internal/llm/openai"
	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/renders"
	"resume-pipeline/internal/services/health"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/server"
	"resume-pipeline/internal/shared/storage/db"
	"resume-pipeline/internal/shared/storage/object"
	localstore "resume-pipeline/internal/shared/storage/object/local"
	s3store "resume-pipeline/internal/shared/storage/object/s3"
	"resume-pipeline/internal/shared/telemetry"
	"resume-pipeline/internal/structured"
	"resume-pipeline/internal/uploads"
	"resume-pipeline/resume/render"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.Store
	Gate             *quota.Gate
	Completer        llm.Completer
	DocumentsService *documents.Service
	RenderEngine     *render.Engine
	Health           *health.Service
}

// Options override pieces of the build, mainly for tests. Zero values build
// everything from the config.
type Options struct {
	Now       func() time.Time
	Completer llm.Completer
}

// Profiles converts configured quotas into gate profiles.
func Profiles(cfg config.Config) (extractProfile, renderProfile, defaultProfile quota.Profile) {
	return quota.Profile{Name: "extract", Window: cfg.QuotaExtract.Window, MaxRequests: cfg.QuotaExtract.Max},
		quota.Profile{Name: "render", Window: cfg.QuotaRender.Window, MaxRequests: cfg.QuotaRender.Max},
		quota.Profile{Name: "default", Window: cfg.QuotaDefault.Window, MaxRequests: cfg.QuotaDefault.Max}
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB == nil && cfg.QuotaStore == "postgres" {
		cfg.QuotaStore = "memory"
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	completer := opts.Completer
	if completer == nil {
		completer, err = buildCompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	var quotaStore quota.Store = quota.NewMemoryStore()
	if cfg.QuotaStore == "postgres" {
		quotaStore = quota.NewPGStore(sqlDB)
	}
	gate := quota.NewGate(quotaStore, now)
	extractProfile, renderProfile, defaultProfile := Profiles(cfg)

	var structurer documents.Structurer
	if completer != nil {
		client := structured.New(completer)
		if cfg.LLMMaxInputChars > 0 {
			client.MaxInputChars = cfg.LLMMaxInputChars
		}
		if cfg.LLMTemperature >= 0 {
			client.WithTemperature(cfg.LLMTemperature)
		}
		structurer = client
	}

	docSvc := documents.NewService(gate, documents.Profiles{
		Extract: extractProfile,
		Default: defaultProfile,
	}, extract.New(cfg.ExtractMinChars), structurer, now)
	docSvc.MaxUploadBytes = cfg.MaxUploadBytes
	docSvc.Source = store
	if cfg.ArchiveUploads {
		docSvc.Archive = store
	}

	engine := render.NewEngine(now)

	llmName := ""
	if completer != nil {
		llmName = cfg.LLMProvider
	}
	healthSvc := health.NewService(sqlDB, llmName, cfg.QuotaStore, cfg.ObjectStoreType)

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Store:            store,
		Gate:             gate,
		Completer:        completer,
		DocumentsService: docSvc,
		RenderEngine:     engine,
		Health:           healthSvc,
	}
	// Direct uploads only make sense when the store can presign.
	var uploadHandler *uploads.Handler
	if p, ok := store.(uploads.Presigner); ok {
		uploadHandler = uploads.NewHandler(p, cfg.MaxUploadBytes, now)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          healthSvc,
		Gate:            gate,
		RenderProfile:   renderProfile,
		DefaultProfile:  defaultProfile,
		DocumentHandler: documents.NewHandler(docSvc),
		RenderHandler:   renders.NewHandler(engine, now),
		UploadHandler:   uploadHandler,
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// PoolOptions converts the configured pool sizing for the db package.
func PoolOptions(cfg config.Config) db.Options {
	return db.Options{
		MaxOpenConns:    cfg.DBPool.MaxOpen,
		MaxIdleConns:    cfg.DBPool.MaxIdle,
		ConnMaxLifetime: cfg.DBPool.MaxLifetime,
		ConnMaxIdleTime: cfg.DBPool.MaxIdleTime,
		PingTimeout:     cfg.DBPool.PingTimeout,
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.QuotaStore == "postgres" && !cfg.IsDevLike() {
			return nil, fmt.Errorf("DATABASE_URL is required for QUOTA_STORE=postgres")
		}
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, PoolOptions(cfg))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db", map[string]any{"message": "database connect failed; using in-memory quota store", "err": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildCompleter returns nil without error when no credentials are configured in a
// dev-like environment; ingestion then reports an upstream error.
func buildCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	var (
		completer llm.Completer
		err       error
	)
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" && cfg.IsDevLike() {
			break
		}
		completer, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	default:
		if cfg.OpenAIAPIKey == "" && cfg.IsDevLike() {
			break
		}
		completer, err = openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.LLMTimeout,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
	}
	if completer == nil {
		telemetry.Warn("bootstrap.llm", map[string]any{
			"provider": cfg.LLMProvider,
			"message":  "no API key configured; structured extraction disabled",
		})
	}
	return completer, nil
}
