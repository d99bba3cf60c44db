// Package bootstrap wires configuration into a runnable application graph.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/analyses"
	"legal-backend/internal/analysis"
	"legal-backend/internal/audit"
	"legal-backend/internal/cases"
	"legal-backend/internal/documents"
	"legal-backend/internal/extract"
	"legal-backend/internal/health"
	"legal-backend/internal/kanoon"
	"legal-backend/internal/llm"
	"legal-backend/internal/llm/deepseek"
	"legal-backend/internal/queue"
	"legal-backend/internal/shared/config"
	"legal-backend/internal/shared/server"
	"legal-backend/internal/shared/storage/db"
	"legal-backend/internal/shared/storage/object"
	localstore "legal-backend/internal/shared/storage/object/local"
	s3store "legal-backend/internal/shared/storage/object/s3"
	"legal-backend/internal/teams"
	"legal-backend/internal/upstream"
	"legal-backend/internal/users"
)

// App holds the built dependency graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	Kanoon    *kanoon.Client
	LLM       llm.Client
	Extractor *extract.Extractor

	UsersRepo    users.Repo
	TeamsRepo    teams.Repo
	CasesRepo    cases.Repo
	DocsRepo     documents.Repo
	AnalysesRepo analyses.Repo
	AuditLog     audit.Log

	UsersService    *users.Service
	TeamsService    *teams.Service
	CasesService    *cases.Service
	DocsService     *documents.Service
	AnalysesService *analyses.Service
	Pipeline        *analysis.Pipeline
	Health          *health.Checker
}

// Build prepares the dependency graph and router for the given config.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	app.Kanoon = kanoon.NewClient(cfg.KanoonBaseURL, cfg.KanoonAPIKey, cfg.UpstreamTimeout)
	app.LLM = buildLLM(cfg)
	app.Extractor = buildExtractor(cfg)
	buildRepos(app)
	buildServices(app)

	app.Health = &health.Checker{
		DB:               app.DB,
		KanoonConfigured: app.Kanoon.Configured(),
		LLMConfigured:    strings.TrimSpace(cfg.DeepSeekAPIKey) != "",
		OCREnabled:       cfg.OCREnabled,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Users:     users.NewHandler(app.UsersService),
		Teams:     teams.NewHandler(app.TeamsService),
		Cases:     cases.NewHandler(app.CasesService),
		Documents: documents.NewHandler(app.DocsService, cfg.MaxUploadSizeMB),
		Analyses:  analyses.NewHandler(app.AnalysesService),
		Research:  analysis.NewHandler(app.Pipeline),
		Health:    app.Health,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.ExtractQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.ExtractQueueURL, cfg.AWSRegion)
}

func buildLLM(cfg config.Config) llm.Client {
	if strings.TrimSpace(cfg.DeepSeekAPIKey) == "" {
		log.Printf("bootstrap: DEEPSEEK_API_KEY empty; AI analysis disabled")
		return llm.PlaceholderClient{}
	}
	client, err := deepseek.NewClient(cfg.DeepSeekBaseURL, cfg.DeepSeekAPIKey, cfg.LLMModel, cfg.UpstreamTimeout)
	if err != nil {
		log.Printf("bootstrap: deepseek client: %v; AI analysis disabled", err)
		return llm.PlaceholderClient{}
	}
	return client
}

func buildExtractor(cfg config.Config) *extract.Extractor {
	var engine extract.OCREngine
	if cfg.OCREnabled {
		engine = extract.NewTesseractEngine()
	}
	return extract.NewExtractor(engine, cfg.OCREnabled, cfg.OCRMaxConcurrent)
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.TeamsRepo = &teams.PGRepo{DB: app.DB}
		app.CasesRepo = &cases.PGRepo{DB: app.DB}
		app.DocsRepo = &documents.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.AuditLog = &audit.PGLog{DB: app.DB}
		return
	}
	app.UsersRepo = users.NewMemoryRepo()
	app.TeamsRepo = teams.NewMemoryRepo()
	app.CasesRepo = cases.NewMemoryRepo()
	app.DocsRepo = documents.NewMemoryRepo()
	app.AnalysesRepo = analyses.NewMemoryRepo()
	app.AuditLog = audit.NewMemoryLog()
}

func buildServices(app *App) {
	app.UsersService = users.NewService(app.UsersRepo)
	app.TeamsService = teams.NewService(app.TeamsRepo)
	app.CasesService = cases.NewService(app.CasesRepo)

	var enqueuer documents.Enqueuer
	if app.Queue != nil {
		enqueuer = &queue.Publisher{Client: app.Queue}
	}
	app.DocsService = &documents.Service{
		Store:     app.Store,
		Repo:      app.DocsRepo,
		Extractor: app.Extractor,
		Cases:     caseChecker{repo: app.CasesRepo},
		Queue:     enqueuer,
	}

	app.AnalysesService = &analyses.Service{
		Repo: app.AnalysesRepo,
		LLM:  app.LLM,
		Docs: documentSource{repo: app.DocsRepo},
	}

	app.Pipeline = &analysis.Pipeline{
		Kanoon:   app.Kanoon,
		LLM:      app.LLM,
		Docs:     app.DocsRepo,
		Analyses: app.AnalysesRepo,
		Audit:    app.AuditLog,
	}
}

type caseChecker struct {
	repo cases.Repo
}

func (c caseChecker) Exists(ctx context.Context, userID, caseID string) (bool, error) {
	_, err := c.repo.GetByID(ctx, userID, caseID)
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type documentSource struct {
	repo documents.Repo
}

func (d documentSource) ExtractedText(ctx context.Context, userID, documentID string) (string, string, error) {
	doc, err := d.repo.GetByID(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return "", "", fmt.Errorf("%w: document %s", upstream.ErrNotFound, documentID)
		}
		return "", "", err
	}
	return doc.ExtractedText, doc.CaseID, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
