// Package bootstrap builds the application dependency graph from
// configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resumevault-backend/internal/auth"
	"resumevault-backend/internal/documents"
	"resumevault-backend/internal/shared/config"
	"resumevault-backend/internal/shared/server"
	"resumevault-backend/internal/shared/storage/db"
	"resumevault-backend/internal/shared/storage/object"
	localstore "resumevault-backend/internal/shared/storage/object/local"
	s3store "resumevault-backend/internal/shared/storage/object/s3"
	"resumevault-backend/internal/users"
)

// App holds the wired dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.BlobStore

	DocumentsRepo    documents.Repo
	UsersRepo        users.Repo
	DocumentsService *documents.Service
	UsersService     *users.Service
	DocumentsHandler *documents.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares dependencies and the router. In dev-like environments a
// missing or unreachable database degrades to in-memory repositories.
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

	app := &App{Config: cfg, DB: sqlDB, Store: store}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
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
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.BlobStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.DocumentsService = documents.NewService(app.DocumentsRepo, app.Store)
	app.UsersService = users.NewService(app.UsersRepo)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
