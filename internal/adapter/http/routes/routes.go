package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	_ "proposal_builder/docs"
	"proposal_builder/internal/adapter/http/handlers"
	"proposal_builder/internal/adapter/persistence/repository"
	"proposal_builder/internal/config"
	"proposal_builder/internal/infrastructure/database"
	"proposal_builder/internal/infrastructure/llm"
	"proposal_builder/internal/infrastructure/storage"
	"proposal_builder/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Handlers groups everything the router serves.
type Handlers struct {
	Proposal *handlers.ProposalHandler
	Document *handlers.DocumentHandler
	Catalog  *handlers.CatalogHandler
}

// NewRouter registers middlewares, swagger and the /v1 routes.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addProposalRoutes(v1, h.Proposal)
	addDocumentRoutes(v1, h.Document)
	addCatalogRoutes(v1, h.Catalog)

	return router
}

// Run wires the application from cfg and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	h, err := BuildHandlers(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: NewRouter(h),
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("[http] listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "http: serve")
	case <-ctx.Done():
	}

	zap.L().Info("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "http: shutdown")
	}
	return nil
}

// BuildHandlers connects DynamoDB, the LLM gateway and the optional brief
// archive, and assembles the usecases behind each handler.
func BuildHandlers(ctx context.Context, cfg *config.Config) (Handlers, error) {
	ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
	if err != nil {
		return Handlers{}, err
	}

	services, packages := NewCatalogRepositories(ddb, cfg)
	proposals := repository.NewProposalDynamoRepository(ddb, cfg.DynamoDB.ProposalsTable)

	gateway, err := llm.NewAnthropicGateway(cfg.Anthropic)
	if err != nil {
		return Handlers{}, err
	}

	opts := []usecase.ProposalOption{usecase.WithMaxTokens(cfg.Anthropic.MaxTokens)}
	if cfg.Storage.Enabled {
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			zap.L().Warn("[http] brief archive not configured", zap.Error(err))
		} else {
			opts = append(opts, usecase.WithDocumentStore(store))
		}
	}

	proposalUseCase := usecase.NewProposalUseCase(services, packages, proposals, gateway, opts...)
	documentUseCase := usecase.NewDocumentUseCase(gateway, services)
	catalogUseCase := usecase.NewCatalogUseCase(services, packages)

	return Handlers{
		Proposal: handlers.NewProposalHandler(proposalUseCase, cfg.Anthropic.CreditsURL),
		Document: handlers.NewDocumentHandler(documentUseCase, cfg.Anthropic.CreditsURL),
		Catalog:  handlers.NewCatalogHandler(catalogUseCase),
	}, nil
}

// NewCatalogRepositories returns the DynamoDB catalogs behind the LRU cache.
func NewCatalogRepositories(ddb repository.DynamoAPI, cfg *config.Config) (*repository.CachedServiceCatalog, *repository.CachedPackageCatalog) {
	ttl := cfg.Cache.TTL()
	services := repository.NewCachedServiceCatalog(
		repository.NewServiceDynamoRepository(ddb, cfg.DynamoDB.ServicesTable), cfg.Cache.Size, ttl)
	packages := repository.NewCachedPackageCatalog(
		repository.NewPackageDynamoRepository(ddb, cfg.DynamoDB.PackagesTable), cfg.Cache.Size, ttl)
	return services, packages
}
