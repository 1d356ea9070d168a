package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"creator-planner-backend/internal/config"
	infraCache "creator-planner-backend/internal/infrastructure/cache"
	"creator-planner-backend/internal/infrastructure/database"
	"creator-planner-backend/internal/infrastructure/docstore"
	"creator-planner-backend/internal/infrastructure/fonts"
	"creator-planner-backend/internal/infrastructure/metrics"
	"creator-planner-backend/internal/infrastructure/openai"
	"creator-planner-backend/internal/infrastructure/removebg"
	"creator-planner-backend/internal/infrastructure/storage"
	"creator-planner-backend/pkg/cache"
	"creator-planner-backend/pkg/retry"

	ideaHandler "creator-planner-backend/internal/domains/idea/handler"
	ideaRepo "creator-planner-backend/internal/domains/idea/repository"
	ideaService "creator-planner-backend/internal/domains/idea/service"

	generationHandler "creator-planner-backend/internal/domains/generation/handler"
	generationService "creator-planner-backend/internal/domains/generation/service"

	settingsHandler "creator-planner-backend/internal/domains/settings/handler"
	settingsRepo "creator-planner-backend/internal/domains/settings/repository"
	settingsService "creator-planner-backend/internal/domains/settings/service"

	assetHandler "creator-planner-backend/internal/domains/asset/handler"
	assetService "creator-planner-backend/internal/domains/asset/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của application
// Thứ tự khởi tạo: config → infrastructure → repositories → services → handlers
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config    *config.Config
	DB        *database.PostgresDB   // nil khi STORE_BACKEND=memory
	Redis     *infraCache.RedisCache // nil khi Redis tắt hoặc không kết nối được
	Cache     cache.Cache            // Redis hoặc Noop
	MinIO     *storage.MinIOStorage  // nil khi MinIO tắt
	DocStore  docstore.Store
	ThumbDocs docstore.Store // thumbnail tier của docstore backend, giới hạn kích thước riêng
	Files     storage.FileStore
	Fallback  *infraCache.ThumbnailCache
	OpenAI    *openai.Client
	Fonts     *fonts.Client
	RemoveBG  *removebg.Client
	Processor *storage.ImageProcessor

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	IdeaRepo     ideaRepo.Repository
	SettingsRepo settingsRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	IdeaService       ideaService.Service
	GenerationService generationService.Service
	SettingsService   settingsService.Service
	AssetService      assetService.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	IdeaHandler       *ideaHandler.IdeaHandler
	GenerationHandler *generationHandler.GenerationHandler
	SettingsHandler   *settingsHandler.SettingsHandler
	AssetHandler      *assetHandler.AssetHandler
}

// NewContainer tạo và initialize toàn bộ dependency graph.
// Chỉ lỗi cấu hình store là fatal; thiếu Redis hay API key thì degrade.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing DI container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: PRIMARY STORE
	// ========================================
	if err := c.initDocStore(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init document store: %w", err)
	}

	// ========================================
	// STEP 2: CACHE
	// ========================================
	c.initCache(ctx)

	// ========================================
	// STEP 3: OBJECT STORAGE
	// ========================================
	if err := c.initStorage(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// ========================================
	// STEP 4: OUTBOUND CLIENTS
	// ========================================
	c.OpenAI = openai.NewClient(cfg.OpenAI)
	c.Fonts = fonts.NewClient(cfg.Fonts)
	c.RemoveBG = removebg.NewClient(cfg.RemoveBG)
	c.Processor = storage.NewImageProcessor(cfg.Upload.MaxBytes)

	// ========================================
	// STEP 5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	if err := c.initRepositories(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	c.initServices()
	c.initHandlers()

	log.Info().
		Str("store", cfg.Store.Backend).
		Str("thumbnails", cfg.Store.ThumbnailBackend).
		Bool("redis", c.Redis != nil).
		Bool("minio", c.MinIO != nil).
		Bool("openai", cfg.OpenAI.Configured()).
		Msg("[CONTAINER] DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDocStore(ctx context.Context) error {
	maxBytes := c.Config.Store.MaxDocumentBytes
	thumbBytes := c.Config.Store.ThumbnailMaxBytes

	if c.Config.Store.Backend != config.StoreBackendPostgres {
		log.Warn().Msg("[CONTAINER] Using in-memory document store, data is lost on restart")
		c.DocStore = docstore.NewMemoryStore(maxBytes)
		c.ThumbDocs = docstore.NewMemoryStore(thumbBytes)
		return nil
	}

	dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
	if err != nil {
		return err
	}

	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	store := docstore.NewPostgresStore(db.Pool, maxBytes)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	c.DocStore = store
	// cùng bảng documents, chỉ khác giới hạn kích thước
	c.ThumbDocs = docstore.NewPostgresStore(db.Pool, thumbBytes)
	return nil
}

func (c *Container) initCache(ctx context.Context) {
	c.Cache = cache.Noop{}
	if !c.Config.Redis.Enabled {
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB, "creator_planner:")
	if err := rc.Connect(ctx); err != nil {
		// Redis không critical, chạy tiếp không cache
		log.Warn().Err(err).Msg("[CONTAINER] Redis connection failed (non-critical), caching disabled")
		_ = rc.Close()
		return
	}
	c.Redis = rc
	c.Cache = rc
}

func (c *Container) initStorage(ctx context.Context) error {
	fallback, err := infraCache.NewThumbnailCache(c.Config.Store.FallbackCacheSize)
	if err != nil {
		return err
	}
	c.Fallback = fallback

	if c.Config.MinIO.Enabled {
		minioStorage, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
		if err != nil {
			return err
		}
		c.MinIO = minioStorage
		c.Files = storage.NewMinIOFileStore(minioStorage, "uploads/")
		return nil
	}

	c.Files = storage.NewLocalStorage(c.Config.Upload.Dir)
	return nil
}

func (c *Container) initRepositories() error {
	var thumbnails ideaRepo.ThumbnailStore
	switch c.Config.Store.ThumbnailBackend {
	case config.ThumbnailBackendMinIO:
		if c.MinIO == nil {
			return fmt.Errorf("thumbnail backend minio requires MinIO")
		}
		thumbnails = ideaRepo.NewMinIOThumbnailStore(c.MinIO)
	default:
		thumbnails = ideaRepo.NewDocThumbnailStore(c.ThumbDocs)
	}

	c.IdeaRepo = ideaRepo.NewSplitStorageRepository(c.DocStore, thumbnails, c.Fallback)
	c.SettingsRepo = settingsRepo.NewRepository(c.DocStore, c.Cache)
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config

	// mỗi provider một executor: cùng backoff, khác classifier
	newExecutor := func(classifier retry.Classifier) *retry.Executor {
		return retry.New(
			retry.WithMaxAttempts(cfg.Retry.MaxAttempts),
			retry.WithBase(cfg.Retry.Base),
			retry.WithRetryIf(classifier),
			retry.WithFailureHook(metrics.RecordRetryFailure),
		)
	}

	c.IdeaService = ideaService.NewIdeaService(c.IdeaRepo)
	c.SettingsService = settingsService.NewSettingsService(c.SettingsRepo, c.Files, c.Processor)

	c.GenerationService = generationService.NewGenerationService(
		c.OpenAI,
		c.OpenAI,
		c.SettingsService, // tên reference faces cho prompt thumbnail
		newExecutor(openai.IsRetryable),
		generationService.Config{
			Configured:  cfg.OpenAI.Configured(),
			ImageModels: cfg.OpenAI.ImageModels,
		},
	)

	c.AssetService = assetService.NewAssetService(
		c.Fonts,
		c.RemoveBG,
		assetService.Executors{
			Fonts:    newExecutor(fonts.IsRetryable),
			RemoveBG: newExecutor(removebg.IsRetryable),
		},
		c.Cache,
		cfg.Fonts.CacheTTL,
	)
}

func (c *Container) initHandlers() {
	c.IdeaHandler = ideaHandler.NewIdeaHandler(c.IdeaService)
	c.GenerationHandler = generationHandler.NewGenerationHandler(c.GenerationService)
	c.SettingsHandler = settingsHandler.NewSettingsHandler(c.SettingsService)
	c.AssetHandler = assetHandler.NewAssetHandler(c.AssetService)
}

// ========================================
// HEALTH & CLEANUP
// ========================================

// Health trả về trạng thái từng dependency; ok=false khi primary store lỗi
func (c *Container) Health(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"store": "ok"}
	healthy := true

	if c.DB != nil {
		if err := c.DB.HealthCheck(ctx); err != nil {
			status["store"] = "error: " + err.Error()
			healthy = false
		}
	} else {
		status["store"] = "memory"
	}

	switch {
	case c.Redis == nil:
		status["redis"] = "disabled"
	case c.Redis.Ping(ctx) != nil:
		status["redis"] = "unreachable"
	default:
		status["redis"] = "ok"
	}

	switch {
	case c.MinIO == nil:
		status["minio"] = "disabled"
	case c.MinIO.HealthCheck(ctx) != nil:
		status["minio"] = "unreachable"
	default:
		status["minio"] = "ok"
	}

	return status, healthy
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up resources...")

	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close Redis")
		}
	}
}
