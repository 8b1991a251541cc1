package router

import (
	"time"

	"github.com/ELGOKU23/corte/internal/config"
	"github.com/ELGOKU23/corte/internal/feed"
	"github.com/ELGOKU23/corte/internal/handler"
	"github.com/ELGOKU23/corte/internal/infra"
	"github.com/ELGOKU23/corte/internal/middleware"
	"github.com/ELGOKU23/corte/internal/repository"
	"github.com/ELGOKU23/corte/internal/service"
	"github.com/ELGOKU23/corte/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	images := infra.NewImageStoreClient(cfg.ImageUploadURL, cfg.ImagePreset)

	// ── Repositories ─────────────────────────────────────────────────────────
	corteRepo := repository.NewCorteRepository(db)

	// ── Feed ─────────────────────────────────────────────────────────────────
	source := feed.NewRedisSource(rdb, corteRepo)
	publisher := feed.NewPublisher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	corteSvc := service.NewCorteService(corteRepo, publisher, dispatcher)
	adelantoSvc := service.NewAdelantoService(corteRepo, images, publisher)
	reporteSvc := service.NewReporteService(corteRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cortesH := handler.NewCortesHandler(corteSvc)
	adelantosH := handler.NewAdelantosHandler(adelantoSvc)
	reporteH := handler.NewReporteHandler(reporteSvc, cfg.PDFStoragePath)
	streamH := handler.NewStreamHandler(source, feed.DefaultRetryPolicy())

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		cortes := v1.Group("/cortes")
		{
			cortes.POST("", cortesH.Crear)
			cortes.GET("", cortesH.Listar)
			cortes.GET("/stream", streamH.Stream)
			cortes.GET("/:id", cortesH.Obtener)
			cortes.PUT("/:id", cortesH.Editar)
			cortes.POST("/:id/iniciar", cortesH.Iniciar)
			cortes.POST("/:id/finalizar", cortesH.Finalizar)
			cortes.POST("/:id/adelantos", adelantosH.Agregar)
			cortes.GET("/:id/reporte", reporteH.Obtener)
			cortes.GET("/:id/reporte/pdf", reporteH.DescargarPDF)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
