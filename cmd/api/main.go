package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/asseta-api/docs"

	"github.com/jhoicas/asseta-api/internal/application/app"
	"github.com/jhoicas/asseta-api/internal/application/auth"
	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/internal/infrastructure/cache"
	"github.com/jhoicas/asseta-api/internal/infrastructure/events"
	"github.com/jhoicas/asseta-api/internal/infrastructure/memory"
	"github.com/jhoicas/asseta-api/internal/infrastructure/mongodb"
	infrapdf "github.com/jhoicas/asseta-api/internal/infrastructure/pdf"
	"github.com/jhoicas/asseta-api/internal/infrastructure/postgres"
	"github.com/jhoicas/asseta-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/asseta-api/internal/interfaces/console"
	httpRouter "github.com/jhoicas/asseta-api/internal/interfaces/http"
	"github.com/jhoicas/asseta-api/pkg/apiclient"
	"github.com/jhoicas/asseta-api/pkg/config"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/mq"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// @title        Asseta API
// @version      1.0
// @description  API de inventario de activos: CRUD genérico, soporte, notificaciones, papelera y actividad.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.Tracing.OTLPEndpoint, cfg.App.Name, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	store := openStore(ctx, cfg, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("cerrar almacén")
		}
	}()

	// Caché de lecturas solo con REDIS_ADDR
	if cfg.Cache.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		store = cache.NewStore(store, rdb, cfg.Cache.TTL(), log)
		log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("caché Redis activo")
	}

	var publisher ports.EventPublisher
	if cfg.Events.AMQPURL != "" {
		broker, err := mq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer broker.Close()
		publisher = events.NewPublisher(broker, cfg.App.Name)
		log.Info().Str("exchange", cfg.Events.Exchange).Msg("publicación de eventos activa")
	}

	container := app.New(store, app.Options{
		Events:   publisher,
		Renderer: infrapdf.NewTicketPDFGenerator(cfg.App.Name),
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		Log: log,
	})

	var retention *scheduler.Retention
	if cfg.RecycleBin.RetentionDays > 0 {
		retention, err = scheduler.NewRetention(cfg.RecycleBin.PurgeCron, cfg.RecycleBin.RetentionDays, container.RecycleBin, log)
		if err != nil {
			log.Fatal().Err(err).Msg("programar retención de papelera")
		}
		retention.Start()
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})

	httpRouter.Router(fiberApp, httpRouter.RouterDeps{
		CRUD:            container.CRUD,
		SupportUC:       container.Support,
		NotificationSvc: container.Notifications,
		RecycleBinSvc:   container.RecycleBin,
		ActivitySvc:     container.Activity,
		AuthUC:          container.Auth,
		Store:           store,
		JWTSecret:       cfg.JWT.Secret,
		AuthRequired:    cfg.JWT.AuthRequired,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		ServiceName:     cfg.App.Name,
		Log:             log,
	})

	// Documento OpenAPI embebido; la UI solo si existe el archivo generado.
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	fiberApp.Get("/swagger.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})
	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		fiberApp.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Asseta API",
		}))
	}

	consoleH, err := console.New(apiclient.New(cfg.Console.APIBase, 10*time.Second), log)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de la consola")
	}
	consoleH.Register(fiberApp.Group(console.Prefix))

	if st, err := os.Stat(cfg.HTTP.StaticDir); err == nil && st.IsDir() {
		fiberApp.Static("/", cfg.HTTP.StaticDir)
	}

	go func() {
		if err := fiberApp.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if retention != nil {
		retention.Stop(shutdownCtx)
	}
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre el almacén de documentos según STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) repository.DocumentStore {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración de PostgreSQL")
		}
		return postgres.NewDocumentStore(pool)
	case config.StoreMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.NewStore()
	default:
		store, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB")
		}
		return store
	}
}
