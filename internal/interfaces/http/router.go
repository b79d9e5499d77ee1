package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jhoicas/asseta-api/internal/application/activity"
	"github.com/jhoicas/asseta-api/internal/application/auth"
	"github.com/jhoicas/asseta-api/internal/application/crud"
	"github.com/jhoicas/asseta-api/internal/application/notification"
	"github.com/jhoicas/asseta-api/internal/application/recyclebin"
	"github.com/jhoicas/asseta-api/internal/application/support"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// RouterDeps agrupa las dependencias para registrar rutas.
type RouterDeps struct {
	// CRUD casos de uso genéricos por colección (vendors, products, assets, users).
	CRUD            map[string]*crud.UseCase
	SupportUC       *support.UseCase
	NotificationSvc *notification.Service
	RecycleBinSvc   *recyclebin.Service
	ActivitySvc     *activity.Service
	AuthUC          *auth.AuthUseCase
	Store           repository.DocumentStore
	JWTSecret       string
	AuthRequired    bool
	CORSOrigins     string
	ServiceName     string
	Metrics         *Metrics       // nil = NewMetrics()
	AuthLimiter     *IPRateLimiter // nil = AuthRateLimiter()
	Log             *logger.Logger
}

// Router registra middleware global y todas las rutas bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.AuthLimiter == nil {
		deps.AuthLimiter = AuthRateLimiter()
	}
	if deps.CORSOrigins == "" {
		deps.CORSOrigins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(deps.Log))
	app.Use(deps.Metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", healthHandler(deps.Store, deps.ServiceName))
	app.Get("/metrics", deps.Metrics.Handler())

	api := app.Group("/api")

	// Públicas con límite por IP
	authH := NewAuthHandler(deps.AuthUC, deps.Log)
	limit := deps.AuthLimiter.Middleware()
	authGroup := api.Group("/auth", limit)
	authGroup.Post("/register", authH.Register)
	authGroup.Post("/login", authH.Login)
	api.Post("/login", limit, authH.Login)

	// Datos: con AUTH_REQUIRED exigen Bearer; si no, el token es opcional y solo aporta el actor.
	var guard fiber.Handler
	var adminOnly []fiber.Handler
	if deps.AuthRequired {
		guard = AuthMiddleware(deps.JWTSecret)
		adminOnly = []fiber.Handler{RequireRole(entity.RoleAdmin)}
	} else {
		guard = OptionalAuth(deps.JWTSecret)
	}
	data := api.Group("/", guard)

	for _, schema := range entity.CRUDSchemas() {
		uc, ok := deps.CRUD[schema.Collection]
		if !ok {
			continue
		}
		h := NewCRUDHandler(uc, deps.Log)
		var g fiber.Router
		if schema.Collection == entity.CollectionUsers {
			g = data.Group("/"+schema.Collection, adminOnly...)
		} else {
			g = data.Group("/" + schema.Collection)
		}
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id", h.GetByID)
		g.Put("/:id", h.Update)
		g.Delete("/:id", h.Delete)
	}

	supportH := NewSupportHandler(deps.SupportUC, deps.Log)
	supportGroup := data.Group("/support")
	supportGroup.Get("/", supportH.List)
	supportGroup.Post("/", supportH.Create)
	supportGroup.Get("/:id", supportH.GetByID)
	supportGroup.Put("/:id", supportH.Update)
	supportGroup.Delete("/:id", supportH.Delete)
	supportGroup.Get("/:id/pdf", supportH.PDF)

	notifH := NewNotificationHandler(deps.NotificationSvc, deps.Log)
	notifGroup := data.Group("/notifications")
	notifGroup.Get("/", notifH.List)
	notifGroup.Put("/:id/read", notifH.MarkRead)
	notifGroup.Delete("/:id", notifH.Delete)
	data.Post("/test-notification", notifH.SendTest)

	binH := NewRecycleBinHandler(deps.RecycleBinSvc, deps.Log)
	binGroup := data.Group("/recycle-bin")
	binGroup.Get("/", binH.List)
	binGroup.Delete("/", append(adminOnly, binH.Empty)...)
	binGroup.Get("/:id", binH.GetByID)
	binGroup.Post("/:id/restore", binH.Restore)
	binGroup.Delete("/:id", binH.Purge)
	data.Get("/recyclebin", binH.List)

	activityH := NewActivityHandler(deps.ActivitySvc, deps.Log)
	data.Get("/activity", activityH.List)
}

// healthHandler verifica el almacén con un ping acotado.
func healthHandler(store repository.DocumentStore, service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
