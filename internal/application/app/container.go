// Package app construye el grafo de casos de uso una sola vez al arrancar.
package app

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/asseta-api/internal/application/activity"
	"github.com/jhoicas/asseta-api/internal/application/auth"
	"github.com/jhoicas/asseta-api/internal/application/crud"
	"github.com/jhoicas/asseta-api/internal/application/notification"
	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/application/recyclebin"
	"github.com/jhoicas/asseta-api/internal/application/support"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// Options colaboradores opcionales del contenedor.
type Options struct {
	Events   ports.EventPublisher // nil = sin broker
	Renderer ports.TicketRenderer // nil = sin PDF
	JWT      auth.JWTConfig
	HashCost int // 0 = bcrypt.DefaultCost
	Log      *logger.Logger
}

// Container contexto de aplicación compartido por los handlers.
type Container struct {
	Store         repository.DocumentStore
	Notifications *notification.Service
	Activity      *activity.Service
	RecycleBin    *recyclebin.Service
	CRUD          map[string]*crud.UseCase
	Support       *support.UseCase
	Auth          *auth.AuthUseCase
}

// New cablea los servicios sobre store y registra cada colección como origen de la papelera.
func New(store repository.DocumentStore, opts Options) *Container {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	cost := opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	notifications := notification.NewService(store, opts.Events, log)
	activities := activity.NewService(store, log)
	bin := recyclebin.NewService(store, notifications, activities, log)

	c := &Container{
		Store:         store,
		Notifications: notifications,
		Activity:      activities,
		RecycleBin:    bin,
		CRUD:          make(map[string]*crud.UseCase),
	}
	for _, schema := range entity.CRUDSchemas() {
		uc := crud.NewUseCase(schema, store, bin, notifications, activities, log, crud.WithHashCost(cost))
		c.CRUD[schema.Collection] = uc
		bin.Register(uc)
	}
	c.Support = support.NewUseCase(store, bin, notifications, activities, opts.Renderer, log)
	bin.Register(c.Support)
	c.Auth = auth.NewAuthUseCase(store, notifications, activities, opts.JWT, log, auth.WithHashCost(cost))
	return c
}
