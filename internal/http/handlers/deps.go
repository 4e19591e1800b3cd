package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/session"
)

// Catalog is the remote catalog as the handlers use it.
type Catalog interface {
	session.Catalog
	Product(ctx context.Context, id int) (domain.Product, error)
}

type Deps struct {
	Sessions *session.Manager

	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	AuthHandler    *AuthHandler
	OrderHandler   *OrderHandler
	EventsHandler  *EventsHandler

	// LoginLimit guards POST /login; nil means the default limiter.
	LoginLimit fiber.Handler
}

func NewDeps(db *sqlx.DB, cfg config.Config, client Catalog) *Deps {
	kvRepo := repos.NewKVRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	sessions := session.NewManager(kvRepo, events.NewHub(), client, cfg.ItemsPerPage, cfg.SessionIdle)
	orderSvc := services.NewOrderService(orderRepo)

	return &Deps{
		Sessions:       sessions,
		ProductHandler: &ProductHandler{Catalog: client},
		CartHandler:    &CartHandler{Catalog: client},
		AuthHandler:    &AuthHandler{},
		OrderHandler:   &OrderHandler{Order: orderSvc, Repo: orderRepo},
		EventsHandler:  &EventsHandler{Sessions: sessions},
	}
}
