package handlers

import (
	"gymsite/internal/gateway"
	"gymsite/internal/payments"
	"gymsite/internal/repos"
	"gymsite/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ContentHandler   *ContentHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SearchHandler    *SearchHandler
	CartHandler      *CartHandler
	CheckoutHandler  *CheckoutHandler
	AdminHandler     *AdminHandler
	AuthHandler      *AuthHandler

	Auth    *services.AuthService
	Gateway *gateway.Gateway
}

func NewDeps(gw *gateway.Gateway, db *sqlx.DB, pay payments.Checkout, auth *services.AuthService) *Deps {
	checkoutRepo := repos.NewCheckoutRepo(db)

	catalogSvc := services.NewCatalogService(gw)
	invSvc := services.NewInventoryService(gw)
	cartSvc := services.NewCartService(gw, invSvc)
	checkoutSvc := services.NewCheckoutService(cartSvc, pay, checkoutRepo)

	return &Deps{
		ContentHandler:   &ContentHandler{GW: gw, Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Catalog: catalogSvc, Inv: invSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		CheckoutHandler:  &CheckoutHandler{Checkout: checkoutSvc},
		AdminHandler:     &AdminHandler{GW: gw, Catalog: catalogSvc, Inv: invSvc, Checkouts: checkoutRepo},
		AuthHandler:      &AuthHandler{Auth: auth},
		Auth:             auth,
		Gateway:          gw,
	}
}
