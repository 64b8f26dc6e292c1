// Package router assembles the gin engine: middleware order, route
// registration and the page-level permission gates.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaccess "github.com/crm/backend/internal/application/access"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Lead    *handler.LeadHandler
	Partner *handler.PartnerHandler
	Trade   *handler.TradeHandler
	Route   *handler.RouteHandler
	Catalog *handler.CatalogHandler
}

// Deps carries the cross-cutting pieces the middleware chain needs.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Tokens    *auth.JWTService
	Blacklist *auth.TokenBlacklist
	Resolver  *appaccess.Resolver
	Catalog   *appaccess.PermissionCatalog
}

// New builds the engine with the full middleware chain and all routes.
func New(d Deps, h Handlers) *gin.Engine {
	if d.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(d.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(d.Config.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(d.Log),
		middleware.Recovery(d.Log),
		middleware.AccessLog(d.Log),
		middleware.CORS(d.Config.HTTP),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": d.Config.App.Name})
	})

	api := engine.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", middleware.Auth(d.Tokens, d.Blacklist, d.Log))
	authed.POST("/auth/logout", h.Auth.Logout)

	// Everything past this point works on the resolved access context.
	scoped := authed.Group("", middleware.ResolveAccess(d.Resolver, d.Log))
	scoped.GET("/auth/me", h.Auth.Me)
	scoped.GET("/auth/permissions", h.Auth.Permissions)

	leads := scoped.Group("/leads", middleware.RequirePage(d.Catalog, "LEADS"))
	{
		leads.GET("", h.Lead.List)
		leads.POST("", h.Lead.Create)
		leads.GET("/:id", h.Lead.Get)
		leads.PUT("/:id", h.Lead.Update)
		leads.PATCH("/:id/stage", h.Lead.MoveStage)
		leads.DELETE("/:id", h.Lead.Delete)
		leads.GET("/:id/products", h.Lead.ListProducts)
		leads.POST("/:id/products", h.Lead.AddProduct)
		leads.DELETE("/:id/products/:itemId", h.Lead.RemoveProduct)
		leads.GET("/:id/activities", h.Lead.ListActivities)
	}

	activities := scoped.Group("/activities", middleware.RequirePage(d.Catalog, "LEADS"))
	{
		activities.GET("", h.Lead.ListActivities)
		activities.POST("", h.Lead.CreateActivity)
		activities.PATCH("/:id/status", h.Lead.UpdateActivityStatus)
	}

	partners := scoped.Group("/partners", middleware.RequirePage(d.Catalog, "PARCEIROS"))
	{
		partners.GET("", h.Partner.List)
		partners.GET("/:id", h.Partner.Get)
	}

	orders := scoped.Group("/orders", middleware.RequirePage(d.Catalog, "PEDIDOS"))
	{
		orders.GET("", h.Trade.ListOrders)
		orders.GET("/:id", h.Trade.GetOrder)
	}

	scoped.GET("/receivables",
		middleware.RequirePage(d.Catalog, "FINANCEIRO"), h.Trade.ListReceivables)

	routes := scoped.Group("/routes", middleware.RequirePage(d.Catalog, "ROTAS"))
	{
		routes.GET("", h.Route.List)
		routes.POST("", h.Route.Create)
		routes.GET("/:id", h.Route.Get)
		routes.PUT("/:id", h.Route.Update)
		routes.DELETE("/:id", h.Route.Delete)
	}

	visits := scoped.Group("/visits", middleware.RequirePage(d.Catalog, "ROTAS"))
	{
		visits.GET("", h.Route.ListVisits)
		visits.POST("/checkin",
			middleware.RequireFeature(d.Catalog, "CHECKIN"), h.Route.CheckIn)
		visits.POST("/:id/checkout",
			middleware.RequireFeature(d.Catalog, "CHECKIN"), h.Route.CheckOut)
		visits.POST("/:id/cancel", h.Route.Cancel)
	}

	catalog := scoped.Group("/catalog", middleware.RequirePage(d.Catalog, "PRODUTOS"))
	{
		catalog.GET("/products", h.Catalog.ListProducts)
		catalog.GET("/price-tables", h.Catalog.ListPriceTables)
		catalog.GET("/price-tables/:id/prices", h.Catalog.ListPrices)
		catalog.GET("/price-tables/:id/prices/:productId", h.Catalog.GetPrice)
	}

	return engine
}
