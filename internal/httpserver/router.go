package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/pricing"
)

type sessionService interface {
	sessionIssuer
	sessionLookup
}

// Deps carries the services the router wires handlers to.
type Deps struct {
	Carts      cartStore
	Products   productCatalog
	Brands     brandLister
	Categories categoryLister
	Orders     orderService
	Sessions   sessionService
	Policy     pricing.Policy
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalog := &catalogHandlers{products: deps.Products, brands: deps.Brands, categories: deps.Categories}
	router.GET("/products", catalog.listProducts)
	router.GET("/products/:id", catalog.getProduct)
	router.GET("/brands", catalog.listBrands)
	router.GET("/categories", catalog.listCategories)

	sessions := &sessionHandlers{sessions: deps.Sessions}
	router.POST("/sessions", sessions.create)

	cart := &cartHandlers{store: deps.Carts, policy: deps.Policy}
	cartGroup := router.Group("/cart", identityMiddleware(deps.Sessions))
	cartGroup.GET("/get", cart.get)
	cartGroup.POST("/add", cart.add)
	cartGroup.PUT("/quantity", cart.setQuantity)
	cartGroup.DELETE("/delete/:productId", cart.remove)
	cartGroup.DELETE("/clearAll", cart.clearAll)

	orders := &orderHandlers{orders: deps.Orders}
	orderGroup := router.Group("/orders", identityMiddleware(deps.Sessions))
	orderGroup.POST("/checkout", orders.checkout)
	orderGroup.GET("", orders.list)

	return router
}
