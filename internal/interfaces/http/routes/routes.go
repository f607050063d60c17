// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/catalog"
	"github.com/your-org/storefront-gateway/internal/domain/checkout"
	"github.com/your-org/storefront-gateway/internal/domain/coupon"
	"github.com/your-org/storefront-gateway/internal/domain/pricing"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/session"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Dependencies bundles the services the route tree needs
type Dependencies struct {
	Sessions  *session.Manager
	Carts     *cart.Store
	Wishlists *cart.Wishlist
	Coupons   *coupon.Service
	Pricer    *pricing.Engine
	Checkouts *checkout.Service
	Catalog   *catalog.Service
	Upstream  *upstream.Client
}

// SetupRoutes wires all storefront routes
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Coupons, deps.Pricer)
	wishlistHandler := handlers.NewWishlistHandler(deps.Wishlists)
	couponHandler := handlers.NewCouponHandler(deps.Coupons)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkouts)
	orderHandler := handlers.NewOrderHandler(deps.Upstream)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	// Catalog routes are public; no session needed to browse.
	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/category/:slug", catalogHandler.GetProductsByCategory)
		products.GET("/search", catalogHandler.SearchProducts)
	}

	// Everything below is session-scoped state.
	sessioned := rg.Group("")
	sessioned.Use(middleware.Session(deps.Sessions))

	cartGroup := sessioned.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.PUT("", cartHandler.ReplaceCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}

	wishlistGroup := sessioned.Group("/wishlist")
	{
		wishlistGroup.GET("", wishlistHandler.GetWishlist)
		wishlistGroup.DELETE("", wishlistHandler.ClearWishlist)
		wishlistGroup.POST("/items", wishlistHandler.AddToWishlist)
		wishlistGroup.DELETE("/items/:id", wishlistHandler.RemoveFromWishlist)
	}

	couponGroup := sessioned.Group("/coupon")
	{
		couponGroup.GET("", couponHandler.GetCoupon)
		couponGroup.POST("", couponHandler.ApplyCoupon)
		couponGroup.DELETE("", couponHandler.RemoveCoupon)
	}

	checkoutGroup := sessioned.Group("/checkout")
	{
		checkoutGroup.GET("", checkoutHandler.Status)
		checkoutGroup.POST("", checkoutHandler.Submit)
		checkoutGroup.POST("/draft", checkoutHandler.BuildDraft)
		checkoutGroup.POST("/payment/callback", checkoutHandler.PaymentCallback)
		checkoutGroup.POST("/payment/failure", checkoutHandler.PaymentFailure)
	}

	orders := sessioned.Group("/orders")
	{
		orders.GET("/:id/track", orderHandler.TrackOrder)
	}
}
