package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/atolyem/marketplace-backend/internal/handler"
	appmw "github.com/atolyem/marketplace-backend/internal/middleware"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	repos []interface{ SetDB(*gorm.DB) }
	sha   string
	build string
}

// New wires the full API. db may be nil at startup; SetDB injects the
// connection once the async connect in cmd/api finishes.
func New(db *gorm.DB, store service.ObjectStore, ruleCfg rules.Config, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	listingRepo := repository.NewListingRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	digitalRepo := repository.NewDigitalDeliveryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	socialRepo := repository.NewSocialRepository(db)

	shopSvc := service.NewShopService(shopRepo)
	listingSvc := service.NewListingService(listingRepo, shopRepo, store, ruleCfg)
	cartSvc := service.NewCartService(cartRepo, listingRepo)
	checkoutSvc := service.NewCheckoutService(db, cartRepo, listingRepo, shopRepo, orderRepo, ruleCfg)
	orderSvc := service.NewOrderService(orderRepo, digitalRepo)
	digitalSvc := service.NewDigitalService(digitalRepo, orderRepo, store)
	reviewSvc := service.NewReviewService(reviewRepo, orderRepo, digitalRepo, ruleCfg)
	socialSvc := service.NewSocialService(socialRepo, listingRepo, shopRepo)

	shopHandler := handler.NewShopHandler(shopSvc, userRepo)
	listingHandler := handler.NewListingHandler(listingSvc, userRepo)
	cartHandler := handler.NewCartHandler(cartSvc)
	orderHandler := handler.NewOrderHandler(checkoutSvc, orderSvc)
	digitalHandler := handler.NewDigitalHandler(digitalSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	socialHandler := handler.NewSocialHandler(socialSvc)

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")

	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get, authMw.OptionalAuth)
	api.GET("/listings/:id/reviews", reviewHandler.ListByListing)
	api.GET("/shops/:id", shopHandler.Get)
	api.GET("/shops/:id/shipping-rules", shopHandler.ShippingRules)

	api.POST("/shops", shopHandler.Create, authMw.RequireAuth)
	api.GET("/me/shop", shopHandler.GetMine, authMw.RequireAuth)
	api.PUT("/shops/:id/shipping-rules", shopHandler.SetShippingRule, authMw.RequireAuth)

	api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
	api.PUT("/listings/:id", listingHandler.Update, authMw.RequireAuth)
	api.POST("/listings/:id/publish", listingHandler.Publish, authMw.RequireAuth)
	api.POST("/listings/:id/archive", listingHandler.Archive, authMw.RequireAuth)
	api.PUT("/listings/:id/tags", listingHandler.SetTags, authMw.RequireAuth)
	api.PUT("/listings/:id/personalization-fields", listingHandler.SetPersonalizationFields, authMw.RequireAuth)
	api.POST("/listings/:id/asset", listingHandler.UploadAsset, authMw.RequireAuth)
	api.GET("/me/listings", listingHandler.ListMine, authMw.RequireAuth)

	api.GET("/cart", cartHandler.List, authMw.RequireAuth)
	api.POST("/cart", cartHandler.Add, authMw.RequireAuth)
	api.PUT("/cart/:id", cartHandler.UpdateQuantity, authMw.RequireAuth)
	api.DELETE("/cart/:id", cartHandler.Remove, authMw.RequireAuth)

	api.POST("/checkout", orderHandler.Checkout, authMw.RequireAuth)
	api.GET("/orders/:ref", orderHandler.Get, authMw.RequireAuth)
	api.GET("/me/orders", orderHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/sales", orderHandler.ListSales, authMw.RequireAuth)
	api.POST("/orders/:id/pay", orderHandler.MarkPaid, authMw.RequireAuth)
	api.POST("/orders/:id/ship", orderHandler.MarkShipped, authMw.RequireAuth)
	api.POST("/orders/:id/receive", orderHandler.MarkDelivered, authMw.RequireAuth)
	api.POST("/orders/:id/cancel", orderHandler.Cancel, authMw.RequireAuth)

	api.GET("/order-items/:id/download", digitalHandler.Download, authMw.RequireAuth)
	api.POST("/order-items/:id/deliver", digitalHandler.Deliver, authMw.RequireAuth)

	api.POST("/reviews", reviewHandler.Create, authMw.RequireAuth)

	api.PUT("/listings/:id/favorite", socialHandler.Favorite, authMw.RequireAuth)
	api.DELETE("/listings/:id/favorite", socialHandler.Unfavorite, authMw.RequireAuth)
	api.GET("/me/favorites", socialHandler.ListFavorites, authMw.RequireAuth)
	api.PUT("/shops/:id/follow", socialHandler.Follow, authMw.RequireAuth)
	api.DELETE("/shops/:id/follow", socialHandler.Unfollow, authMw.RequireAuth)
	api.GET("/me/follows", socialHandler.ListFollows, authMw.RequireAuth)

	return &Server{
		e: e,
		repos: []interface{ SetDB(*gorm.DB) }{
			userRepo, shopRepo, listingRepo, cartRepo,
			orderRepo, digitalRepo, reviewRepo, socialRepo,
			checkoutSvc,
		},
		sha:   sha,
		build: buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}
