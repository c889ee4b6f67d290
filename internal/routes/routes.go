package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/gameshop/internal/config"
	"github.com/example/gameshop/internal/handlers"
	"github.com/example/gameshop/internal/middleware"
	"github.com/example/gameshop/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, events services.EventPublisher) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	customerHandler := handlers.NewCustomerHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, telegramService, events)
	bundleHandler := handlers.NewBundleHandler(db)
	contentHandler := handlers.NewContentHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db)
	adminHandler := handlers.NewAdminHandler(cfg)
	takeAppHandler := handlers.NewTakeAppHandler(db)

	api := app.Group("/api")

	// Customer auth and profile
	customers := api.Group("/customers")
	customers.Post("/login", customerHandler.Login)

	me := customers.Group("/me", middleware.AuthMiddleware(cfg))
	me.Get("/", customerHandler.Me)
	me.Put("/", customerHandler.UpdateMe)
	me.Get("/orders", customerHandler.MyOrders)

	// Public storefront data
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/bundles", bundleHandler.ListBundles)
	api.Get("/blog", contentHandler.ListBlogPosts)
	api.Get("/blog/:slug", contentHandler.GetBlogPost)
	api.Get("/contacts", contentHandler.ListContactLinks)
	api.Get("/payment-methods", contentHandler.ListPaymentMethods)
	api.Get("/notification-bar", contentHandler.GetNotificationBar)

	// Order placement is public: the form carries the customer details.
	api.Post("/orders", orderHandler.CreateOrder)

	// Admin
	api.Post("/admin/login", adminHandler.Login)

	admin := api.Group("", middleware.AuthMiddleware(cfg), middleware.AdminOnly())

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Post("/bundles", bundleHandler.CreateBundle)
	admin.Put("/bundles/:id", bundleHandler.UpdateBundle)
	admin.Delete("/bundles/:id", bundleHandler.DeleteBundle)

	admin.Post("/blog", contentHandler.CreateBlogPost)
	admin.Put("/blog/:id", contentHandler.UpdateBlogPost)
	admin.Delete("/blog/:id", contentHandler.DeleteBlogPost)

	admin.Post("/contacts", contentHandler.CreateContactLink)
	admin.Put("/contacts/:id", contentHandler.UpdateContactLink)
	admin.Delete("/contacts/:id", contentHandler.DeleteContactLink)

	admin.Post("/payment-methods", contentHandler.CreatePaymentMethod)
	admin.Put("/payment-methods/:id", contentHandler.UpdatePaymentMethod)
	admin.Delete("/payment-methods/:id", contentHandler.DeletePaymentMethod)

	admin.Put("/notification-bar", contentHandler.UpdateNotificationBar)

	admin.Get("/orders", orderHandler.ListOrders)
	admin.Get("/orders/:id", orderHandler.GetOrder)
	admin.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)

	analytics := admin.Group("/analytics")
	analytics.Get("/overview", analyticsHandler.Overview)
	analytics.Get("/top-products", analyticsHandler.TopProducts)
	analytics.Get("/revenue-chart", analyticsHandler.RevenueChart)
	analytics.Get("/order-status", analyticsHandler.OrderStatus)

	takeapp := admin.Group("/takeapp")
	takeapp.Get("/store", takeAppHandler.Store)
	takeapp.Get("/orders", takeAppHandler.Orders)
	takeapp.Get("/inventory", takeAppHandler.Inventory)
	takeapp.Get("/order-stats", takeAppHandler.OrderStats)
	takeapp.Post("/sync-products", takeAppHandler.SyncProducts)
}
