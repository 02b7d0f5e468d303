package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/sucrestore/internal/middleware/auth"
	"github.com/Skotchmaster/sucrestore/internal/policy"
)

type Deps struct {
	Auth *authmw.Auth
	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error

	AuthHandler      *AuthHTTP
	CatalogHandler   *CatalogHTTP
	ImportHandler    *ImportHTTP
	OrderHandler     *OrderHTTP
	DeliveryHandler  *DeliveryHTTP
	UserHandler      *UserHTTP
	ContentHandler   *ContentHTTP
	DashboardHandler *DashboardHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api", d.Auth.Authenticate(), d.Auth.Session)
	can := authmw.RequireAction

	api.POST("/auth/login", d.AuthHandler.Login)
	api.GET("/auth/me", d.AuthHandler.Me, authmw.RequireAuth)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/:slug", d.CatalogHandler.GetProduct)
	api.GET("/categories", d.CatalogHandler.GetCategories)
	api.GET("/slider", d.ContentHandler.PublicSliders)
	api.GET("/public/settings", d.ContentHandler.PublicSettings)
	api.POST("/orders", d.OrderHandler.CreateOrder)

	admin := api.Group("/admin")

	products := admin.Group("/products")
	products.GET("", d.CatalogHandler.AdminProducts, can(policy.CatalogWrite))
	products.POST("", d.CatalogHandler.CreateProduct, can(policy.CatalogWrite))
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, can(policy.CatalogWrite))
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, can(policy.CatalogWrite))
	products.POST("/import", d.ImportHandler.UploadFile, can(policy.CatalogImport))
	products.POST("/import-google-sheets", d.ImportHandler.ImportSheets, can(policy.CatalogImport))
	products.POST("/google-sheets-sync", d.ImportHandler.SyncSheets, can(policy.CatalogImport))

	categories := admin.Group("/categories")
	categories.POST("", d.CatalogHandler.CreateCategory, can(policy.CategoriesWrite))
	categories.PUT("/:id", d.CatalogHandler.UpdateCategory, can(policy.CategoriesWrite))
	categories.DELETE("/:id", d.CatalogHandler.DeleteCategory, can(policy.CategoriesDelete))

	orders := admin.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders, can(policy.OrdersRead))
	orders.GET("/sync", d.OrderHandler.Sync, can(policy.OrdersRead))
	orders.GET("/:id", d.OrderHandler.GetOrder, can(policy.OrdersRead))
	orders.GET("/:id/history", d.OrderHandler.GetHistory, can(policy.OrdersRead))
	orders.GET("/:id/whatsapp-notification", d.OrderHandler.WhatsAppNotification, can(policy.OrdersRead))
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus, can(policy.OrdersStatus))
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, can(policy.OrdersDelete))

	delivery := api.Group("/delivery/orders", can(policy.DeliveryWork))
	delivery.GET("", d.DeliveryHandler.Available)
	delivery.GET("/my-orders", d.DeliveryHandler.MyOrders)
	delivery.PUT("/:id/claim", d.DeliveryHandler.Claim)
	delivery.POST("/:id/complete", d.DeliveryHandler.Complete)

	users := admin.Group("/users")
	users.GET("", d.UserHandler.GetUsers, can(policy.UsersRead))
	users.GET("/:id", d.UserHandler.GetUser, can(policy.UsersRead))
	users.POST("", d.UserHandler.CreateUser, can(policy.UsersWrite))
	users.PUT("/:id", d.UserHandler.UpdateUser, can(policy.UsersWrite))
	users.PUT("/:id/role", d.UserHandler.UpdateRole, can(policy.UsersWrite))

	sliders := admin.Group("/sliders", can(policy.SliderWrite))
	sliders.GET("", d.ContentHandler.AdminSliders)
	sliders.POST("", d.ContentHandler.CreateSlider)
	sliders.PUT("/:id", d.ContentHandler.UpdateSlider)
	sliders.DELETE("/:id", d.ContentHandler.DeleteSlider)
	sliders.PUT("/:id/toggle", d.ContentHandler.ToggleSlider)

	admin.POST("/uploads", d.ContentHandler.Upload, can(policy.UploadsWrite))

	admin.GET("/settings", d.ContentHandler.GetSettings, can(policy.SettingsWrite))
	admin.PUT("/settings", d.ContentHandler.UpdateSettings, can(policy.SettingsWrite))

	admin.GET("/dashboard/stats", d.DashboardHandler.Stats, can(policy.DashboardRead))
	admin.DELETE("/dashboard/stats", d.DashboardHandler.Reset, can(policy.DashboardReset))
}
