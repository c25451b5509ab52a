package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/missamma/missamma-golang/internal/handlers"
	"github.com/missamma/missamma-golang/internal/middleware"
)

// CORSMiddleware allows the frontend origin to talk to the API.
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("FRONTEND_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Public Catalog Routes ---
		v1.GET("/store/products", h.ListProducts)
		v1.GET("/store/categories", h.ListCategories)
		v1.GET("/booking/services", h.ListServices)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/me", h.Me)

			// --- Payments ---
			auth.POST("/payments/create-order", h.CreateOrder)
			auth.POST("/payments/verify-payment", h.VerifyPayment)
			auth.POST("/payments/wallet-pay", h.WalletPay)
			auth.GET("/payments/invoice/:order_id", h.GetInvoice)
			auth.GET("/payments/invoice/:order_id/html", h.RenderInvoice)

			// --- Orders ---
			auth.GET("/orders", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)

			// --- Wallet ---
			auth.GET("/wallet", h.GetMyWallet)
			auth.POST("/wallet/topup", h.ManualTopUp)

			// --- Booking ---
			auth.GET("/booking/appointments", h.ListMyAppointments)
			auth.POST("/booking/appointments", h.CreateAppointment)
		}

		// --- Staff-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.StaffMiddleware(h.DB))
		{
			admin.GET("/summary", h.GetAdminSummary)
			admin.GET("/orders", h.ListAllOrders)
			admin.PATCH("/orders/:id", h.UpdateOrderStatus)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeactivateProduct)

			admin.PATCH("/appointments/:id", h.UpdateAppointment)
		}
	}

	return router
}
