package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/missamma/missamma-golang/internal/database"
	"github.com/missamma/missamma-golang/internal/handlers"
	"github.com/missamma/missamma-golang/internal/payments"
	"github.com/missamma/missamma-golang/internal/routes"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Payment Gateway Client ---
	// Missing credentials put the client in development mode: remote
	// order ids are minted locally instead of calling the gateway.
	gateway := payments.NewClientFromEnv()
	if !gateway.Configured() {
		log.Println("WARNING: payment gateway credentials not set, running in development mode")
	}

	app := &handlers.Handlers{
		DB:      db,
		Gateway: gateway,
	}

	// --- Background Janitor ---
	// Sweeps stale PENDING orders back into stock and audits the wallet
	// ledger against stored balances.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background janitor started: monitoring stale orders and wallet drift")

		for range ticker.C {
			app.ProcessStaleOrders()
			app.ReconcileWallets()
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting Missamma API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
