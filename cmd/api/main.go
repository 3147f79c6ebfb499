package main

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/amiraesya/glowmart-golang/internal/ai"
	"github.com/amiraesya/glowmart-golang/internal/database"
	"github.com/amiraesya/glowmart-golang/internal/events"
	"github.com/amiraesya/glowmart-golang/internal/guestcart"
	"github.com/amiraesya/glowmart-golang/internal/handlers"
	"github.com/amiraesya/glowmart-golang/internal/repository/mysql"
	"github.com/amiraesya/glowmart-golang/internal/routes"
	"github.com/amiraesya/glowmart-golang/internal/service"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	// 2. --- Redis (Guest Carts) ---
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	// 3. --- Kafka (Order Events, optional) ---
	var publisher service.EventPublisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaPublisher := events.NewPublisher(strings.Split(brokers, ","), logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	// 4. --- Product Advisor (optional) ---
	// The advisor gets its own read-only connection so generated SQL can
	// never touch cart, order or stock state.
	var advisor *ai.AdvisorService
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		readOnlyDSN := os.Getenv("DB_DSN_READONLY")
		if readOnlyDSN == "" {
			log.Fatalf("GEMINI_API_KEY is set but DB_DSN_READONLY is not. The advisor requires a read-only connection.")
		}
		dbReadOnly, err := database.OpenDBWithDSN(readOnlyDSN)
		if err != nil {
			log.Fatalf("Failed to connect to read-only database: %v", err)
		}
		defer dbReadOnly.Close()

		advisor, err = ai.NewAdvisorService(geminiKey, dbReadOnly, logger)
		if err != nil {
			log.Fatalf("Failed to initialize product advisor: %v", err)
		}
		defer advisor.Close()
	} else {
		logger.Warn("GEMINI_API_KEY not set, product advisor disabled")
	}

	// --- Stores & Services ---
	catalogStore := mysql.NewCatalogStore(db)
	cartStore := mysql.NewCartStore(db)
	orderStore := mysql.NewOrderStore(db)

	app := &handlers.Handlers{
		Cart:       service.NewCartService(catalogStore, cartStore, logger),
		Checkout:   service.NewCheckoutService(catalogStore, cartStore, orderStore, publisher, logger),
		Orders:     service.NewOrderService(orderStore, publisher, logger),
		Catalog:    catalogStore,
		Reviews:    mysql.NewReviewStore(db),
		Users:      mysql.NewUserStore(db),
		GuestCarts: guestcart.NewStore(redisClient),
		Advisor:    advisor,
		Logger:     logger,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("Starting GlowMart API server on %s...", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
