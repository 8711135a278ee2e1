package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/auth"
	"github.com/raihanetx/Next-v/config"
	rupantorpayControllers "github.com/raihanetx/Next-v/controllers/rupantorpay"
	"github.com/raihanetx/Next-v/email"
	"github.com/raihanetx/Next-v/models"
	"github.com/raihanetx/Next-v/routes"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Pricing{},
		&models.Review{},
		&models.Coupon{},
		&models.HotDeal{},
		&models.Order{},
		&models.OrderItem{},
		&models.SiteConfig{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	deps := routes.Deps{
		Config:   cfg,
		Issuer:   auth.NewTokenIssuer(cfg.JWTSecret),
		Sessions: auth.NewMemorySessionStore(),
		Limiter:  auth.NewLoginLimiter(),
		Gateway:  rupantorpayControllers.NewClient(cfg),
		Mailer:   email.NewSender(cfg),
	}

	routes.SetupRoutes(r, db, deps)

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// Surface unique-index violations as gorm.ErrDuplicatedKey so
		// the order pipeline can map them to conflicts.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return db
}
