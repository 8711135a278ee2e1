package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/auth"
	"github.com/raihanetx/Next-v/config"
	rupantorpayControllers "github.com/raihanetx/Next-v/controllers/rupantorpay"
	"github.com/raihanetx/Next-v/email"
)

// Deps carries the long-lived components handlers close over.
type Deps struct {
	Config   *config.Config
	Issuer   *auth.TokenIssuer
	Sessions auth.SessionStore
	Limiter  *auth.LoginLimiter
	Gateway  *rupantorpayControllers.Client
	Mailer   *email.Sender
}

// SetupRoutes wires every route group under the /api prefix.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	api := r.Group("/api")

	SetupCatalogRoutes(api, db)
	SetupOrderRoutes(api, db)
	SetupAdminRoutes(api, db, deps)
	SetupPaymentRoutes(api, db, deps)
}
