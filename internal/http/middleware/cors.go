package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botbridge-backend/internal/platform/envutil"
)

// defaultOrigins covers the annotation console's local dev ports. Deployed
// origins come from CORS_ORIGINS as a comma-separated list.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:5174",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5174",
}

func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     envutil.List("CORS_ORIGINS", defaultOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
