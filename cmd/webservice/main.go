package main

import (
	"os"
	"time"

	"go-affiliate/utils"
	"go-affiliate/web/controllers"
	"go-affiliate/web/db"
	"go-affiliate/web/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func init() {
	utils.LoadEnv()
	db.Connect()
	db.Sync()
}

func main() {
	port := os.Getenv("GIN_PORT")
	if port == "" {
		port = "8080"
	}

	r := gin.Default()
	r.Use(cors.Default())

	globalLimiter := middleware.NewRateLimiter(rate.Every(4*time.Second), 15) // ~15 requests/min/IP
	globalLimiter.StartCleanup(10*time.Minute, time.Hour)
	limited := globalLimiter.Middleware()

	r.POST("/signup", limited, controllers.Signup)
	r.GET("/verify", limited, controllers.VerifyEmail)
	r.POST("/login", limited, controllers.Login)
	r.GET("/packages", limited, controllers.ListPackages)

	r.GET("/user", limited, middleware.RequireAuth, controllers.User)
	r.GET("/referral/qr", limited, middleware.RequireAuth, controllers.ReferralQR)
	r.GET("/referrals", limited, middleware.RequireAuth, controllers.ReferralsByUser)
	r.GET("/earnings", limited, middleware.RequireAuth, controllers.Earnings)
	r.GET("/commissions/total", limited, middleware.RequireAuth, controllers.TotalCommissions)

	r.POST("/proofs", limited, middleware.RequireAuth, controllers.SubmitProof)
	r.GET("/proofs", limited, middleware.RequireAuth, controllers.MyProofs)

	r.POST("/withdrawals", limited, middleware.RequireAuth, controllers.CreateWithdrawal)
	r.GET("/withdrawals", limited, middleware.RequireAuth, controllers.MyWithdrawals)

	// Admin routes
	r.GET("/admin/proofs", middleware.AdminAuth, controllers.ProofsByStatus)
	r.POST("/admin/proofs/:id/approve", middleware.AdminAuth, controllers.ApproveProof)
	r.POST("/admin/proofs/:id/reject", middleware.AdminAuth, controllers.RejectProof)
	r.GET("/admin/withdrawals", middleware.AdminAuth, controllers.WithdrawalsByStatus)
	r.POST("/admin/withdrawals/:id/status", middleware.AdminAuth, controllers.UpdateWithdrawalStatus)
	r.GET("/admin/stats", middleware.AdminAuth, controllers.AdminStats)
	r.POST("/admin/packages", middleware.AdminAuth, controllers.CreatePackage)
	r.PUT("/admin/packages/:id", middleware.AdminAuth, controllers.UpdatePackage)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("port", port).Msg("starting webservice")
	r.Run(":" + port)
}
