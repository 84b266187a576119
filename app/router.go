// Package app wires the HTTP routes
package app

import (
	"time"

	"protofolio/backend/app/admin"
	"protofolio/backend/app/auth"
	"protofolio/backend/app/root"
	"protofolio/backend/app/user"
	"protofolio/backend/internal"
	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewRouter(d *internal.Deps) *gin.Engine {
	cfg := d.Config
	cacheStore := persist.NewMemoryStore(time.Minute)

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.Host.CORS,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "Retry-After", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	if err := router.SetTrustedProxies(cfg.Host.TrustedProxies); err != nil {
		zap.L().Error("Invalid trusted proxy list, trusting none", zap.Error(err))
		router.SetTrustedProxies(nil)
	}

	jwt := middleware.NewJWTMiddleware(d.Auth.Signer(), d.Store)
	turnstile := middleware.NewTurnstileMiddleware(middleware.TurnstileConfig{
		Enabled:     cfg.Cloudflare.Turnstile.Enabled,
		SecretToken: cfg.Cloudflare.Turnstile.SecretToken,
	})
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Security.RateLimit,
		Burst:             cfg.Security.RateLimit * 2,
	})

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server and database are alive
		m.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(cfg.Security.BodyLimit))
	{
		// POST /api/auth/half-register		-> Mails a verification code
		a.POST("/half-register", turnstile, func(c *gin.Context) { auth.HalfRegister(c, d) })

		// POST /api/auth/full-register		-> Checks the code and creates the account
		a.POST("/full-register", func(c *gin.Context) { auth.FullRegister(c, d) })

		// POST /api/auth/complete-register	-> Sets the password and signs in
		a.POST("/complete-register", func(c *gin.Context) { auth.CompleteRegister(c, d) })

		// POST /api/auth/login			-> Signs in with email and password
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// POST /api/auth/logout		-> Revokes the refresh token
		a.POST("/logout", func(c *gin.Context) { auth.Logout(c, d) })

		// POST /api/auth/password-reset-request	-> Mails a password reset token
		a.POST("/password-reset-request", turnstile, func(c *gin.Context) { auth.PasswordResetRequest(c, d) })

		// POST /api/auth/password-reset-confirm	-> Sets a new password
		a.POST("/password-reset-confirm", func(c *gin.Context) { auth.PasswordResetConfirm(c, d) })

		// POST /api/auth/refresh		-> Trades the refresh cookie for an access token
		a.POST("/refresh", func(c *gin.Context) { auth.Refresh(c, d) })

		if d.Google != nil {
			// GET /api/auth/google		-> Starts Google sign-in
			a.GET("/google", func(c *gin.Context) { auth.GoogleStart(c, d) })

			// GET /api/auth/callback/google	-> Finishes Google sign-in
			a.GET("/callback/google", func(c *gin.Context) { auth.GoogleCallback(c, d) })
		}
	}

	u := m.Group("/users", jwt)
	{
		// GET /api/users/me		-> Returns the signed in user
		u.GET("/me", func(c *gin.Context) { user.UserFetch(c, d) })
	}

	ad := m.Group("/admin", jwt, middleware.RequireRole(model.RoleAdmin))
	{
		// GET /api/admin/logs		-> Pages through persisted error logs
		ad.GET("/logs", cache.CacheByRequestURI(cacheStore, 15*time.Second), func(c *gin.Context) { admin.LogsFetch(c, d) })

		// GET /api/admin/users		-> Pages through all accounts
		ad.GET("/users", func(c *gin.Context) { admin.UsersFetch(c, d) })

		// GET /api/admin/users/:id		-> Returns one account
		ad.GET("/users/:id", func(c *gin.Context) { admin.UserFetch(c, d) })

		// POST /api/admin/users		-> Creates a local account
		ad.POST("/users", middleware.BodySizeLimiter(cfg.Security.BodyLimit), func(c *gin.Context) { admin.UserCreate(c, d) })

		// PATCH /api/admin/users/:id		-> Changes name, role or verified flag
		ad.PATCH("/users/:id", middleware.BodySizeLimiter(cfg.Security.BodyLimit), func(c *gin.Context) { admin.UserUpdate(c, d) })

		// DELETE /api/admin/users/:id	-> Deletes an account and its cart
		ad.DELETE("/users/:id", func(c *gin.Context) { admin.UserDelete(c, d) })
	}

	return router
}
