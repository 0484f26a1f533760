package router

import (
	"fmt"
	"strings"

	"github.com/taxepay/internal/cache"
	"github.com/taxepay/internal/config"
	"github.com/taxepay/internal/constants"
	consolehandlers "github.com/taxepay/internal/http/handlers/console"
	publichandlers "github.com/taxepay/internal/http/handlers/public"
	"github.com/taxepay/internal/logger"
	"github.com/taxepay/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	consoleHandler := consolehandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tp"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	initiateRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:initiate", redisPrefix),
		WindowSeconds: cfg.Security.InitiateRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.InitiateRateLimit.MaxAttempts,
		Message:       "too many payment attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), consoleHandler.Login)
		}

		payments := api.Group("/payments")
		{
			// taxpayer-facing, no auth
			payments.POST("/initiate", RateLimitMiddleware(redisClient, initiateRule, KeyByIP), publicHandler.InitiatePayment)
			payments.POST("/callback", publicHandler.PaymentCallback)
			payments.GET("/network", publicHandler.DetectNetwork)

			authorized := payments.Group("")
			authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
			{
				authorized.GET("",
					RequirePermission(c.AuthzService, constants.AuthzObjectPayments, constants.AuthzActionView),
					consoleHandler.ListPayments)
				authorized.GET("/:id",
					RequirePermission(c.AuthzService, constants.AuthzObjectPayments, constants.AuthzActionView),
					consoleHandler.GetPayment)
				authorized.POST("/:id/send-receipt",
					RequirePermission(c.AuthzService, constants.AuthzObjectPayments, constants.AuthzActionSendReceipt),
					consoleHandler.SendReceipt)
			}
		}

		operators := api.Group("/operators")
		operators.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			operators.GET("",
				RequirePermission(c.AuthzService, constants.AuthzObjectOperators, constants.AuthzActionView),
				consoleHandler.ListOperators)
		}

		audit := api.Group("/audit")
		audit.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			audit.GET("",
				RequirePermission(c.AuthzService, constants.AuthzObjectAudit, constants.AuthzActionView),
				consoleHandler.ListAuditLogs)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
