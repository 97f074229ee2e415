// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/handlers"
	"github.com/focale-app/focale/app/middleware"
	"github.com/focale-app/focale/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups everything the router mounts
type Handlers struct {
	Auth      handlers.AuthHandlerInterface
	Client    handlers.ClientHandlerInterface
	EventType handlers.EventTypeHandlerInterface
	Template  handlers.TemplateHandlerInterface
	Link      handlers.ClientLinkHandlerInterface
	Contract  handlers.ContractHandlerInterface
	Gallery   handlers.GalleryHandlerInterface
	Audit     handlers.AuditHandlerInterface
	Portal    handlers.PortalHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app            *fiber.App
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	linkMiddleware *middleware.LinkMiddleware
	allowedOrigins []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, authMw *middleware.AuthMiddleware, linkMw *middleware.LinkMiddleware, allowedOrigins []string) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Focale API",
		ServerHeader: "Focale",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB, signatures arrive as data URLs
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:            app,
		handlers:       h,
		authMiddleware: authMw,
		linkMiddleware: linkMw,
		allowedOrigins: allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.handlers.Auth.Health)

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signup", r.handlers.Auth.Signup)
	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/refresh", r.handlers.Auth.RefreshToken)

	// Photographer routes, JWT protected
	protected := api.Group("", r.authMiddleware.Authenticate())

	protected.Post("/clients", r.handlers.Client.CreateClient)
	protected.Get("/clients", r.handlers.Client.ListClients)
	protected.Get("/clients/:id", r.handlers.Client.GetClient)
	protected.Put("/clients/:id", r.handlers.Client.UpdateClient)

	protected.Get("/event-types", r.handlers.EventType.ListEventTypes)
	protected.Post("/event-types", r.handlers.EventType.CreateEventType)
	protected.Get("/event-types/:id/questions", r.handlers.EventType.ListQuestions)
	protected.Put("/event-types/:id/questions", r.handlers.EventType.UpsertQuestion)

	protected.Get("/templates", r.handlers.Template.ListTemplates)
	protected.Post("/templates", r.handlers.Template.CreateTemplate)
	protected.Put("/templates/:id", r.handlers.Template.UpdateTemplate)
	protected.Post("/templates/:id/fork", r.handlers.Template.ForkTemplate)
	protected.Post("/templates/:id/preview", r.handlers.Template.PreviewTemplate)

	protected.Get("/variables", r.handlers.Template.ListVariables)
	protected.Post("/variables", r.handlers.Template.CreateVariable)
	protected.Put("/variables/:id", r.handlers.Template.UpdateVariable)

	protected.Post("/links", r.handlers.Link.CreateLink)
	protected.Get("/links", r.handlers.Link.ListLinks)
	protected.Get("/links/:id", r.handlers.Link.GetLink)
	protected.Post("/links/:id/revoke", r.handlers.Link.RevokeLink)

	protected.Post("/links/:id/contract/generate", r.handlers.Contract.GenerateContract)
	protected.Get("/links/:id/contract", r.handlers.Contract.GetContract)
	protected.Post("/links/:id/contract/validate", r.handlers.Contract.ValidateContract)
	protected.Get("/links/:id/contract/pdf", r.handlers.Contract.DownloadContractPDF)

	protected.Put("/galleries", r.handlers.Gallery.UpsertGallery)
	protected.Get("/galleries", r.handlers.Gallery.ListGalleries)
	protected.Get("/links/:id/gallery", r.handlers.Gallery.GetGallery)
	protected.Post("/links/:id/gallery/visibility", r.handlers.Gallery.SetVisibility)

	protected.Get("/audit-logs", r.handlers.Audit.ListLogs)
	protected.Get("/audit-logs/export", r.handlers.Audit.ExportLogs)

	// Client portal routes, authorized by the link token alone
	portal := api.Group("/client-portal/:token", r.linkMiddleware.ResolveLink())

	portal.Get("", r.handlers.Portal.Bootstrap)
	portal.Get("/questionnaire", r.handlers.Portal.GetQuestionnaire)
	portal.Put("/questionnaire", r.handlers.Portal.SaveQuestionnaireDraft)
	portal.Post("/questionnaire/validate", r.handlers.Portal.ValidateQuestionnaire)
	portal.Get("/contract", r.handlers.Portal.GetContract)
	portal.Post("/contract/sign", r.handlers.Portal.SignContract)
	portal.Get("/gallery", r.handlers.Portal.GetGallery)
	portal.Get("/export", r.handlers.Portal.ExportData)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for binary downloads
			contentType := c.Get("Content-Type")
			return strings.Contains(contentType, "image/") ||
				strings.Contains(contentType, "application/pdf")
		},
	}))

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks and metrics scrapes
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus metrics
	r.app.Use(middleware.Metrics())

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "Focale")

	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Rate limit response shared by all limiter groups
func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
