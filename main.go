// Package main provides the main entry point for the Focale photography business API
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focale-app/focale/app/handlers"
	"github.com/focale-app/focale/app/middleware"
	"github.com/focale-app/focale/app/router"
	"github.com/focale-app/focale/app/scheduler"
	"github.com/focale-app/focale/app/services"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/focale-app/focale/config"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Focale application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogOutput(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogOutput directs the standard logger to stdout, a rotated file, or both
func setupLogOutput(cfg config.LoggingConfig) {
	if cfg.Output != "file" && cfg.Output != "both" {
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
		return
	}
	log.SetOutput(fileWriter)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Photographer{},
		&models.Client{},
		&models.EventType{},
		&models.Question{},
		&models.ClientLink{},
		&models.QuestionnaireResponse{},
		&models.ContractTemplate{},
		&models.CustomVariable{},
		&models.Contract{},
		&models.Signature{},
		&models.Gallery{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// Returns nil when caching is disabled; link resolution then always hits the
// database.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// initializeEmailProvider picks SMTP when configured, otherwise a mock that
// logs instead of sending
func initializeEmailProvider(cfg config.EmailConfig) services.EmailProvider {
	if cfg.Host == "" {
		log.Println("EMAIL_HOST not set, emails will be logged instead of sent")
		return services.NewMockEmailProvider()
	}
	return services.NewSMTPEmailProvider(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.FromEmail, cfg.FromName)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	// Seed system event types, their questionnaires, and default templates
	if err := ensureSystemData(db); err != nil {
		return nil, err
	}

	// Initialize repositories
	photographerRepo := repository.NewPhotographerRepository(db)
	clientRepo := repository.NewClientRepository(db)
	eventTypeRepo := repository.NewEventTypeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	questionnaireRepo := repository.NewQuestionnaireResponseRepository(db)
	linkRepo := repository.NewClientLinkRepository(db)
	templateRepo := repository.NewContractTemplateRepository(db)
	variableRepo := repository.NewCustomVariableRepository(db)
	contractRepo := repository.NewContractRepository(db)
	signatureRepo := repository.NewSignatureRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(initializeEmailProvider(cfg.Email))

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		false,
		"",
		"",
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	linkTokenService := services.NewLinkTokenService()
	linkCache := services.NewRedisLinkCache(rc, time.Duration(cfg.Security.LinkCacheTTLSeconds)*time.Second)
	pdfRenderer := services.NewWkhtmltopdfRenderer(cfg.PDF.BinaryPath, cfg.PDF.OutputDir)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(
		photographerRepo,
		auditRepo,
		tokenService,
		notificationService,
		db,
	)

	clientFlow := businessflow.NewClientFlow(clientRepo, db)

	eventTypeFlow := businessflow.NewEventTypeFlow(
		eventTypeRepo,
		questionRepo,
		db,
	)

	questionnaireFlow := businessflow.NewQuestionnaireFlow(
		questionRepo,
		questionnaireRepo,
		eventTypeRepo,
		auditRepo,
		notificationService,
		db,
	)

	linkFlow := businessflow.NewClientLinkFlow(
		linkRepo,
		clientRepo,
		eventTypeRepo,
		questionnaireRepo,
		contractRepo,
		galleryRepo,
		auditRepo,
		linkTokenService,
		linkCache,
		notificationService,
		cfg.Portal.BaseURL,
		db,
	)

	templateFlow := businessflow.NewTemplateFlow(
		templateRepo,
		variableRepo,
		linkRepo,
		photographerRepo,
		questionnaireRepo,
		auditRepo,
		db,
	)

	contractFlow := businessflow.NewContractFlow(
		contractRepo,
		signatureRepo,
		templateRepo,
		variableRepo,
		linkRepo,
		photographerRepo,
		questionnaireRepo,
		auditRepo,
		pdfRenderer,
		notificationService,
		cfg.Portal.BaseURL,
		db,
	)

	galleryFlow := businessflow.NewGalleryFlow(
		galleryRepo,
		contractRepo,
		linkRepo,
		auditRepo,
		db,
	)

	portalFlow := businessflow.NewPortalFlow(
		questionnaireRepo,
		contractRepo,
		galleryRepo,
		auditRepo,
		questionnaireFlow,
		contractFlow,
		galleryFlow,
		db,
	)

	auditFlow := businessflow.NewAuditFlow(auditRepo, db)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	linkMiddleware := middleware.NewLinkMiddleware(linkFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(
		router.Handlers{
			Auth:      handlers.NewAuthHandler(authFlow),
			Client:    handlers.NewClientHandler(clientFlow),
			EventType: handlers.NewEventTypeHandler(eventTypeFlow),
			Template:  handlers.NewTemplateHandler(templateFlow),
			Link:      handlers.NewClientLinkHandler(linkFlow),
			Contract:  handlers.NewContractHandler(contractFlow),
			Gallery:   handlers.NewGalleryHandler(galleryFlow),
			Audit:     handlers.NewAuditHandler(auditFlow),
			Portal:    handlers.NewPortalHandler(portalFlow, questionnaireFlow, contractFlow, galleryFlow),
		},
		authMiddleware,
		linkMiddleware,
		cfg.Security.AllowedOrigins,
	)

	if cfg.Retention.Enabled {
		sched := scheduler.NewRetentionScheduler(auditFlow, log.Default(), cfg.Retention.CleanupInterval, cfg.Retention.Years)
		stopScheduler := sched.Start(context.Background())
		stopFuncs = append(stopFuncs, stopScheduler)
	}

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureSystemData seeds the built-in event types, their questionnaire
// definitions, and the default contract templates every tenant starts from.
// Safe to run on every boot; existing rows are left untouched.
func ensureSystemData(db *gorm.DB) error {
	eventTypeRepo := repository.NewEventTypeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	templateRepo := repository.NewContractTemplateRepository(db)

	for _, seed := range systemEventTypeSeeds() {
		if err := ensureSystemEventType(eventTypeRepo, questionRepo, seed); err != nil {
			return err
		}
	}

	return ensureSystemTemplates(eventTypeRepo, templateRepo)
}

type eventTypeSeed struct {
	name      string
	label     string
	icon      string
	sortOrder int
	questions []models.Question
}

func systemEventTypeSeeds() []eventTypeSeed {
	return []eventTypeSeed{
		{
			name:      "wedding",
			label:     "Mariage",
			icon:      "rings",
			sortOrder: 1,
			questions: []models.Question{
				{Key: "ceremony_date", Label: "Date de la cérémonie", FieldType: "date", IsRequired: utils.ToPtr(true), SortOrder: 1},
				{Key: "ceremony_venue", Label: "Lieu de la cérémonie", FieldType: "text", IsRequired: utils.ToPtr(true), SortOrder: 2},
				{Key: "guest_count", Label: "Nombre d'invités", FieldType: "number", SortOrder: 3},
				{Key: "reception_venue", Label: "Lieu de la réception", FieldType: "text", SortOrder: 4},
				{Key: "second_shooter", Label: "Souhaitez-vous un second photographe ?", FieldType: "select", Options: pq.StringArray{"oui", "non"}, SortOrder: 5},
				{Key: "second_shooter_scope", Label: "Moments couverts par le second photographe", FieldType: "textarea", SortOrder: 6,
					DependsOnKey: utils.ToPtr("second_shooter"), DependsOnValue: utils.ToPtr("oui")},
			},
		},
		{
			name:      "portrait",
			label:     "Portrait",
			icon:      "camera",
			sortOrder: 2,
			questions: []models.Question{
				{Key: "session_date", Label: "Date de la séance", FieldType: "date", IsRequired: utils.ToPtr(true), SortOrder: 1},
				{Key: "location_type", Label: "Type de lieu", FieldType: "select", Options: pq.StringArray{"studio", "extérieur", "domicile"}, IsRequired: utils.ToPtr(true), SortOrder: 2},
				{Key: "people_count", Label: "Nombre de personnes", FieldType: "number", SortOrder: 3},
			},
		},
		{
			name:      "newborn",
			label:     "Naissance",
			icon:      "baby",
			sortOrder: 3,
			questions: []models.Question{
				{Key: "due_date", Label: "Date prévue de naissance", FieldType: "date", IsRequired: utils.ToPtr(true), SortOrder: 1},
				{Key: "siblings", Label: "Frères et sœurs présents ?", FieldType: "select", Options: pq.StringArray{"oui", "non"}, SortOrder: 2},
			},
		},
		{
			name:      "corporate",
			label:     "Entreprise",
			icon:      "briefcase",
			sortOrder: 4,
			questions: []models.Question{
				{Key: "event_date", Label: "Date de l'événement", FieldType: "date", IsRequired: utils.ToPtr(true), SortOrder: 1},
				{Key: "company_name", Label: "Nom de l'entreprise", FieldType: "text", IsRequired: utils.ToPtr(true), SortOrder: 2},
				{Key: "usage_rights", Label: "Utilisation des images", FieldType: "select", Options: pq.StringArray{"interne", "communication externe", "les deux"}, SortOrder: 3},
			},
		},
		{
			name:      "other",
			label:     "Autre",
			icon:      "sparkles",
			sortOrder: 5,
			questions: []models.Question{
				{Key: "project_description", Label: "Décrivez votre projet", FieldType: "textarea", IsRequired: utils.ToPtr(true), SortOrder: 1},
				{Key: "preferred_date", Label: "Date souhaitée", FieldType: "date", SortOrder: 2},
			},
		},
	}
}

func ensureSystemEventType(
	eventTypeRepo repository.EventTypeRepository,
	questionRepo repository.QuestionRepository,
	seed eventTypeSeed,
) error {
	existing, err := eventTypeRepo.SystemByName(context.Background(), seed.name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	eventType := models.EventType{
		Name:      seed.name,
		Label:     seed.label,
		Icon:      utils.ToPtr(seed.icon),
		IsSystem:  utils.ToPtr(true),
		SortOrder: seed.sortOrder,
	}
	if err := eventTypeRepo.Save(context.Background(), &eventType); err != nil {
		return err
	}

	questions := make([]*models.Question, 0, len(seed.questions))
	for i := range seed.questions {
		q := seed.questions[i]
		q.EventTypeID = eventType.ID
		questions = append(questions, &q)
	}
	if len(questions) == 0 {
		return nil
	}
	return questionRepo.SaveBatch(context.Background(), questions)
}

func ensureSystemTemplates(
	eventTypeRepo repository.EventTypeRepository,
	templateRepo repository.ContractTemplateRepository,
) error {
	isSystem := true
	existing, err := templateRepo.ByFilter(context.Background(), models.ContractTemplateFilter{IsSystem: &isSystem}, "", 1, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	// Generic template applies to any event type when no better match exists
	generic := models.ContractTemplate{
		Name:      "Contrat de prestation photographique",
		Content:   systemGenericTemplateContent,
		IsSystem:  utils.ToPtr(true),
		IsDefault: utils.ToPtr(true),
	}
	if err := templateRepo.Save(context.Background(), &generic); err != nil {
		return err
	}

	wedding, err := eventTypeRepo.SystemByName(context.Background(), "wedding")
	if err != nil {
		return err
	}
	if wedding == nil {
		return nil
	}

	weddingTemplate := models.ContractTemplate{
		EventTypeID: &wedding.ID,
		Name:        "Contrat de reportage mariage",
		Content:     systemWeddingTemplateContent,
		IsSystem:    utils.ToPtr(true),
		IsDefault:   utils.ToPtr(true),
	}
	return templateRepo.Save(context.Background(), &weddingTemplate)
}

const systemGenericTemplateContent = `CONTRAT DE PRESTATION PHOTOGRAPHIQUE

Entre {{photographer_name}} ({{photographer_email}}), ci-après "le Photographe",
et {{client_name}} ({{client_email}}), ci-après "le Client".

Article 1 - Objet
Le Photographe s'engage à réaliser une prestation photographique de type
{{event_type}} pour le compte du Client.

Article 2 - Date
La prestation aura lieu le {{event_date}}.

Article 3 - Droits d'utilisation
Les images livrées sont destinées à un usage privé du Client. Toute
utilisation commerciale fera l'objet d'un accord séparé.

Fait le {{current_date}}.
`

const systemWeddingTemplateContent = `CONTRAT DE REPORTAGE MARIAGE

Entre {{photographer_name}} ({{photographer_email}}), ci-après "le Photographe",
et {{client_name}} ({{client_email}}), ci-après "le Client".

Article 1 - Objet
Le Photographe assurera le reportage photographique du mariage du Client.

Article 2 - Déroulement
La cérémonie aura lieu le {{ceremony_date}} à {{ceremony_venue}}.

Article 3 - Livraison
Les photographies retouchées seront livrées via une galerie en ligne
accessible au Client.

Article 4 - Droits d'utilisation
Les images livrées sont destinées à un usage privé du Client.

Fait le {{current_date}}.
`
