package api

import (
	"errors"
	"log"

	"github.com/campuslink/portal_service/config"
	"github.com/campuslink/portal_service/infra/queue"
	"github.com/campuslink/portal_service/internal/api/rest/handlers"
	"github.com/campuslink/portal_service/internal/api/rest/middleware"
	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/interfaces"
	"github.com/campuslink/portal_service/internal/repository"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/campuslink/portal_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260418

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := Migrate(db); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	if err := SeedAdmin(db, cfg); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	var up interfaces.Uploader
	cld, err := cloudinary.New()
	if err != nil {
		log.Printf("cloudinary init error (uploads disabled): %v", err)
	} else {
		up = cloudinary.NewCloudinaryUploader(cld)
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	pendingRepo := repository.NewPendingUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	activationRepo := repository.NewActivationRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	solutionRepo := repository.NewSolutionRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	// ---------- Services ----------
	otpSvc := services.NewOtpService(otpRepo, pendingRepo)
	userSvc := services.NewUserService(
		userRepo,
		pendingRepo,
		activationRepo,
		badgeRepo,
		otpSvc,
		authHelper,
		kafkaProducer,
		cfg.EmailDomain,
	)
	portalSvc := services.NewPortalService(uploadRepo, discussionRepo, solutionRepo, up)
	adminSvc := services.NewAdminService(announcementRepo, badgeRepo, userRepo)

	// ---------- Handlers ----------
	SetupRoutes(app, userSvc, portalSvc, adminSvc, authHelper)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.PendingUser{},
		&domain.OtpCode{},
		&domain.Upload{},
		&domain.Discussion{},
		&domain.Comment{},
		&domain.Solution{},
		&domain.Announcement{},
		&domain.Badge{},
		&domain.UserBadge{},
	)
}

// SeedAdmin provisions the single admin account. Idempotent: keyed on the
// configured admin email, it never overwrites an existing row.
func SeedAdmin(db *gorm.DB, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("admin seed skipped: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	var existing domain.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	username := cfg.AdminUsername
	if username == "" {
		username = "admin"
	}
	fullName := cfg.AdminFullName
	if fullName == "" {
		fullName = "Portal Admin"
	}

	admin := &domain.User{
		Username:     username,
		FullName:     fullName,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Verified:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("admin account seeded: %s", admin.Email)
	return nil
}

func SetupRoutes(
	app *fiber.App,
	userSvc services.UserService,
	portalSvc services.PortalService,
	adminSvc services.AdminService,
	authHelper helper.Auth,
) {
	authHandler := handlers.NewAuthHandler(userSvc, authHelper)
	profileHandler := handlers.NewProfileHandler(userSvc, authHelper)
	uploadHandler := handlers.NewUploadHandler(portalSvc, userSvc, authHelper)
	discussionHandler := handlers.NewDiscussionHandler(portalSvc, userSvc, authHelper)
	solutionHandler := handlers.NewSolutionHandler(portalSvc, userSvc, authHelper)
	adminHandler := handlers.NewAdminHandler(adminSvc, authHelper)

	requireAuth := middleware.AuthMiddleware(authHelper)
	adminOnly := middleware.AdminOnly(userSvc)

	api := app.Group("/api")

	// =========================
	// AUTH
	// =========================
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOtp)
	auth.Post("/resend-otp", authHandler.ResendOtp)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/user", requireAuth, authHandler.CurrentUser)

	// =========================
	// PROFILE
	// =========================
	api.Put("/profile", requireAuth, profileHandler.UpdateProfile)
	api.Get("/profile/:userID", requireAuth, profileHandler.GetProfile)

	// =========================
	// UPLOADS
	// =========================
	uploads := api.Group("/uploads", requireAuth)
	uploads.Post("/", uploadHandler.Create)
	uploads.Get("/", uploadHandler.List)
	uploads.Delete("/:id", uploadHandler.Delete)
	uploads.Patch("/:id/approve", adminOnly, uploadHandler.Approve)

	// =========================
	// DISCUSSIONS
	// =========================
	discussions := api.Group("/discussions", requireAuth)
	discussions.Post("/", discussionHandler.Create)
	discussions.Get("/", discussionHandler.List)
	discussions.Get("/:id", discussionHandler.Get)
	discussions.Delete("/:id", discussionHandler.Delete)
	discussions.Post("/:id/comments", discussionHandler.AddComment)
	discussions.Delete("/comments/:commentID", discussionHandler.DeleteComment)

	// =========================
	// SOLUTIONS
	// =========================
	solutions := api.Group("/solutions", requireAuth)
	solutions.Post("/", solutionHandler.Create)
	solutions.Get("/", solutionHandler.List)
	solutions.Delete("/:id", solutionHandler.Delete)
	solutions.Patch("/:id/approve", adminOnly, solutionHandler.Approve)

	// =========================
	// ANNOUNCEMENTS (read open, write admin)
	// =========================
	api.Get("/announcements", adminHandler.ListAnnouncements)
	api.Post("/announcements", requireAuth, adminOnly, adminHandler.CreateAnnouncement)
	api.Put("/announcements/:id", requireAuth, adminOnly, adminHandler.UpdateAnnouncement)
	api.Delete("/announcements/:id", requireAuth, adminOnly, adminHandler.DeleteAnnouncement)

	// =========================
	// BADGES (read open, write admin)
	// =========================
	api.Get("/badges", adminHandler.ListBadges)
	api.Post("/badges", requireAuth, adminOnly, adminHandler.CreateBadge)
	api.Delete("/badges/:id", requireAuth, adminOnly, adminHandler.DeleteBadge)
	api.Post("/badges/:id/award", requireAuth, adminOnly, adminHandler.AwardBadge)
}
