package config

import (
	"ahaar-backend/internal/api/handlers"
	"ahaar-backend/internal/api/routes"
	"ahaar-backend/internal/middleware"
	"ahaar-backend/internal/utils"
	"ahaar-backend/internal/utils/mailing"
	"ahaar-backend/internal/utils/storage"
	"ahaar-backend/pkg/donation"
	"ahaar-backend/pkg/jwt"
	"ahaar-backend/pkg/ledger"
	"ahaar-backend/pkg/ngoprofile"
	"ahaar-backend/pkg/notification"
	"ahaar-backend/pkg/rating"
	"ahaar-backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	Repositories struct {
		User         user.UserRepository
		Rating       rating.RatingRepository
		Notification notification.NotificationRepository
		Donation     donation.DonationRepository
		NGOProfile   ngoprofile.NGOProfileRepository
		Ledger       ledger.LedgerRepository
	}

	// Dependencies are the external collaborators. S3 and Mailer may be nil
	// or unconfigured; the services degrade instead of failing.
	Dependencies struct {
		Log           logrus.FieldLogger
		JWTService    jwt.JWTService
		S3            storage.AwsS3
		Mailer        mailing.Mailer
		CORSOrigins   string
		SweepInterval time.Duration
	}

	App struct {
		Fiber   *fiber.App
		Sweeper *donation.Sweeper
	}
)

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		User:         user.NewUserRepository(db),
		Rating:       rating.NewRatingRepository(db),
		Notification: notification.NewNotificationRepository(db),
		Donation:     donation.NewDonationRepository(db),
		NGOProfile:   ngoprofile.NewNGOProfileRepository(db),
		Ledger:       ledger.NewLedgerRepository(db),
	}
}

func NewApp(db *gorm.DB, appLog *logrus.Logger) (*App, error) {
	interval, err := time.ParseDuration(utils.GetConfig("SWEEP_INTERVAL"))
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})

	// setting up logging and limiter
	err = os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT_MAX"),
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	s3, err := storage.NewAwsS3()
	if err != nil {
		return nil, err
	}
	if s3 == nil {
		appLog.Warn("AWS_S3_BUCKET not set, donation image uploads are disabled")
	}

	return Build(app, NewRepositories(db), Dependencies{
		Log:           appLog,
		JWTService:    jwt.NewJWTService(utils.GetConfig("JWT_SECRET")),
		S3:            s3,
		Mailer:        mailing.NewMailer(mailing.LoadMailConfig()),
		CORSOrigins:   utils.GetConfig("CORS_ALLOW_ORIGINS"),
		SweepInterval: interval,
	}), nil
}

// Build wires services, handlers and routes onto app. The sweeper is returned
// unstarted.
func Build(app *fiber.App, repos Repositories, deps Dependencies) *App {
	utils.InitValidator()
	validator := utils.Validate
	middlewares := middleware.NewMiddleware(deps.CORSOrigins)

	app.Use(recover.New())

	// Service
	notificationService := notification.NewNotificationService(repos.Notification, deps.Log)
	ratingService := rating.NewRatingService(repos.Rating, deps.Log)
	donationService := donation.NewDonationService(
		repos.Donation,
		repos.User,
		notificationService,
		ratingService,
		deps.S3,
		deps.Log,
	)
	profileService := ngoprofile.NewNGOProfileService(repos.NGOProfile, repos.User, deps.Log)
	ledgerService := ledger.NewLedgerService(
		repos.Ledger,
		repos.NGOProfile,
		repos.User,
		notificationService,
		deps.Mailer,
		deps.Log,
	)

	// Handler
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	profileHandler := handlers.NewNGOProfileHandler(profileService, ledgerService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(donationService, ratingService, ledgerService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		DonationHandler:     donationHandler,
		NGOProfileHandler:   profileHandler,
		NotificationHandler: notificationHandler,
		AdminHandler:        adminHandler,
		Middleware:          middlewares,
		JWTService:          deps.JWTService,
	}
	routesConfig.Setup()

	return &App{
		Fiber:   app,
		Sweeper: donation.NewSweeper(donationService, deps.SweepInterval, deps.Log),
	}
}
