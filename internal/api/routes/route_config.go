package routes

import (
	"ahaar-backend/domain"
	"ahaar-backend/internal/api/handlers"
	"ahaar-backend/internal/metrics"
	"ahaar-backend/internal/middleware"
	"ahaar-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                 *fiber.App
	DonationHandler     handlers.DonationHandler
	NGOProfileHandler   handlers.NGOProfileHandler
	NotificationHandler handlers.NotificationHandler
	AdminHandler        handlers.AdminHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Donations()
	c.NGOProfiles()
	c.Notifications()
	c.Admin()
}

func (c *Config) GuestRoute() {
	c.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) Donations() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	donations := c.App.Group("/api/v1/donations")

	donations.Get("", c.DonationHandler.ListAvailable)
	donations.Post("", auth, c.DonationHandler.CreateDonation)
	donations.Get("/my", auth, c.DonationHandler.GetMyDonations)
	donations.Get("/claimed", auth, c.DonationHandler.GetClaimedDonations)
	donations.Get("/donor/:donorId", auth, c.DonationHandler.GetDonorProfile)
	donations.Get("/:id", auth, c.DonationHandler.GetDonationByID)
	donations.Put("/:id", auth, c.DonationHandler.UpdateDonation)
	donations.Delete("/:id", auth, c.DonationHandler.DeleteDonation)

	// lifecycle
	donations.Post("/:id/claim", auth, c.DonationHandler.ClaimDonation)
	donations.Post("/:id/complete", auth, c.DonationHandler.CompleteDonation)
	donations.Post("/:id/like", auth, c.DonationHandler.ToggleLike)
	donations.Post("/:id/feedback", auth, c.DonationHandler.SubmitFeedback)
}

func (c *Config) NGOProfiles() {
	profiles := c.App.Group("/api/v1/ngo-profiles", c.Middleware.AuthMiddleware(c.JWTService))
	profiles.Post("", c.NGOProfileHandler.CreateProfile)
	profiles.Get("", c.NGOProfileHandler.ListProfiles)
	profiles.Get("/ngo/:ngoId", c.NGOProfileHandler.GetProfileByNGO)
	profiles.Get("/:profileId", c.NGOProfileHandler.GetProfile)
	profiles.Post("/:profileId/needs", c.NGOProfileHandler.AddNeed)
	profiles.Delete("/:profileId/needs/:needId", c.NGOProfileHandler.RemoveNeed)
	profiles.Post("/:profileId/needs/:needId/donate", c.NGOProfileHandler.DonateToNeed)
	profiles.Get("/:profileId/donations", c.NGOProfileHandler.GetProfileDonations)

	moneyDonations := c.App.Group("/api/v1/money-donations", c.Middleware.AuthMiddleware(c.JWTService))
	moneyDonations.Get("/my", c.NGOProfileHandler.GetMyMoneyDonations)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Get("/unread-count", c.NotificationHandler.GetUnreadCount)
	notifications.Patch("/read-all", c.NotificationHandler.MarkAllAsRead)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkAsRead)
	notifications.Delete("/:id", c.NotificationHandler.DeleteNotification)
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.OnlyRoles(domain.RoleAdmin),
	)
	admin.Post("/ratings/recalculate", c.AdminHandler.RecalculateRatings)
	admin.Post("/likes/recount", c.AdminHandler.RecountLikes)
	admin.Post("/donations/sweep", c.AdminHandler.SweepExpired)
	admin.Post("/ledger/reconcile", c.AdminHandler.ReconcileLedger)
}
