package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/middleware"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// Handlers groups every route handler of the gateway
type Handlers struct {
	Listing   *ListingHandler
	Auth      *AuthHandler
	Business  *BusinessHandler
	Checkout  *CheckoutHandler
	Dashboard *DashboardHandler
	Admin     *AdminHandler
	Legal     *LegalHandler
}

// RegisterRoutes mounts the gateway routes on r. r must already run the
// session middleware. authLimit guards the credential endpoints and may be nil.
func RegisterRoutes(r gin.IRouter, h Handlers, authLimit gin.HandlerFunc, logger *logrus.Logger) {
	requireAuth := middleware.RequireAuth(logger)

	// Public views
	r.GET("/", h.Listing.Home)
	r.GET("/businesses", h.Listing.Businesses)
	r.GET("/business/:id", h.Listing.BusinessDetail)
	r.GET("/apartments", h.Listing.Apartments)
	r.GET("/events", h.Listing.Events)
	r.GET("/terms", h.Legal.Terms)
	r.GET("/privacy-policy", h.Legal.PrivacyPolicy)
	r.GET("/session", h.Auth.Session)
	r.GET("/verify-email", h.Auth.VerifyEmail)

	// Credential endpoints
	credentials := r.Group("")
	if authLimit != nil {
		credentials.Use(authLimit)
	}
	{
		credentials.POST("/register", h.Auth.Register)
		credentials.POST("/login", h.Auth.Login)
	}
	r.POST("/logout", h.Auth.Logout)

	// Signed-in actions
	signedIn := r.Group("")
	signedIn.Use(requireAuth)
	{
		signedIn.POST("/business/:id/reviews", h.Business.CreateReview)
		signedIn.POST("/business/:id/appointments", h.Business.BookAppointment)

		signedIn.POST("/apartments", h.Checkout.CreateApartment)
		signedIn.POST("/events", h.Checkout.CreateEvent)
		signedIn.GET("/checkouts", h.Checkout.ListCheckouts)
		signedIn.POST("/checkouts/:id/retry-payment", h.Checkout.RetryPayment)
		signedIn.GET("/payment/success", h.Checkout.PaymentSuccess)
		signedIn.GET("/payment/cancel", h.Checkout.PaymentCancel)

		signedIn.GET("/subscription/success", h.Dashboard.SubscriptionSuccess)
		signedIn.GET("/subscription/cancel", h.Dashboard.SubscriptionCancel)
	}

	// Business owner dashboard
	dashboard := r.Group("/dashboard")
	dashboard.Use(requireAuth, middleware.RequireRole(models.RoleBusinessOwner))
	{
		dashboard.GET("", h.Dashboard.Dashboard)
		dashboard.POST("/business", h.Business.CreateBusiness)
		dashboard.POST("/subscription", h.Dashboard.StartSubscription)
		dashboard.POST("/subscription/cancel", h.Dashboard.CancelSubscription)
		dashboard.GET("/appointments", h.Business.Appointments)
		dashboard.GET("/photos", h.Dashboard.Photos)
		dashboard.POST("/photos", h.Dashboard.UploadPhotos)
		dashboard.DELETE("/photos/:id", h.Dashboard.DeletePhoto)
	}

	// Moderation
	admin := r.Group("/admin")
	admin.Use(requireAuth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("", h.Admin.Dashboard)
		admin.PUT("/businesses/:id/approve", h.Admin.ApproveBusiness)
		admin.PUT("/businesses/:id/reject", h.Admin.RejectBusiness)
		admin.PUT("/reviews/:id/approve", h.Admin.ApproveReview)
		admin.POST("/promote", h.Admin.PromoteUser)
	}
}
