package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/services-marketplace/internal/config"
	"github.com/ignatzorin/services-marketplace/internal/http/handlers"
	"github.com/ignatzorin/services-marketplace/internal/http/middleware"
)

func SetupRouter(
	cfg *config.Config,
	jobHandler *handlers.JobHandler,
	quoteHandler *handlers.QuoteHandler,
	awardHandler *handlers.AwardHandler,
	milestoneHandler *handlers.MilestoneHandler,
	disputeHandler *handlers.DisputeHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Публичные маршруты
	api.GET("/jobs", jobHandler.ListAvailableJobs)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.GetJob)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты, идентичность ставит доверенный шлюз
	protected := api.Group("/")
	protected.Use(middleware.IdentityMiddleware())
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		protected.POST("/jobs", jobHandler.CreateJob)
		protected.GET("/jobs/my", jobHandler.ListMyJobs)
		protected.GET("/jobs/assigned", quoteHandler.ListAssignedJobs)
		protected.PUT("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.UpdateJob)
		protected.DELETE("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.DeleteJob)

		protected.POST("/jobs/:id/quotes", middleware.UUIDValidator("id"), quoteHandler.SubmitQuote)
		protected.PUT("/jobs/:id/quotes/:quoteId/status", middleware.UUIDValidator("id"), middleware.UUIDValidator("quoteId"), quoteHandler.SetQuoteStatus)
		protected.DELETE("/jobs/:id/quotes/:quoteId", middleware.UUIDValidator("id"), middleware.UUIDValidator("quoteId"), quoteHandler.RejectQuote)
		protected.GET("/quotes/my", quoteHandler.ListMyQuotes)

		protected.POST("/jobs/:id/award", middleware.UUIDValidator("id"), awardHandler.Award)
		protected.POST("/jobs/:id/award/accept", middleware.UUIDValidator("id"), awardHandler.AcceptAward)
		protected.POST("/jobs/:id/award/reject", middleware.UUIDValidator("id"), awardHandler.RejectAward)

		protected.POST("/jobs/:id/milestones", middleware.UUIDValidator("id"), milestoneHandler.AddMilestone)
		protected.DELETE("/jobs/:id/milestones/:milestoneId", middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), milestoneHandler.DeleteMilestone)
		protected.POST("/jobs/:id/milestones/:milestoneId/accept", middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), milestoneHandler.AcceptMilestone)
		protected.PUT("/jobs/:id/milestones/:milestoneId/status", middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), milestoneHandler.SetMilestoneStatus)

		protected.POST("/jobs/:id/milestones/:milestoneId/dispute", middleware.UUIDValidator("id"), middleware.UUIDValidator("milestoneId"), disputeHandler.CreateDispute)
		protected.GET("/disputes/my", disputeHandler.ListMyDisputes)
		protected.GET("/disputes/:id", middleware.UUIDValidator("id"), disputeHandler.GetDispute)
		protected.POST("/disputes/:id/messages", middleware.UUIDValidator("id"), disputeHandler.AddMessage)
		protected.POST("/disputes/:id/offers", middleware.UUIDValidator("id"), disputeHandler.MakeOffer)
		protected.POST("/disputes/:id/resolve", middleware.UUIDValidator("id"), disputeHandler.ResolveDispute)
	}

	return r
}
