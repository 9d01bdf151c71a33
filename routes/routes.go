package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	controllers "github.com/doarlabs/donation-ledger-go/controllers"
	services "github.com/doarlabs/donation-ledger-go/services"
)

func SetupRoutes(r *gin.Engine, donations *services.DonationService, campaigns *services.CampaignService, client *mongo.Client) {
	// operational
	r.GET("/healthz", controllers.Health(client))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// campaigns
	camps := r.Group("/campaigns")
	{
		camps.POST("", controllers.CreateCampaign(campaigns))
		camps.GET("/:id", controllers.GetCampaign(campaigns))
	}

	// donations
	r.POST("/donations", controllers.RecordDonation(donations))
}
