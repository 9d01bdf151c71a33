package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	models "github.com/doarlabs/donation-ledger-go/models"
	services "github.com/doarlabs/donation-ledger-go/services"
	utils "github.com/doarlabs/donation-ledger-go/utils"
)

// ---------------- CREATE ----------------
func CreateCampaign(svc *services.CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.CreateCampaignRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		campaign, err := svc.CreateCampaign(ctx, &input)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create campaign"})
			return
		}

		c.JSON(http.StatusCreated, campaign)
	}
}

// ---------------- GET ----------------
func GetCampaign(svc *services.CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		campaign, err := svc.GetCampaign(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrCampaignNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch campaign"})
			return
		}

		etag := utils.GenerateETag(campaign.CampaignID, campaign.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, campaign)
	}
}
