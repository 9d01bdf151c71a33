package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	models "github.com/doarlabs/donation-ledger-go/models"
	services "github.com/doarlabs/donation-ledger-go/services"
)

// ---------------- RECORD ----------------
func RecordDonation(svc *services.DonationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.DonationRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := svc.RecordDonation(ctx, &input)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process donation"})
			return
		}

		c.JSON(http.StatusCreated, resp)
	}
}
