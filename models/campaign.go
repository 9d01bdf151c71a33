package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Placeholder identity for campaigns created implicitly by a donation.
const DefaultCollectorName = "Default Collector"

// PlaceholderCampaignName returns the deterministic name given to a campaign
// materialized by its first donation.
func PlaceholderCampaignName(campaignID string) string {
	return fmt.Sprintf("Campaign %s", campaignID)
}

type Campaign struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CampaignID     string             `bson:"campaign_id" json:"campaignId"`
	Name           string             `bson:"name" json:"name"`
	CollectorName  string             `bson:"collector_name" json:"collectorName"`
	TotalDonations float64            `bson:"total_donations" json:"totalDonations"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateCampaignRequest is the create-campaign request body.
type CreateCampaignRequest struct {
	Name          string `json:"name"`
	CollectorName string `json:"collectorName"`
}
