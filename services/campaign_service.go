package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	models "github.com/doarlabs/donation-ledger-go/models"
)

// CampaignService handles explicit campaign creation and reads.
type CampaignService struct {
	campaigns CampaignStore
	log       zerolog.Logger
}

func NewCampaignService(campaigns CampaignStore, log zerolog.Logger) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		log:       log.With().Str("component", "campaign-service").Logger(),
	}
}

// CreateCampaign creates a campaign with a zero total and a fresh random id.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if req.CollectorName == "" {
		return nil, &ValidationError{Field: "collectorName", Message: "collectorName is required"}
	}

	now := time.Now()
	campaign := &models.Campaign{
		CampaignID:     uuid.NewString(),
		Name:           req.Name,
		CollectorName:  req.CollectorName,
		TotalDonations: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.campaigns.Insert(ctx, campaign); err != nil {
		return nil, &StorageError{Op: "insert campaign", Err: err}
	}

	s.log.Info().
		Str("campaign_id", campaign.CampaignID).
		Str("name", campaign.Name).
		Msg("campaign created")

	return campaign, nil
}

// GetCampaign returns the campaign or ErrCampaignNotFound. No side effects.
func (s *CampaignService) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return nil, err
		}
		return nil, &StorageError{Op: "find campaign", Err: err}
	}
	return campaign, nil
}
