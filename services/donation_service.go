package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/doarlabs/donation-ledger-go/metrics"
	models "github.com/doarlabs/donation-ledger-go/models"
	"github.com/doarlabs/donation-ledger-go/queue"
)

// DonationStore is the append-only donation write path.
type DonationStore interface {
	Insert(ctx context.Context, donation *models.Donation) (string, error)
}

// CampaignStore is the campaign ledger. UpsertIncrement must be a single
// atomic increment-or-create returning the post-image; that is what keeps
// concurrent donations to the same campaign from losing updates.
type CampaignStore interface {
	UpsertIncrement(ctx context.Context, campaignID string, delta float64, now time.Time) (*models.Campaign, error)
	SetIdentity(ctx context.Context, campaignID, name, collectorName string) error
	FindByID(ctx context.Context, campaignID string) (*models.Campaign, error)
	Insert(ctx context.Context, campaign *models.Campaign) error
}

// Publisher hands a donation event to the notification channel. It never
// returns: notification delivery can not fail a recorded donation.
type Publisher interface {
	Publish(evt queue.Event)
}

// DonationService is the ledger aggregation core. It ties the donation write
// to the campaign total and decouples the notification side effect.
type DonationService struct {
	donations  DonationStore
	campaigns  CampaignStore
	dispatcher Publisher
	log        zerolog.Logger
}

func NewDonationService(donations DonationStore, campaigns CampaignStore, dispatcher Publisher, log zerolog.Logger) *DonationService {
	return &DonationService{
		donations:  donations,
		campaigns:  campaigns,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "donation-service").Logger(),
	}
}

// RecordDonation validates the request, appends the donation, atomically
// bumps the campaign total (creating the campaign if needed) and publishes a
// best-effort notification. The returned total is the authoritative
// post-increment value.
//
// The donation insert and the campaign upsert are two independent atomic
// operations, not one transaction. If the upsert fails after the insert
// succeeded, the call fails and the orphaned donation is left for an
// out-of-band reconciliation pass.
func (s *DonationService) RecordDonation(ctx context.Context, req *models.DonationRequest) (*models.DonationResponse, error) {
	start := time.Now()
	status := "failed"
	defer func() {
		metrics.RecordDonationDuration(status, time.Since(start).Seconds())
	}()

	if verr := validateDonationRequest(req); verr != nil {
		s.log.Warn().Str("field", verr.Field).Msg(verr.Message)
		return nil, verr
	}

	now := time.Now()
	donatedAt := now
	if req.DonatedAt != nil {
		donatedAt = *req.DonatedAt
	}

	donation := &models.Donation{
		CampaignID:    req.CampaignID,
		Amount:        req.Amount,
		DonorName:     req.DonorName,
		PaymentMethod: req.PaymentMethod,
		DonatedAt:     donatedAt,
	}

	donationID, err := s.donations.Insert(ctx, donation)
	if err != nil {
		return nil, &StorageError{Op: "insert donation", Err: err}
	}

	snapshot, err := s.campaigns.UpsertIncrement(ctx, req.CampaignID, req.Amount, now)
	if err != nil {
		return nil, &StorageError{Op: "update campaign total", Err: err}
	}

	// Empty name means the upsert just created the document. The backfill is
	// a convenience write, not required for the total's correctness.
	if snapshot.Name == "" {
		if err := s.campaigns.SetIdentity(ctx, req.CampaignID,
			models.PlaceholderCampaignName(req.CampaignID), models.DefaultCollectorName); err != nil {
			s.log.Warn().Err(err).Str("campaign_id", req.CampaignID).Msg("could not backfill campaign identity")
		}
	}

	s.dispatcher.Publish(queue.Event{
		DonationID:    donationID,
		CampaignID:    req.CampaignID,
		Amount:        req.Amount,
		DonorName:     req.DonorName,
		PaymentMethod: req.PaymentMethod,
		DonatedAt:     donatedAt.UTC().Format(time.RFC3339),
	})

	status = "success"
	metrics.CountDonation(req.PaymentMethod)
	s.log.Info().
		Str("donation_id", donationID).
		Str("campaign_id", req.CampaignID).
		Float64("amount", req.Amount).
		Float64("total_donations", snapshot.TotalDonations).
		Msg("donation recorded")

	return &models.DonationResponse{
		DonationID:             donationID,
		CampaignID:             req.CampaignID,
		Amount:                 req.Amount,
		TotalCampaignDonations: snapshot.TotalDonations,
	}, nil
}

// validateDonationRequest fails fast, before any write, with a stable message
// naming the offending field.
func validateDonationRequest(req *models.DonationRequest) *ValidationError {
	if req.CampaignID == "" {
		return &ValidationError{Field: "campaignId", Message: "campaignId is required"}
	}
	if req.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be greater than 0"}
	}
	if req.DonorName == "" {
		return &ValidationError{Field: "donorName", Message: "donorName is required"}
	}
	if req.PaymentMethod == "" {
		return &ValidationError{Field: "paymentMethod", Message: "paymentMethod is required"}
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return &ValidationError{Field: "paymentMethod", Message: "paymentMethod must be one of credit_card, pix, bank_transfer"}
	}
	return nil
}
