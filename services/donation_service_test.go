package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/doarlabs/donation-ledger-go/models"
	"github.com/doarlabs/donation-ledger-go/queue"
)

type fakeDonationStore struct {
	mu        sync.Mutex
	donations []models.Donation
	failWith  error
}

func (f *fakeDonationStore) Insert(_ context.Context, d *models.Donation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	d.ID = primitive.NewObjectID()
	f.donations = append(f.donations, *d)
	return d.ID.Hex(), nil
}

func (f *fakeDonationStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.donations)
}

type fakeCampaignStore struct {
	mu        sync.Mutex
	campaigns map[string]*models.Campaign
	backfills []string
	failWith  error
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{campaigns: map[string]*models.Campaign{}}
}

func (f *fakeCampaignStore) UpsertIncrement(_ context.Context, campaignID string, delta float64, now time.Time) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	c, ok := f.campaigns[campaignID]
	if !ok {
		c = &models.Campaign{CampaignID: campaignID, CreatedAt: now}
		f.campaigns[campaignID] = c
	}
	c.TotalDonations += delta
	c.UpdatedAt = now
	snapshot := *c
	return &snapshot, nil
}

func (f *fakeCampaignStore) SetIdentity(_ context.Context, campaignID, name, collectorName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok || c.Name != "" {
		return nil
	}
	c.Name = name
	c.CollectorName = collectorName
	f.backfills = append(f.backfills, campaignID)
	return nil
}

func (f *fakeCampaignStore) FindByID(_ context.Context, campaignID string) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil, ErrCampaignNotFound
	}
	snapshot := *c
	return &snapshot, nil
}

func (f *fakeCampaignStore) Insert(_ context.Context, campaign *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	snapshot := *campaign
	f.campaigns[campaign.CampaignID] = &snapshot
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (f *fakePublisher) Publish(evt queue.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
}

func newTestService() (*DonationService, *fakeDonationStore, *fakeCampaignStore, *fakePublisher) {
	donations := &fakeDonationStore{}
	campaigns := newFakeCampaignStore()
	pub := &fakePublisher{}
	svc := NewDonationService(donations, campaigns, pub, zerolog.Nop())
	return svc, donations, campaigns, pub
}

func validRequest() *models.DonationRequest {
	return &models.DonationRequest{
		CampaignID:    "camp-1",
		Amount:        50.00,
		DonorName:     "Gabriel",
		PaymentMethod: models.PaymentPix,
	}
}

func TestRecordDonation_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.DonationRequest)
		field   string
		message string
	}{
		{"missing campaignId", func(r *models.DonationRequest) { r.CampaignID = "" }, "campaignId", "campaignId is required"},
		{"zero amount", func(r *models.DonationRequest) { r.Amount = 0 }, "amount", "amount must be greater than 0"},
		{"negative amount", func(r *models.DonationRequest) { r.Amount = -10 }, "amount", "amount must be greater than 0"},
		{"missing donorName", func(r *models.DonationRequest) { r.DonorName = "" }, "donorName", "donorName is required"},
		{"missing paymentMethod", func(r *models.DonationRequest) { r.PaymentMethod = "" }, "paymentMethod", "paymentMethod is required"},
		{"unknown paymentMethod", func(r *models.DonationRequest) { r.PaymentMethod = "cash" }, "paymentMethod", "paymentMethod must be one of credit_card, pix, bank_transfer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, donations, campaigns, pub := newTestService()
			req := validRequest()
			tc.mutate(req)

			_, err := svc.RecordDonation(context.Background(), req)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
			if verr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, verr.Message)
			}
			// fail-fast: no writes, no events
			if donations.count() != 0 {
				t.Fatalf("expected no donation writes, got %d", donations.count())
			}
			if len(campaigns.campaigns) != 0 {
				t.Fatalf("expected no campaign writes, got %d", len(campaigns.campaigns))
			}
			if len(pub.events) != 0 {
				t.Fatalf("expected no events, got %d", len(pub.events))
			}
		})
	}
}

func TestRecordDonation_TotalsAccumulate(t *testing.T) {
	svc, _, _, _ := newTestService()

	resp, err := svc.RecordDonation(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("first donation: %v", err)
	}
	if resp.TotalCampaignDonations != 50.00 {
		t.Fatalf("expected total 50.00, got %v", resp.TotalCampaignDonations)
	}

	second := validRequest()
	second.Amount = 100.00
	second.DonorName = "Maria"
	second.PaymentMethod = models.PaymentCreditCard

	resp, err = svc.RecordDonation(context.Background(), second)
	if err != nil {
		t.Fatalf("second donation: %v", err)
	}
	if resp.TotalCampaignDonations != 150.00 {
		t.Fatalf("expected total 150.00, got %v", resp.TotalCampaignDonations)
	}
	if resp.DonationID == "" {
		t.Fatal("expected a donation id")
	}
}

func TestRecordDonation_AutoCreatesCampaign(t *testing.T) {
	svc, _, campaigns, _ := newTestService()

	req := validRequest()
	req.CampaignID = "camp-9"
	req.Amount = 75.50

	resp, err := svc.RecordDonation(context.Background(), req)
	if err != nil {
		t.Fatalf("donation: %v", err)
	}
	if resp.TotalCampaignDonations != 75.50 {
		t.Fatalf("expected total 75.50, got %v", resp.TotalCampaignDonations)
	}

	c, err := campaigns.FindByID(context.Background(), "camp-9")
	if err != nil {
		t.Fatalf("expected campaign to exist: %v", err)
	}
	if c.Name != "Campaign camp-9" {
		t.Fatalf("expected placeholder name, got %q", c.Name)
	}
	if c.CollectorName != "Default Collector" {
		t.Fatalf("expected placeholder collector, got %q", c.CollectorName)
	}
}

func TestRecordDonation_BackfillSkipsExplicitCampaign(t *testing.T) {
	svc, _, campaigns, _ := newTestService()
	campaigns.Insert(context.Background(), &models.Campaign{
		CampaignID:    "camp-1",
		Name:          "Bairro X",
		CollectorName: "Joana Silva",
	})

	if _, err := svc.RecordDonation(context.Background(), validRequest()); err != nil {
		t.Fatalf("donation: %v", err)
	}

	c, _ := campaigns.FindByID(context.Background(), "camp-1")
	if c.Name != "Bairro X" || c.CollectorName != "Joana Silva" {
		t.Fatalf("identity overwritten: %q / %q", c.Name, c.CollectorName)
	}
	if len(campaigns.backfills) != 0 {
		t.Fatalf("expected no backfill, got %v", campaigns.backfills)
	}
}

func TestRecordDonation_ConcurrentSameCampaign(t *testing.T) {
	svc, _, _, _ := newTestService()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.Amount = float64(i + 1)
			if _, err := svc.RecordDonation(context.Background(), req); err != nil {
				t.Errorf("donation %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	resp, err := svc.RecordDonation(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("final donation: %v", err)
	}
	// 1+2+...+50 plus the final 50.00
	want := float64(workers*(workers+1))/2 + 50.00
	if resp.TotalCampaignDonations != want {
		t.Fatalf("expected total %v, got %v", want, resp.TotalCampaignDonations)
	}
}

func TestRecordDonation_DonationWriteFailure(t *testing.T) {
	svc, donations, campaigns, pub := newTestService()
	donations.failWith = fmt.Errorf("write concern error")

	_, err := svc.RecordDonation(context.Background(), validRequest())

	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(campaigns.campaigns) != 0 {
		t.Fatal("campaign total must not move when the donation write fails")
	}
	if len(pub.events) != 0 {
		t.Fatal("no event may be published on failure")
	}
}

func TestRecordDonation_UpsertFailure(t *testing.T) {
	svc, _, campaigns, pub := newTestService()
	campaigns.failWith = fmt.Errorf("primary stepped down")

	_, err := svc.RecordDonation(context.Background(), validRequest())

	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no event may be published on failure")
	}
}

func TestRecordDonation_PublishesEvent(t *testing.T) {
	svc, _, _, pub := newTestService()

	donatedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	req := validRequest()
	req.DonatedAt = &donatedAt

	resp, err := svc.RecordDonation(context.Background(), req)
	if err != nil {
		t.Fatalf("donation: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.DonationID != resp.DonationID {
		t.Fatalf("event donation id %q != response %q", evt.DonationID, resp.DonationID)
	}
	if evt.DonatedAt != "2025-03-01T12:00:00Z" {
		t.Fatalf("expected supplied donatedAt to be preserved, got %q", evt.DonatedAt)
	}
	if evt.Amount != 50.00 || evt.DonorName != "Gabriel" || evt.PaymentMethod != models.PaymentPix {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}
