package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/doarlabs/donation-ledger-go/models"
	services "github.com/doarlabs/donation-ledger-go/services"
)

// CampaignRepository persists one aggregate document per campaign.
type CampaignRepository struct {
	col *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{col: db.Collection("campaigns")}
}

// UpsertIncrement atomically adds delta to the campaign total, creating the
// document with that total if it does not exist yet. The post-image is
// returned, so concurrent increments to the same campaign all land and the
// caller never needs a follow-up read. A freshly created document has an
// empty name; the identity backfill keys off that.
func (r *CampaignRepository) UpsertIncrement(ctx context.Context, campaignID string, delta float64, now time.Time) (*models.Campaign, error) {
	filter := bson.M{"campaign_id": campaignID}
	update := bson.M{
		"$inc": bson.M{"total_donations": delta},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"name":           "",
			"collector_name": "",
			"created_at":     now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var campaign models.Campaign
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// SetIdentity backfills the placeholder name and collector on a campaign that
// was materialized by its first donation. The name guard keeps it from ever
// clobbering an explicitly created campaign.
func (r *CampaignRepository) SetIdentity(ctx context.Context, campaignID, name, collectorName string) error {
	filter := bson.M{"campaign_id": campaignID, "name": ""}
	update := bson.M{"$set": bson.M{"name": name, "collector_name": collectorName}}
	_, err := r.col.UpdateOne(ctx, filter, update)
	return err
}

// FindByID looks up one campaign by its campaign id.
func (r *CampaignRepository) FindByID(ctx context.Context, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.col.FindOne(ctx, bson.M{"campaign_id": campaignID}).Decode(&campaign)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Insert writes an explicitly created campaign.
func (r *CampaignRepository) Insert(ctx context.Context, campaign *models.Campaign) error {
	_, err := r.col.InsertOne(ctx, campaign)
	return err
}
