package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/doarlabs/donation-ledger-go/models"
)

// DonationRepository is the append-only donation store.
type DonationRepository struct {
	col *mongo.Collection
}

func NewDonationRepository(db *mongo.Database) *DonationRepository {
	return &DonationRepository{col: db.Collection("donations")}
}

// Insert writes one donation and returns its generated id.
func (r *DonationRepository) Insert(ctx context.Context, donation *models.Donation) (string, error) {
	if donation.ID.IsZero() {
		donation.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, donation); err != nil {
		return "", err
	}
	return donation.ID.Hex(), nil
}
