package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods accepted for a donation.
const (
	PaymentCreditCard   = "credit_card"
	PaymentPix          = "pix"
	PaymentBankTransfer = "bank_transfer"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCreditCard, PaymentPix, PaymentBankTransfer:
		return true
	}
	return false
}

// Donation is an immutable record of a single contribution. It is written
// once and never updated or deleted.
type Donation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"donationId"`
	CampaignID    string             `bson:"campaign_id" json:"campaignId"`
	Amount        float64            `bson:"amount" json:"amount"`
	DonorName     string             `bson:"donor_name" json:"donorName"`
	PaymentMethod string             `bson:"payment_method" json:"paymentMethod"` // credit_card, pix, bank_transfer
	DonatedAt     time.Time          `bson:"donated_at" json:"donatedAt"`
}

// DonationRequest is the record-donation request body.
type DonationRequest struct {
	CampaignID    string     `json:"campaignId"`
	Amount        float64    `json:"amount"`
	DonorName     string     `json:"donorName"`
	PaymentMethod string     `json:"paymentMethod"`
	DonatedAt     *time.Time `json:"donatedAt,omitempty"`
}

// DonationResponse is the record-donation response body. The total is the
// authoritative post-increment campaign total.
type DonationResponse struct {
	DonationID             string  `json:"donationId"`
	CampaignID             string  `json:"campaignId"`
	Amount                 float64 `json:"amount"`
	TotalCampaignDonations float64 `json:"totalCampaignDonations"`
}
