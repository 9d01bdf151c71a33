package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/doarlabs/donation-ledger-go/metrics"
)

// Event is the donation notification payload. DonatedAt is RFC3339 so the
// message body stays readable to any consumer.
type Event struct {
	DonationID    string  `json:"donationId"`
	CampaignID    string  `json:"campaignId"`
	Amount        float64 `json:"amount"`
	DonorName     string  `json:"donorName"`
	PaymentMethod string  `json:"paymentMethod"`
	DonatedAt     string  `json:"donatedAt"`
}

// Sender delivers a serialized event to the external message channel.
type Sender interface {
	Send(ctx context.Context, body []byte) error
}

// Dispatcher hands donation events to a Sender from a background worker.
// Publish never blocks and never fails the caller: a full queue drops the
// event and a send error is logged and discarded. The channel owns delivery
// guarantees beyond that.
type Dispatcher struct {
	sender Sender
	events chan Event
	log    zerolog.Logger
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

const defaultBuffer = 256

// NewDispatcher starts the background worker. A nil sender disables dispatch
// entirely; Publish becomes a no-op.
func NewDispatcher(sender Sender, buffer int, log zerolog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		sender: sender,
		log:    log.With().Str("component", "dispatcher").Logger(),
	}
	if sender == nil {
		return d
	}
	d.events = make(chan Event, buffer)
	d.wg.Add(1)
	go d.run()
	return d
}

// Publish enqueues an event for delivery. After Close it drops the event
// instead of delivering it.
func (d *Dispatcher) Publish(evt Event) {
	if d.sender == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn().
			Str("donation_id", evt.DonationID).
			Str("campaign_id", evt.CampaignID).
			Msg("dispatcher closed, dropping event")
		return
	}
	select {
	case d.events <- evt:
	default:
		metrics.CountDroppedNotification()
		d.log.Warn().
			Str("donation_id", evt.DonationID).
			Str("campaign_id", evt.CampaignID).
			Msg("notification queue full, dropping event")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for evt := range d.events {
		body, err := json.Marshal(evt)
		if err != nil {
			d.log.Warn().Err(err).Str("donation_id", evt.DonationID).Msg("could not serialize notification")
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := d.sender.Send(ctx, body); err != nil {
			d.log.Warn().Err(err).
				Str("donation_id", evt.DonationID).
				Str("campaign_id", evt.CampaignID).
				Msg("could not send donation notification")
		}
		cancel()
	}
}

// Close stops intake, delivers everything already queued and waits for the
// worker to finish.
func (d *Dispatcher) Close() {
	if d.sender == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
