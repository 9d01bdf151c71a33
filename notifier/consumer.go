package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"

	"github.com/doarlabs/donation-ledger-go/queue"
)

// EmailSender is satisfied by utils.EmailSender.
type EmailSender interface {
	Send(to, subject, body string) error
}

// Consumer long-polls the donation notification queue, renders a receipt and
// emails the collector. A bad message is logged and acknowledged rather than
// rethrown, so it never wedges the queue.
type Consumer struct {
	client     *sqs.Client
	queueURL   string
	email      EmailSender
	to         string
	receiptURL string
	log        zerolog.Logger
}

func NewConsumer(client *sqs.Client, queueURL string, email EmailSender, to, receiptBaseURL string, log zerolog.Logger) *Consumer {
	return &Consumer{
		client:     client,
		queueURL:   queueURL,
		email:      email,
		to:         to,
		receiptURL: receiptBaseURL,
		log:        log.With().Str("component", "notifier").Logger(),
	}
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error().Err(err).Msg("could not receive messages")
			time.Sleep(5 * time.Second)
			continue
		}

		for _, msg := range out.Messages {
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg types.Message) {
	var evt queue.Event
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &evt); err != nil {
		c.log.Warn().Err(err).Str("message_id", aws.ToString(msg.MessageId)).Msg("could not parse notification, discarding")
		c.ack(ctx, msg)
		return
	}

	receiptURL := ReceiptURL(c.receiptURL, evt.DonationID)
	c.log.Info().
		Str("donation_id", evt.DonationID).
		Str("campaign_id", evt.CampaignID).
		Str("receipt_url", receiptURL).
		Msg("processing donation notification")
	c.log.Debug().Str("receipt", RenderReceipt(evt)).Msg("receipt rendered")

	if c.email != nil && c.to != "" {
		body := RenderEmailBody(evt, receiptURL)
		if err := c.email.Send(c.to, "Nova Doacao Recebida", body); err != nil {
			c.log.Warn().Err(err).Str("donation_id", evt.DonationID).Msg("could not send notification email")
		}
	}

	c.ack(ctx, msg)
}

func (c *Consumer) ack(ctx context.Context, msg types.Message) {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("message_id", aws.ToString(msg.MessageId)).Msg("could not delete message")
	}
}
