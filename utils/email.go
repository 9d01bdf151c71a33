package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// email request payload for ZeptoMail API
type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HtmlBody string        `json:"htmlbody"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailWithName `json:"email_address"`
}

type emailWithName struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// EmailSender sends HTML email through the ZeptoMail HTTP API.
type EmailSender struct {
	apiURL string // e.g. https://api.zeptomail.com/v1.1/email
	apiKey string // e.g. Zoho-enczapikey xxxxx
	from   string
	toName string
	client *http.Client
}

// NewEmailSenderFromEnv builds an EmailSender from ZEPTO_API_URL,
// ZEPTO_API_KEY, EMAIL_FROM and EMAIL_TO_NAME. Returns an error when a
// required variable is missing.
func NewEmailSenderFromEnv() (*EmailSender, error) {
	s := &EmailSender{
		apiURL: os.Getenv("ZEPTO_API_URL"),
		apiKey: os.Getenv("ZEPTO_API_KEY"),
		from:   os.Getenv("EMAIL_FROM"),
		toName: os.Getenv("EMAIL_TO_NAME"),
		client: &http.Client{Timeout: 15 * time.Second},
	}
	if s.apiURL == "" || s.apiKey == "" || s.from == "" {
		return nil, fmt.Errorf("missing ZEPTO_API_URL, ZEPTO_API_KEY, or EMAIL_FROM")
	}
	return s, nil
}

// Send sends an HTML email to one recipient.
func (s *EmailSender) Send(to, subject, body string) error {
	payload := emailRequest{
		From: emailAddress{Address: s.from},
		To: []toRecipient{
			{
				Email: emailWithName{
					Address: to,
					Name:    s.toName,
				},
			},
		},
		Subject:  subject,
		HtmlBody: body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zeptomail API error: %s", resp.Status)
	}

	return nil
}
