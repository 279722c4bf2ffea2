package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/hireloom/configs"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

var ErrEmailNotConfigured = errors.New("email service not configured")

type Email struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	HTTPClient  *http.Client
}

// EmailClient is the process-wide mailer. It is never nil.
var EmailClient Mailer = disabledMailer{}

type brevoContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoPayload struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoEndpoint,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func InitEmailService(cfg config.AppConfig) Mailer {
	if cfg.BrevoAPIKey == "" || cfg.EmailSender == "" || cfg.EmailSenderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = disabledMailer{}
		return EmailClient
	}

	EmailClient = NewBrevoService(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName)
	log.Printf("✅ Email service initialized for sender %s.", cfg.EmailSender)
	return EmailClient
}

func (s *BrevoService) Send(ctx context.Context, msg Email) error {
	if msg.To == "" || !strings.Contains(msg.To, "@") {
		return fmt.Errorf("invalid recipient email: %q", msg.To)
	}

	recipientName := msg.ToName
	if recipientName == "" {
		recipientName = msg.To[:strings.Index(msg.To, "@")]
	}

	payload := brevoPayload{
		Sender:      brevoContact{Name: s.SenderName, Email: s.SenderEmail},
		To:          []brevoContact{{Name: recipientName, Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	return nil
}

type disabledMailer struct{}

func (disabledMailer) Send(context.Context, Email) error { return ErrEmailNotConfigured }

// SendEmail delivers in the background and only logs the outcome. Use a
// Mailer directly when the caller needs to know whether delivery worked.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := EmailClient.Send(ctx, Email{To: toEmail, ToName: toName, Subject: subject, HTML: htmlContent})
	if err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}
	log.Printf("✅ Email sent successfully to %s", toEmail)
}
