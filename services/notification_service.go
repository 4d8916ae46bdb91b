package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jambotip/jambotip-backend/utils"
)

// NotificationChannel delivers one message to one destination. Each
// channel attempt succeeds or fails on its own; a failed email never
// blocks the SMS attempt and vice versa.
type NotificationChannel interface {
	Name() string
	Send(destination, message string) error
}

// NotificationRecipient is the delivery target of one notification.
type NotificationRecipient struct {
	Name  string
	Phone string
	Email string
}

// NotificationService renders payout notification templates and fans them
// out over the configured channels. Delivery is fire and forget: failures
// are logged, never returned, so notification trouble cannot block or
// roll back a financial state transition.
type NotificationService struct {
	sms   NotificationChannel
	email NotificationChannel
}

// NewNotificationService creates a new notification service. Either
// channel may be nil when not configured.
func NewNotificationService(sms, email NotificationChannel) *NotificationService {
	return &NotificationService{sms: sms, email: email}
}

// NotifyUpcoming tells a recipient their payout is scheduled. payoutDate
// is the last day of the payout month.
func (s *NotificationService) NotifyUpcoming(recipient NotificationRecipient, amount float64, payoutDate time.Time) {
	message := fmt.Sprintf("Hi %s, your JamboTip payout of %s is scheduled for %s.",
		utils.FormatRecipientName(recipient.Name),
		utils.FormatCurrency(amount),
		payoutDate.Format("2 Jan 2006"))
	s.dispatch(recipient, message)
}

// NotifyProcessed tells a recipient their payout has been sent.
func (s *NotificationService) NotifyProcessed(recipient NotificationRecipient, amount float64, transactionRef string) {
	message := fmt.Sprintf("Hi %s, your JamboTip payout of %s has been sent. Ref: %s.",
		utils.FormatRecipientName(recipient.Name),
		utils.FormatCurrency(amount),
		transactionRef)
	s.dispatch(recipient, message)
}

// NotifyFailed tells a recipient their payout could not be completed.
func (s *NotificationService) NotifyFailed(recipient NotificationRecipient, amount float64, reason string) {
	message := fmt.Sprintf("Hi %s, your JamboTip payout of %s could not be completed (%s). Our team is looking into it.",
		utils.FormatRecipientName(recipient.Name),
		utils.FormatCurrency(amount),
		reason)
	s.dispatch(recipient, message)
}

// dispatch fans one message out to every channel with a usable
// destination. Channel failures are independent and only logged.
func (s *NotificationService) dispatch(recipient NotificationRecipient, message string) {
	delivered := false

	if s.sms != nil && recipient.Phone != "" {
		if err := s.sms.Send(recipient.Phone, message); err != nil {
			log.Printf("NotificationService: %s delivery to %s failed: %v", s.sms.Name(), recipient.Phone, err)
		} else {
			delivered = true
		}
	}

	if s.email != nil && recipient.Email != "" {
		if err := s.email.Send(recipient.Email, message); err != nil {
			log.Printf("NotificationService: %s delivery to %s failed: %v", s.email.Name(), recipient.Email, err)
		} else {
			delivered = true
		}
	}

	if !delivered {
		log.Printf("NotificationService: no channel delivered notification for %s", recipient.Name)
	}
}

// SMSChannel sends messages through an HTTP SMS gateway.
type SMSChannel struct {
	baseURL  string
	apiKey   string
	senderID string
	client   *http.Client
}

// NewSMSChannel creates an SMS channel configured from environment
// variables.
func NewSMSChannel() *SMSChannel {
	baseURL := os.Getenv("SMS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.sandbox.africastalking.com/version1/messaging"
	}

	apiKey := os.Getenv("SMS_API_KEY")
	if apiKey == "" {
		log.Printf("WARNING: SMS_API_KEY is missing, SMS notifications disabled")
	}

	senderID := os.Getenv("SMS_SENDER_ID")
	if senderID == "" {
		senderID = "JAMBOTIP"
	}

	return &SMSChannel{
		baseURL:  baseURL,
		apiKey:   apiKey,
		senderID: senderID,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies this channel in logs.
func (c *SMSChannel) Name() string {
	return "sms"
}

// Send delivers one SMS. Destination is normalized to MSISDN form first.
func (c *SMSChannel) Send(destination, message string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sms channel not configured")
	}

	msisdn := utils.NormalizePhoneNumber(destination)
	if msisdn == "" {
		return fmt.Errorf("unusable phone number %q", destination)
	}

	payload, err := json.Marshal(map[string]string{
		"to":      msisdn,
		"from":    c.senderID,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apiKey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// EmailChannel sends messages over SMTP.
type EmailChannel struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewEmailChannel creates an email channel configured from environment
// variables.
func NewEmailChannel() *EmailChannel {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Printf("WARNING: SMTP_HOST is missing, email notifications disabled")
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "payouts@jambotip.co.ke"
	}

	return &EmailChannel{
		host: host,
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: from,
	}
}

// Name identifies this channel in logs.
func (c *EmailChannel) Name() string {
	return "email"
}

// Send delivers one email.
func (c *EmailChannel) Send(destination, message string) error {
	if c.host == "" {
		return fmt.Errorf("email channel not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", destination)
	m.SetHeader("Subject", "Your JamboTip payout")
	m.SetBody("text/plain", message)

	d := gomail.NewDialer(c.host, c.port, c.user, c.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}
