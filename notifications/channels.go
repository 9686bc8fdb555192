// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"alimenta-server/commons"

	amqp "github.com/rabbitmq/amqp091-go"
	"gopkg.in/gomail.v2"
)

// QueueChannel hands the message to a broker-backed delivery pipeline. A
// separate consumer owns the actual sending.
type QueueChannel struct {
	URL   string
	Queue string
}

func (q *QueueChannel) Name() string { return "queue" }

func (q *QueueChannel) Send(data NotificationData) error {
	conn, err := amqp.Dial(q.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(q.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", q.Queue, err)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return ch.PublishWithContext(ctx, "", q.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// FunctionsChannel posts to the managed-function invocation endpoint, one
// function per template.
type FunctionsChannel struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewFunctionsChannel(endpoint string) *FunctionsChannel {
	return &FunctionsChannel{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *FunctionsChannel) Name() string { return "functions" }

func (f *FunctionsChannel) Send(data NotificationData) error {
	var functionName string
	switch data.Template {
	case VerificationTemplate:
		functionName = "sendVerificationEmail"
	case WelcomeTemplate:
		functionName = "sendWelcomeEmail"
	default:
		return fmt.Errorf("no function mapped for template %s", data.Template)
	}

	userName := data.To
	if data.ToName != nil && *data.ToName != "" {
		userName = *data.ToName
	}

	reqBody := functionsRequest{
		Email:    data.To,
		UserName: userName,
	}
	if token, ok := data.Variables["token"].(string); ok {
		reqBody.Token = token
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to serialize function request: %w", err)
	}

	resp, err := f.HTTPClient.Post(f.Endpoint+"/"+functionName, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("function invocation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("function %s returned %s", functionName, resp.Status)
	}
	return nil
}

// SendGridChannel sends through the SendGrid v3 transactional-email API.
type SendGridChannel struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func NewSendGridChannel(apiKey string) *SendGridChannel {
	return &SendGridChannel{
		APIKey:     apiKey,
		Endpoint:   commons.GetEnv("SENDGRID_ENDPOINT", "https://api.sendgrid.com/v3/mail/send"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SendGridChannel) Name() string { return "sendgrid" }

func (s *SendGridChannel) Send(data NotificationData) error {
	htmlBody, err := loadAndRenderTemplate(data.Template, data.Variables)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	to := sendGridAddress{Email: data.To}
	if data.ToName != nil {
		to.Name = *data.ToName
	}

	reqBody := sendGridRequest{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{to}, Subject: data.Subject},
		},
		From: sendGridAddress{
			Email: commons.GetEnv("EMAIL_FROM_ADDRESS", "noreply@alimentamais.com"),
			Name:  commons.GetEnv("EMAIL_FROM_NAME", "Alimenta+"),
		},
		Content: []sendGridContent{
			{Type: "text/html", Value: htmlBody},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to serialize SendGrid request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("SendGrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned %s", resp.Status)
	}
	return nil
}

// SMTPChannel sends directly through a configured SMTP relay.
type SMTPChannel struct{}

func (s *SMTPChannel) Name() string { return "smtp" }

func (s *SMTPChannel) Send(data NotificationData) error {
	commons.Logger.Debug("Sending email via SMTP")

	smtpHost := commons.GetEnv("SMTP_HOST")
	if smtpHost == "" {
		return fmt.Errorf("SMTP_HOST environment variable is not set")
	}

	smtpPort := commons.GetEnv("SMTP_PORT")
	if smtpPort == "" {
		return fmt.Errorf("SMTP_PORT environment variable is not set")
	}

	username := commons.GetEnv("SMTP_USERNAME")
	if username == "" {
		return fmt.Errorf("SMTP_USERNAME environment variable is not set")
	}

	password := commons.GetEnv("SMTP_PASSWORD")
	if password == "" {
		return fmt.Errorf("SMTP_PASSWORD environment variable is not set")
	}

	fromEmail := commons.GetEnv("EMAIL_FROM_ADDRESS", "noreply@alimentamais.com")
	fromName := commons.GetEnv("EMAIL_FROM_NAME", "Alimenta+")

	if data.To == "" {
		return fmt.Errorf("'to' field is required")
	}

	if data.Subject == "" {
		return fmt.Errorf("'subject' field is required")
	}

	htmlBody, err := loadAndRenderTemplate(data.Template, data.Variables)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %s", smtpPort)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", message.FormatAddress(fromEmail, fromName))
	toName := ""
	if data.ToName != nil {
		toName = *data.ToName
	}
	message.SetHeader("To", message.FormatAddress(data.To, toName))
	message.SetHeader("Subject", data.Subject)
	message.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(smtpHost, port, username, password)
	dialer.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: false,
	}

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

// MockChannel stands in for delivery when nothing else is configured. It
// never fails, terminating the cascade.
type MockChannel struct{}

func (m *MockChannel) Name() string { return "mock" }

func (m *MockChannel) Send(data NotificationData) error {
	commons.Logger.Info("=== MOCK EMAIL NOTIFICATION ===")
	commons.Logger.Infof("To: %s", data.To)
	if data.ToName != nil {
		commons.Logger.Infof("To Name: %s", *data.ToName)
	}
	commons.Logger.Infof("Subject: %s", data.Subject)
	commons.Logger.Infof("Template: %s", data.Template)

	if len(data.Variables) > 0 {
		commons.Logger.Info("Variables:")
		for key, value := range data.Variables {
			commons.Logger.Infof("  %s: %v", key, value)
		}
	}

	if data.Template != "" {
		htmlBody, err := loadAndRenderTemplate(data.Template, data.Variables)
		if err != nil {
			commons.Logger.Warnf("Failed to render template: %v", err)
		} else {
			commons.Logger.Info("=== RENDERED EMAIL CONTENT ===")
			fmt.Println(htmlBody)
			commons.Logger.Info("=== END EMAIL CONTENT ===")
		}
	}

	commons.Logger.Info("=== EMAIL MOCK COMPLETE ===")
	return nil
}

func loadAndRenderTemplate(templateName string, variables map[string]any) (string, error) {
	templatePath := filepath.Join(commons.GetEnv("EMAIL_TEMPLATES_DIR", "email_templates"), templateName+".html")

	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		commons.Logger.Warnf("Template file not found: %s.", templatePath)
		return "", fmt.Errorf("template file not found: %s", templatePath)
	}

	templateContent, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", templatePath, err)
	}

	tmpl, err := template.New(templateName).Parse(string(templateContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}
