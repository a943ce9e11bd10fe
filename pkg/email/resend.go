package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
	"github.com/wandertours/backend/internal/config"
	"go.uber.org/zap"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *zap.Logger
}

func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:       resend.NewClient(cfg.APIKey),
		from:         cfg.FromAddress,
		fromName:     cfg.FromName,
		templatesDir: "pkg/email/templates",
		logger:       logger,
	}
}

func (s *EmailService) SendWelcomeEmail(to, fullName string) error {
	templateData := map[string]interface{}{
		"FullName": fullName,
		"Email":    to,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("welcome.html", templateData)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Welcome to WanderTours!",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Warn("failed to send welcome email",
			zap.String("email", to),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("welcome email sent",
		zap.String("email", to),
		zap.String("message_id", resp.Id),
	)
	return nil
}

// SendBookingConfirmation is sent once the booking has been materialized from
// a paid checkout session.
func (s *EmailService) SendBookingConfirmation(to, tourName string, price float64) error {
	templateData := map[string]interface{}{
		"TourName": tourName,
		"Price":    fmt.Sprintf("%.2f", price),
		"Email":    to,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("booking-confirmation.html", templateData)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: fmt.Sprintf("Your booking for %s is confirmed", tourName),
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		return err
	}

	s.logger.Info("booking confirmation sent",
		zap.String("email", to),
		zap.String("tour", tourName),
		zap.String("message_id", resp.Id),
	)
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templatesDir, templateName)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}

	return body.String(), nil
}
