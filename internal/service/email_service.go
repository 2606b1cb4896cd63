package service

import (
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/pkg/logger"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type EmailService struct {
	cfg config.EmailConfig
}

func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendWelcomeAsync delivers the registration welcome mail in the
// background. Delivery is best effort: failures are logged and dropped.
func (s *EmailService) SendWelcomeAsync(name, address string) {
	if s.cfg.APIKey == "" {
		return
	}

	go func() {
		if err := s.sendWelcome(name, address); err != nil {
			logger.Log.Warn("welcome email failed",
				zap.String("to", address),
				zap.Error(err),
			)
		}
	}()
}

func (s *EmailService) sendWelcome(name, address string) error {
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail(name, address)
	subject := "Welcome to the course"

	plain := fmt.Sprintf("Hi %s,\n\nYour account is ready. Enroll in a course and start learning.\n", name)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Enroll in a course and start learning.</p>", name)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(s.cfg.APIKey)

	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
