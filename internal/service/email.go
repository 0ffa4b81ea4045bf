package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/mealprepai/backend/config"
)

// Delivery modes reported by SendGroceryList.
const (
	DeliverySMTP   = "smtp"
	DeliveryDryRun = "dry_run"
)

// GroceryList is everything needed to compose a grocery list email.
type GroceryList struct {
	To             string
	Name           string
	Title          string
	Items          []DeltaItem
	TotalEstimated float64
}

// EmailService sends grocery list emails over SMTP. Without credentials it
// runs dry: the composed message is logged and reported as delivered in
// dry_run mode, which keeps the demo flow working on any machine.
type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	logger       *zap.SugaredLogger
}

// NewEmailService creates an EmailService from the loaded configuration.
func NewEmailService(cfg *config.Config, logger *zap.SugaredLogger) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		fromName:     cfg.EmailFromName,
		logger:       logger,
	}
}

// SendGroceryList composes and delivers the grocery list, returning the
// delivery mode that was used.
func (s *EmailService) SendGroceryList(list GroceryList) (string, error) {
	title := list.Title
	if title == "" {
		title = "Selected Recipe"
	}

	subject := fmt.Sprintf("MealPrepAI — Grocery List for %s", title)
	body := buildGroceryBody(list, title)

	if s.smtpHost == "" || s.smtpUsername == "" || s.smtpPassword == "" {
		s.logger.Infow("smtp not configured, logging grocery email",
			"message_id", uuid.New().String(),
			"to", list.To,
			"subject", subject,
		)
		s.logger.Debugf("email body:\n%s", body)
		return DeliveryDryRun, nil
	}

	if err := s.send(list.To, subject, body); err != nil {
		return "", err
	}
	return DeliverySMTP, nil
}

// buildGroceryBody renders the plain-text message.
func buildGroceryBody(list GroceryList, title string) string {
	greeting := "there"
	if list.Name != "" {
		greeting = cases.Title(language.English).String(list.Name)
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", greeting),
		fmt.Sprintf("Here’s your grocery list for '%s':", title),
		"",
	}

	if len(list.Items) > 0 {
		for _, item := range list.Items {
			lines = append(lines, strings.TrimSpace(fmt.Sprintf("- %s: %s %s", item.Item, item.Qty.String(), item.Unit)))
		}
	} else {
		lines = append(lines, "- Nothing to buy — you have everything 🎉")
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Estimated total: $%.2f USD", list.TotalEstimated),
		"",
		"Happy cooking!",
		"— MealPrepAI",
	)

	return strings.Join(lines, "\n")
}

func (s *EmailService) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
