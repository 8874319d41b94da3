package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tripmesh/backend/internal/config"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/pkg/logger"
	"gorm.io/gorm"
)

type EmailService struct {
	db  *gorm.DB
	cfg *config.EmailConfig
}

func NewEmailService(db *gorm.DB, cfg *config.EmailConfig) *EmailService {
	return &EmailService{db: db, cfg: cfg}
}

// ProcessNotifyTask emails every group member with an address that trip
// recommendations are ready for voting. Wired as the task queue processor.
func (s *EmailService) ProcessNotifyTask(_ context.Context, task *NotifyTask) error {
	var group models.Group
	if err := s.db.First(&group, task.GroupID).Error; err != nil {
		return err
	}

	var recipients []string
	err := s.db.Model(&models.User{}).
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ? AND users.email != ''", task.GroupID).
		Pluck("users.email", &recipients).Error
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Recommendation{}).
		Where("group_id = ?", task.GroupID).Count(&count).Error; err != nil {
		return err
	}

	subject := fmt.Sprintf("[TripMesh] Recommendations ready: %s", group.Title)
	body := s.buildReadyBody(&group, count)

	return s.send(recipients, subject, body)
}

func (s *EmailService) buildReadyBody(group *models.Group, count int64) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString("<h2>Your trip recommendations are ready</h2>")
	sb.WriteString("<table style=\"border-collapse: collapse; margin-bottom: 20px;\">")

	rows := []struct{ label, value string }{
		{"Group", group.Title},
		{"Invite code", group.InviteCode},
		{"Window", fmt.Sprintf("%s to %s", group.DateStart.Format("2006-01-02"), group.DateEnd.Format("2006-01-02"))},
		{"Candidates", fmt.Sprintf("%d", count)},
	}

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("<tr><td style=\"padding: 8px; border: 1px solid #ddd; font-weight: bold;\">%s</td><td style=\"padding: 8px; border: 1px solid #ddd;\">%s</td></tr>", r.label, r.value))
	}
	sb.WriteString("</table>")

	sb.WriteString("<p>Log in and vote for the itineraries you like best.</p>")
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Powered by TripMesh</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) send(to []string, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled || s.cfg.Host == "" {
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent notification to %v", to)
	return nil
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
