package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/raihanetx/Next-v/config"
)

// Sender delivers transactional mail over authenticated SMTP.
type Sender struct {
	host string
	port string
	user string
	pass string
	from string

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var ErrNotConfigured = errors.New("smtp credentials not configured")

func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.EmailFrom,
		send: smtp.SendMail,
	}
}

// AccessItem is one purchased product line in the access email.
type AccessItem struct {
	Name     string
	Duration string
	Link     string
}

// SendProductAccess mails the customer their product access details
// after an order is confirmed.
func (s *Sender) SendProductAccess(to, customerName, orderID string, items []AccessItem) error {
	if s.host == "" || s.user == "" {
		return ErrNotConfigured
	}

	subject := fmt.Sprintf("Your order %s is ready", orderID)
	body := buildAccessBody(customerName, orderID, items)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	return s.send(addr, auth, s.from, []string{to}, []byte(msg.String()))
}

func buildAccessBody(customerName, orderID string, items []AccessItem) string {
	var b strings.Builder
	name := customerName
	if name == "" {
		name = "Customer"
	}
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&b, "Thank you for your purchase. Your order %s has been confirmed.\r\n\r\n", orderID)
	b.WriteString("Your products:\r\n")
	for _, item := range items {
		fmt.Fprintf(&b, "  - %s", item.Name)
		if item.Duration != "" {
			fmt.Fprintf(&b, " (%s)", item.Duration)
		}
		b.WriteString("\r\n")
		if item.Link != "" {
			fmt.Fprintf(&b, "    Access: %s\r\n", item.Link)
		}
	}
	b.WriteString("\r\nIf you have any questions, just reply to this email.\r\n")
	return b.String()
}
