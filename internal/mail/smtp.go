// Package mail sends outbound messages over SMTP.  It is only ever
// invoked from the queue consumer; request paths never touch it.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
)

// Config holds the SMTP relay settings.  An empty Host disables real
// delivery: messages are logged instead, which keeps local development
// working without a relay.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Sender delivers mail through a single configured relay.
type Sender struct {
	cfg Config
}

func NewSender(cfg Config) *Sender { return &Sender{cfg: cfg} }

// Send delivers one plain-text message.  Errors are returned so the
// consumer can nack and log; nothing here retries.
func (s *Sender) Send(to, subject, body string) error {
	if s.cfg.Host == "" {
		log.Printf("mail: no SMTP host configured, dropping message to=%s subject=%q", to, subject)
		return nil
	}
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, to, subject, body))
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}
