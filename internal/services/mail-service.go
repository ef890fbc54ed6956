package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/campuslink/portal_service/internal/domain"
)

const smtpHost = "smtp.gmail.com"
const smtpAddr = "smtp.gmail.com:587"

const otpMailTemplate = `<html>
  <body style="font-family: Arial, sans-serif;">
    <p>Hi {{.Name}},</p>
    <p>{{.Intro}}</p>
    <p style="font-size: 28px; letter-spacing: 6px;"><b>{{.Code}}</b></p>
    <p>The code expires at {{.ExpiresAt}}. If you did not request it, ignore this email.</p>
  </body>
</html>`

type MailService struct {
	smtpUser     string
	smtpPass     string
	mailFrom     string
	mailFromName string
	tmpl         *template.Template
}

func NewMailService(smtpUser, smtpPass, mailFrom, mailFromName string) *MailService {
	return &MailService{
		smtpUser:     smtpUser,
		smtpPass:     smtpPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		tmpl:         template.Must(template.New("otp").Parse(otpMailTemplate)),
	}
}

func (s *MailService) SendOtpEmail(to, name, code, purpose, expiresAt string) error {
	subject := "Your verification code"
	intro := "Use this code to verify your email address:"
	if purpose == domain.OtpPurposeReset {
		subject = "Your password reset code"
		intro = "Use this code to reset your password:"
	}

	var buf bytes.Buffer
	err := s.tmpl.Execute(&buf, map[string]string{
		"Name":      name,
		"Intro":     intro,
		"Code":      code,
		"ExpiresAt": expiresAt,
	})
	if err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		buf.String(),
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline guards the whole SMTP conversation
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
