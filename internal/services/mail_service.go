package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// MailService delivers transactional mail over SMTP. When the SMTP
// environment is not configured it degrades to logging the would-be mail,
// which keeps local development working without a relay.
type MailService struct {
	Host      string
	Port      string
	Username  string
	Password  string
	From      string
	ClientURL string
	Enabled   bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:      host,
		Port:      port,
		Username:  user,
		Password:  pass,
		From:      from,
		ClientURL: clientURL,
		Enabled:   enabled,
	}
}

func (s *MailService) send(to, subject, body string) error {
	if !s.Enabled {
		log.Printf("MailService (disabled): would send %q to %s", subject, to)
		return nil
	}

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: LayerX Forum <%s>\r\n"+
		"Subject: %s\r\n"+
		"%s\r\n%s", to, s.From, subject, mime, body))

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

func (s *MailService) render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering mail template: %w", err)
	}
	return buf.String(), nil
}

// SendVerificationEmail mails the link that completes registration. The raw
// token goes into the link; only its hash is stored.
func (s *MailService) SendVerificationEmail(email, username, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimSuffix(s.ClientURL, "/"), token)
	body, err := s.render(verificationTmpl, map[string]string{
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return err
	}
	return s.send(email, "[LayerX Forum] Please verify your email", body)
}

// SendPasswordResetEmail mails the one-hour reset link.
func (s *MailService) SendPasswordResetEmail(email, username, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimSuffix(s.ClientURL, "/"), token)
	body, err := s.render(resetTmpl, map[string]string{
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return err
	}
	return s.send(email, "[LayerX Forum] Password reset instructions", body)
}

var verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="max-width:600px;margin:0 auto;font-family:sans-serif;color:#333">
  <h1>LayerX Forum</h1>
  <h2>Hello, {{.Username}}!</h2>
  <p>Thanks for signing up. Click the button below to verify your email address.</p>
  <p><a href="{{.Link}}" style="display:inline-block;background:#4f46e5;color:#fff;padding:12px 24px;border-radius:5px;text-decoration:none">Verify email</a></p>
  <p>Or copy this link into your browser:</p>
  <p style="word-break:break-all;color:#4f46e5">{{.Link}}</p>
  <p><strong>This link is valid for 24 hours.</strong></p>
</div>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<div style="max-width:600px;margin:0 auto;font-family:sans-serif;color:#333">
  <h1>LayerX Forum</h1>
  <h2>Hello, {{.Username}}!</h2>
  <p>A password reset was requested for your account. Click the button below to choose a new password.</p>
  <p><a href="{{.Link}}" style="display:inline-block;background:#dc2626;color:#fff;padding:12px 24px;border-radius:5px;text-decoration:none">Reset password</a></p>
  <p>Or copy this link into your browser:</p>
  <p style="word-break:break-all;color:#dc2626">{{.Link}}</p>
  <p><strong>This link is valid for 1 hour.</strong> If you did not request a reset, ignore this mail.</p>
</div>
`))
