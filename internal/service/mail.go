package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"protofolio/backend/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrSendToSelf = errors.New("invalid email address")

var (
	verificationTmpl = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 400px; margin: auto; padding: 20px; text-align: center;">
<h2>Email Verification</h2>
<p>Use the code below to confirm your email address. It expires in {{.Minutes}} minutes.</p>
<div style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Secret}}</div>
<p style="font-size: 12px; color: #999;">If you didn't request this code you can ignore this message.</p>
</div>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 400px; margin: auto; padding: 20px; text-align: center;">
<h2>Password Reset</h2>
<p>Use the token below to reset your password. It expires in {{.Minutes}} minutes.</p>
<div style="font-family: monospace; word-break: break-all;">{{.Secret}}</div>
<p style="font-size: 12px; color: #999;">If you didn't ask for a password reset you can ignore this message.</p>
</div>`))
)

// Dispatcher delivers verification codes and reset tokens over SMTP
type Dispatcher struct {
	from string
	// Replaced in tests
	send func(...*gomail.Message) error
	now  func() time.Time
}

func NewDispatcher(c *config.Mail) *Dispatcher {
	d := gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)

	return &Dispatcher{
		from: c.From,
		send: d.DialAndSend,
		now:  time.Now,
	}
}

func (d *Dispatcher) SendVerificationCode(ctx context.Context, to, code string, expiresAt time.Time) error {
	m, err := d.message(to, "Your verification code", verificationTmpl, code, expiresAt)
	if err != nil {
		return err
	}

	return d.deliver(ctx, m)
}

func (d *Dispatcher) SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error {
	m, err := d.message(to, "Reset your password", resetTmpl, token, expiresAt)
	if err != nil {
		return err
	}

	return d.deliver(ctx, m)
}

func (d *Dispatcher) message(to, subject string, tmpl *template.Template, secret string, expiresAt time.Time) (*gomail.Message, error) {
	if strings.EqualFold(to, d.from) {
		return nil, ErrSendToSelf
	}

	minutes := int(expiresAt.Sub(d.now()).Round(time.Minute).Minutes())

	var body strings.Builder
	err := tmpl.Execute(&body, struct {
		Secret  string
		Minutes int
	}{secret, minutes})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s mail, %w", tmpl.Name(), err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", fmt.Sprintf("%s: %s\n\nThis expires in %d minutes.", subject, secret, minutes))
	m.AddAlternative("text/html", body.String())

	return m, nil
}

// deliver sends m while the request is still waiting. gomail has no context
// support so a cancelled request stops waiting but the send keeps going.
func (d *Dispatcher) deliver(ctx context.Context, m *gomail.Message) error {
	done := make(chan error, 1)

	go func() {
		done <- d.send(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			zap.L().Error("Failed to send mail", zap.Error(err))
			return fmt.Errorf("failed to send mail, %w", err)
		}

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
