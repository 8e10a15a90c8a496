package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/gomail.v2"

	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/ticket"
	"ticketd/internal/shared/config"
	"ticketd/internal/shared/logger"
	"ticketd/internal/shared/services/markdown"
)

// ErrEmailServiceNotConfigured is returned when no SMTP host is configured.
var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// qrAttachmentName doubles as the MIME Content-ID of the embedded code image.
const qrAttachmentName = "ticket-qr.png"

// CodeRenderer renders a ticket's unique code as a PNG image.
type CodeRenderer interface {
	EncodePNG(t *ticket.Ticket) ([]byte, error)
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

func SMTPConfigFrom(cfg *config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}
}

// SMTPEmailService sends transfer confirmations to both parties of a transfer. The
// recipient's mail carries the new code as an inline QR image; the previous owner's
// mail never contains a code.
type SMTPEmailService struct {
	config   SMTPConfig
	dialer   sender
	renderer CodeRenderer
	markdown markdown.MarkdownService
	titler   cases.Caser
	logger   logger.Interface
}

func NewSMTPEmailService(cfg SMTPConfig, renderer CodeRenderer, log logger.Interface) *SMTPEmailService {
	return newSMTPEmailService(
		cfg,
		gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		renderer,
		log,
	)
}

func newSMTPEmailService(cfg SMTPConfig, dialer sender, renderer CodeRenderer, log logger.Interface) *SMTPEmailService {
	return &SMTPEmailService{
		config:   cfg,
		dialer:   dialer,
		renderer: renderer,
		markdown: markdown.NewMarkdownService(),
		titler:   cases.Title(language.Und),
		logger:   log.With("component", "email.smtp"),
	}
}

var (
	receivedTemplate = template.Must(template.New("received").Parse(`Hello {{.To}},

**{{.From}}** has transferred ticket ` + "`{{.Key}}`" + ` to you.

Present the code below at the entrance:

![Ticket code](cid:{{.Image}})

Previously issued codes for this ticket are no longer valid.
`))

	sentTemplate = template.Must(template.New("sent").Parse(`Hello {{.From}},

your ticket ` + "`{{.Key}}`" + ` has been transferred to **{{.To}}**.

The code you held for this ticket is no longer valid.
`))
)

type transferMailData struct {
	From  string
	To    string
	Key   string
	Image string
}

// SendTransferConfirmation mails the new owner the ticket's QR code and tells the
// previous owner the ticket has left their account.
func (s *SMTPEmailService) SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, newOwner *customer.Customer) error {
	if s.config.Host == "" {
		return ErrEmailServiceNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := transferMailData{
		From:  s.titler.String(previousOwner.Name()),
		To:    s.titler.String(newOwner.Name()),
		Key:   t.Key(),
		Image: qrAttachmentName,
	}

	png, err := s.renderer.EncodePNG(t)
	if err != nil {
		return fmt.Errorf("failed to render ticket code: %w", err)
	}

	received, err := s.buildMessage(newOwner.Email(), "A ticket has been transferred to you", receivedTemplate, data)
	if err != nil {
		return err
	}
	received.Embed(qrAttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))

	sent, err := s.buildMessage(previousOwner.Email(), "Your ticket has been transferred", sentTemplate, data)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(received, sent); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("transfer confirmation sent",
		"ticket_key", t.Key(),
		"previous_owner_id", previousOwner.ID(),
		"new_owner_id", newOwner.ID(),
	)
	return nil
}

// escaped returns a copy whose customer-supplied fields render literally in Markdown.
func (d transferMailData) escaped() transferMailData {
	d.From = markdown.EscapeText(d.From)
	d.To = markdown.EscapeText(d.To)
	return d
}

func (s *SMTPEmailService) buildMessage(to, subject string, tmpl *template.Template, data transferMailData) (*gomail.Message, error) {
	plain, html, err := s.renderBodies(tmpl, data)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plain)
	m.AddAlternative("text/html", html)
	return m, nil
}

// renderBodies returns the plain text part and the sanitized HTML part of one mail.
func (s *SMTPEmailService) renderBodies(tmpl *template.Template, data transferMailData) (string, string, error) {
	var plain, source bytes.Buffer
	if err := tmpl.Execute(&plain, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s mail: %w", tmpl.Name(), err)
	}
	if err := tmpl.Execute(&source, data.escaped()); err != nil {
		return "", "", fmt.Errorf("failed to render %s mail: %w", tmpl.Name(), err)
	}

	html, err := s.markdown.ToHTMLSanitized(source.String())
	if err != nil {
		return "", "", err
	}
	return plain.String(), html, nil
}
