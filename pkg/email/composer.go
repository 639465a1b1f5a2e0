package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"portfolio-backend/config"
)

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
	SourceIP    string
	ReceivedAt  time.Time
}

// ComposedMail is the pair of messages produced for one submission.
type ComposedMail struct {
	Notification   *Message // to the site owner
	Acknowledgment *Message // back to the visitor
}

// All returns both messages in dispatch order.
func (c ComposedMail) All() []*Message {
	return []*Message{c.Notification, c.Acknowledgment}
}

// Composer builds contact emails. It holds no mutable state.
type Composer struct {
	fromEmail string
	toEmail   string
	owner     config.OwnerProfile
}

func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		fromEmail: cfg.MailUser, // Gmail sends as the authenticated account
		toEmail:   cfg.RecipientEmail,
		owner:     cfg.Owner,
	}
}

type notificationFields struct {
	Name         string
	Email        string
	Subject      string
	Message      string
	MessageLines []string
	Timestamp    string
	Source       string
}

type acknowledgmentFields struct {
	Name    string
	Subject string
	Owner   config.OwnerProfile
}

// Compose produces the owner notification and the sender acknowledgment.
func (c *Composer) Compose(data ContactEmailData) (ComposedMail, error) {
	notification, err := c.notification(data)
	if err != nil {
		return ComposedMail{}, err
	}
	ack, err := c.acknowledgment(data)
	if err != nil {
		return ComposedMail{}, err
	}
	return ComposedMail{Notification: notification, Acknowledgment: ack}, nil
}

func (c *Composer) notification(data ContactEmailData) (*Message, error) {
	message := strings.ReplaceAll(data.Message, "\r\n", "\n")
	fields := notificationFields{
		Name:         data.SenderName,
		Email:        data.SenderEmail,
		Subject:      data.Subject,
		Message:      message,
		MessageLines: strings.Split(message, "\n"),
		Timestamp:    data.ReceivedAt.UTC().Format(time.RFC1123),
		Source:       data.SourceIP,
	}

	htmlBody, textBody, err := renderBodies(notificationHTML, notificationText, fields)
	if err != nil {
		return nil, fmt.Errorf("owner notification: %w", err)
	}

	return &Message{
		From:    formatAddress("Portfolio Contact Form", c.fromEmail),
		To:      []string{c.toEmail},
		ReplyTo: []string{formatAddress(data.SenderName, data.SenderEmail)},
		Subject: "Portfolio Contact: " + data.Subject,
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

func (c *Composer) acknowledgment(data ContactEmailData) (*Message, error) {
	fields := acknowledgmentFields{
		Name:    data.SenderName,
		Subject: data.Subject,
		Owner:   c.owner,
	}

	htmlBody, textBody, err := renderBodies(acknowledgmentHTML, acknowledgmentText, fields)
	if err != nil {
		return nil, fmt.Errorf("sender acknowledgment: %w", err)
	}

	fromName := c.owner.Name
	if c.owner.Title != "" {
		fromName += " - " + c.owner.Title
	}

	return &Message{
		From:    formatAddress(fromName, c.fromEmail),
		To:      []string{data.SenderEmail},
		Subject: fmt.Sprintf("Thank you for contacting me, %s!", data.SenderName),
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

// renderBodies renders the rich and plain bodies from the same field set.
// html/template escapes every interpolated value, so submitted markup is inert.
func renderBodies(h *htmltemplate.Template, t *texttemplate.Template, fields any) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := h.Execute(&htmlBuf, fields); err != nil {
		return "", "", fmt.Errorf("failed to execute html template: %w", err)
	}
	if err := t.Execute(&textBuf, fields); err != nil {
		return "", "", fmt.Errorf("failed to execute text template: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

var (
	notificationHTML   = htmltemplate.Must(htmltemplate.New("notification.html").Parse(notificationHTMLTemplate))
	notificationText   = texttemplate.Must(texttemplate.New("notification.txt").Parse(notificationTextTemplate))
	acknowledgmentHTML = htmltemplate.Must(htmltemplate.New("acknowledgment.html").Parse(acknowledgmentHTMLTemplate))
	acknowledgmentText = texttemplate.Must(texttemplate.New("acknowledgment.txt").Parse(acknowledgmentTextTemplate))
)

const notificationHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h2 style="color: #333; border-bottom: 2px solid #00ffff; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #555; margin-top: 0;">Contact Details:</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background: #fff; padding: 15px; border-left: 4px solid #00ffff; margin: 20px 0;">
    <h3 style="color: #555; margin-top: 0;">Message:</h3>
    <p style="line-height: 1.6; color: #666;">{{range $i, $line := .MessageLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
  </div>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #888; font-size: 12px;">
    <p>This email was sent from your portfolio contact form.</p>
    <p>Timestamp: {{.Timestamp}}</p>
    <p>IP Address: {{.Source}}</p>
  </div>
</div>`

const notificationTextTemplate = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}

Timestamp: {{.Timestamp}}
IP Address: {{.Source}}
`

const acknowledgmentHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h2 style="color: #333; border-bottom: 2px solid #00ffff; padding-bottom: 10px;">Thank You for Reaching Out!</h2>
  <p>Hi <strong>{{.Name}}</strong>,</p>
  <p>Thank you for contacting me through my portfolio! I've received your message about "<em>{{.Subject}}</em>" and I appreciate you taking the time to reach out.</p>
  <div style="background: #f0f8ff; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #00ffff;">
    <h3 style="color: #555; margin-top: 0;">What's Next?</h3>
    <ul style="color: #666; line-height: 1.6;">
      <li>I'll review your message within 24 hours</li>
      <li>You'll receive a personalized response from me</li>
      <li>If it's about collaboration or opportunities, I'll provide detailed information</li>
    </ul>
  </div>
  {{with .Owner.Bio}}<div style="background: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #555; margin-top: 0;">About Me:</h3>
    <p style="color: #666; line-height: 1.6;">{{.}}</p>
  </div>{{end}}
  <div style="margin-top: 30px;">
    <p>Best regards,<br>
    <strong>{{.Owner.Name}}</strong><br>
    {{with .Owner.Title}}{{.}}<br>{{end}}
    {{with .Owner.Email}}{{.}}<br>{{end}}
    {{with .Owner.LinkedIn}}<a href="{{.}}">LinkedIn</a> {{end}}{{with .Owner.GitHub}}| <a href="{{.}}">GitHub</a> {{end}}{{with .Owner.Medium}}| <a href="{{.}}">Medium</a>{{end}}
    </p>
  </div>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #888; font-size: 12px;">
    <p>This is an automated response. Please don't reply to this email directly.</p>
  </div>
</div>`

const acknowledgmentTextTemplate = `Hi {{.Name}},

Thank you for contacting me through my portfolio! I've received your message about "{{.Subject}}" and I appreciate you taking the time to reach out.

What's Next?
- I'll review your message within 24 hours
- You'll receive a personalized response from me
- If it's about collaboration or opportunities, I'll provide detailed information
{{with .Owner.Bio}}
About Me:
{{.}}
{{end}}
Best regards,
{{.Owner.Name}}
{{with .Owner.Title}}{{.}}
{{end}}{{with .Owner.Email}}{{.}}
{{end}}
This is an automated response. Please don't reply to this email directly.
`
