package email

import (
	"net/mail"

	jemail "github.com/jordan-wright/email"
)

// Message is one outbound email with both a rich and a plain body.
type Message struct {
	From    string
	To      []string
	ReplyTo []string
	Subject string
	HTML    string
	Text    string
}

// Email converts the message into the wire representation used for sending.
func (m *Message) Email() *jemail.Email {
	e := jemail.NewEmail()
	e.From = m.From
	e.To = append([]string(nil), m.To...)
	e.ReplyTo = append([]string(nil), m.ReplyTo...)
	e.Subject = m.Subject
	e.HTML = []byte(m.HTML)
	e.Text = []byte(m.Text)
	return e
}

// Bytes renders the full MIME message.
func (m *Message) Bytes() ([]byte, error) {
	return m.Email().Bytes()
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}
