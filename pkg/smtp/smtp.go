package smtp

import (
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Sender abstracts the dialer so messages can be captured in tests.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Client sends plain text emails with an HTML alternative.
type Client struct {
	dialer Sender
	from   string
	domain string
}

func NewClient(dialer Sender, from, domain string) *Client {
	return &Client{
		dialer: dialer,
		from:   from,
		domain: domain,
	}
}

func (c *Client) Message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("Message-ID", generateMessageID(c.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", "<p>"+html.EscapeString(body)+"</p>")
	return msg
}

func (c *Client) SendMail(to, subject, body string) error {
	if err := c.dialer.DialAndSend(c.Message(to, subject, body)); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func generateMessageID(domain string) string {
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
