package entities

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// SmtpServer is the mail relay used by the email activity.
type SmtpServer struct {
	Host     string `yaml:"host"     toml:"host"`
	Port     int    `yaml:"port"     toml:"port"`
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"`
	From     string `yaml:"from"     toml:"from"`
}

// Address returns host:port.
func (s SmtpServer) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SmsAccount holds Twilio credentials.
type SmsAccount struct {
	AccountSID string `yaml:"account_sid" toml:"account_sid"`
	AuthToken  string `yaml:"auth_token"  toml:"auth_token"`
	From       string `yaml:"from"        toml:"from"`
	BaseURL    string `yaml:"base_url"    toml:"base_url"`
}

// FtpServer is the target of the FTP upload activity.
type FtpServer struct {
	Host     string   `yaml:"host"     toml:"host"`
	Port     int      `yaml:"port"     toml:"port"`
	Username string   `yaml:"username" toml:"username"`
	Password string   `yaml:"password" toml:"password"`
	Timeout  Duration `yaml:"timeout"  toml:"timeout"`
}

// Address returns host:port.
func (s FtpServer) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// EmailMessage is a single outgoing email.
type EmailMessage struct {
	From    string
	To      []string
	Cc      []string
	Subject string
	Body    string
	HTML    bool
}

// Recipients returns To and Cc combined.
func (m EmailMessage) Recipients() []string {
	recipients := make([]string, 0, len(m.To)+len(m.Cc))
	recipients = append(recipients, m.To...)
	return append(recipients, m.Cc...)
}

// Validate checks the required message fields.
func (m EmailMessage) Validate() error {
	if err := RequireArgument("from", m.From); err != nil {
		return err
	}
	if len(m.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidArgument)
	}
	if err := RequireArgument("subject", m.Subject); err != nil {
		return err
	}
	for _, header := range append([]string{m.From, m.Subject}, m.Recipients()...) {
		if strings.ContainsAny(header, "\r\n") {
			return fmt.Errorf("%w: header values must be single-line", ErrInvalidArgument)
		}
	}
	return nil
}

// SmsMessage is a single outgoing text message.
type SmsMessage struct {
	From string
	To   string
	Body string
}

// Validate checks the required message fields.
func (m SmsMessage) Validate() error {
	if err := RequireArgument("from", m.From); err != nil {
		return err
	}
	if err := RequireArgument("to", m.To); err != nil {
		return err
	}
	return RequireArgument("body", m.Body)
}
