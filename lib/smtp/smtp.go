package smtp

import (
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var Instance Provider

// SendResult результат передачи письма на smtp сервер
type SendResult struct {
	Success   bool
	MessageID string
}

type Provider interface {
	Send(to, subject, body string) (SendResult, error)
}

func Connect(user, password, host, port, from, domain string, tlsEnabled bool) error {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		domain:     domain,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	domain     string
	tlsEnabled bool
}

func (i impl) Send(to, subject, body string) (result SendResult, err error) {
	logger := log.WithField("recipient", to)
	if i.user == "" || i.host == "" || i.port == "" {
		logger.Warn("Письмо кандидату не отправлено, тк не настроен smtp клиент")
		return SendResult{}, nil
	}
	from := i.from
	if from == "" {
		from = i.user
	}
	messageID := fmt.Sprintf("<%v@%v>", uuid.New().String(), i.domain)
	auth := sasl.NewPlainClient("", i.user, i.password)
	message := buildMessage(from, to, subject, body, messageID)

	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, from, []string{to}, message)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, from, []string{to}, message)
	}
	if err != nil {
		logger.WithError(err).Error("Ошибка отправки сообщения")
		return SendResult{}, err
	}
	logger.WithField("message_id", messageID).Info("письмо отправлено")
	return SendResult{Success: true, MessageID: messageID}, nil
}

func buildMessage(from, to, subject, body, messageID string) *strings.Reader {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Message-ID: " + messageID + "\r\n")
	sb.WriteString("MIME-version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(body)
	sb.WriteString("\r\n")
	return strings.NewReader(sb.String())
}
