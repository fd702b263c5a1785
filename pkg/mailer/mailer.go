package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Message - простое письмо: текст и необязательный HTML.
type Message struct {
	To          []string
	Subject     string
	TextContent string
	HTMLContent string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New возвращает SendGrid-отправителя или, без ключа API, отправителя в лог.
func New(apiKey, fromName, fromAddress string, logger *zap.Logger) Mailer {
	if apiKey == "" {
		logger.Warn("SENDGRID_API_KEY не задан, письма будут только логироваться")
		return &logMailer{logger: logger}
	}
	return &sendgridMailer{
		key:    apiKey,
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger,
	}
}

type sendgridMailer struct {
	key    string
	from   *sgmail.Email
	logger *zap.Logger
}

func (m *sendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return v3
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("письмо '%s' без получателей", msg.Subject)
	}
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к SendGrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("SendGrid вернул статус %d: %s", res.StatusCode, res.Body)
	}
	m.logger.Info("Письмо отправлено", zap.String("subject", msg.Subject), zap.Strings("to", msg.To))
	return nil
}

type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("Письмо (без отправки)",
		zap.String("subject", msg.Subject),
		zap.Strings("to", msg.To),
		zap.String("body", msg.TextContent),
	)
	return nil
}
