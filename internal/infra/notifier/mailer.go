package notifier

import (
	"context"
	"log/slog"
)

// 1通のメール
type Message struct {
	To      []string
	Subject string
	Body    string
}

// メール送信の約束
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer はメールを送らずにログへ出す（開発用）
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "mail",
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body))
	return nil
}
