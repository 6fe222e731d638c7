// Package notify отправляет уведомления в Telegram о событиях сервиса.
//
// Отправка выполняется по принципу fire-and-forget: любая ошибка логируется
// и гасится внутри пакета, вызвавшая операция о ней не узнаёт. Если токен
// бота или идентификатор чата не настроены, отправка тихо пропускается.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mmeshcher/servicepoint/internal/model"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	sendTimeout    = 5 * time.Second
)

// SettingsSource отдаёт актуальные настройки сайта в момент отправки.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
}

// Notifier отправляет сообщения через Telegram Bot API.
type Notifier struct {
	baseURL  string
	settings SettingsSource
	client   *resty.Client
	logger   *zap.Logger
}

// NewNotifier создаёт отправитель уведомлений. Пустой baseURL означает
// боевой адрес Telegram API.
func NewNotifier(baseURL string, settings SettingsSource, logger *zap.Logger) *Notifier {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Notifier{
		baseURL:  baseURL,
		settings: settings,
		client:   resty.New().SetTimeout(sendTimeout),
		logger:   logger,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func orDefault(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// OrderCreated уведомляет о новом заказе.
func (n *Notifier) OrderCreated(order model.Order, owner model.User) {
	text := fmt.Sprintf(
		"*New %s order received*\n\n"+
			"*Type:* %s\n"+
			"*ID number:* `%s`\n"+
			"*Note:* %s\n"+
			"*Email:* %s\n"+
			"*Phone:* %s\n"+
			"*Time:* %s\n"+
			"*Customer balance:* %s\n\n"+
			"Please review the order promptly.",
		order.Service,
		order.Type,
		order.Identifier,
		orDefault(order.Note),
		owner.Email,
		orDefault(owner.Phone),
		order.Date.Format("2006-01-02 03:04:05 PM"),
		formatCents(owner.BalanceCents),
	)
	n.send(text)
}

// Recharge уведомляет об успешном пополнении баланса. Баланс пользователя
// уже содержит зачисленную сумму.
func (n *Notifier) Recharge(user model.User, amountCents int64) {
	text := fmt.Sprintf(
		"*✅ Balance recharged!*\n\n"+
			"*User:* %s\n"+
			"*Email:* %s\n"+
			"*Phone:* %s\n"+
			"*Recharge amount:* %s\n"+
			"*New balance:* %s",
		user.Name,
		user.Email,
		orDefault(user.Phone),
		formatCents(amountCents),
		formatCents(user.BalanceCents),
	)
	n.send(text)
}

func (n *Notifier) send(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	settings, err := n.settings.GetSettings(ctx)
	if err != nil {
		n.logger.Error("notification skipped: read settings", zap.Error(err))
		return
	}

	if settings.TelegramBotToken == "" || settings.TelegramChatID == "" {
		n.logger.Debug("telegram is not configured, skipping notification")
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, settings.TelegramBotToken)

	var result sendMessageResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{
			ChatID:    settings.TelegramChatID,
			Text:      text,
			ParseMode: "Markdown",
		}).
		SetResult(&result).
		SetError(&result).
		Post(url)
	if err != nil {
		n.logger.Error("send telegram notification", zap.Error(err))
		return
	}

	if resp.IsError() || !result.OK {
		n.logger.Error("telegram API error",
			zap.Int("status", resp.StatusCode()),
			zap.String("description", result.Description),
		)
	}
}
