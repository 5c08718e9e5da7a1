// Package notify pushes out-of-band alerts to Telegram: failed searches
// and players whose turnover includes nine-line games. All sends are
// queued and rate limited; a nil notifier is a safe no-op.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to
// avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

type messageType int

const (
	messageTypeFailure messageType = iota
	messageTypeNineLines
	messageTypeTest
)

type queuedMessage struct {
	msgType messageType
	job     models.SearchJob
	errMsg  string
	result  *models.TurnoverResult
	text    string
}

// TelegramNotifier sends job alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time

	queue     chan queuedMessage
	queueDone chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTelegramNotifier creates a notifier, or nil when the token is
// missing or the bot cannot be reached. Callers treat nil as disabled.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	if token == "" || chatID == 0 {
		slog.Info("telegram notifier disabled: no token or chat configured")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("failed to get telegram bot info", "error", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		bot:       bot,
		chatID:    chatID,
		queue:     make(chan queuedMessage, 100),
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	n.wg.Add(1)
	go n.messageSender()

	slog.Info("telegram notifier initialized", "chat_id", chatID)
	return n
}

// SearchFailed queues a failure alert. Non-blocking; drops when full.
func (n *TelegramNotifier) SearchFailed(job models.SearchJob, errMsg string) {
	n.enqueue(queuedMessage{msgType: messageTypeFailure, job: job, errMsg: errMsg})
}

// NineLinesDetected queues an alert that a player's turnover includes
// nine-line games. Non-blocking; drops when full.
func (n *TelegramNotifier) NineLinesDetected(job models.SearchJob, result *models.TurnoverResult) {
	n.enqueue(queuedMessage{msgType: messageTypeNineLines, job: job, result: result})
}

// SendTestAlert queues a plain test message.
func (n *TelegramNotifier) SendTestAlert(ctx context.Context, message string) error {
	if n == nil || n.bot == nil {
		return fmt.Errorf("telegram notifier not initialized")
	}

	text := fmt.Sprintf("🧪 *Test Alert*\n\n%s\n\n_Time: %s_",
		message, time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))

	select {
	case <-n.ctx.Done():
		return fmt.Errorf("notifier stopped")
	case <-ctx.Done():
		return ctx.Err()
	case n.queue <- queuedMessage{msgType: messageTypeTest, text: text}:
		return nil
	default:
		slog.Warn("telegram message queue is full, dropping test alert")
		return fmt.Errorf("message queue is full")
	}
}

func (n *TelegramNotifier) enqueue(msg queuedMessage) {
	if n == nil || n.bot == nil {
		return
	}
	select {
	case <-n.ctx.Done():
	case n.queue <- msg:
	default:
		slog.Warn("telegram message queue is full, dropping message",
			"jobId", msg.job.ID, "type", msg.msgType)
	}
}

// Stop stops the notifier after draining the queue.
func (n *TelegramNotifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
	n.wg.Wait()
}

func (n *TelegramNotifier) messageSender() {
	defer n.wg.Done()

	for {
		select {
		case <-n.ctx.Done():
			for {
				select {
				case msg := <-n.queue:
					n.sendQueuedMessage(msg)
				default:
					close(n.queueDone)
					return
				}
			}
		case msg := <-n.queue:
			n.sendQueuedMessage(msg)
		}
	}
}

func (n *TelegramNotifier) sendQueuedMessage(msg queuedMessage) {
	var text string
	switch msg.msgType {
	case messageTypeFailure:
		text = formatFailureAlert(msg.job, msg.errMsg)
	case messageTypeNineLines:
		text = formatNineLinesAlert(msg.job, msg.result)
	case messageTypeTest:
		text = msg.text
	default:
		slog.Error("unknown telegram message type", "type", msg.msgType)
		return
	}

	tgMsg := tgbotapi.NewMessage(n.chatID, text)
	tgMsg.ParseMode = tgbotapi.ModeMarkdown

	n.mu.Lock()
	if elapsed := time.Since(n.lastSend); elapsed < telegramSendInterval {
		wait := telegramSendInterval - elapsed
		n.mu.Unlock()
		select {
		case <-n.ctx.Done():
			return
		case <-time.After(wait):
		}
		n.mu.Lock()
	}
	n.lastSend = time.Now()
	_, err := n.bot.Send(tgMsg)
	n.mu.Unlock()

	if err != nil {
		slog.Error("telegram send failed", "type", msg.msgType, "jobId", msg.job.ID, "error", err)
	} else {
		slog.Info("telegram alert sent", "type", msg.msgType, "jobId", msg.job.ID, "queue_length", len(n.queue))
	}
}

func formatFailureAlert(job models.SearchJob, errMsg string) string {
	var b strings.Builder
	b.WriteString("🚨 *Search Failed*\n\n")
	b.WriteString(fmt.Sprintf("Player: *%s*\n", escapeMarkdown(job.PlayerID)))
	b.WriteString(fmt.Sprintf("Portal: %s / %s\n", escapeMarkdown(job.Provider), escapeMarkdown(job.Brand)))
	b.WriteString(fmt.Sprintf("Error: %s\n", escapeMarkdown(errMsg)))
	return b.String()
}

func formatNineLinesAlert(job models.SearchJob, result *models.TurnoverResult) string {
	var b strings.Builder
	b.WriteString("⚠️ *Nine-Line Games Detected*\n\n")
	b.WriteString(fmt.Sprintf("Player: *%s*\n", escapeMarkdown(job.PlayerID)))
	b.WriteString(fmt.Sprintf("Portal: %s / %s\n", escapeMarkdown(job.Provider), escapeMarkdown(job.Brand)))
	if result != nil {
		b.WriteString(fmt.Sprintf("Total turnover: *%.2f*\n", result.TotalTurnover))
		for _, g := range result.Games {
			if strings.HasPrefix(g.Lines, "9 ") || g.Lines == "9" {
				b.WriteString(fmt.Sprintf("• %s | %s | bet %.2f × %d spins = %.2f\n",
					escapeMarkdown(g.GameName), g.Lines, g.Betting, g.Spin, g.TotalBetting))
			}
		}
	}
	return b.String()
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
