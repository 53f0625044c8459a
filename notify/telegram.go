// Package notify publishes value picks to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/prediction"
)

// sendInterval spaces consecutive messages to one chat under Telegram's rate limit.
const sendInterval = 2 * time.Second

// maxPicks caps how many picks go into one digest.
const maxPicks = 15

// Publisher sends a digest of value picks somewhere a human will read it.
type Publisher interface {
	Publish(ctx context.Context, picks []prediction.MatchPrediction) error
}

// Nop discards every digest. It is used when Telegram is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, []prediction.MatchPrediction) error { return nil }

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts digests to one chat with Markdown formatting.
type Telegram struct {
	bot    sender
	chatID int64
	log    *zap.Logger

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegram connects to the bot API and checks the token with getMe.
func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	bot.Debug = false
	log = log.Named("telegram")
	log.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName), zap.Int64("chat_id", chatID))
	return &Telegram{bot: bot, chatID: chatID, log: log}, nil
}

// Publish sends one message listing picks. An empty slice sends nothing.
func (t *Telegram) Publish(ctx context.Context, picks []prediction.MatchPrediction) error {
	if len(picks) == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatPicks(picks, time.Now()))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	t.mu.Lock()
	defer t.mu.Unlock()

	if wait := sendInterval - time.Since(t.lastSend); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	t.lastSend = time.Now()
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Error("telegram send failed", zap.Int("picks", len(picks)), zap.Error(err))
		return fmt.Errorf("sending telegram digest: %w", err)
	}
	t.log.Info("telegram digest sent", zap.Int("picks", len(picks)))
	return nil
}

// FormatPicks renders picks as a Telegram Markdown message.
func FormatPicks(picks []prediction.MatchPrediction, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Value picks* (%d)\n_%s_\n", len(picks), now.UTC().Format("2006-01-02 15:04 UTC"))

	for i, p := range picks {
		if i == maxPicks {
			fmt.Fprintf(&b, "\n_and %d more_\n", len(picks)-maxPicks)
			break
		}
		m := p.Match
		fmt.Fprintf(&b, "\n*%s v %s*\n", escapeMarkdown(m.HomeTeam), escapeMarkdown(m.AwayTeam))
		fmt.Fprintf(&b, "%s | %s\n", escapeMarkdown(m.League), m.Kickoff.UTC().Format("Mon 02 Jan 15:04"))
		odds := m.Odds.Prices()
		fmt.Fprintf(&b, "Bet: *%s* @ %.2f\n", p.RecommendedBet, odds[p.Recommended])
		fmt.Fprintf(&b, "Value %+.1f%% (%s) | confidence %.2f (%s)\n",
			p.ExpectedValue*100, p.ValueBand, p.Confidence, p.ConfidenceBand)
		fmt.Fprintf(&b, "H %.0f%% D %.0f%% A %.0f%%\n",
			p.Probabilities.Home*100, p.Probabilities.Draw*100, p.Probabilities.Away*100)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
