package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/models"
	"github.com/padraicbc/footyvalue/prediction"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func pick() prediction.MatchPrediction {
	away := 4.2
	return prediction.MatchPrediction{
		Match: prediction.MatchInfo{
			MatchID:  7,
			HomeTeam: "Brighton_Hove",
			AwayTeam: "Spurs",
			League:   "Premier League",
			Kickoff:  time.Date(2024, 3, 16, 15, 0, 0, 0, time.UTC),
			Odds:     prediction.Quotes{Away: &away},
		},
		Probabilities:  prediction.Triple{Home: 0.4, Draw: 0.25, Away: 0.35},
		Recommended:    models.OutcomeAway,
		RecommendedBet: "Away",
		ExpectedValue:  0.47,
		Confidence:     0.05,
		ConfidenceBand: "low",
		ValueBand:      "excellent",
	}
}

func TestFormatPicks(t *testing.T) {
	out := FormatPicks([]prediction.MatchPrediction{pick()}, time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC))

	assert.Contains(t, out, "*Value picks* (1)")
	assert.Contains(t, out, "2024-03-10 09:30 UTC")
	assert.Contains(t, out, "*Brighton\\_Hove v Spurs*")
	assert.Contains(t, out, "Sat 16 Mar 15:00")
	assert.Contains(t, out, "Bet: *Away* @ 4.20")
	assert.Contains(t, out, "Value +47.0% (excellent)")
	assert.Contains(t, out, "H 40% D 25% A 35%")
}

func TestFormatPicksTruncates(t *testing.T) {
	picks := make([]prediction.MatchPrediction, maxPicks+3)
	for i := range picks {
		picks[i] = pick()
	}
	out := FormatPicks(picks, time.Now())
	assert.Contains(t, out, "_and 3 more_")
}

func TestPublish(t *testing.T) {
	bot := &fakeBot{}
	tg := &Telegram{bot: bot, chatID: 42, log: zap.NewNop()}
	ctx := context.Background()

	require.NoError(t, tg.Publish(ctx, nil))
	assert.Empty(t, bot.sent)

	require.NoError(t, tg.Publish(ctx, []prediction.MatchPrediction{pick()}))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, bot.sent[0].ParseMode)

	bot.err = errors.New("429")
	tg.lastSend = time.Time{}
	assert.Error(t, tg.Publish(ctx, []prediction.MatchPrediction{pick()}))

	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(ctx, []prediction.MatchPrediction{pick()}))
}

func TestPublishHonoursContext(t *testing.T) {
	tg := &Telegram{bot: &fakeBot{}, chatID: 1, log: zap.NewNop(), lastSend: time.Now()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tg.Publish(ctx, []prediction.MatchPrediction{pick()}), context.Canceled)
}
