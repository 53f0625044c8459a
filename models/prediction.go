package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Prediction is one pipeline run for a match. Correct is nil until the
// match has been reconciled against its final score.
type Prediction struct {
	bun.BaseModel `bun:"table:predictions,alias:p"`

	PredictionID     int       `bun:"prediction_id,pk,autoincrement" json:"predictionID"`
	MatchID          int       `bun:"match_id,notnull" json:"matchID"`
	PredictedAt      time.Time `bun:"predicted_at,notnull" json:"predictedAt"`
	ProbHome         float64   `bun:"prob_home,notnull" json:"probHome"`
	ProbDraw         float64   `bun:"prob_draw,notnull" json:"probDraw"`
	ProbAway         float64   `bun:"prob_away,notnull" json:"probAway"`
	PredictedOutcome Outcome   `bun:"predicted_outcome,notnull" json:"predictedOutcome"`
	ValueHome        float64   `bun:"value_home,notnull" json:"valueHome"`
	ValueDraw        float64   `bun:"value_draw,notnull" json:"valueDraw"`
	ValueAway        float64   `bun:"value_away,notnull" json:"valueAway"`
	Confidence       float64   `bun:"confidence,notnull" json:"confidence"`
	Correct          *bool     `bun:"correct" json:"correct,omitempty"`

	Match *Match `bun:"rel:belongs-to,join:match_id=match_id,on_delete:CASCADE" json:"-"`
}

// Probabilities returns the home/draw/away probabilities in outcome order.
func (p *Prediction) Probabilities() [3]float64 {
	return [3]float64{p.ProbHome, p.ProbDraw, p.ProbAway}
}

// Values returns the home/draw/away expected values in outcome order.
func (p *Prediction) Values() [3]float64 {
	return [3]float64{p.ValueHome, p.ValueDraw, p.ValueAway}
}
