package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Odds is one bookmaker's decimal price for one outcome of a match.
// (match_id, outcome, bookmaker) is unique; the newest RecordedAt wins.
type Odds struct {
	bun.BaseModel `bun:"table:odds,alias:o"`

	OddsID     int             `bun:"odds_id,pk,autoincrement" json:"oddsID"`
	MatchID    int             `bun:"match_id,notnull" json:"matchID"`
	Outcome    string          `bun:"outcome,notnull" json:"outcome"`
	Price      decimal.Decimal `bun:"price,notnull,type:numeric(7,2)" json:"price"`
	Bookmaker  string          `bun:"bookmaker,notnull" json:"bookmaker"`
	RecordedAt time.Time       `bun:"recorded_at,notnull,default:current_timestamp" json:"recordedAt"`

	Match *Match `bun:"rel:belongs-to,join:match_id=match_id,on_delete:CASCADE" json:"-"`
}
