package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TeamStat is one team's line from a completed match.
type TeamStat struct {
	bun.BaseModel `bun:"table:team_stats,alias:ts"`

	StatID       int       `bun:"stat_id,pk,autoincrement" json:"statID"`
	TeamID       int       `bun:"team_id,notnull" json:"teamID"`
	PlayedOn     time.Time `bun:"played_on,notnull,type:date" json:"playedOn"`
	IsHome       bool      `bun:"is_home,notnull" json:"isHome"`
	GoalsFor     int       `bun:"goals_for,notnull" json:"goalsFor"`
	GoalsAgainst int       `bun:"goals_against,notnull" json:"goalsAgainst"`
	Possession   *float64  `bun:"possession" json:"possession,omitempty"`
	XG           *float64  `bun:"xg,type:numeric(5,2)" json:"xg,omitempty"`
	XGA          *float64  `bun:"xga,type:numeric(5,2)" json:"xga,omitempty"`

	Team *Team `bun:"rel:belongs-to,join:team_id=team_id,on_delete:CASCADE" json:"-"`
}
