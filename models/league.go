package models

import "github.com/uptrace/bun"

// League is a competition a team plays in.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	LeagueID int    `bun:"league_id,pk,autoincrement" json:"leagueID"`
	Name     string `bun:"name,notnull,unique" json:"name"`
	Country  string `bun:"country,notnull" json:"country"`
	URL      string `bun:"url,notnull" json:"url"`
}

// Team is a club owned by a league.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	TeamID   int     `bun:"team_id,pk,autoincrement" json:"teamID"`
	Name     string  `bun:"name,notnull,unique" json:"name"`
	LeagueID int     `bun:"league_id,notnull" json:"leagueID"`
	URL      *string `bun:"url" json:"url,omitempty"`

	League *League `bun:"rel:belongs-to,join:league_id=league_id,on_delete:CASCADE" json:"-"`
}
