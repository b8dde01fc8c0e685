package entity

import "time"

const (
	WinnerX   = "X"
	WinnerO   = "O"
	WinnerTie = "-"
)

// MatchResult - archive record of a finished match. Live games are never
// persisted; only terminal outcomes are written out.
type MatchResult struct {
	MatchID    uint32    `json:"match_id"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	Winner     string    `json:"winner"`
	FinalGrid  string    `json:"final_grid"`
	FinishedAt time.Time `json:"finished_at"`
}

// WinnerName - display name of the winning player, or empty on a tie.
func (that *MatchResult) WinnerName() string {
	switch that.Winner {
	case WinnerX:
		return that.PlayerX
	case WinnerO:
		return that.PlayerO
	default:
		return ""
	}
}
