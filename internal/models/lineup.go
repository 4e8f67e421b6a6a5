package models

// LineupInput is one team entry of the /fixtures/lineups response
type LineupInput struct {
	Team        LineupTeam    `json:"team"`
	Formation   string        `json:"formation"`
	StartXI     []LineupEntry `json:"startXI"`
	Substitutes []LineupEntry `json:"substitutes"`
}

// LineupTeam identifies the side of a lineup
type LineupTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// LineupEntry wraps a player as the provider nests it
type LineupEntry struct {
	Player LineupPlayer `json:"player"`
}

// LineupPlayer is a player listed in a lineup
type LineupPlayer struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	Pos    string `json:"pos"`
	Grid   string `json:"grid"`
}

// Starters returns up to n starting players, in provider order
func (l LineupInput) Starters(n int) []LineupPlayer {
	if n > len(l.StartXI) || n < 0 {
		n = len(l.StartXI)
	}
	players := make([]LineupPlayer, 0, n)
	for _, entry := range l.StartXI[:n] {
		players = append(players, entry.Player)
	}
	return players
}
