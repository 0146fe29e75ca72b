package fightapi

// Fighter is the provider's fighter shape.
type Fighter struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	League   string `json:"promotion"`
	Division string `json:"division"`
}

// Record is a fighter's career record.
type Record struct {
	FighterID string `json:"fighter_id"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Draws     int    `json:"draws"`
	KOWins    int    `json:"ko_wins"`
	SubWins   int    `json:"sub_wins"`
	DecWins   int    `json:"dec_wins"`
}

// Fight is one bout. Result is from the perspective of FighterID:
// "win", "loss", "draw", "nc", or "" when the bout has not happened.
type Fight struct {
	ID         string `json:"id"`
	FighterID  string `json:"fighter_id"`
	OpponentID string `json:"opponent_id"`
	Fighter    string `json:"fighter"`
	Opponent   string `json:"opponent"`
	Date       string `json:"date"` // YYYY-MM-DD
	Status     string `json:"status"`
	Result     string `json:"result"`
	Method     string `json:"method"`
	Round      int    `json:"round"`
	Event      string `json:"event"`
}

// Event is a fight card.
type Event struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Date  string  `json:"date"`
	Bouts []Fight `json:"bouts"`
}
