package model

type Player struct {
	ID string
}

// ClientPlayer is a seat as shown to clients. TimeLeft is in tenths of a
// second.
type ClientPlayer struct {
	ID       string `json:"name"`
	Team     Team   `json:"team"`
	TimeLeft int    `json:"timeLeft"`
}

type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Team   Team   `json:"team"`
}
