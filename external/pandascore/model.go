package pandascore

type matchPayload struct {
	ID          int64            `json:"id"`
	League      leaguePayload    `json:"league"`
	Opponents   []opponentSlot   `json:"opponents"`
	ScheduledAt *string          `json:"scheduled_at"`
	BeginAt     *string          `json:"begin_at"`
	Status      string           `json:"status"`
	LiveURL     *string          `json:"live_url"`
	Results     []resultPayload  `json:"results"`
	Videogame   videogamePayload `json:"videogame"`
	Streams     []streamPayload  `json:"streams_list"`
}

type leaguePayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type opponentSlot struct {
	Type     string          `json:"type"`
	Opponent opponentPayload `json:"opponent"`
}

type opponentPayload struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Acronym  *string `json:"acronym"`
	ImageURL *string `json:"image_url"`
}

type resultPayload struct {
	TeamID int64 `json:"team_id"`
	Score  int   `json:"score"`
}

type videogamePayload struct {
	Slug string `json:"slug"`
}

type streamPayload struct {
	Main   bool   `json:"main"`
	RawURL string `json:"raw_url"`
}
