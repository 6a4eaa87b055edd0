package match

import (
	"strings"
	"time"
)

// GameType is a provider namespace for one esports title.
type GameType string

const (
	GameLoL      GameType = "lol"
	GameCSGO     GameType = "csgo"
	GameValorant GameType = "valorant"
)

// SupportedGameTypes returns the supported titles in probe order.
func SupportedGameTypes() []GameType {
	return []GameType{GameLoL, GameCSGO, GameValorant}
}

func ParseGameType(v string) (GameType, bool) {
	candidate := GameType(strings.ToLower(strings.TrimSpace(v)))
	return candidate, candidate.Valid()
}

func (g GameType) Valid() bool {
	switch g {
	case GameLoL, GameCSGO, GameValorant:
		return true
	default:
		return false
	}
}

// Mode selects which provider listing to read.
type Mode string

const (
	ModeUpcoming Mode = "upcoming"
	ModeLive     Mode = "running"
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Team is one opponent slot. Empty fields mean the provider omitted them.
type Team struct {
	Name string
	Logo string
}

func (t Team) Present() bool {
	return t.Name != "" || t.Logo != ""
}

type Score struct {
	Team1 int
	Team2 int
}

// Match is the canonical view of a provider match. It is rebuilt per request
// and never persisted.
type Match struct {
	ID          string
	GameType    GameType
	League      string
	Team1       Team
	Team2       Team
	ScheduledAt time.Time
	Status      Status
	StreamURL   string
	Score       Score
}

const UnknownTeamName = "TBD"

// HasTeam reports whether either slot carries the given team name.
func (m Match) HasTeam(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(m.Team1.Name), name) ||
		strings.EqualFold(strings.TrimSpace(m.Team2.Name), name)
}

// DisplayNames returns both team names with a placeholder for missing slots.
func (m Match) DisplayNames() (string, string) {
	return displayName(m.Team1.Name), displayName(m.Team2.Name)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnknownTeamName
	}
	return name
}
