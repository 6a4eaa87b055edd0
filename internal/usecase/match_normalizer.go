package usecase

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/pro-play/internal/domain/match"
)

// NormalizeMatch maps a provider record to the canonical view. Missing team
// slots yield empty names and missing results yield a zero score.
func NormalizeMatch(item ExternalMatch) match.Match {
	out := match.Match{
		ID:        strconv.FormatInt(item.ID, 10),
		GameType:  item.GameType,
		League:    strings.TrimSpace(item.LeagueName),
		Team1:     opponentAt(item.Opponents, 0),
		Team2:     opponentAt(item.Opponents, 1),
		Status:    normalizeStatus(item.Status),
		StreamURL: strings.TrimSpace(item.LiveURL),
		Score: match.Score{
			Team1: scoreAt(item.Results, 0),
			Team2: scoreAt(item.Results, 1),
		},
	}
	if item.ScheduledAt != nil {
		out.ScheduledAt = item.ScheduledAt.UTC()
	}
	return out
}

func NormalizeMatches(items []ExternalMatch) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		out = append(out, NormalizeMatch(item))
	}
	return out
}

func opponentAt(items []ExternalOpponent, idx int) match.Team {
	if idx >= len(items) {
		return match.Team{}
	}
	return match.Team{
		Name: strings.TrimSpace(items[idx].Name),
		Logo: strings.TrimSpace(items[idx].ImageURL),
	}
}

func scoreAt(items []ExternalResult, idx int) int {
	if idx >= len(items) {
		return 0
	}
	return items[idx].Score
}

func normalizeStatus(raw string) match.Status {
	switch value := strings.ToLower(strings.TrimSpace(raw)); value {
	case "not_started", "upcoming", "":
		return match.StatusUpcoming
	case "running":
		return match.StatusRunning
	case "finished":
		return match.StatusFinished
	default:
		return match.Status(value)
	}
}
