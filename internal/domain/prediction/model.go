package prediction

import "github.com/shopspring/decimal"

// Winner is the outcome slot a stake backs.
type Winner uint8

const (
	WinnerNone  Winner = 0
	WinnerTeam1 Winner = 1
	WinnerTeam2 Winner = 2
)

func (w Winner) Valid() bool {
	return w == WinnerTeam1 || w == WinnerTeam2
}

// PoolStats mirrors the staking contract's aggregate state for one match.
// Pools are in ETH, not wei.
type PoolStats struct {
	MatchID   string
	Team1Pool decimal.Decimal
	Team2Pool decimal.Decimal
	Winner    Winner
	Finalized bool
}

func (s PoolStats) Total() decimal.Decimal {
	return s.Team1Pool.Add(s.Team2Pool)
}
