package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/riskibarqy/pro-play/internal/domain/match"
)

var errProviderDown = errors.New("provider down")

type providerCall struct {
	game    match.GameType
	mode    match.Mode
	matchID string
}

// fakeProvider serves canned listings per game type and records every call.
type fakeProvider struct {
	mu       sync.Mutex
	listings map[match.GameType][]ExternalMatch
	byID     map[match.GameType]map[string]ExternalMatch
	failList map[match.GameType]error
	calls    []providerCall
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		listings: make(map[match.GameType][]ExternalMatch),
		byID:     make(map[match.GameType]map[string]ExternalMatch),
		failList: make(map[match.GameType]error),
	}
}

func (p *fakeProvider) addMatch(game match.GameType, item ExternalMatch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item.GameType = game
	p.listings[game] = append(p.listings[game], item)
	if p.byID[game] == nil {
		p.byID[game] = make(map[string]ExternalMatch)
	}
	p.byID[game][fmt.Sprint(item.ID)] = item
}

func (p *fakeProvider) ListMatches(_ context.Context, game match.GameType, mode match.Mode, _ int) ([]ExternalMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, providerCall{game: game, mode: mode})
	if err := p.failList[game]; err != nil {
		return nil, err
	}
	return append([]ExternalMatch(nil), p.listings[game]...), nil
}

func (p *fakeProvider) GetMatch(_ context.Context, game match.GameType, matchID string) (ExternalMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, providerCall{game: game, matchID: matchID})
	item, ok := p.byID[game][matchID]
	if !ok {
		return ExternalMatch{}, fmt.Errorf("%w: 404", ErrDependencyUnavailable)
	}
	return item, nil
}

func (p *fakeProvider) recordedCalls() []providerCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]providerCall(nil), p.calls...)
}

// staticFinder resolves from a fixed map.
type staticFinder map[string]match.Match

func (f staticFinder) Resolve(_ context.Context, matchID string) (match.Match, error) {
	m, ok := f[matchID]
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return m, nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	posts []CastPost
	hash  string
	err   error
}

func (p *recordingPublisher) PublishCast(_ context.Context, post CastPost) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post)
	if p.err != nil {
		return "", p.err
	}
	return p.hash, nil
}

type fakeStaking struct {
	stakes  []StakeRequest
	claims  []common.Address
	stats   ContractPoolStats
	receipt TxReceipt
	err     error
}

func (s *fakeStaking) Stake(_ context.Context, req StakeRequest) (TxReceipt, error) {
	s.stakes = append(s.stakes, req)
	if s.err != nil {
		return TxReceipt{}, s.err
	}
	return s.receipt, nil
}

func (s *fakeStaking) MatchStats(_ context.Context, _ *big.Int) (ContractPoolStats, error) {
	if s.err != nil {
		return ContractPoolStats{}, s.err
	}
	return s.stats, nil
}

func (s *fakeStaking) ClaimReward(_ context.Context, _ *big.Int, from common.Address) (TxReceipt, error) {
	s.claims = append(s.claims, from)
	if s.err != nil {
		return TxReceipt{}, s.err
	}
	return s.receipt, nil
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func timePtr(ts time.Time) *time.Time {
	return &ts
}
