package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/riskibarqy/pro-play/internal/domain/prediction"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// StakeRequest carries a payable makePrediction call.
type StakeRequest struct {
	MatchID  *big.Int
	Winner   prediction.Winner
	ValueWei *big.Int
	From     common.Address
}

// TxReceipt identifies a confirmed transaction.
type TxReceipt struct {
	Hash        string
	BlockNumber uint64
}

// ContractPoolStats is the raw getMatchStats result in wei.
type ContractPoolStats struct {
	Team1PoolWei *big.Int
	Team2PoolWei *big.Int
	Winner       uint8
	Finalized    bool
}

// StakingContract submits transactions to the prediction pool and waits for
// one confirmation before returning.
type StakingContract interface {
	Stake(ctx context.Context, req StakeRequest) (TxReceipt, error)
	MatchStats(ctx context.Context, matchID *big.Int) (ContractPoolStats, error)
	ClaimReward(ctx context.Context, matchID *big.Int, from common.Address) (TxReceipt, error)
}

// StakingHandle is either a configured contract or an explicit unavailable
// state carrying the reason it was not configured.
type StakingHandle struct {
	contract StakingContract
	reason   string
}

func ConfiguredStaking(contract StakingContract) StakingHandle {
	if contract == nil {
		return UnconfiguredStaking("staking contract is nil")
	}
	return StakingHandle{contract: contract}
}

func UnconfiguredStaking(reason string) StakingHandle {
	if strings.TrimSpace(reason) == "" {
		reason = "staking contract is not configured"
	}
	return StakingHandle{reason: reason}
}

func (h StakingHandle) Configured() bool {
	return h.contract != nil
}

func (h StakingHandle) get() (StakingContract, error) {
	if h.contract == nil {
		return nil, fmt.Errorf("%w: %s", ErrDependencyUnavailable, h.reason)
	}
	return h.contract, nil
}

type MakePredictionInput struct {
	MatchID         string
	PredictedWinner int
	Amount          string
	FID             int64
	WalletAddress   string
}

// PredictionResult reports the stake and its announcement separately: a
// non-nil AnnouncementErr means the stake is final but the post failed.
type PredictionResult struct {
	TransactionHash string
	Announced       bool
	AnnouncementErr error
}

type PredictionStats struct {
	MatchID   string
	Team1Pool decimal.Decimal
	Team2Pool decimal.Decimal
	TotalPool decimal.Decimal
	Winner    *prediction.Winner
	Finalized bool
}

type PredictionService struct {
	staking   StakingHandle
	publisher CastPublisher
	logger    *logging.Logger
}

func NewPredictionService(staking StakingHandle, publisher CastPublisher, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		staking:   staking,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *PredictionService) MakePrediction(ctx context.Context, input MakePredictionInput) (PredictionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.MakePrediction")
	defer span.End()

	contract, err := s.staking.get()
	if err != nil {
		return PredictionResult{}, err
	}

	matchID, err := parseMatchID(input.MatchID)
	if err != nil {
		return PredictionResult{}, err
	}
	winner := prediction.Winner(0)
	if input.PredictedWinner == 1 || input.PredictedWinner == 2 {
		winner = prediction.Winner(input.PredictedWinner)
	}
	if !winner.Valid() {
		return PredictionResult{}, fmt.Errorf("%w: predicted winner must be 1 or 2", ErrInvalidInput)
	}
	amount, valueWei, err := ParseEtherAmount(input.Amount)
	if err != nil {
		return PredictionResult{}, err
	}
	from, err := parseWalletAddress(input.WalletAddress)
	if err != nil {
		return PredictionResult{}, err
	}

	receipt, err := contract.Stake(ctx, StakeRequest{
		MatchID:  matchID,
		Winner:   winner,
		ValueWei: valueWei,
		From:     from,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "stake transaction failed", "match_id", input.MatchID, "wallet", from.Hex(), "error", err)
		return PredictionResult{}, err
	}
	s.logger.InfoContext(ctx, "stake confirmed", "match_id", input.MatchID, "wallet", from.Hex(), "tx_hash", receipt.Hash, "block", receipt.BlockNumber)

	result := PredictionResult{TransactionHash: receipt.Hash}
	if err := s.announce(ctx, input.FID, matchID.String(), amount); err != nil {
		s.logger.WarnContext(ctx, "prediction announcement failed", "fid", input.FID, "match_id", input.MatchID, "tx_hash", receipt.Hash, "error", err)
		result.AnnouncementErr = err
		return result, nil
	}
	result.Announced = true
	return result, nil
}

func (s *PredictionService) announce(ctx context.Context, fid int64, matchID string, amount decimal.Decimal) error {
	if s.publisher == nil {
		return fmt.Errorf("%w: social publishing is not configured", ErrDependencyUnavailable)
	}
	if fid <= 0 {
		return fmt.Errorf("%w: fid is required to announce a prediction", ErrInvalidInput)
	}
	_, err := s.publisher.PublishCast(ctx, CastPost{
		FID:  fid,
		Text: PredictionAnnouncement(matchID, amount),
	})
	return err
}

func (s *PredictionService) GetStats(ctx context.Context, rawMatchID string) (PredictionStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetStats")
	defer span.End()

	contract, err := s.staking.get()
	if err != nil {
		return PredictionStats{}, err
	}
	matchID, err := parseMatchID(rawMatchID)
	if err != nil {
		return PredictionStats{}, err
	}

	raw, err := contract.MatchStats(ctx, matchID)
	if err != nil {
		return PredictionStats{}, err
	}

	pool := prediction.PoolStats{
		MatchID:   matchID.String(),
		Team1Pool: WeiToEther(raw.Team1PoolWei),
		Team2Pool: WeiToEther(raw.Team2PoolWei),
		Winner:    prediction.Winner(raw.Winner),
		Finalized: raw.Finalized,
	}
	out := PredictionStats{
		MatchID:   pool.MatchID,
		Team1Pool: pool.Team1Pool,
		Team2Pool: pool.Team2Pool,
		TotalPool: pool.Total(),
		Finalized: pool.Finalized,
	}
	if pool.Finalized {
		winner := pool.Winner
		out.Winner = &winner
	}
	return out, nil
}

func (s *PredictionService) ClaimReward(ctx context.Context, rawMatchID, walletAddress string) (TxReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ClaimReward")
	defer span.End()

	contract, err := s.staking.get()
	if err != nil {
		return TxReceipt{}, err
	}
	matchID, err := parseMatchID(rawMatchID)
	if err != nil {
		return TxReceipt{}, err
	}
	from, err := parseWalletAddress(walletAddress)
	if err != nil {
		return TxReceipt{}, err
	}

	receipt, err := contract.ClaimReward(ctx, matchID, from)
	if err != nil {
		s.logger.WarnContext(ctx, "claim transaction failed", "match_id", rawMatchID, "wallet", from.Hex(), "error", err)
		return TxReceipt{}, err
	}
	return receipt, nil
}

// PredictionAnnouncement renders the post published after a confirmed stake.
func PredictionAnnouncement(matchID string, amount decimal.Decimal) string {
	return fmt.Sprintf("🎮 Just predicted on match #%s with %s ETH! Who's with me? #ProPlay #Esports", matchID, amount.String())
}

// ParseEtherAmount parses a positive decimal ETH amount and returns it with
// its wei value.
func ParseEtherAmount(raw string) (decimal.Decimal, *big.Int, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, nil, fmt.Errorf("%w: amount must be a decimal number", ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	wei := amount.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return decimal.Decimal{}, nil, fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidInput, etherDecimals)
	}
	return amount, wei.BigInt(), nil
}

// WeiToEther converts a wei amount to ETH. Nil counts as zero.
func WeiToEther(wei *big.Int) decimal.Decimal {
	return UnitsToDecimal(wei, etherDecimals)
}

// UnitsToDecimal converts an integer token amount with the given decimals.
func UnitsToDecimal(units *big.Int, decimals uint8) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -int32(decimals))
}

func parseMatchID(raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("%w: match id must be a non-negative integer", ErrInvalidInput)
	}
	return value, nil
}

func parseWalletAddress(raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: wallet address is invalid", ErrInvalidInput)
	}
	return common.HexToAddress(raw), nil
}
