package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

// PredictionPool is the staking contract for match predictions.
type PredictionPool struct {
	client  *Client
	address common.Address
}

func NewPredictionPool(client *Client, address common.Address) *PredictionPool {
	return &PredictionPool{client: client, address: address}
}

func (p *PredictionPool) Stake(ctx context.Context, req usecase.StakeRequest) (usecase.TxReceipt, error) {
	data, err := poolABI.Pack("makePrediction", req.MatchID, uint8(req.Winner))
	if err != nil {
		return usecase.TxReceipt{}, fmt.Errorf("%w: encode makePrediction: %v", usecase.ErrInvalidInput, err)
	}
	return p.client.transact(ctx, req.From, p.address, req.ValueWei, data)
}

func (p *PredictionPool) MatchStats(ctx context.Context, matchID *big.Int) (usecase.ContractPoolStats, error) {
	data, err := poolABI.Pack("getMatchStats", matchID)
	if err != nil {
		return usecase.ContractPoolStats{}, fmt.Errorf("%w: encode getMatchStats: %v", usecase.ErrInvalidInput, err)
	}
	raw, err := p.client.call(ctx, p.address, data)
	if err != nil {
		return usecase.ContractPoolStats{}, err
	}

	var out struct {
		Team1Pool *big.Int
		Team2Pool *big.Int
		Winner    uint8
		Finalized bool
	}
	if err := poolABI.UnpackIntoInterface(&out, "getMatchStats", raw); err != nil {
		return usecase.ContractPoolStats{}, fmt.Errorf("%w: decode getMatchStats: %v", usecase.ErrDependencyUnavailable, err)
	}
	return usecase.ContractPoolStats{
		Team1PoolWei: out.Team1Pool,
		Team2PoolWei: out.Team2Pool,
		Winner:       out.Winner,
		Finalized:    out.Finalized,
	}, nil
}

func (p *PredictionPool) ClaimReward(ctx context.Context, matchID *big.Int, from common.Address) (usecase.TxReceipt, error) {
	data, err := poolABI.Pack("claimReward", matchID)
	if err != nil {
		return usecase.TxReceipt{}, fmt.Errorf("%w: encode claimReward: %v", usecase.ErrInvalidInput, err)
	}
	return p.client.transact(ctx, from, p.address, nil, data)
}
