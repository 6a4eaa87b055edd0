package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/riskibarqy/pro-play/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// BalanceReader reads native balances and, when a token is configured, its
// ERC-20 balance.
type BalanceReader struct {
	client *Client
	token  *common.Address
}

func NewBalanceReader(client *Client, token *common.Address) *BalanceReader {
	return &BalanceReader{client: client, token: token}
}

func (r *BalanceReader) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := r.client.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, unavailable("balance of %s", account.Hex(), err)
	}
	return balance, nil
}

func (r *BalanceReader) StablecoinBalance(ctx context.Context, account common.Address) (usecase.TokenAmount, bool, error) {
	if r.token == nil {
		return usecase.TokenAmount{}, false, nil
	}
	token := *r.token

	var (
		units    *big.Int
		decimals uint8
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := tokenABI.Pack("balanceOf", account)
		if err != nil {
			return fmt.Errorf("encode balanceOf: %w", err)
		}
		raw, err := r.client.call(gctx, token, data)
		if err != nil {
			return err
		}
		out, err := tokenABI.Unpack("balanceOf", raw)
		if err != nil || len(out) != 1 {
			return fmt.Errorf("%w: decode balanceOf: %v", usecase.ErrDependencyUnavailable, err)
		}
		v, ok := out[0].(*big.Int)
		if !ok {
			return fmt.Errorf("%w: balanceOf returned %T", usecase.ErrDependencyUnavailable, out[0])
		}
		units = v
		return nil
	})
	g.Go(func() error {
		data, err := tokenABI.Pack("decimals")
		if err != nil {
			return fmt.Errorf("encode decimals: %w", err)
		}
		raw, err := r.client.call(gctx, token, data)
		if err != nil {
			return err
		}
		out, err := tokenABI.Unpack("decimals", raw)
		if err != nil || len(out) != 1 {
			return fmt.Errorf("%w: decode decimals: %v", usecase.ErrDependencyUnavailable, err)
		}
		v, ok := out[0].(uint8)
		if !ok {
			return fmt.Errorf("%w: decimals returned %T", usecase.ErrDependencyUnavailable, out[0])
		}
		decimals = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return usecase.TokenAmount{}, false, err
	}
	return usecase.TokenAmount{Units: units, Decimals: decimals}, true, nil
}
