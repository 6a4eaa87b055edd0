package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

// TokenAmount is an integer token balance with its decimals.
type TokenAmount struct {
	Units    *big.Int
	Decimals uint8
}

// BalanceReader reads native and stablecoin balances from the chain.
type BalanceReader interface {
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	// StablecoinBalance reports false when no token contract is configured.
	StablecoinBalance(ctx context.Context, account common.Address) (TokenAmount, bool, error)
}

type WalletBalances struct {
	Address string
	ETH     decimal.Decimal
	USDC    *decimal.Decimal
}

type WalletService struct {
	reader      BalanceReader
	demoAddress string
	logger      *logging.Logger
}

func NewWalletService(reader BalanceReader, demoAddress string, logger *logging.Logger) *WalletService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WalletService{
		reader:      reader,
		demoAddress: demoAddress,
		logger:      logger,
	}
}

// DemoAddress is the wallet shown to users who have not connected one.
func (s *WalletService) DemoAddress() string {
	return s.demoAddress
}

func (s *WalletService) Balances(ctx context.Context, rawAddress string) (WalletBalances, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.Balances")
	defer span.End()

	account, err := parseWalletAddress(rawAddress)
	if err != nil {
		return WalletBalances{}, err
	}
	if s.reader == nil {
		return WalletBalances{}, fmt.Errorf("%w: chain client is not configured", ErrDependencyUnavailable)
	}

	var (
		native    *big.Int
		stable    TokenAmount
		hasStable bool
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		v, err := s.reader.NativeBalance(ctx, account)
		if err != nil {
			return fmt.Errorf("read native balance: %w", err)
		}
		native = v
		return nil
	})
	p.Go(func(ctx context.Context) error {
		v, ok, err := s.reader.StablecoinBalance(ctx, account)
		if err != nil {
			return fmt.Errorf("read stablecoin balance: %w", err)
		}
		stable, hasStable = v, ok
		return nil
	})
	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "wallet balance lookup failed", "address", account.Hex(), "error", err)
		return WalletBalances{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	out := WalletBalances{
		Address: account.Hex(),
		ETH:     WeiToEther(native),
	}
	if hasStable {
		usdc := UnitsToDecimal(stable.Units, stable.Decimals)
		out.USDC = &usdc
	}
	return out, nil
}
