package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type fakeBalances struct {
	native    *big.Int
	stable    TokenAmount
	hasStable bool
	err       error
}

func (f fakeBalances) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	return f.native, f.err
}

func (f fakeBalances) StablecoinBalance(context.Context, common.Address) (TokenAmount, bool, error) {
	return f.stable, f.hasStable, nil
}

func TestWalletService_Balances(t *testing.T) {
	t.Parallel()

	native, _ := new(big.Int).SetString("2500000000000000000", 10)
	reader := fakeBalances{
		native:    native,
		stable:    TokenAmount{Units: big.NewInt(12_340_000), Decimals: 6},
		hasStable: true,
	}
	service := NewWalletService(reader, testWallet, nil)

	got, err := service.Balances(t.Context(), testWallet)
	if err != nil {
		t.Fatalf("read balances: %v", err)
	}
	if !got.ETH.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected eth balance: %s", got.ETH)
	}
	if got.USDC == nil || !got.USDC.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("unexpected usdc balance: %v", got.USDC)
	}
	if got.Address != common.HexToAddress(testWallet).Hex() {
		t.Fatalf("unexpected address: %s", got.Address)
	}
}

func TestWalletService_Balances_NoStablecoinContract(t *testing.T) {
	t.Parallel()

	service := NewWalletService(fakeBalances{native: big.NewInt(0)}, "", nil)
	got, err := service.Balances(t.Context(), testWallet)
	if err != nil {
		t.Fatalf("read balances: %v", err)
	}
	if got.USDC != nil {
		t.Fatalf("expected no usdc balance, got %s", got.USDC)
	}
}

func TestWalletService_Balances_Errors(t *testing.T) {
	t.Parallel()

	service := NewWalletService(fakeBalances{err: errors.New("rpc down")}, "", nil)
	if _, err := service.Balances(t.Context(), "not-an-address"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Balances(t.Context(), testWallet); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	unconfigured := NewWalletService(nil, "", nil)
	if _, err := unconfigured.Balances(t.Context(), testWallet); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable without a reader, got %v", err)
	}
}
