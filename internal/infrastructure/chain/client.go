package chain

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

const (
	defaultPollInterval   = 2 * time.Second
	defaultReceiptTimeout = 2 * time.Minute
)

// Backend is the subset of the JSON-RPC API the client needs.
// *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type Config struct {
	RPCURL              string
	SignerPrivateKey    string
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
	Logger              *logging.Logger
}

// Client reads contract state and submits transactions on behalf of a wallet.
type Client struct {
	backend        Backend
	sender         TransactionSender
	logger         *logging.Logger
	pollInterval   time.Duration
	receiptTimeout time.Duration
	closeFn        func()
}

// Dial connects to the RPC endpoint. Transactions are signed with
// SignerPrivateKey when it is set, otherwise by the node's unlocked accounts.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	rpcURL := strings.TrimSpace(cfg.RPCURL)
	if rpcURL == "" {
		return nil, fmt.Errorf("chain rpc url is empty")
	}

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}

	var sender TransactionSender
	if key := strings.TrimSpace(cfg.SignerPrivateKey); key != "" {
		local, err := NewLocalKeySender(eth, key)
		if err != nil {
			eth.Close()
			return nil, err
		}
		sender = local
	} else {
		sender = NewNodeAccountSender(eth.Client())
	}

	client := NewClient(eth, sender, cfg)
	client.closeFn = eth.Close
	return client, nil
}

func NewClient(backend Backend, sender TransactionSender, cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	pollInterval := cfg.ReceiptPollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	receiptTimeout := cfg.ReceiptTimeout
	if receiptTimeout <= 0 {
		receiptTimeout = defaultReceiptTimeout
	}

	return &Client{
		backend:        backend,
		sender:         sender,
		logger:         logger.Named("chain"),
		pollInterval:   pollInterval,
		receiptTimeout: receiptTimeout,
	}
}

func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

func (c *Client) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, unavailable("eth_call %s", to.Hex(), err)
	}
	return out, nil
}

// transact submits a transaction and blocks until its receipt is available.
// A reverted receipt is an error.
func (c *Client) transact(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (usecase.TxReceipt, error) {
	if c.sender == nil {
		return usecase.TxReceipt{}, fmt.Errorf("%w: no transaction signer is configured", usecase.ErrDependencyUnavailable)
	}

	hash, err := c.sender.Send(ctx, TxRequest{From: from, To: to, Value: value, Data: data})
	if err != nil {
		if stderrors.Is(err, usecase.ErrInvalidInput) {
			return usecase.TxReceipt{}, err
		}
		return usecase.TxReceipt{}, unavailable("send transaction from %s", from.Hex(), err)
	}
	c.logger.InfoContext(ctx, "transaction submitted", "tx_hash", hash.Hex(), "from", from.Hex(), "to", to.Hex())

	receipt, err := c.waitMined(ctx, hash)
	if err != nil {
		return usecase.TxReceipt{}, err
	}
	out := usecase.TxReceipt{Hash: hash.Hex()}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return out, nil
}

func (c *Client) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("%w: transaction %s reverted", usecase.ErrDependencyUnavailable, hash.Hex())
			}
			return receipt, nil
		case err != nil && !stderrors.Is(err, ethereum.NotFound):
			c.logger.DebugContext(ctx, "receipt lookup failed", "tx_hash", hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for transaction %s: %v", usecase.ErrDependencyUnavailable, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func unavailable(format, arg string, err error) error {
	return fmt.Errorf("%w: "+format+": %v", usecase.ErrDependencyUnavailable, arg, err)
}
