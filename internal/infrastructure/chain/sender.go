package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

type TxRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
}

// TransactionSender signs and broadcasts a transaction, returning its hash
// without waiting for inclusion.
type TransactionSender interface {
	Send(ctx context.Context, req TxRequest) (common.Hash, error)
}

type rpcCaller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// NodeAccountSender asks the node to sign with one of its unlocked accounts
// via eth_sendTransaction.
type NodeAccountSender struct {
	rpc rpcCaller
}

func NewNodeAccountSender(rpc rpcCaller) *NodeAccountSender {
	return &NodeAccountSender{rpc: rpc}
}

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data"`
}

func (s *NodeAccountSender) Send(ctx context.Context, req TxRequest) (common.Hash, error) {
	args := sendTxArgs{From: req.From, To: req.To, Data: req.Data}
	if req.Value != nil && req.Value.Sign() > 0 {
		args.Value = (*hexutil.Big)(req.Value)
	}

	var hash common.Hash
	if err := s.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}
	return hash, nil
}

// LocalKeySender signs legacy EIP-155 transactions with a single key. It only
// sends for the key's own address.
type LocalKeySender struct {
	backend Backend
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewLocalKeySender(backend Backend, hexKey string) (*LocalKeySender, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse chain signer key: %w", err)
	}
	return &LocalKeySender{
		backend: backend,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *LocalKeySender) Address() common.Address {
	return s.address
}

func (s *LocalKeySender) Send(ctx context.Context, req TxRequest) (common.Hash, error) {
	if req.From != s.address {
		return common.Hash{}, fmt.Errorf("%w: wallet %s does not match the configured signer", usecase.ErrInvalidInput, req.From.Hex())
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := s.backend.PendingNonceAt(ctx, s.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas price: %w", err)
	}
	to := req.To
	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: s.address, To: &to, Value: value, Data: req.Data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     req.Data,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send tx: %w", err)
	}
	return signed.Hash(), nil
}
