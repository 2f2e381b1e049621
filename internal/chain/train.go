// Package chain is the train contract client: ticket counter reads, the two
// state-changing operations (mint and yoink transfer) and the yoink
// eligibility views. Minted token ids are recovered from transaction
// receipts, never assumed.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
)

// transferEventSig is keccak256("Transfer(address,address,uint256)")
var transferEventSig = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// Service defines the interface for train contract operations
//
//go:generate mockgen -source=train.go -destination=../mocks/chain.go -package=mocks -mock_names=Service=MockChainService
type Service interface {
	// NextTicketID reads the id the next mint will produce
	NextTicketID(ctx context.Context) (uint64, error)

	// Mint moves the train to recipient, minting a ticket with tokenURI
	Mint(ctx context.Context, recipient string, tokenURI string) (*domain.TxResult, error)

	// YoinkTransfer force-moves the train to target after the inactivity window
	YoinkTransfer(ctx context.Context, target string) (*domain.TxResult, error)

	// IsYoinkable reports whether the cooldown timer has expired
	IsYoinkable(ctx context.Context) (*domain.YoinkStatus, error)

	// HasRiddenBefore reports whether an address has ever held the train
	HasRiddenBefore(ctx context.Context, address string) (bool, error)

	// HasDepositedEnough reports whether an fid has a sufficient prior deposit
	HasDepositedEnough(ctx context.Context, fid uint64) (bool, error)

	// ResolveMintedID recovers the minted token id from a transaction by
	// polling for its receipt and parsing the Transfer log
	ResolveMintedID(ctx context.Context, txHash string) (uint64, error)

	// Close closes the underlying connection
	Close()
}

// Config holds the train contract client configuration
type Config struct {
	ContractAddress string
	PrivateKey      string // hex-encoded signer key
	ChainID         int64
	ReceiptTimeout  time.Duration
}

type service struct {
	client   adapter.EthClient
	clock    adapter.Clock
	contract common.Address
	signer   *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	cfg      Config
}

// NewService creates a new train contract client
func NewService(cfg Config, client adapter.EthClient, clock adapter.Clock) (Service, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signer key: %w", err)
	}

	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = 2 * time.Minute
	}

	return &service{
		client:   client,
		clock:    clock,
		contract: common.HexToAddress(cfg.ContractAddress),
		signer:   key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  big.NewInt(cfg.ChainID),
		cfg:      cfg,
	}, nil
}

// NextTicketID reads the id the next mint will produce
func (s *service) NextTicketID(ctx context.Context) (uint64, error) {
	// nextTicketId function signature: nextTicketId() returns (uint256)
	nextTicketABI, err := abi.JSON(strings.NewReader(`[{"inputs":[],"name":"nextTicketId","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return 0, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := nextTicketABI.Pack("nextTicketId")
	if err != nil {
		return 0, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &s.contract,
		Data: data,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to call contract: %w", err)
	}

	var next *big.Int
	if err := nextTicketABI.UnpackIntoInterface(&next, "nextTicketId", result); err != nil {
		return 0, fmt.Errorf("failed to unpack result: %w", err)
	}

	return next.Uint64(), nil
}

// Mint moves the train to recipient, minting a ticket with tokenURI
func (s *service) Mint(ctx context.Context, recipient string, tokenURI string) (*domain.TxResult, error) {
	// nextStop function signature: nextStop(address,string)
	nextStopABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"to","type":"address"},{"name":"tokenURI","type":"string"}],"name":"nextStop","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := nextStopABI.Pack("nextStop", common.HexToAddress(recipient), tokenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	return s.sendTransaction(ctx, data)
}

// YoinkTransfer force-moves the train to target
func (s *service) YoinkTransfer(ctx context.Context, target string) (*domain.TxResult, error) {
	// yoink function signature: yoink(address)
	yoinkABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"to","type":"address"}],"name":"yoink","outputs":[],"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := yoinkABI.Pack("yoink", common.HexToAddress(target))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	return s.sendTransaction(ctx, data)
}

// IsYoinkable reports whether the cooldown timer has expired
func (s *service) IsYoinkable(ctx context.Context) (*domain.YoinkStatus, error) {
	// isYoinkable function signature: isYoinkable() returns (bool,string)
	yoinkableABI, err := abi.JSON(strings.NewReader(`[{"inputs":[],"name":"isYoinkable","outputs":[{"name":"canYoink","type":"bool"},{"name":"reason","type":"string"}],"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := yoinkableABI.Pack("isYoinkable")
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &s.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	out, err := yoinkableABI.Unpack("isYoinkable", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("unexpected isYoinkable output arity: %d", len(out))
	}

	canYoink, ok := out[0].(bool)
	if !ok {
		return nil, fmt.Errorf("unexpected isYoinkable output type: %T", out[0])
	}
	reason, ok := out[1].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected isYoinkable output type: %T", out[1])
	}

	return &domain.YoinkStatus{CanYoink: canYoink, Reason: reason}, nil
}

// HasRiddenBefore reports whether an address has ever held the train
func (s *service) HasRiddenBefore(ctx context.Context, address string) (bool, error) {
	// hasBeenPassenger function signature: hasBeenPassenger(address) returns (bool)
	riddenABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"rider","type":"address"}],"name":"hasBeenPassenger","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return false, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := riddenABI.Pack("hasBeenPassenger", common.HexToAddress(address))
	if err != nil {
		return false, fmt.Errorf("failed to pack data: %w", err)
	}

	return s.callBool(ctx, riddenABI, "hasBeenPassenger", data)
}

// HasDepositedEnough reports whether an fid has a sufficient prior deposit
func (s *service) HasDepositedEnough(ctx context.Context, fid uint64) (bool, error) {
	// hasDepositedEnough function signature: hasDepositedEnough(uint256) returns (bool)
	depositABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"fid","type":"uint256"}],"name":"hasDepositedEnough","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return false, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := depositABI.Pack("hasDepositedEnough", new(big.Int).SetUint64(fid))
	if err != nil {
		return false, fmt.Errorf("failed to pack data: %w", err)
	}

	return s.callBool(ctx, depositABI, "hasDepositedEnough", data)
}

// ResolveMintedID recovers the moved token id from a transaction receipt.
// The receipt is polled with backoff until the transaction is mined or the
// configured timeout elapses. The id is taken from the first Transfer log the
// contract emitted; mint and yoink transactions each emit exactly one
// Transfer for the moved token, so no from-address filter is needed.
func (s *service) ResolveMintedID(ctx context.Context, txHash string) (uint64, error) {
	receipt, err := s.waitForReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return 0, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return 0, fmt.Errorf("transaction %s reverted", txHash)
	}

	for _, vLog := range receipt.Logs {
		if vLog.Address != s.contract {
			continue
		}
		if len(vLog.Topics) != 4 || vLog.Topics[0] != transferEventSig {
			continue
		}

		return new(big.Int).SetBytes(vLog.Topics[3].Bytes()).Uint64(), nil
	}

	return 0, fmt.Errorf("no Transfer log found in transaction %s", txHash)
}

// Close closes the underlying connection
func (s *service) Close() {
	s.client.Close()
}

// callBool executes a packed view call returning a single bool
func (s *service) callBool(ctx context.Context, contractABI abi.ABI, method string, data []byte) (bool, error) {
	result, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &s.contract,
		Data: data,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to call contract: %w", err)
	}

	var value bool
	if err := contractABI.UnpackIntoInterface(&value, method, result); err != nil {
		return false, fmt.Errorf("failed to unpack result: %w", err)
	}

	return value, nil
}

// sendTransaction signs and submits a contract call from the orchestrator key
func (s *service) sendTransaction(ctx context.Context, data []byte) (*domain.TxResult, error) {
	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From: s.from,
		To:   &s.contract,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &s.contract,
		Gas:      gasLimit + gasLimit/5, // 20% headroom
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.signer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return &domain.TxResult{TxHash: signedTx.Hash().Hex()}, nil
}

// waitForReceipt polls for a transaction receipt with exponential backoff
func (s *service) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt

	operation := func() error {
		r, err := s.client.TransactionReceipt(ctx, txHash)
		if err != nil {
			// Not mined yet (or transient RPC failure); keep polling
			return fmt.Errorf("receipt not available: %w", err)
		}
		receipt = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = s.cfg.ReceiptTimeout

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("transaction %s not mined within %s: %w", txHash.Hex(), s.cfg.ReceiptTimeout, err)
	}

	return receipt, nil
}
