package evmrpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"banwbanbridge/config"
)

// MintReceipt is the signed off-chain authorization a user redeems on-chain
// against the wBAN mint contract (spec.md GLOSSARY "Mint receipt"). Its
// receipt_id is content-addressed: the hex of the hash the bridge key
// signed, so two receipts with identical (recipient, amount, uuid) always
// collide onto the same id.
type MintReceipt struct {
	ReceiptID string
	UUID      string
	Signature string
}

func mintReceiptHash(recipient common.Address, amount *big.Int, uuidBytes [16]byte) common.Hash {
	packed := append(append([]byte{}, recipient.Bytes()...), common.LeftPadBytes(amount.Bytes(), 32)...)
	packed = append(packed, uuidBytes[:]...)
	return crypto.Keccak256Hash(packed)
}

// CreateMintReceipt signs a mint authorization for amount to blockchainAddr
// and reports the recipient's current on-chain wBAN balance, implementing
// the OP→EVM collaborator boundary of spec.md §4.5. Because it never
// submits a chain transaction, it is safe for OP to retry freely.
func (c *Client) CreateMintReceipt(ctx context.Context, blockchainAddr string, amount *big.Int) (receipt MintReceipt, currentWBANBalance *big.Int, err error) {
	recipient := common.HexToAddress(blockchainAddr)
	id := uuid.New()

	hash := mintReceiptHash(recipient, amount, id)

	privateKey, err := crypto.HexToECDSA(config.Config.EVM.PrivateKey)
	if err != nil {
		return MintReceipt{}, nil, fmt.Errorf("loading bridge signing key: %w", err)
	}
	sig, err := crypto.Sign(hash.Bytes(), privateKey)
	if err != nil {
		return MintReceipt{}, nil, fmt.Errorf("signing mint receipt: %w", err)
	}

	currentWBANBalance, err = c.WBANBalance(ctx, blockchainAddr)
	if err != nil {
		return MintReceipt{}, nil, fmt.Errorf("reading recipient wBAN balance: %w", err)
	}

	receipt = MintReceipt{
		ReceiptID: hash.Hex(),
		UUID:      id.String(),
		Signature: "0x" + hex.EncodeToString(sig),
	}
	return receipt, currentWBANBalance, nil
}
