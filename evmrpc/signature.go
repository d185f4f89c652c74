package evmrpc

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func prefixHash(data []byte) common.Hash {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(data), data)
	return crypto.Keccak256Hash([]byte(msg))
}

func publicKeyBytesToAddress(publicKey []byte) (common.Address, bool) {
	if len(publicKey) < 1 {
		return common.Address{}, false
	}
	hash := crypto.Keccak256Hash(publicKey[1:]).Bytes()
	return common.HexToAddress(hex.EncodeToString(hash[12:])), true
}

// VerifySignature recovers the address that signed message, implementing
// claim.Signer for the three canonical messages of spec.md §4.4/§4.5/§4.7.
func (c *Client) VerifySignature(ctx context.Context, message, signature string) (string, error) {
	sigBytes, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("invalid signature hex: %w", err)
	}
	if len(sigBytes) != 65 {
		return "", fmt.Errorf("wrong signature length: %d", len(sigBytes))
	}

	if sigBytes[64] != 27 && sigBytes[64] != 28 && sigBytes[64] != 0 && sigBytes[64] != 1 {
		return "", fmt.Errorf("wrong signature checksum: %v", sigBytes[64])
	}
	if sigBytes[64] == 27 || sigBytes[64] == 28 {
		sigBytes[64] -= 27
	}

	msgHash := prefixHash([]byte(message))
	pubKey, err := crypto.Ecrecover(msgHash.Bytes(), sigBytes)
	if err != nil {
		return "", fmt.Errorf("cannot recover public key: %w", err)
	}

	addr, ok := publicKeyBytesToAddress(pubKey)
	if !ok {
		return "", fmt.Errorf("cannot derive address from public key")
	}
	return addr.Hex(), nil
}
