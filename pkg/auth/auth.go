// Package auth signs and verifies the requests made on behalf of an account.
//
// An account is the hex encoded x-only public key of a secp256k1 key pair. A
// request carries the public key, a unix timestamp and a bip340 signature of
// the tagged hash of the full method name, the timestamp and the encoding of
// the request.
package auth

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	PubkeyHeader    = "x-pubkey"
	TimestampHeader = "x-timestamp"
	SignatureHeader = "x-signature"
)

var requestTag = []byte("boxd/request")

type accountKey struct{}

// Account returns the account identified by the given public key.
func Account(pubkey *btcec.PublicKey) string {
	return hex.EncodeToString(schnorr.SerializePubKey(pubkey))
}

// ParsePrivateKey parses a hex encoded 32 bytes private key.
func ParsePrivateKey(key string) (*btcec.PrivateKey, error) {
	buf, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid private key format: %w", err)
	}
	if len(buf) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid private key length %d", len(buf))
	}
	privkey, _ := btcec.PrivKeyFromBytes(buf)
	return privkey, nil
}

func requestDigest(method string, timestamp int64, payload []byte) []byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))
	return chainhash.TaggedHash(requestTag, []byte(method), ts[:], payload)[:]
}

// SignRequest returns the hex encoded signature of the request.
func SignRequest(
	key *btcec.PrivateKey, method string, timestamp int64, payload []byte,
) (string, error) {
	sig, err := schnorr.Sign(key, requestDigest(method, timestamp, payload))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return hex.EncodeToString(sig.Serialize()), nil
}

// VerifyRequest checks the signature of the request and returns the account
// that signed it.
func VerifyRequest(
	pubkey, method string, timestamp int64, payload []byte, signature string,
) (string, error) {
	pubkeyBytes, err := hex.DecodeString(pubkey)
	if err != nil {
		return "", fmt.Errorf("invalid pubkey format")
	}
	key, err := schnorr.ParsePubKey(pubkeyBytes)
	if err != nil {
		return "", fmt.Errorf("invalid pubkey: %w", err)
	}
	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return "", fmt.Errorf("invalid signature format")
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return "", fmt.Errorf("invalid signature: %w", err)
	}
	if !sig.Verify(requestDigest(method, timestamp, payload), key) {
		return "", fmt.Errorf("invalid signature")
	}
	return Account(key), nil
}

func WithAccount(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFromContext returns the account that signed the request, if any.
func AccountFromContext(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(accountKey{}).(string)
	return account, ok && account != ""
}
