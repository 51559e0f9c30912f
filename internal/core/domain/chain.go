package domain

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// ChainId is the relay network identifier of a ledger.
type ChainId uint16

const (
	ChainSepolia ChainId = 10002
	ChainHolesky ChainId = 10004
)

var chainNames = map[ChainId]string{
	ChainSepolia: "sepolia",
	ChainHolesky: "holesky",
}

func (c ChainId) String() string {
	if name, ok := chainNames[c]; ok {
		return fmt.Sprintf("%s(%d)", name, uint16(c))
	}
	return strconv.FormatUint(uint64(c), 10)
}

// ParseChainId accepts either a numeric id or one of the known chain names.
func ParseChainId(s string) (ChainId, error) {
	for id, name := range chainNames {
		if name == s {
			return id, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q", s)
	}
	if n == 0 {
		return 0, fmt.Errorf("chain id must be > 0")
	}
	return ChainId(n), nil
}

// PeerId identifies the trusted counterpart of this service on another chain.
// The zero value means "not configured".
type PeerId [32]byte

var ZeroPeer PeerId

func (p PeerId) IsZero() bool {
	return p == ZeroPeer
}

func (p PeerId) String() string {
	return hex.EncodeToString(p[:])
}

// ParsePeerId decodes a hex peer identifier. Shorter values (eg. 20 byte
// addresses) are left padded, the same way they are widened on-chain.
func ParsePeerId(s string) (PeerId, error) {
	var p PeerId
	if len(s) > 1 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("invalid peer id: %w", err)
	}
	if len(buf) > len(p) {
		return p, fmt.Errorf("invalid peer id: expected at most %d bytes, got %d", len(p), len(buf))
	}
	copy(p[len(p)-len(buf):], buf)
	return p, nil
}

type Peer struct {
	ChainId   ChainId
	PeerId    PeerId
	UpdatedAt int64
}
