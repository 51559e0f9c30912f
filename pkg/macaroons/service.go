package macaroons

import (
	"context"
	"encoding/hex"
	"fmt"

	"google.golang.org/grpc/metadata"
	"gopkg.in/macaroon-bakery.v2/bakery"
	"gopkg.in/macaroon.v2"
)

// MetadataKey is the grpc metadata key carrying the hex encoded macaroon.
const MetadataKey = "macaroon"

// Service bakes and validates the macaroons authorizing the rpc calls.
type Service struct {
	*bakery.Bakery

	rks *RootKeyStore
}

func NewService(rks *RootKeyStore, location string) (*Service, error) {
	if rks == nil {
		return nil, fmt.Errorf("missing root key store")
	}
	if location == "" {
		return nil, fmt.Errorf("missing macaroon location")
	}

	return &Service{
		Bakery: bakery.New(bakery.BakeryParams{
			Location:     location,
			RootKeyStore: rks,
		}),
		rks: rks,
	}, nil
}

// BakeMacaroon returns the serialized macaroon granting the given
// permissions.
func (s *Service) BakeMacaroon(ctx context.Context, ops []bakery.Op) ([]byte, error) {
	if len(ops) <= 0 {
		return nil, fmt.Errorf("macaroon must grant at least one permission")
	}
	mac, err := s.Oven.NewMacaroon(ctx, bakery.LatestVersion, nil, ops...)
	if err != nil {
		return nil, fmt.Errorf("failed to bake macaroon: %w", err)
	}
	return mac.M().MarshalBinary()
}

// ValidateMacaroon checks the macaroon found in the incoming grpc metadata
// grants all the required permissions.
func (s *Service) ValidateMacaroon(ctx context.Context, requiredPermissions []bakery.Op) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return fmt.Errorf("unable to get metadata from context")
	}
	values := md.Get(MetadataKey)
	if len(values) != 1 {
		return fmt.Errorf("expected 1 macaroon, got %d", len(values))
	}

	macBytes, err := hex.DecodeString(values[0])
	if err != nil {
		return fmt.Errorf("invalid macaroon format")
	}
	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return fmt.Errorf("failed to parse macaroon: %w", err)
	}

	authChecker := s.Checker.Auth(macaroon.Slice{mac})
	if _, err := authChecker.Allow(ctx, requiredPermissions...); err != nil {
		return fmt.Errorf("permission denied: %w", err)
	}
	return nil
}

func (s *Service) Close() error {
	return s.rks.Close()
}
