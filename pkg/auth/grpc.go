package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

const DefaultMaxSkew = 2 * time.Minute

type signerKey struct{}

// Payload returns the bytes of the request covered by the signature: the
// deterministic encoding of protobuf messages, the json encoding of any
// other type.
func Payload(req interface{}) ([]byte, error) {
	if req == nil {
		return nil, nil
	}
	if msg, ok := req.(proto.Message); ok {
		return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return payload, nil
}

// WithSigner makes the client interceptor sign the requests made with the
// returned context with the given key.
func WithSigner(ctx context.Context, key *btcec.PrivateKey) context.Context {
	return context.WithValue(ctx, signerKey{}, key)
}

// UnaryClientInterceptor signs every request with the key attached to the
// context, if any, or with the given default one. Requests are sent unsigned
// if neither is set.
func UnaryClientInterceptor(defaultKey *btcec.PrivateKey) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context, method string, req, reply interface{},
		cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption,
	) error {
		key, _ := ctx.Value(signerKey{}).(*btcec.PrivateKey)
		if key == nil {
			key = defaultKey
		}
		if key == nil {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		payload, err := Payload(req)
		if err != nil {
			return err
		}
		timestamp := time.Now().Unix()
		sig, err := SignRequest(key, method, timestamp, payload)
		if err != nil {
			return err
		}
		ctx = metadata.AppendToOutgoingContext(ctx,
			PubkeyHeader, Account(key.PubKey()),
			TimestampHeader, strconv.FormatInt(timestamp, 10),
			SignatureHeader, sig,
		)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Verifier authenticates the signed requests. A request is accepted only if
// its timestamp is within the max skew from now and its signature was not
// seen before in that window.
type Verifier struct {
	maxSkew time.Duration
	now     func() time.Time

	lock sync.Mutex
	seen map[string]int64
}

func NewVerifier(maxSkew time.Duration) *Verifier {
	if maxSkew <= 0 {
		maxSkew = DefaultMaxSkew
	}
	return &Verifier{
		maxSkew: maxSkew,
		now:     time.Now,
		seen:    make(map[string]int64),
	}
}

// Verify returns a context carrying the account that signed the request.
// Unsigned requests get the context untouched.
func (v *Verifier) Verify(
	ctx context.Context, method string, req interface{},
) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok || len(md.Get(PubkeyHeader)) <= 0 {
		return ctx, nil
	}

	pubkey := md.Get(PubkeyHeader)[0]
	timestamps := md.Get(TimestampHeader)
	signatures := md.Get(SignatureHeader)
	if len(timestamps) <= 0 || len(signatures) <= 0 {
		return nil, fmt.Errorf("missing %s or %s header", TimestampHeader, SignatureHeader)
	}
	timestamp, err := strconv.ParseInt(timestamps[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s header", TimestampHeader)
	}

	now := v.now()
	skew := now.Sub(time.Unix(timestamp, 0))
	if skew > v.maxSkew || skew < -v.maxSkew {
		return nil, fmt.Errorf("request timestamp outside of the accepted window")
	}

	payload, err := Payload(req)
	if err != nil {
		return nil, err
	}
	account, err := VerifyRequest(pubkey, method, timestamp, payload, signatures[0])
	if err != nil {
		return nil, err
	}

	if err := v.markSeen(signatures[0], now); err != nil {
		return nil, err
	}
	return WithAccount(ctx, account), nil
}

func (v *Verifier) markSeen(signature string, now time.Time) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	minTimestamp := now.Add(-2 * v.maxSkew).Unix()
	for sig, seenAt := range v.seen {
		if seenAt < minTimestamp {
			delete(v.seen, sig)
		}
	}

	if _, ok := v.seen[signature]; ok {
		return fmt.Errorf("replayed request")
	}
	v.seen[signature] = now.Unix()
	return nil
}
