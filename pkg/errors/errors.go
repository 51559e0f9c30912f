package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
)

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

// Class groups codes by the tens digit: 1x authorization, 2x state, 3x funds, 4x not found,
// 5x replay, 6x relay. Everything else is generic.
func (c Code[MT]) Class() Class {
	return classOf(c.Code)
}

// Is reports whether err carries this code anywhere in its chain.
func (c Code[MT]) Is(err error) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code() == c.Code
}

type Class string

const (
	ClassGeneric       Class = "generic"
	ClassAuthorization Class = "authorization"
	ClassState         Class = "state"
	ClassFunds         Class = "funds"
	ClassNotFound      Class = "not_found"
	ClassReplay        Class = "replay"
	ClassRelay         Class = "relay"
)

func classOf(code uint16) Class {
	switch code / 10 {
	case 1:
		return ClassAuthorization
	case 2:
		return ClassState
	case 3:
		return ClassFunds
	case 4:
		return ClassNotFound
	case 5:
		return ClassReplay
	case 6:
		return ClassRelay
	default:
		return ClassGeneric
	}
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Class() Class
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("class", e.code.Class()).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Class() Class {
	return e.code.Class()
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type BoxMetadata struct {
	BoxId string `json:"box_id"`
}

type OwnershipMetadata struct {
	BoxId  string `json:"box_id"`
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
}

type AssetMetadata struct {
	BoxId   string `json:"box_id"`
	Asset   string `json:"asset"`
	TokenId string `json:"token_id,omitempty"`
}

type AmountMetadata struct {
	BoxId  string `json:"box_id,omitempty"`
	Asset  string `json:"asset,omitempty"`
	Amount string `json:"amount"`
}

type FeeMetadata struct {
	ChainId     uint16 `json:"chain_id,omitempty"`
	ExpectedFee uint64 `json:"expected_fee"`
	ActualFee   uint64 `json:"actual_fee"`
}

type ChainMetadata struct {
	ChainId uint16 `json:"chain_id"`
}

type PeerMetadata struct {
	ChainId      uint16 `json:"chain_id"`
	ExpectedPeer string `json:"expected_peer"`
	GotPeer      string `json:"got_peer"`
}

type MessageMetadata struct {
	MessageId string `json:"message_id"`
	BoxId     string `json:"box_id,omitempty"`
}

var INTERNAL_ERROR = Code[map[string]any]{0, "INTERNAL_ERROR", grpccodes.Internal}
var INVALID_ARGUMENT = Code[map[string]any]{1, "INVALID_ARGUMENT", grpccodes.InvalidArgument}

// authorization
var NOT_OWNER = Code[OwnershipMetadata]{10, "NOT_OWNER", grpccodes.PermissionDenied}
var NOT_AUTHORIZED = Code[map[string]any]{11, "NOT_AUTHORIZED", grpccodes.PermissionDenied}
var UNTRUSTED_SENDER = Code[PeerMetadata]{12, "UNTRUSTED_SENDER", grpccodes.PermissionDenied}

var PEER_NOT_CONFIGURED = Code[ChainMetadata]{
	13,
	"PEER_NOT_CONFIGURED",
	grpccodes.PermissionDenied,
}

// state
var BOX_LOCKED = Code[BoxMetadata]{20, "BOX_LOCKED", grpccodes.FailedPrecondition}
var BOX_ALREADY_EXISTS = Code[BoxMetadata]{21, "BOX_ALREADY_EXISTS", grpccodes.AlreadyExists}
var NFT_ALREADY_HELD = Code[AssetMetadata]{22, "NFT_ALREADY_HELD", grpccodes.AlreadyExists}

// funds
var INSUFFICIENT_FEE = Code[FeeMetadata]{30, "INSUFFICIENT_FEE", grpccodes.InvalidArgument}
var INSUFFICIENT_FUNDS = Code[AmountMetadata]{31, "INSUFFICIENT_FUNDS", grpccodes.FailedPrecondition}
var INVALID_AMOUNT = Code[AmountMetadata]{32, "INVALID_AMOUNT", grpccodes.InvalidArgument}

// not found
var BOX_NOT_FOUND = Code[BoxMetadata]{40, "BOX_NOT_FOUND", grpccodes.NotFound}
var ASSET_NOT_FOUND = Code[AssetMetadata]{41, "ASSET_NOT_FOUND", grpccodes.NotFound}
var MESSAGE_NOT_FOUND = Code[MessageMetadata]{42, "MESSAGE_NOT_FOUND", grpccodes.NotFound}

// replay
var MESSAGE_ALREADY_APPLIED = Code[MessageMetadata]{
	50,
	"MESSAGE_ALREADY_APPLIED",
	grpccodes.AlreadyExists,
}

// relay
var RELAY_UNAVAILABLE = Code[ChainMetadata]{60, "RELAY_UNAVAILABLE", grpccodes.Unavailable}
