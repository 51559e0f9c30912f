package interceptors

import (
	"context"
	"errors"
	"fmt"

	boxerrors "github.com/schrodinger-box/boxd/pkg/errors"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const errorDomain = "boxd"

// gRPCError is a wrapper implementing GRPCStatus method for errors.Error
// the grpc server uses it to return the associated status with an ErrorInfo detail.
type gRPCError struct {
	err boxerrors.Error
}

func (e gRPCError) Error() string {
	return e.err.Error()
}

func (e gRPCError) GRPCStatus() *status.Status {
	st := status.New(e.err.GrpcCode(), e.err.Error())

	metadata := e.err.Metadata()
	metadata["code"] = fmt.Sprintf("%d", e.err.Code())
	metadata["class"] = string(e.err.Class())

	stWithDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   e.err.CodeName(),
		Domain:   errorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st
	}
	return stWithDetails
}

func convertError(err error) error {
	var structuredErr boxerrors.Error
	if errors.As(err, &structuredErr) {
		return gRPCError{structuredErr}
	}
	return err
}

func unaryErrorConverter(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		return nil, convertError(err)
	}
	return resp, nil
}

func streamErrorConverter(
	srv any, stream grpc.ServerStream,
	info *grpc.StreamServerInfo, handler grpc.StreamHandler,
) error {
	if err := handler(srv, stream); err != nil {
		return convertError(err)
	}
	return nil
}
