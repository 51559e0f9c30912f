package interceptors

import (
	"context"
	"errors"

	boxerrors "github.com/schrodinger-box/boxd/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func unaryLogger(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	log.Debugf("gRPC method: %s", info.FullMethod)
	resp, err := handler(ctx, req)
	if err != nil {
		var structuredErr boxerrors.Error
		if errors.As(err, &structuredErr) {
			if structuredErr.Code() == boxerrors.INTERNAL_ERROR.Code {
				structuredErr.Log().WithContext(ctx).
					WithField("method", info.FullMethod).
					Error(structuredErr.Error())
			} else {
				structuredErr.Log().WithField("method", info.FullMethod).Debug(structuredErr.Error())
			}
		}
	}
	return resp, err
}

func streamLogger(
	srv any, stream grpc.ServerStream,
	info *grpc.StreamServerInfo, handler grpc.StreamHandler,
) error {
	log.Debugf("gRPC method: %s", info.FullMethod)
	return handler(srv, stream)
}
