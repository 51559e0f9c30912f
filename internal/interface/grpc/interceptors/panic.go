package interceptors

import (
	"context"
	"runtime/debug"

	"github.com/schrodinger-box/boxd/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

// errPanic is returned to the client in place of a handler panic, the stack
// trace is only logged.
var errPanic = errors.INTERNAL_ERROR.New("something went wrong")

func logPanic(method string, r any) {
	log.WithField("method", method).
		WithField("stack", string(debug.Stack())).
		Errorf("recovered from panic: %v", r)
}

func unaryPanicRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req any,
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logPanic(info.FullMethod, r)
				resp, err = nil, errPanic
			}
		}()
		return handler(ctx, req)
	}
}

func streamPanicRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any, stream grpc.ServerStream,
		info *grpc.StreamServerInfo, handler grpc.StreamHandler,
	) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logPanic(info.FullMethod, r)
				err = errPanic
			}
		}()
		return handler(srv, stream)
	}
}
