package interceptors

import (
	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	"google.golang.org/grpc"
)

// UnaryInterceptor returns the chain of unary interceptors. The error
// converter wraps all the others, recovered panics included.
func UnaryInterceptor(
	macaroonSvc *macaroons.Service, verifier *auth.Verifier, readiness *ReadinessService,
) grpc.ServerOption {
	return grpc.UnaryInterceptor(
		middleware.ChainUnaryServer(
			unaryErrorConverter,
			unaryPanicRecoveryInterceptor(),
			unaryLogger,
			unaryMacaroonAuthHandler(macaroonSvc),
			unarySignatureHandler(verifier),
			unaryReadinessHandler(readiness),
		),
	)
}

func StreamInterceptor(macaroonSvc *macaroons.Service, readiness *ReadinessService) grpc.ServerOption {
	return grpc.StreamInterceptor(
		middleware.ChainStreamServer(
			streamErrorConverter,
			streamPanicRecoveryInterceptor(),
			streamLogger,
			streamMacaroonAuthHandler(macaroonSvc),
			streamReadinessHandler(readiness),
		),
	)
}
