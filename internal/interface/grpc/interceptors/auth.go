package interceptors

import (
	"context"

	"github.com/schrodinger-box/boxd/internal/interface/grpc/permissions"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func unaryMacaroonAuthHandler(macaroonSvc *macaroons.Service) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req interface{},
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := CheckMacaroon(ctx, info.FullMethod, macaroonSvc); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func streamMacaroonAuthHandler(macaroonSvc *macaroons.Service) grpc.StreamServerInterceptor {
	return func(
		srv interface{}, ss grpc.ServerStream,
		info *grpc.StreamServerInfo, handler grpc.StreamHandler,
	) error {
		if err := CheckMacaroon(ss.Context(), info.FullMethod, macaroonSvc); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

// CheckMacaroon lets through whitelisted methods and requires a macaroon
// granting the method permissions for every other one. A nil service
// disables the check.
func CheckMacaroon(ctx context.Context, fullMethod string, svc *macaroons.Service) error {
	if svc == nil {
		return nil
	}
	if _, ok := permissions.Whitelist()[fullMethod]; ok {
		return nil
	}

	uriPermissions, ok := permissions.AllPermissionsByMethod()[fullMethod]
	if !ok {
		return status.Errorf(
			codes.PermissionDenied, "%s: unknown permissions required for method", fullMethod,
		)
	}

	if err := svc.ValidateMacaroon(ctx, uriPermissions); err != nil {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	return nil
}

// unarySignatureHandler authenticates the account that signed the request.
// Unsigned requests go through without an account.
func unarySignatureHandler(verifier *auth.Verifier) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req interface{},
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (interface{}, error) {
		if verifier == nil {
			return handler(ctx, req)
		}
		ctx, err := verifier.Verify(ctx, info.FullMethod, req)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(ctx, req)
	}
}
