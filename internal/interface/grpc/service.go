package grpcservice

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/pprof"
	"path/filepath"
	"sync/atomic"
	"time"

	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/internal/config"
	interfaces "github.com/schrodinger-box/boxd/internal/interface"
	"github.com/schrodinger-box/boxd/internal/interface/grpc/handlers"
	"github.com/schrodinger-box/boxd/internal/interface/grpc/interceptors"
	"github.com/schrodinger-box/boxd/internal/telemetry"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

type service struct {
	version       string
	config        Config
	appConfig     *config.Config
	server        *http.Server
	adminServer   *http.Server
	grpcServer    *grpc.Server
	adminGrpcSrvr *grpc.Server
	healthSvc     *health.Server
	readinessSvc  *interceptors.ReadinessService
	macaroonSvc   *macaroons.Service
	verifier      *auth.Verifier
	appSvcStarted atomic.Bool
	otelShutdown  func(context.Context) error
}

func NewService(
	version string, svcConfig Config, appConfig *config.Config,
) (interfaces.Service, error) {
	if err := svcConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	if !svcConfig.insecure() {
		if err := generateOperatorTLSKeyCert(
			svcConfig.tlsDatadir(), svcConfig.TLSExtraIPs, svcConfig.TLSExtraDomains,
		); err != nil {
			return nil, err
		}
		log.Debugf("generated TLS key pair at path: %s", svcConfig.tlsDatadir())
	}

	var macaroonSvc *macaroons.Service
	if !svcConfig.NoMacaroons {
		rks, err := macaroons.NewRootKeyStore(
			filepath.Join(svcConfig.macaroonsDatadir(), macaroonsDbFolder),
		)
		if err != nil {
			return nil, err
		}
		macaroonSvc, err = macaroons.NewService(rks, macaroonsLocation)
		if err != nil {
			// nolint:all
			rks.Close()
			return nil, err
		}

		done, err := genMacaroons(
			context.Background(), macaroonSvc, svcConfig.macaroonsDatadir(),
		)
		if err != nil {
			// nolint:all
			macaroonSvc.Close()
			return nil, fmt.Errorf("failed to create macaroons: %s", err)
		}
		if done {
			log.Debugf("generated macaroons at path %s", svcConfig.macaroonsDatadir())
		}
	} else {
		log.Warn("macaroons disabled, the admin service is unauthenticated")
	}

	return &service{
		version:     version,
		config:      svcConfig,
		appConfig:   appConfig,
		macaroonSvc: macaroonSvc,
		verifier:    auth.NewVerifier(auth.DefaultMaxSkew),
	}, nil
}

func (s *service) Start() error {
	if err := s.start(); err != nil {
		return err
	}
	log.Infof("started listening at %s", s.config.address())
	if s.config.hasAdminPort() {
		log.Infof("started admin listening at %s", s.config.adminAddress())
	}

	return s.startAppServices()
}

func (s *service) Stop() {
	s.stop()
	log.Info("shutdown service")
}

func (s *service) start() error {
	tlsConfig, err := s.config.tlsConfig()
	if err != nil {
		return err
	}

	if err := s.newServer(tlsConfig, s.config.EnablePprof); err != nil {
		return err
	}

	// Start main server
	if s.config.insecure() {
		// nolint:all
		go s.server.ListenAndServe()
	} else {
		// nolint:all
		go s.server.ListenAndServeTLS("", "")
	}

	// Start admin server if configured on different port
	if s.adminServer != nil {
		if s.config.insecure() {
			// nolint:all
			go s.adminServer.ListenAndServe()
		} else {
			// nolint:all
			go s.adminServer.ListenAndServeTLS("", "")
		}
	}

	return nil
}

func (s *service) stop() {
	if s.healthSvc != nil {
		s.healthSvc.Shutdown()
	}

	if s.appSvcStarted.CompareAndSwap(true, false) {
		appSvc, _ := s.appConfig.AppService()
		if appSvc != nil {
			appSvc.Stop()
		}
		if s.readinessSvc != nil {
			s.readinessSvc.MarkAppServiceStopped()
		}
	}
	s.appConfig.Close()

	// Hard-close HTTP listeners/conns first to avoid mixed HTTP/gRPC window.
	if s.server != nil {
		_ = s.server.Close()
	}
	if s.adminServer != nil {
		_ = s.adminServer.Close()
	}

	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.adminGrpcSrvr != nil {
		s.adminGrpcSrvr.Stop()
	}

	if s.macaroonSvc != nil {
		if err := s.macaroonSvc.Close(); err != nil {
			log.WithError(err).Warn("failed to close macaroon store")
		}
	}

	if s.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.otelShutdown(ctx); err != nil {
			log.WithError(err).Warn("failed to shutdown otel sdk")
		}
	}
}

func (s *service) startAppServices() error {
	if !s.appSvcStarted.CompareAndSwap(false, true) {
		return nil
	}

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to create app service: %w", err)
	}
	if err := appSvc.Start(); err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to start app service: %w", err)
	}
	log.Info("started app service")

	if s.readinessSvc != nil {
		s.readinessSvc.MarkAppServiceStarted()
	}
	if s.healthSvc != nil {
		s.healthSvc.SetServingStatus("", grpchealth.HealthCheckResponse_SERVING)
	}

	log.Infof("box service is now ready on chain %s", appSvc.ChainId())
	return nil
}

func (s *service) newServer(tlsConfig *tls.Config, withPprof bool) error {
	if s.config.OtelCollectorEndpoint != "" {
		pushInterval := time.Duration(s.config.OtelPushInterval) * time.Second
		otelShutdown, err := telemetry.InitOtelSDK(
			context.Background(), s.config.OtelCollectorEndpoint, pushInterval,
		)
		if err != nil {
			return err
		}
		s.otelShutdown = otelShutdown
	}

	otelHandler := otelgrpc.NewServerHandler(
		otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
	)

	s.readinessSvc = interceptors.NewReadinessService()

	grpcConfig := []grpc.ServerOption{
		interceptors.UnaryInterceptor(s.macaroonSvc, s.verifier, s.readinessSvc),
		interceptors.StreamInterceptor(s.macaroonSvc, s.readinessSvc),
		grpc.StatsHandler(otelHandler),
	}
	creds := insecure.NewCredentials()
	if !s.config.insecure() {
		creds = credentials.NewTLS(tlsConfig)
	}
	grpcConfig = append(grpcConfig, grpc.Creds(creds))

	grpcServer := grpc.NewServer(grpcConfig...)

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		return fmt.Errorf("failed to create app service: %w", err)
	}
	adminSvc := s.appConfig.AdminService()

	boxHandler := handlers.NewBoxServiceHandler(
		s.version, appSvc, adminSvc.LocalPeer(), s.config.HeartbeatInterval,
	)
	adminHandler := handlers.NewAdminHandler(adminSvc)

	// NOT_SERVING until the app service is started.
	s.healthSvc = health.NewServer()
	s.healthSvc.SetServingStatus("", grpchealth.HealthCheckResponse_NOT_SERVING)

	boxv1.RegisterBoxServiceServer(grpcServer, boxHandler)
	grpchealth.RegisterHealthServer(grpcServer, s.healthSvc)

	var adminGrpcServer *grpc.Server
	if s.config.hasAdminPort() {
		adminGrpcServer = grpc.NewServer(grpcConfig...)
		boxv1.RegisterAdminServiceServer(adminGrpcServer, adminHandler)
		grpchealth.RegisterHealthServer(adminGrpcServer, s.healthSvc)
	} else {
		boxv1.RegisterAdminServiceServer(grpcServer, adminHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/", router(grpcServer))

	httpServerHandler := http.Handler(mux)
	if s.config.insecure() {
		httpServerHandler = h2c.NewHandler(httpServerHandler, &http2.Server{})
	}

	s.grpcServer = grpcServer
	s.server = &http.Server{
		Addr:      s.config.address(),
		Handler:   httpServerHandler,
		TLSConfig: tlsConfig,
	}

	if !s.config.hasAdminPort() {
		return nil
	}

	adminMux := http.NewServeMux()
	if withPprof {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		adminMux.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		adminMux.Handle("/debug/pprof/heap", pprof.Handler("heap"))
		adminMux.Handle("/debug/pprof/allocs", pprof.Handler("allocs"))
		adminMux.Handle("/debug/pprof/block", pprof.Handler("block"))
		adminMux.Handle("/debug/pprof/mutex", pprof.Handler("mutex"))
		log.Info("pprof enabled on admin port at /debug/pprof/")
	}
	adminMux.Handle("/", router(adminGrpcServer))

	adminHttpServerHandler := http.Handler(adminMux)
	if s.config.insecure() {
		adminHttpServerHandler = h2c.NewHandler(adminHttpServerHandler, &http2.Server{})
	}

	s.adminGrpcSrvr = adminGrpcServer
	s.adminServer = &http.Server{
		Addr:      s.config.adminAddress(),
		Handler:   adminHttpServerHandler,
		TLSConfig: tlsConfig,
	}

	return nil
}

func router(grpcServer *grpc.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOptionRequest(r) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.Header().Add("Access-Control-Allow-Methods", "POST, OPTIONS")
			return
		}

		if !isGrpcRequest(r) {
			http.Error(w, "only grpc requests are supported", http.StatusUnsupportedMediaType)
			return
		}
		grpcServer.ServeHTTP(w, r)
	})
}

func isOptionRequest(req *http.Request) bool {
	return req.Method == http.MethodOptions
}

func isGrpcRequest(req *http.Request) bool {
	return req.ProtoMajor == 2 && req.Method == http.MethodPost
}
