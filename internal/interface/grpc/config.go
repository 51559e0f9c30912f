package grpcservice

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/lightningnetwork/lnd/cert"
)

const (
	tlsKeyFile  = "key.pem"
	tlsCertFile = "cert.pem"
	tlsFolder   = "tls"

	macaroonsFolder   = "macaroons"
	macaroonsDbFolder = "db"
	macaroonsLocation = "boxd"

	tlsOrganization = "boxd autogenerated cert"
	tlsCertValidity = 14 * 30 * 24 * time.Hour
)

type Config struct {
	Datadir         string
	Port            uint32
	AdminPort       uint32
	NoTLS           bool
	TLSExtraIPs     []string
	TLSExtraDomains []string
	NoMacaroons     bool
	// HeartbeatInterval of the event stream, in seconds.
	HeartbeatInterval int64
	EnablePprof       bool

	OtelCollectorEndpoint string
	// OtelPushInterval of the metrics, in seconds.
	OtelPushInterval int64
}

func (c Config) Validate() error {
	lis, err := net.Listen("tcp", c.address())
	if err != nil {
		return fmt.Errorf("invalid port: %s", err)
	}
	// nolint:errcheck
	lis.Close()

	if c.hasAdminPort() {
		lis, err := net.Listen("tcp", c.adminAddress())
		if err != nil {
			return fmt.Errorf("invalid admin port: %s", err)
		}
		// nolint:errcheck
		lis.Close()
	}

	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be greater than 0")
	}
	if c.OtelCollectorEndpoint != "" && c.OtelPushInterval <= 0 {
		return fmt.Errorf("otel push interval must be greater than 0")
	}

	if !c.insecure() {
		for _, ip := range c.TLSExtraIPs {
			if net.ParseIP(ip) == nil {
				return fmt.Errorf("invalid tls extra ip %s", ip)
			}
		}
	}
	return nil
}

func (c Config) insecure() bool {
	return c.NoTLS
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) adminAddress() string {
	return fmt.Sprintf(":%d", c.AdminPort)
}

func (c Config) hasAdminPort() bool {
	return c.AdminPort > 0 && c.AdminPort != c.Port
}

func (c Config) macaroonsDatadir() string {
	return filepath.Join(c.Datadir, macaroonsFolder)
}

func (c Config) tlsDatadir() string {
	return filepath.Join(c.Datadir, tlsFolder)
}

func (c Config) tlsConfig() (*tls.Config, error) {
	if c.insecure() {
		return nil, nil
	}

	certificate, err := tls.LoadX509KeyPair(
		filepath.Join(c.tlsDatadir(), tlsCertFile),
		filepath.Join(c.tlsDatadir(), tlsKeyFile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load tls key pair: %s", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2", "http/1.1"},
	}, nil
}

// generateOperatorTLSKeyCert creates a self-signed key pair in the given dir,
// unless one already exists.
func generateOperatorTLSKeyCert(datadir string, extraIPs, extraDomains []string) error {
	keyPath := filepath.Join(datadir, tlsKeyFile)
	certPath := filepath.Join(datadir, tlsCertFile)

	if pathExists(keyPath) && pathExists(certPath) {
		return nil
	}

	if err := os.MkdirAll(datadir, 0o755); err != nil {
		return err
	}

	certBytes, keyBytes, err := cert.GenCertPair(
		tlsOrganization, extraIPs, extraDomains, false, tlsCertValidity,
	)
	if err != nil {
		return fmt.Errorf("failed to generate tls key pair: %s", err)
	}

	return cert.WriteCertPair(certPath, keyPath, certBytes, keyBytes)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
