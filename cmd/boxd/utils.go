package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	tlsDir      = "tls"
	tlsCertFile = "cert.pem"

	macaroonsDir      = "macaroons"
	adminMacaroonFile = "admin.macaroon"
)

// getClientConn dials the given address, over TLS if the datadir holds the
// daemon certificate. Requests are signed with the given key, if any.
func getClientConn(ctx *cli.Context, key *btcec.PrivateKey) (*grpc.ClientConn, error) {
	tlsCertPath := filepath.Join(ctx.String(datadirFlagName), tlsDir, tlsCertFile)

	creds := insecure.NewCredentials()
	if _, err := os.Stat(tlsCertPath); err == nil {
		tlsConfig, err := getTLSConfig(tlsCertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to get tls config: %s", err)
		}
		creds = credentials.NewTLS(tlsConfig)
	}

	return grpc.NewClient(
		ctx.String(urlFlagName),
		grpc.WithTransportCredentials(creds),
		grpc.WithUnaryInterceptor(auth.UnaryClientInterceptor(key)),
	)
}

// adminContext returns a context carrying the admin macaroon, read from the
// given path or from the datadir. The macaroon is omitted if the file doesn't
// exist, for daemons running with macaroons disabled.
func adminContext(ctx *cli.Context) (context.Context, context.CancelFunc, error) {
	macPath := ctx.String(macaroonFlagName)
	if macPath == "" {
		macPath = filepath.Join(ctx.String(datadirFlagName), macaroonsDir, adminMacaroonFile)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Context, timeout)
	macBytes, err := os.ReadFile(macPath)
	if err != nil {
		if os.IsNotExist(err) && !ctx.IsSet(macaroonFlagName) {
			return reqCtx, cancel, nil
		}
		cancel()
		return nil, nil, fmt.Errorf("failed to read macaroon: %s", err)
	}
	return metadata.AppendToOutgoingContext(
		reqCtx, macaroons.MetadataKey, hex.EncodeToString(macBytes),
	), cancel, nil
}

// signingKey returns the private key from the flag or from the environment.
func signingKey(ctx *cli.Context) (*btcec.PrivateKey, error) {
	key := ctx.String(privateKeyFlagName)
	if key == "" {
		key = viper.GetString(privateKeyFlagName)
	}
	if key == "" {
		return nil, fmt.Errorf("missing private key")
	}
	return auth.ParsePrivateKey(key)
}

func getTLSConfig(path string) (*tls.Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	caCertPool := x509.NewCertPool()
	if ok := caCertPool.AppendCertsFromPEM(buf); !ok {
		return nil, fmt.Errorf("failed to parse tls cert")
	}

	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    caCertPool,
	}, nil
}

func printJSON(resp any) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}
