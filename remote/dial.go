package remote

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/unkn0wn-root/cachebox/config"
)

// DefaultDial connects with mutual TLS to the resolved service address.
// The connection is established lazily on first use.
func DefaultDial(_ context.Context, s Settings) (*grpc.ClientConn, error) {
	creds, err := TLSCredentials(s)
	if err != nil {
		return nil, err
	}
	addr := config.ResolveAddress(s.Address)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", addr, err)
	}
	return conn, nil
}

// TLSCredentials builds client credentials from the CA and client key pair.
func TLSCredentials(s Settings) (credentials.TransportCredentials, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(s.TLSCA)) {
		return nil, errors.New("remote: grpcTlsCa holds no PEM certificates")
	}
	cert, err := tls.X509KeyPair([]byte(s.TLSClientCert), []byte(s.TLSClientKey))
	if err != nil {
		return nil, fmt.Errorf("remote: client key pair: %w", err)
	}
	return credentials.NewTLS(&tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

func (s Settings) requireTLS() error {
	cfg := config.Config{GRPCTLSCA: s.TLSCA, GRPCTLSClientKey: s.TLSClientKey, GRPCTLSClientCert: s.TLSClientCert}
	if err := cfg.RequireTLS(); err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	return nil
}
