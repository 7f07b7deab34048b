package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/unkn0wn-root/cachebox/config"
	zaplog "github.com/unkn0wn-root/cachebox/log/zap"
	"github.com/unkn0wn-root/cachebox/provider"
	"github.com/unkn0wn-root/cachebox/provider/bigcache"
	"github.com/unkn0wn-root/cachebox/provider/bolt"
	"github.com/unkn0wn-root/cachebox/provider/memory"
	"github.com/unkn0wn-root/cachebox/provider/redis"
	"github.com/unkn0wn-root/cachebox/provider/ristretto"
	pb "github.com/unkn0wn-root/cachebox/rpc/cachepb"
	"github.com/unkn0wn-root/cachebox/rpcserver"
)

const (
	defaultLifeWindow = 24 * time.Hour
	shutdownTimeout   = 10 * time.Second
	// the server keys every partition into one store
	storePartition = "cachebox"
)

type storeConfig struct {
	Kind       string
	File       string
	RedisAddrs []string
	LifeWindow time.Duration
}

func openStore(sc storeConfig) (provider.Provider, error) {
	switch sc.Kind {
	case "", "memory":
		return memory.New(memory.Config{}), nil
	case "bolt":
		return bolt.Open(bolt.Config{Path: sc.File, Bucket: storePartition})
	case "redis":
		addrs := config.NormalizePeers(sc.RedisAddrs)
		if len(addrs) == 0 {
			return nil, errors.New("store=redis needs --redis-addr")
		}
		return redis.NewFromPeers(storePartition, addrs)
	case "ristretto":
		return ristretto.New(ristretto.DefaultConfig())
	case "bigcache":
		return bigcache.New(bigcache.Config{LifeWindow: sc.LifeWindow})
	default:
		return nil, fmt.Errorf("unknown store %q", sc.Kind)
	}
}

// serverCredentials requires client certificates signed by the CA file.
// It returns nil when no TLS flag is set.
func serverCredentials(certFile, keyFile, caFile string) (credentials.TransportCredentials, error) {
	if certFile == "" && keyFile == "" && caFile == "" {
		return nil, nil
	}
	if certFile == "" || keyFile == "" || caFile == "" {
		return nil, errors.New("--tls-cert, --tls-key and --tls-client-ca must be set together")
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load server key pair: %w", err)
	}
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read client CA: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("%s holds no PEM certificates", caFile)
	}
	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS12,
	}), nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func serve(cctx *cli.Context) error {
	zl, err := newLogger(cctx.Bool(debugFlag.Name))
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	store, err := openStore(storeConfig{
		Kind:       cctx.String(storeFlag.Name),
		File:       cctx.String(fileFlag.Name),
		RedisAddrs: cctx.StringSlice(redisAddrFlag.Name),
		LifeWindow: cctx.Duration(lifeWindowFlag.Name),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			zl.Warn("store close failed", zap.Error(err))
		}
	}()

	creds, err := serverCredentials(
		cctx.String(tlsCertFlag.Name), cctx.String(tlsKeyFlag.Name), cctx.String(tlsCAFlag.Name))
	if err != nil {
		return err
	}
	opts := []grpc.ServerOption{pb.ServerOption()}
	if creds != nil {
		opts = append(opts, grpc.Creds(creds))
	} else {
		zl.Warn("serving without TLS; connectors using the default dialer will not connect")
	}

	gs := grpc.NewServer(opts...)
	rpcserver.New(store, rpcserver.Options{Logger: zaplog.New(zl.Named("rpc"))}).Register(gs)

	addr := cctx.String(listenFlag.Name)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		gs.GracefulStop()
	}()

	zl.Info("serving", zap.String("addr", lis.Addr().String()), zap.String("store", cctx.String(storeFlag.Name)))
	if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
