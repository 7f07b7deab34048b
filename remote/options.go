package remote

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/unkn0wn-root/cachebox"
	c "github.com/unkn0wn-root/cachebox/codec"
	"github.com/unkn0wn-root/cachebox/config"
)

const (
	DefaultAttempts   = 3
	DefaultRetryDelay = time.Second
)

// Settings identify the remote cache service. TLS material is PEM text.
type Settings struct {
	Partition string // default "catbox"
	Address   string // empty => CATBOX_GRPC_URI, then localhost:9000

	TLSCA         string
	TLSClientKey  string
	TLSClientCert string
}

// SettingsFrom picks the remote fields out of a loaded config.
func SettingsFrom(cfg config.Config) Settings {
	return Settings{
		Partition:     cfg.Partition,
		Address:       cfg.GRPCURI,
		TLSCA:         cfg.GRPCTLSCA,
		TLSClientKey:  cfg.GRPCTLSClientKey,
		TLSClientCert: cfg.GRPCTLSClientCert,
	}
}

// DialFunc opens the client connection used by a started connector.
type DialFunc func(ctx context.Context, s Settings) (*grpc.ClientConn, error)

// Options configure a remote Connector.
// TLS settings are required unless Dial is supplied.
type Options[V any] struct {
	Settings

	Codec  c.Codec[V]      // nil => JSON
	Logger cachebox.Logger // nil => NopLogger
	Hooks  cachebox.Hooks  // nil => NopHooks
	Dial   DialFunc        // nil => DefaultDial (mutual TLS)

	Attempts    int           // total attempts on Unavailable; 0 => 3
	RetryDelay  time.Duration // fixed delay between attempts; 0 => 1s
	PingOnStart bool          // Start fails unless the service answers ping
}
