// Package config loads connector settings from an optional file and CATBOX_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "CATBOX"
	// EnvURI overrides DefaultAddress for the remote cache service.
	EnvURI         = "CATBOX_GRPC_URI"
	DefaultAddress = "localhost:9000"

	DefaultPartition = "catbox"
)

// Config mirrors the construction options of both connectors. Fields a
// connector does not use are ignored by it.
type Config struct {
	Partition string   `mapstructure:"partition"`
	Peers     []string `mapstructure:"peers"` // embedded
	File      string   `mapstructure:"file"`  // embedded

	GRPCURI           string `mapstructure:"grpc_uri"`             // remote
	GRPCTLSCA         string `mapstructure:"grpc_tls_ca"`          // remote, PEM
	GRPCTLSClientKey  string `mapstructure:"grpc_tls_client_key"`  // remote, PEM
	GRPCTLSClientCert string `mapstructure:"grpc_tls_client_cert"` // remote, PEM
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("partition", DefaultPartition)
	v.SetDefault("grpc_uri", DefaultAddress)
	v.SetDefault("peers", []string{})
	for _, k := range []string{"file", "grpc_tls_ca", "grpc_tls_client_key", "grpc_tls_client_cert"} {
		v.SetDefault(k, "")
	}
	return v
}

// Load reads path (yaml/json/toml by extension) when non-empty, then applies
// environment overrides, then defaults.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Peers = normalizePeers(cfg.Peers)
	return cfg, nil
}

// ResolveAddress picks the remote service address: an explicit value wins,
// then CATBOX_GRPC_URI, then DefaultAddress.
func ResolveAddress(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return newViper().GetString("grpc_uri")
}

// RequireTLS reports which remote TLS settings are missing.
func (c Config) RequireTLS() error {
	var errs []error
	if c.GRPCTLSCA == "" {
		errs = append(errs, errors.New("grpc_tls_ca is required"))
	}
	if c.GRPCTLSClientKey == "" {
		errs = append(errs, errors.New("grpc_tls_client_key is required"))
	}
	if c.GRPCTLSClientCert == "" {
		errs = append(errs, errors.New("grpc_tls_client_cert is required"))
	}
	return errors.Join(errs...)
}

// normalizePeers splits comma-separated env values and drops duplicates,
// keeping first-seen order.
func normalizePeers(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, p := range in {
		for _, part := range strings.Split(p, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// NormalizePeers is normalizePeers for callers building settings by hand.
func NormalizePeers(in []string) []string { return normalizePeers(in) }
