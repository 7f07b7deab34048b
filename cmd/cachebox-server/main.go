// Command cachebox-server serves the catbox.Cache RPC service over one of the
// node stores.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:   "cachebox-server",
	Usage:  "serve the catbox.Cache gRPC service",
	Flags:  serverFlags,
	Action: serve,
}

var (
	listenFlag = &cli.StringFlag{
		Name:    "listen",
		Usage:   "address to listen on",
		Value:   "localhost:9000",
		EnvVars: []string{"CATBOX_LISTEN"},
	}
	storeFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "node store: memory, bolt, redis, ristretto or bigcache",
		Value: "memory",
	}
	fileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "bolt database file (store=bolt)",
	}
	redisAddrFlag = &cli.StringSliceFlag{
		Name:    "redis-addr",
		Usage:   "redis address; repeat for a cluster (store=redis)",
		EnvVars: []string{"CATBOX_PEERS"},
	}
	lifeWindowFlag = &cli.DurationFlag{
		Name:  "life-window",
		Usage: "longest entry lifetime (store=bigcache)",
		Value: defaultLifeWindow,
	}
	tlsCertFlag = &cli.StringFlag{
		Name:  "tls-cert",
		Usage: "server certificate PEM file",
	}
	tlsKeyFlag = &cli.StringFlag{
		Name:  "tls-key",
		Usage: "server key PEM file",
	}
	tlsCAFlag = &cli.StringFlag{
		Name:  "tls-client-ca",
		Usage: "CA PEM file used to verify client certificates",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug logging",
	}

	serverFlags = []cli.Flag{
		listenFlag, storeFlag, fileFlag, redisAddrFlag, lifeWindowFlag,
		tlsCertFlag, tlsKeyFlag, tlsCAFlag, debugFlag,
	}
)

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
