package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/config"
	"github.com/perrottam/networks-proj3/internal/debugsrv"
	"github.com/perrottam/networks-proj3/internal/router"
	"github.com/perrottam/networks-proj3/internal/transport"
)

var (
	asNumber     int
	topologyPath string
)

func main() {
	flag.IntVar(&asNumber, "as", 0, "local AS number")
	flag.StringVar(&topologyPath, "topology", "", "path to an optional YAML topology file")
	flag.Parse()

	tokens := flag.Args()
	if len(tokens) == 0 {
		fmt.Fprintln(os.Stderr, "bgprouted: at least one <neighbor-address>-<relationship> token is required")
		os.Exit(1)
	}

	cfg, err := config.Parse(asNumber, tokens, topologyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bgprouted: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "bgprouted: ", log.LstdFlags)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	channels, err := listenNeighbors(cfg)
	if err != nil {
		logger.Printf("error: %v", err)
		os.Exit(1)
	}

	r := router.New(cfg.Neighbors, cfg.LocalAS, logger)
	loop := router.NewEventLoop(r, channels, logger)
	debugServer := debugsrv.New(cfg.DebugSocket, r)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(ctx)
	})

	g.Go(func() error {
		return debugServer.Serve(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Printf("error: %v", err)
		os.Exit(1)
	}
}

// listenNeighbors opens every neighbor's Unix socket and blocks until
// each has accepted exactly one connection. Each socket is established
// once at startup and held for the lifetime of the process.
func listenNeighbors(cfg *config.Config) (map[addr.Addr]transport.Channel, error) {
	var (
		mu       sync.Mutex
		channels = make(map[addr.Addr]transport.Channel, len(cfg.Sockets))
	)

	var g errgroup.Group
	for handle, path := range cfg.Sockets {
		handle, path := handle, path
		g.Go(func() error {
			conn, err := transport.ListenUnix(path)
			if err != nil {
				return fmt.Errorf("listening for neighbor %s on %s: %w", handle, path, err)
			}

			mu.Lock()
			channels[handle] = conn
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return channels, nil
}
