// Package debugsrv is a local, read-only introspection server. It
// answers a small text command set over a framed Unix domain socket,
// the same framing and multi-connection shape as this codebase's
// control-plane server, but speaking plain text instead of the
// neighbor wire protocol.
package debugsrv

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/perrottam/networks-proj3/internal/router"
	"github.com/perrottam/networks-proj3/internal/transport"
)

// Server accepts connections on a Unix socket and answers "show
// routes", "show rib", and "show neighbors" against a router. It never
// calls anything that mutates router state.
type Server struct {
	socketPath string
	router     *router.Router

	mu    sync.Mutex
	conns []net.Conn
}

// New builds a Server that will listen on socketPath once Serve is
// called.
func New(socketPath string, r *router.Router) *Server {
	return &Server{socketPath: socketPath, router: r}
}

// Serve listens on the configured socket and handles connections until
// ctx is cancelled, closing the listener and every open connection on
// cancellation.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		l.Close()

		s.mu.Lock()
		for _, c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
		return nil
	})

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return g.Wait()
			default:
				return err
			}
		}

		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		g.Go(func() error {
			return s.handle(ctx, transport.NewFramedConn(conn))
		})
	}
}

func (s *Server) handle(ctx context.Context, conn *transport.FramedConn) error {
	defer conn.Close()

	for {
		frame, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		var out bytes.Buffer
		s.respond(&out, strings.TrimSpace(string(frame)))

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := conn.WriteMessage(out.Bytes()); err != nil {
			return err
		}
	}
}

func (s *Server) respond(w *bytes.Buffer, command string) {
	switch command {
	case "show routes":
		s.showRoutes(w)
	case "show rib":
		s.showRIB(w)
	case "show neighbors":
		s.showNeighbors(w)
	default:
		fmt.Fprintf(w, "%% unknown command: %q\n", command)
	}
}

func (s *Server) showRoutes(w *bytes.Buffer) {
	for _, e := range s.router.Aggregated() {
		fmt.Fprintf(w, "%-20s %s\n", e.Prefix, e.NextHop)
	}
}

func (s *Server) showRIB(w *bytes.Buffer) {
	for _, e := range s.router.RIB().Snapshot() {
		fmt.Fprintf(w, "%-20s %-16s localpref=%d origin=%s self=%t as-path=%v\n",
			e.Prefix, e.NextHop, e.Attributes.LocalPref, e.Attributes.Origin, e.Attributes.SelfOrigin, e.Attributes.ASPath)
	}
}

func (s *Server) showNeighbors(w *bytes.Buffer) {
	for _, h := range s.router.Neighbors().Handles() {
		rel, _ := s.router.Neighbors().Relationship(h)
		fmt.Fprintf(w, "%-16s %s\n", h, rel)
	}
}
