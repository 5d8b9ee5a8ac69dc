package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/message"
	"github.com/perrottam/networks-proj3/internal/transport"
)

// inbound is one frame read off a neighbor channel, tagged with the
// neighbor it arrived from.
type inbound struct {
	from  addr.Addr
	frame []byte
}

// EventLoop multiplexes a fixed set of neighbor channels into a single
// dispatch goroutine: one reader goroutine per channel feeds a shared
// queue, and the loop itself is the only goroutine that ever touches
// the Router.
type EventLoop struct {
	router   *Router
	channels map[addr.Addr]transport.Channel
	logger   *log.Logger
	q        *queue[inbound]
}

// NewEventLoop builds an EventLoop over the given router and the set of
// established neighbor channels, keyed by neighbor handle.
func NewEventLoop(r *Router, channels map[addr.Addr]transport.Channel, logger *log.Logger) *EventLoop {
	if logger == nil {
		logger = log.Default()
	}
	return &EventLoop{
		router:   r,
		channels: channels,
		logger:   logger,
		q:        newQueue[inbound](),
	}
}

// Run drives the loop until ctx is cancelled or a channel reports EOF
// or a transport error, at which point Run returns nil for a clean EOF
// shutdown or a cancelled ctx and the underlying error otherwise.
func (l *EventLoop) Run(ctx context.Context) error {
	parent := ctx
	g, ctx := errgroup.WithContext(ctx)

	for handle, ch := range l.channels {
		handle, ch := handle, ch
		g.Go(func() error {
			return l.readLoop(ctx, handle, ch)
		})
	}

	g.Go(func() error {
		return l.dispatchLoop(ctx)
	})

	// Readers block in ReadMessage; closing every channel once the
	// group's context is done unblocks them so Wait can return.
	g.Go(func() error {
		<-ctx.Done()
		for _, ch := range l.channels {
			ch.Close()
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, io.EOF) || parent.Err() != nil {
		return nil
	}
	return err
}

func (l *EventLoop) readLoop(ctx context.Context, handle addr.Addr, ch transport.Channel) error {
	for {
		frame, err := ch.ReadMessage()
		if err != nil {
			return fmt.Errorf("transport error on neighbor %s: %w", handle, err)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		l.q.Put(inbound{from: handle, frame: frame})
	}
}

func (l *EventLoop) dispatchLoop(ctx context.Context) error {
	for {
		item, ok := l.q.Get(ctx)
		if !ok {
			return nil
		}

		env, err := message.Decode(item.frame)
		if err != nil {
			l.logger.Printf("dropping malformed message from %s: %v", item.from, err)
			continue
		}

		out, err := l.router.Dispatch(item.from, env)
		if err != nil {
			l.logger.Printf("dropping message from %s: %v", item.from, err)
			continue
		}

		for _, o := range out {
			ch, ok := l.channels[o.To]
			if !ok {
				l.logger.Printf("dropping outbound message to unknown neighbor %s", o.To)
				continue
			}

			b, err := message.Encode(o.Env)
			if err != nil {
				l.logger.Printf("failed to encode outbound message to %s: %v", o.To, err)
				continue
			}

			if err := ch.WriteMessage(b); err != nil {
				l.logger.Printf("write error to neighbor %s: %v", o.To, err)
			}
		}
	}
}
