package directory

import (
	"net"
	"sync"
	"time"

	"github.com/seniorbeto/p2pshare/pkg/logging"
)

// acceptTimeout bounds how long Accept blocks before the server loop
// re-checks for shutdown. It trades a small, constant poll latency for
// a listener that can always be stopped promptly without relying on
// platform-specific Close-unblocks-Accept behavior.
const acceptTimeout = 200 * time.Millisecond

// poweroff mirrors the shutdown signalling used across the network
// layer: a channel that is closed exactly once, guarded by a mutex so
// Shutdown is safe to call more than once or concurrently.
type poweroff struct {
	mu       sync.Mutex
	shutdown bool
	ch       chan struct{}
}

func newPoweroff() poweroff {
	return poweroff{ch: make(chan struct{})}
}

func (p *poweroff) trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.shutdown {
		p.shutdown = true
		close(p.ch)
	}
}

func (p *poweroff) closed() bool {
	select {
	case <-p.ch:
		return true
	default:
		return false
	}
}

// Server accepts directory connections and hands each one to a
// Dispatcher. Exactly one request is served per connection, per the
// wire protocol's one-shot-per-connection discipline.
type Server struct {
	listener   net.Listener
	dispatcher *Dispatcher
	log        logging.Logger
	off        poweroff
	wg         sync.WaitGroup
}

// NewServer builds a Server bound to addr, serving requests against
// store.
func NewServer(addr string, store *Store, log logging.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:   ln,
		dispatcher: NewDispatcher(store, log),
		log:        log,
		off:        newPoweroff(),
	}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve runs the accept loop until Shutdown is called. It always
// returns nil; accept errors that occur after shutdown has begun are
// expected and suppressed.
func (s *Server) Serve() error {
	type tcpListener interface {
		SetDeadline(time.Time) error
	}

	for {
		if s.off.closed() {
			s.wg.Wait()
			return nil
		}

		if tl, ok := s.listener.(tcpListener); ok {
			_ = tl.SetDeadline(time.Now().Add(acceptTimeout))
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if s.off.closed() {
				s.wg.Wait()
				return nil
			}
			s.log.Warnf("directory: accept failed: %v", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			s.dispatcher.Serve(conn)
		}()
	}
}

// Shutdown stops the accept loop and waits for in-flight connections to
// finish being served. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.off.trigger()
	_ = s.listener.Close()
	s.wg.Wait()
}
