package client

import (
	"sync"

	"github.com/seniorbeto/p2pshare/pkg/logging"
	"github.com/seniorbeto/p2pshare/pkg/natmap"
	"github.com/seniorbeto/p2pshare/pkg/peerserve"
)

// Session owns the client-local mutable state that the original
// implementation kept as process globals: the currently connected user
// name and the peer listener handle backing that session. There is at
// most one active Session per running client process.
type Session struct {
	mu       sync.Mutex
	user     string
	endpoint *Endpoint
	mapper   natmap.Mapper
	log      logging.Logger
}

// Endpoint pairs a running peer serving listener with the goroutine
// serving it, so Session can stop it cleanly on disconnect.
type Endpoint struct {
	ep   *peerserve.Endpoint
	done chan error
}

// NewSession builds an empty, disconnected Session.
func NewSession(mapper natmap.Mapper, log logging.Logger) *Session {
	return &Session{mapper: mapper, log: log}
}

// Active reports the currently connected user, if any.
func (s *Session) Active() (user string, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.endpoint != nil
}

// Start records user as connected and starts its peer listener,
// returning the port it bound so the caller can pass it to CONNECT.
func (s *Session) Start(user string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, err := peerserve.New(s.mapper, s.log)
	if err != nil {
		return 0, err
	}
	done := make(chan error, 1)
	go func() { done <- ep.Serve() }()

	s.user = user
	s.endpoint = &Endpoint{ep: ep, done: done}
	return ep.Port(), nil
}

// Stop tears down the peer listener and clears the session.
func (s *Session) Stop() {
	s.mu.Lock()
	ep := s.endpoint
	s.user = ""
	s.endpoint = nil
	s.mu.Unlock()

	if ep != nil {
		ep.ep.Shutdown()
	}
}
