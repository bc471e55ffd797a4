package peerserve

import (
	"bufio"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/seniorbeto/p2pshare/pkg/logging"
	"github.com/seniorbeto/p2pshare/pkg/natmap"
	"github.com/seniorbeto/p2pshare/pkg/wire"
)

const acceptTimeout = 200 * time.Millisecond

const chunkSize = 1024

// Verb identifies the two requests a peer serving endpoint understands.
type Verb string

const (
	VerbGetFile      Verb = "GET_FILE"
	VerbGetMultiFile Verb = "GET_MULTIFILE"
)

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

// Endpoint serves the local client's published files to other peers. It
// binds an ephemeral port, so every Endpoint advertises the port it was
// actually given through Port.
type Endpoint struct {
	listener net.Listener
	mapper   natmap.Mapper
	unmap    func()
	log      logging.Logger
	off      poweroff
	wg       sync.WaitGroup
}

// New binds an Endpoint to an ephemeral local port and attempts a
// best-effort NAT mapping for it.
func New(mapper natmap.Mapper, log logging.Logger) (*Endpoint, error) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, err
	}

	port := ln.Addr().(*net.TCPAddr).Port
	unmap, err := mapper.Map(port)
	if err != nil {
		// Map's contract guarantees failures are advisory, but guard
		// against a misbehaving Mapper anyway.
		log.Warnf("peerserve: NAT mapping failed: %v", err)
		unmap = func() {}
	}

	return &Endpoint{
		listener: ln,
		mapper:   mapper,
		unmap:    unmap,
		log:      log,
		off:      newPoweroff(),
	}, nil
}

// Port returns the local TCP port the endpoint is listening on.
func (e *Endpoint) Port() int {
	return e.listener.Addr().(*net.TCPAddr).Port
}

// Serve runs the accept loop until Shutdown is called.
func (e *Endpoint) Serve() error {
	type deadliner interface {
		SetDeadline(time.Time) error
	}

	for {
		if e.off.closed() {
			e.wg.Wait()
			return nil
		}

		if dl, ok := e.listener.(deadliner); ok {
			_ = dl.SetDeadline(time.Now().Add(acceptTimeout))
		}

		conn, err := e.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if e.off.closed() {
				e.wg.Wait()
				return nil
			}
			e.log.Warnf("peerserve: accept failed: %v", err)
			continue
		}

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			defer conn.Close()
			e.handle(conn)
		}()
	}
}

// Shutdown stops accepting, undoes any NAT mapping, and waits for
// in-flight transfers to finish being served.
func (e *Endpoint) Shutdown() {
	e.off.trigger()
	_ = e.listener.Close()
	e.wg.Wait()
	if e.unmap != nil {
		e.unmap()
	}
}

func (e *Endpoint) handle(conn net.Conn) {
	r := bufio.NewReader(conn)

	verb, err := wire.ReadCString(r)
	if err != nil {
		e.log.Debugf("peerserve: failed reading verb from %s: %v", conn.RemoteAddr(), err)
		return
	}
	path, err := wire.ReadCString(r)
	if err != nil {
		e.log.Debugf("peerserve: failed reading path from %s: %v", conn.RemoteAddr(), err)
		return
	}

	switch Verb(verb) {
	case VerbGetFile:
		e.serveWhole(conn, path)
	case VerbGetMultiFile:
		e.serveFragment(conn, r, path)
	default:
		e.log.Warnf("peerserve: unknown verb %q from %s", verb, conn.RemoteAddr())
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_, _ = conn.Write([]byte{StatusInvalidVerb})
	}
}

func (e *Endpoint) serveWhole(conn net.Conn, path string) {
	f, err := os.Open(path)
	if err != nil {
		e.log.Debugf("peerserve: GET_FILE %s not found: %v", path, err)
		_, _ = conn.Write([]byte{StatusNotFound})
		return
	}
	defer f.Close()

	if _, err := conn.Write([]byte{StatusOK}); err != nil {
		return
	}
	if _, err := io.Copy(conn, f); err != nil {
		e.log.Debugf("peerserve: GET_FILE %s: send failed: %v", path, err)
	}
}

func (e *Endpoint) serveFragment(conn net.Conn, r *bufio.Reader, path string) {
	seederIDStr, err := wire.ReadCString(r)
	if err != nil {
		_, _ = conn.Write([]byte{StatusInvalidVerb})
		return
	}
	totalSeedersStr, err := wire.ReadCString(r)
	if err != nil {
		_, _ = conn.Write([]byte{StatusInvalidVerb})
		return
	}
	seederID, err1 := strconv.Atoi(seederIDStr)
	totalSeeders, err2 := strconv.Atoi(totalSeedersStr)
	if err1 != nil || err2 != nil || totalSeeders <= 0 || seederID < 0 || seederID >= totalSeeders {
		_, _ = conn.Write([]byte{StatusInvalidVerb})
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		e.log.Debugf("peerserve: GET_MULTIFILE %s not found: %v", path, err)
		_, _ = conn.Write([]byte{StatusNotFound})
		return
	}

	f, err := os.Open(path)
	if err != nil {
		_, _ = conn.Write([]byte{StatusNotFound})
		return
	}
	defer f.Close()

	offset, length := Partition(info.Size(), seederID, totalSeeders)
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		_, _ = conn.Write([]byte{StatusInvalidVerb})
		return
	}

	if _, err := conn.Write([]byte{StatusOK}); err != nil {
		return
	}
	if _, err := io.CopyN(conn, f, length); err != nil && err != io.EOF {
		e.log.Debugf("peerserve: GET_MULTIFILE %s: send failed: %v", path, err)
	}
}
