package directory

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/seniorbeto/p2pshare/pkg/logging"
	"github.com/seniorbeto/p2pshare/pkg/wire"
)

func dial(t *testing.T, addr net.Addr) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func request(t *testing.T, conn net.Conn, fields ...string) wire.Status {
	t.Helper()
	status, _ := requestKeepReader(t, conn, fields...)
	return status
}

func requestKeepReader(t *testing.T, conn net.Conn, fields ...string) (wire.Status, *bufio.Reader) {
	t.Helper()
	for _, f := range fields {
		if err := wire.WriteCString(conn, f); err != nil {
			t.Fatalf("write field %q: %v", f, err)
		}
	}
	br := bufio.NewReader(conn)
	status, err := wire.ReadStatus(br)
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	return status, br
}

func TestServerEndToEndRegisterConnectPublish(t *testing.T) {
	store := New()
	srv, err := NewServer("127.0.0.1:0", store, logging.Discard())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go srv.Serve()
	defer srv.Shutdown()

	conn := dial(t, srv.Addr())
	status := request(t, conn, string(VerbRegister), "now", "alice")
	conn.Close()
	if status != RegisterOK {
		t.Fatalf("REGISTER: got %v, want RegisterOK", status)
	}

	conn = dial(t, srv.Addr())
	status = request(t, conn, string(VerbConnect), "now", "alice", "9000")
	conn.Close()
	if status != ConnectOK {
		t.Fatalf("CONNECT: got %v, want ConnectOK", status)
	}

	conn = dial(t, srv.Addr())
	status = request(t, conn, string(VerbPublish), "now", "alice", "/a.iso", "a distro")
	conn.Close()
	if status != PublishOK {
		t.Fatalf("PUBLISH: got %v, want PublishOK", status)
	}

	conn = dial(t, srv.Addr())
	status, br := requestKeepReader(t, conn, string(VerbGetMultifile), "now", "bob", "/a.iso")
	if status != SeedersOK {
		t.Fatalf("GET_MULTIFILE: got %v, want SeedersOK", status)
	}
	count := make([]byte, 1)
	if _, err := io.ReadFull(br, count); err != nil {
		t.Fatalf("read seeder count: %v", err)
	}
	if count[0] != 1 {
		t.Fatalf("seeder count: got %d, want 1", count[0])
	}
	ip, err := wire.ReadCString(br)
	if err != nil {
		t.Fatalf("read seeder ip: %v", err)
	}
	port, err := wire.ReadCString(br)
	if err != nil {
		t.Fatalf("read seeder port: %v", err)
	}
	path, err := wire.ReadCString(br)
	conn.Close()
	if err != nil {
		t.Fatalf("read seeder path: %v", err)
	}
	if ip != "127.0.0.1" || port != "9000" || path != "/a.iso" {
		t.Fatalf("seeder triple: got (%q,%q,%q)", ip, port, path)
	}
}

func TestServerShutdownStopsAcceptLoop(t *testing.T) {
	store := New()
	srv, err := NewServer("127.0.0.1:0", store, logging.Discard())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	time.Sleep(acceptTimeout * 2)
	srv.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}

	if _, err := net.Dial("tcp", srv.Addr().String()); err == nil {
		t.Fatal("expected dial to closed listener to fail")
	}
}
