package client

import (
	"bufio"
	"fmt"
	"net"

	"github.com/seniorbeto/p2pshare/pkg/directory"
	"github.com/seniorbeto/p2pshare/pkg/timestamp"
	"github.com/seniorbeto/p2pshare/pkg/wire"
)

// Stubs issues one directory RPC per exported method. Every method opens
// its own connection to directoryAddr, writes the request, reads the
// response fully, prints the user-facing line, and closes the
// connection — the directory protocol is one request/response per TCP
// connection, so stubs never keep one open across calls.
type Stubs struct {
	directoryAddr string
	clock         timestamp.Provider
	out           Printer
}

// Printer is the minimal surface a Stubs needs to show output; the
// shell supplies a colored implementation, tests a plain one.
type Printer interface {
	Line(format string, args ...interface{})
}

// NewStubs builds a Stubs dialing directoryAddr for every request,
// timestamping requests with clock and printing through out.
func NewStubs(directoryAddr string, clock timestamp.Provider, out Printer) *Stubs {
	return &Stubs{directoryAddr: directoryAddr, clock: clock, out: out}
}

func (s *Stubs) dial() (net.Conn, error) {
	return net.Dial("tcp", s.directoryAddr)
}

func (s *Stubs) ts() string {
	v, err := s.clock.Now()
	if err != nil {
		return ""
	}
	return v
}

func (s *Stubs) fail(verb, reason string, err error) Result {
	if err != nil {
		s.out.Line("c> %s CLIENT ERROR - %v", verb, err)
		return Result{Outcome: TransportError, Reason: err.Error()}
	}
	s.out.Line("c> %s FAIL, %s", verb, reason)
	return Result{Outcome: TransportError, Reason: reason}
}

// Register issues REGISTER <user>.
func (s *Stubs) Register(user string) Result {
	if err := wire.Validate(user); err != nil {
		s.out.Line("Error: Invalid username length")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return s.fail("REGISTER", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbRegister))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, user)

	status, err := wire.ReadStatus(bufio.NewReader(conn))
	if err != nil {
		return s.fail("REGISTER", "", err)
	}
	switch status {
	case directory.RegisterOK:
		s.out.Line("c> REGISTER OK")
		return Result{Outcome: OK}
	case directory.RegisterUserExists:
		s.out.Line("c> USERNAME IN USE")
		return Result{Outcome: UserError, Reason: "USERNAME IN USE"}
	default:
		s.out.Line("c> REGISTER FAIL")
		return Result{Outcome: TransportError}
	}
}

// Unregister issues UNREGISTER <user>.
func (s *Stubs) Unregister(user string) Result {
	if err := wire.Validate(user); err != nil {
		s.out.Line("Error: Invalid username length")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return s.fail("UNREGISTER", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbUnregister))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, user)

	status, err := wire.ReadStatus(bufio.NewReader(conn))
	if err != nil {
		return s.fail("UNREGISTER", "", err)
	}
	switch status {
	case directory.UnregisterOK:
		s.out.Line("c> UNREGISTER OK")
		return Result{Outcome: OK}
	case directory.UnregisterNoSuchUser:
		s.out.Line("c> USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	default:
		s.out.Line("c> UNREGISTER FAIL")
		return Result{Outcome: TransportError}
	}
}

// Connect issues CONNECT <user> <listenPort>.
func (s *Stubs) Connect(user, listenPort string) Result {
	if err := wire.Validate(user); err != nil {
		s.out.Line("Error: Invalid username length")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return s.fail("CONNECT", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbConnect))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, user)
	wire.WriteCString(conn, listenPort)

	status, err := wire.ReadStatus(bufio.NewReader(conn))
	if err != nil {
		return s.fail("CONNECT", "", err)
	}
	switch status {
	case directory.ConnectOK:
		s.out.Line("c> CONNECT OK")
		return Result{Outcome: OK}
	case directory.ConnectNoSuchUser:
		s.out.Line("c> CONNECT FAIL, USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	case directory.ConnectAlready:
		s.out.Line("c> USER ALREADY CONNECTED")
		return Result{Outcome: UserError, Reason: "USER ALREADY CONNECTED"}
	default:
		s.out.Line("c> CONNECT FAIL")
		return Result{Outcome: TransportError}
	}
}

// Disconnect issues DISCONNECT <user>. quiet suppresses all console
// output, used for the best-effort disconnect on process termination.
func (s *Stubs) Disconnect(user string, quiet bool) Result {
	line := func(format string, args ...interface{}) {
		if !quiet {
			s.out.Line(format, args...)
		}
	}
	if err := wire.Validate(user); err != nil {
		line("Error: Invalid username length")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		line("c> DISCONNECT CLIENT ERROR - %v", err)
		return Result{Outcome: TransportError, Reason: err.Error()}
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbDisconnect))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, user)

	status, err := wire.ReadStatus(bufio.NewReader(conn))
	if err != nil {
		line("c> DISCONNECT CLIENT ERROR - %v", err)
		return Result{Outcome: TransportError, Reason: err.Error()}
	}
	switch status {
	case directory.DisconnectOK:
		line("c> DISCONNECT OK")
		return Result{Outcome: OK}
	case directory.DisconnectNoSuchUser:
		line("c> DISCONNECT FAIL , USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	case directory.DisconnectNotActive:
		line("c> DISCONNECT FAIL , USER NOT CONNECTED")
		return Result{Outcome: UserError, Reason: "USER NOT CONNECTED"}
	default:
		line("c> DISCONNECT FAIL")
		return Result{Outcome: TransportError}
	}
}

// Publish issues PUBLISH <user> <path> <description>.
func (s *Stubs) Publish(user, path, description string) Result {
	if err := wire.ValidatePath(path); err != nil {
		s.out.Line("Error: Invalid filename, blank spaces not allowed")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	if err := wire.Validate(description); err != nil {
		s.out.Line("Error: Invalid description length")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return s.fail("PUBLISH", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbPublish))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, user)
	wire.WriteCString(conn, path)
	wire.WriteCString(conn, description)

	status, err := wire.ReadStatus(bufio.NewReader(conn))
	if err != nil {
		return s.fail("PUBLISH", "", err)
	}
	switch status {
	case directory.PublishOK:
		s.out.Line("c> PUBLISH OK")
		return Result{Outcome: OK}
	case directory.PublishNoSuchUser:
		s.out.Line("c> PUBLISH FAIL, USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	case directory.PublishNotActive:
		s.out.Line("c> PUBLISH FAIL, USER NOT CONNECTED")
		return Result{Outcome: UserError, Reason: "USER NOT CONNECTED"}
	case directory.PublishDuplicate:
		s.out.Line("c> PUBLISH FAIL, CONTENT ALREADY PUBLISHED")
		return Result{Outcome: UserError, Reason: "CONTENT ALREADY PUBLISHED"}
	default:
		s.out.Line("c> PUBLISH FAIL")
		return Result{Outcome: TransportError}
	}
}

// Delete issues DELETE <user> <path>.
func (s *Stubs) Delete(user, path string) Result {
	if err := wire.ValidatePath(path); err != nil {
		s.out.Line("Error: Invalid filename, blank spaces not allowed")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return s.fail("DELETE", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbDelete))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, user)
	wire.WriteCString(conn, path)

	status, err := wire.ReadStatus(bufio.NewReader(conn))
	if err != nil {
		return s.fail("DELETE", "", err)
	}
	switch status {
	case directory.DeleteOK:
		s.out.Line("c> DELETE OK")
		return Result{Outcome: OK}
	case directory.DeleteNoSuchUser:
		s.out.Line("c> DELETE FAIL, USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	case directory.DeleteNotActive:
		s.out.Line("c> DELETE FAIL, USER NOT CONNECTED")
		return Result{Outcome: UserError, Reason: "USER NOT CONNECTED"}
	case directory.DeleteNoSuchEntry:
		s.out.Line("c> DELETE FAIL, CONTENT NOT PUBLISHED")
		return Result{Outcome: UserError, Reason: "CONTENT NOT PUBLISHED"}
	default:
		s.out.Line("c> DELETE FAIL")
		return Result{Outcome: TransportError}
	}
}

// ListUsers issues LIST_USERS <caller> and prints one row per user.
func (s *Stubs) ListUsers(caller string) Result {
	conn, err := s.dial()
	if err != nil {
		return s.fail("LIST_USERS", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbListUsers))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, caller)

	r := bufio.NewReader(conn)
	status, err := wire.ReadStatus(r)
	if err != nil {
		return s.fail("LIST_USERS", "", err)
	}
	switch status {
	case directory.ListUsersOK:
		s.out.Line("c> LIST_USERS OK")
		n, err := readCount(r)
		if err != nil {
			s.out.Line("c> LIST_USERS CLIENT ERROR - invalid num_users")
			return Result{Outcome: TransportError}
		}
		for i := 0; i < n; i++ {
			name, _ := wire.ReadCString(r)
			ip, _ := wire.ReadCString(r)
			port, _ := wire.ReadCString(r)
			s.out.Line("\tUSER%d: %s %s %s", i, name, ip, port)
		}
		return Result{Outcome: OK}
	case directory.ListUsersNoSuchUser:
		s.out.Line("c> LIST_USERS FAIL, USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	case directory.ListUsersNotActive:
		s.out.Line("c> LIST_USERS FAIL, USER NOT CONNECTED")
		return Result{Outcome: UserError, Reason: "USER NOT CONNECTED"}
	default:
		s.out.Line("c> LIST_USERS FAIL")
		return Result{Outcome: TransportError}
	}
}

// ListContent issues LIST_CONTENT <caller> <target> and prints one row
// per published file.
func (s *Stubs) ListContent(caller, target string) Result {
	if err := wire.Validate(target); err != nil {
		s.out.Line("Error: Invalid username length")
		return Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return s.fail("LIST_CONTENT", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbListContent))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, caller)
	wire.WriteCString(conn, target)

	r := bufio.NewReader(conn)
	status, err := wire.ReadStatus(r)
	if err != nil {
		return s.fail("LIST_CONTENT", "", err)
	}
	switch status {
	case directory.ListContentOK:
		s.out.Line("c> LIST_CONTENT OK")
		n, err := readCount(r)
		if err != nil {
			s.out.Line("c> LIST_CONTENT CLIENT ERROR - invalid num_files")
			return Result{Outcome: TransportError}
		}
		for i := 0; i < n; i++ {
			path, _ := wire.ReadCString(r)
			s.out.Line("\tFILE%d: %s", i, path)
		}
		return Result{Outcome: OK}
	case directory.ListContentNoSuchUser:
		s.out.Line("c> LIST_CONTENT FAIL, USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "USER DOES NOT EXIST"}
	case directory.ListContentNotActive:
		s.out.Line("c> LIST_CONTENT FAIL, USER NOT CONNECTED")
		return Result{Outcome: UserError, Reason: "USER NOT CONNECTED"}
	case directory.ListContentNoSuchTarget:
		s.out.Line("c> LIST_CONTENT FAIL, REMOTE USER DOES NOT EXIST")
		return Result{Outcome: UserError, Reason: "REMOTE USER DOES NOT EXIST"}
	default:
		s.out.Line("c> LIST_CONTENT FAIL")
		return Result{Outcome: TransportError}
	}
}

// SeederInfo is one seeder returned by GetMultifileSeeders.
type SeederInfo struct {
	IP, Port, Path string
}

// GetMultifileSeeders issues GET_MULTIFILE <caller> <path> to the
// directory and returns the seeders currently publishing path. It does
// not print a user-facing line on success; the multi-seeder coordinator
// reports the overall outcome once the transfer itself finishes.
func (s *Stubs) GetMultifileSeeders(caller, path string) ([]SeederInfo, Result) {
	if err := wire.Validate(path); err != nil {
		s.out.Line("Error: Invalid filename length")
		return nil, Result{Outcome: UserError, Reason: err.Error()}
	}
	conn, err := s.dial()
	if err != nil {
		return nil, s.fail("GET_MULTIFILE", "", err)
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbGetMultifile))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, caller)
	wire.WriteCString(conn, path)

	r := bufio.NewReader(conn)
	status, err := wire.ReadStatus(r)
	if err != nil {
		return nil, s.fail("GET_MULTIFILE", "", err)
	}
	switch status {
	case directory.SeedersOK:
		countByte, err := r.ReadByte()
		if err != nil {
			return nil, s.fail("GET_MULTIFILE", "", err)
		}
		seeders := make([]SeederInfo, 0, countByte)
		for i := byte(0); i < countByte; i++ {
			ip, _ := wire.ReadCString(r)
			port, _ := wire.ReadCString(r)
			p, _ := wire.ReadCString(r)
			seeders = append(seeders, SeederInfo{IP: ip, Port: port, Path: p})
		}
		return seeders, Result{Outcome: OK}
	case directory.SeedersNone:
		s.out.Line("c> GET_MULTIFILE FAIL, NO USER CONNECTED HAVE FILE")
		return nil, Result{Outcome: UserError, Reason: "NO USER CONNECTED HAVE FILE"}
	default:
		s.out.Line("c> GET_MULTIFILE FAIL")
		return nil, Result{Outcome: TransportError}
	}
}

// resolveUserAddr silently performs LIST_USERS and returns the
// "ip:port" address of target, used by GET_FILE to locate the peer to
// dial. It prints nothing: the caller is responsible for all
// user-facing output, since a lookup failure and a transfer failure
// are reported with different messages.
func (s *Stubs) resolveUserAddr(caller, target string) (string, bool) {
	conn, err := s.dial()
	if err != nil {
		return "", false
	}
	defer conn.Close()

	wire.WriteCString(conn, string(directory.VerbListUsers))
	wire.WriteCString(conn, s.ts())
	wire.WriteCString(conn, caller)

	r := bufio.NewReader(conn)
	status, err := wire.ReadStatus(r)
	if err != nil || status != directory.ListUsersOK {
		return "", false
	}
	n, err := readCount(r)
	if err != nil {
		return "", false
	}
	for i := 0; i < n; i++ {
		name, _ := wire.ReadCString(r)
		ip, _ := wire.ReadCString(r)
		port, _ := wire.ReadCString(r)
		if name == target {
			return net.JoinHostPort(ip, port), true
		}
	}
	return "", false
}

func readCount(r *bufio.Reader) (int, error) {
	s, err := wire.ReadCString(r)
	if err != nil {
		return 0, err
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}
