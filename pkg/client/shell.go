package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/seniorbeto/p2pshare/pkg/logging"
)

// Shell is the interactive command loop driving a Stubs/Session pair.
// It is an external collaborator to the core protocol: nothing in
// directory or peerserve depends on it, and a deployment could drive
// the same stubs from a script or an RPC front-end instead.
type Shell struct {
	stubs   *Stubs
	session *Session
	in      *bufio.Scanner
	out     Printer
	log     logging.Logger
}

// NewShell builds a Shell reading commands from in.
func NewShell(stubs *Stubs, session *Session, in io.Reader, out Printer, log logging.Logger) *Shell {
	return &Shell{stubs: stubs, session: session, in: bufio.NewScanner(in), out: out, log: log}
}

// Run executes the command loop until QUIT or EOF. It also installs a
// termination-signal handler that performs a best-effort, console-quiet
// DISCONNECT before the process exits, per the exit-signal handling
// requirement.
func (s *Shell) Run() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		s.handleExitSignal()
		os.Exit(0)
	}()
	defer signal.Stop(sigCh)

	for {
		fmt.Print("c> ")
		if !s.in.Scan() {
			break
		}
		line := strings.Fields(s.in.Text())
		if len(line) == 0 {
			continue
		}
		verb := strings.ToUpper(line[0])
		args := line[1:]

		if verb == "QUIT" {
			if len(args) == 0 {
				break
			}
			s.out.Line("Syntax error. Use: QUIT")
			continue
		}

		s.dispatch(verb, args)
	}
}

func (s *Shell) handleExitSignal() {
	user, connected := s.session.Active()
	if !connected {
		return
	}
	s.stubs.Disconnect(user, true)
	s.session.Stop()
	fmt.Println()
	fmt.Println("+++ FINISHED +++")
}

func (s *Shell) dispatch(verb string, args []string) {
	switch verb {
	case "REGISTER":
		if len(args) != 1 {
			s.out.Line("Syntax error. Usage: REGISTER <userName>")
			return
		}
		s.stubs.Register(args[0])

	case "UNREGISTER":
		if len(args) != 1 {
			s.out.Line("Syntax error. Usage: UNREGISTER <userName>")
			return
		}
		s.stubs.Unregister(args[0])

	case "CONNECT":
		if len(args) != 1 {
			s.out.Line("Syntax error. Usage: CONNECT <userName>")
			return
		}
		s.doConnect(args[0])

	case "DISCONNECT":
		if len(args) != 1 {
			s.out.Line("Syntax error. Usage: DISCONNECT <userName>")
			return
		}
		s.doDisconnect(args[0])

	case "PUBLISH":
		if len(args) < 2 {
			s.out.Line("Syntax error. Usage: PUBLISH <fileName> <description>")
			return
		}
		user, connected := s.session.Active()
		if !connected {
			s.out.Line("c> PUBLISH FAIL, USER NOT CONNECTED")
			return
		}
		s.stubs.Publish(user, resolvePath(args[0]), strings.Join(args[1:], " "))

	case "DELETE":
		if len(args) != 1 {
			s.out.Line("Syntax error. Usage: DELETE <fileName>")
			return
		}
		user, connected := s.session.Active()
		if !connected {
			s.out.Line("c> DELETE FAIL, USER NOT CONNECTED")
			return
		}
		s.stubs.Delete(user, resolvePath(args[0]))

	case "LIST_USERS":
		if len(args) != 0 {
			s.out.Line("Syntax error. Use: LIST_USERS")
			return
		}
		user, connected := s.session.Active()
		if !connected {
			s.out.Line("c> LIST_USERS FAIL, USER NOT CONNECTED")
			return
		}
		s.stubs.ListUsers(user)

	case "LIST_CONTENT":
		if len(args) != 1 {
			s.out.Line("Syntax error. Usage: LIST_CONTENT <userName>")
			return
		}
		caller, connected := s.session.Active()
		if !connected {
			s.out.Line("c> LIST_CONTENT FAIL, USER NOT CONNECTED")
			return
		}
		s.stubs.ListContent(caller, args[0])

	case "GET_FILE":
		if len(args) != 3 {
			s.out.Line("Syntax error. Usage: GET_FILE <userName> <remote_fileName> <local_fileName>")
			return
		}
		s.doGetFile(args[0], args[1], args[2])

	case "GET_MULTIFILE":
		if len(args) != 2 {
			s.out.Line("Syntax error. Usage: GET_MULTIFILE <remote_fileName> <local_fileName>")
			return
		}
		if _, connected := s.session.Active(); !connected {
			s.out.Line("c> GET_MULTIFILE FAIL, USER NOT CONNECTED")
			return
		}
		s.doGetMultifile(args[0], args[1])

	case "HELP":
		s.printHelp()

	default:
		s.out.Line("Error: command %s not valid.", verb)
	}
}

func (s *Shell) doConnect(user string) {
	port, err := s.session.Start(user)
	if err != nil {
		s.out.Line("c> CONNECT CLIENT ERROR - %v", err)
		return
	}
	result := s.stubs.Connect(user, fmt.Sprintf("%d", port))
	if result.Outcome != OK {
		s.session.Stop()
	}
}

func (s *Shell) doDisconnect(user string) {
	result := s.stubs.Disconnect(user, false)
	if result.Outcome == OK {
		s.session.Stop()
	}
}

func (s *Shell) doGetFile(user, remotePath, localPath string) {
	caller, connected := s.session.Active()
	if !connected {
		s.out.Line("c> GET_FILE FAIL, USER NOT CONNECTED")
		return
	}
	addr, ok := s.stubs.resolveUserAddr(caller, user)
	if !ok {
		s.out.Line("c> GET_FILE FAIL, USER %s NOT FOUND", user)
		return
	}
	switch err := GetFile(addr, resolvePath(remotePath), resolvePath(localPath)); {
	case err == nil:
		s.out.Line("c> GET_FILE OK")
	case os.IsNotExist(err):
		s.out.Line("c> GET_FILE FAIL, FILE DOES NOT EXIST")
	default:
		s.out.Line("c> GET_FILE FAIL")
	}
}

func (s *Shell) doGetMultifile(remotePath, localPath string) {
	caller, _ := s.session.Active()
	seeders, result := s.stubs.GetMultifileSeeders(caller, resolvePath(remotePath))
	if result.Outcome != OK {
		return
	}
	if err := Download(seeders, resolvePath(remotePath), resolvePath(localPath)); err != nil {
		s.out.Line("c> GET_MULTIFILE FAIL")
		return
	}
	s.out.Line("c> GET_MULTIFILE OK")
}

func (s *Shell) printHelp() {
	s.out.Line("Commands:")
	s.out.Line("\tREGISTER <userName>")
	s.out.Line("\tUNREGISTER <userName>")
	s.out.Line("\tCONNECT <userName>")
	s.out.Line("\tDISCONNECT <userName>")
	s.out.Line("\tPUBLISH <fileName> <description>")
	s.out.Line("\tDELETE <fileName>")
	s.out.Line("\tLIST_USERS")
	s.out.Line("\tLIST_CONTENT <userName>")
	s.out.Line("\tGET_FILE <userName> <remote_fileName> <local_fileName>")
	s.out.Line("\tGET_MULTIFILE <remote_fileName> <local_fileName>")
	s.out.Line("\tQUIT")
}

func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
