// Package config parses the command-line flags shared by directoryd and
// p2pclient, each overridable by an environment variable so the same
// binary can be deployed without a wrapper script.
package config

import (
	"fmt"

	"github.com/seniorbeto/p2pshare/pkg/logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	minPort = 1024
	maxPort = 65535
)

// Directory holds directoryd's resolved configuration.
type Directory struct {
	BindIP   string
	Port     int
	LogLevel string
	Announce bool
}

// ParseDirectory parses os.Args[1:]-style arguments into a Directory
// configuration, validating the port range per the CLI contract.
func ParseDirectory(name string, args []string) (*Directory, error) {
	app := kingpin.New(name, "Centralized directory server for the p2pshare network.")
	bindIP := app.Flag("s", "Address to bind the directory listener to.").
		Short('s').Envar("P2PSHARE_BIND").Required().String()
	port := app.Flag("p", "Port to listen on (1024-65535).").
		Short('p').Envar("P2PSHARE_PORT").Required().Int()
	logLevel := app.Flag("log-level", "Logging level: debug, info, warn, error.").
		Envar("P2PSHARE_LOG_LEVEL").Default("info").String()
	announce := app.Flag("announce", "Broadcast catalog changes over the announce group.").
		Envar("P2PSHARE_ANNOUNCE").Default("false").Bool()

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	if *port < minPort || *port > maxPort {
		return nil, fmt.Errorf("config: port must satisfy %d <= port <= %d, got %d", minPort, maxPort, *port)
	}

	return &Directory{
		BindIP:   *bindIP,
		Port:     *port,
		LogLevel: *logLevel,
		Announce: *announce,
	}, nil
}

// Client holds p2pclient's resolved configuration.
type Client struct {
	ServerIP   string
	ServerPort int
	LogLevel   string
	UPnP       bool
}

// ParseClient parses os.Args[1:]-style arguments into a Client
// configuration.
func ParseClient(name string, args []string) (*Client, error) {
	app := kingpin.New(name, "Interactive client for the p2pshare network.")
	serverIP := app.Flag("s", "Directory server address.").
		Short('s').Envar("P2PSHARE_SERVER").Required().String()
	serverPort := app.Flag("p", "Directory server port (1024-65535).").
		Short('p').Envar("P2PSHARE_PORT").Required().Int()
	logLevel := app.Flag("log-level", "Logging level: debug, info, warn, error.").
		Envar("P2PSHARE_LOG_LEVEL").Default("warn").String()
	upnp := app.Flag("upnp", "Log failed port-mapping attempts for the peer listener (no UPnP client is built in).").
		Envar("P2PSHARE_UPNP").Default("false").Bool()

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	if *serverPort < minPort || *serverPort > maxPort {
		return nil, fmt.Errorf("config: port must satisfy %d <= port <= %d, got %d", minPort, maxPort, *serverPort)
	}

	return &Client{
		ServerIP:   *serverIP,
		ServerPort: *serverPort,
		LogLevel:   *logLevel,
		UPnP:       *upnp,
	}, nil
}

// BuildLogger constructs the shared logrus-backed logging.Logger from a
// textual level, used identically by both binaries.
func BuildLogger(level string) logging.Logger {
	return logging.NewLogrus(logging.ParseLevel(level))
}
