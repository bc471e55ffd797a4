// Command p2pclient runs the interactive peer process: it issues
// directory requests, and while a session is active, serves its own
// published files to other peers.
package main

import (
	"fmt"
	"os"

	"github.com/seniorbeto/p2pshare/pkg/client"
	"github.com/seniorbeto/p2pshare/pkg/config"
	"github.com/seniorbeto/p2pshare/pkg/natmap"
	"github.com/seniorbeto/p2pshare/pkg/timestamp"
)

func main() {
	cfg, err := config.ParseClient("p2pclient", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := config.BuildLogger(cfg.LogLevel)

	var mapper natmap.Mapper = natmap.Disabled()
	if cfg.UPnP {
		// No UPnP implementation ships in this module; the flag is
		// wired through so a future Mapper can be plugged in without
		// touching the session or shell.
		mapper = natmap.WithLogging(natmap.Disabled(), log)
	}

	directoryAddr := fmt.Sprintf("%s:%d", cfg.ServerIP, cfg.ServerPort)
	out := client.NewColorPrinter()
	stubs := client.NewStubs(directoryAddr, timestamp.NewLocalClock(), out)
	session := client.NewSession(mapper, log)

	shell := client.NewShell(stubs, session, os.Stdin, out, log)
	shell.Run()
}
