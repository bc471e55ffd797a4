// Command directoryd runs the centralized directory server: the
// long-running TCP process that tracks registered users, their
// connected-session state, and their published files.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seniorbeto/p2pshare/pkg/announce"
	"github.com/seniorbeto/p2pshare/pkg/config"
	"github.com/seniorbeto/p2pshare/pkg/directory"
)

func main() {
	cfg, err := config.ParseDirectory("directoryd", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := config.BuildLogger(cfg.LogLevel)
	store := directory.New()

	if cfg.Announce {
		a, err := announce.New("directoryd")
		if err != nil {
			log.Warnf("directoryd: announce disabled, failed to join group: %v", err)
		} else {
			store.SetPublisher(a)
			defer a.Close()
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.BindIP, cfg.Port)
	srv, err := directory.NewServer(addr, store, log)
	if err != nil {
		log.Errorf("directoryd: failed to bind %s: %v", addr, err)
		os.Exit(1)
	}
	log.Infof("directoryd: listening on %s", srv.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("directoryd: shutting down")
		srv.Shutdown()
	}()

	if err := srv.Serve(); err != nil {
		log.Errorf("directoryd: serve error: %v", err)
		os.Exit(1)
	}
}
