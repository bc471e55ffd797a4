package config

import "testing"

func TestParseDirectoryRejectsPortOutOfRange(t *testing.T) {
	_, err := ParseDirectory("directoryd", []string{"-s", "0.0.0.0", "-p", "80"})
	if err == nil {
		t.Fatal("expected error for port below 1024")
	}
}

func TestParseDirectoryAcceptsValidArgs(t *testing.T) {
	cfg, err := ParseDirectory("directoryd", []string{"-s", "0.0.0.0", "-p", "9090"})
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}
	if cfg.BindIP != "0.0.0.0" || cfg.Port != 9090 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Announce {
		t.Fatalf("Announce should default to false")
	}
}

func TestParseClientAcceptsValidArgs(t *testing.T) {
	cfg, err := ParseClient("p2pclient", []string{"-s", "127.0.0.1", "-p", "9000"})
	if err != nil {
		t.Fatalf("ParseClient: %v", err)
	}
	if cfg.ServerIP != "127.0.0.1" || cfg.ServerPort != 9000 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestParseClientRejectsPortOutOfRange(t *testing.T) {
	_, err := ParseClient("p2pclient", []string{"-s", "127.0.0.1", "-p", "70000"})
	if err == nil {
		t.Fatal("expected error for port above 65535")
	}
}
