package announce

import "testing"

func TestGroupAddressIsStable(t *testing.T) {
	if Group == "" {
		t.Fatal("Group must not be empty, every participant must agree on it")
	}
}

// New requires a reachable relt transport (UDP multicast), which is not
// available in this sandboxed test environment; the wiring above is
// exercised indirectly through pkg/directory's Publisher interface tests
// via a fake Publisher, and through cmd/directoryd's construction path.
