package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("version must not be empty")
	}
	if info.GoVersion == "" {
		t.Error("go version must not be empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("platform %q should be os/arch", info.Platform)
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "1.2.3", CommitHash: "abcdef1234", BuildTime: "2026-01-01"}
	s := info.String()
	if !strings.Contains(s, "simyx 1.2.3") {
		t.Errorf("String() = %q, want the tagged version", s)
	}

	dev := Info{Version: "dev", CommitHash: "abcdef1234", BuildTime: "unknown"}
	if !strings.Contains(dev.String(), "simyx dev") {
		t.Errorf("String() = %q, want the dev form", dev.String())
	}
}

func TestShort(t *testing.T) {
	info := Info{CommitHash: "abcdef1234"}
	if got := info.Short(); got != "abcdef1" {
		t.Errorf("Short() = %q, want abbreviated hash", got)
	}

	info = Info{CommitHash: "ab12"}
	if got := info.Short(); got != "ab12" {
		t.Errorf("Short() = %q, want the full short hash", got)
	}
}
