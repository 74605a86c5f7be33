package pkg

import (
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "zinc" {
		t.Errorf("Name = %q, want %q", Name, "zinc")
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file and must not be empty.
	if strings.TrimSpace(Version) == "" {
		t.Error("Version is empty")
	}
}
