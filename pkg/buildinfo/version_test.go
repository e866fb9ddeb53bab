package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })

	info := Get()
	if info.Version != "v9.9.9" {
		t.Errorf("Version = %q", info.Version)
	}
	if !strings.Contains(info.String(), "version: v9.9.9") {
		t.Errorf("String() = %q", info.String())
	}
	if !strings.Contains(Template(), "v9.9.9") {
		t.Errorf("Template() = %q", Template())
	}
}
