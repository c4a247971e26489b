//go:build darwin

package names

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Paintersrp/reap/internal/procs"
)

type registryStrategy struct{}

// newRegistryStrategy resolves names through the launch-services application
// registry, which reports the localized display name for GUI applications.
func newRegistryStrategy() registryStrategy {
	return registryStrategy{}
}

func (registryStrategy) Name() string { return "registry" }

func (registryStrategy) Lookup(ctx context.Context, info procs.Info) (string, bool) {
	asn, err := exec.CommandContext(ctx, "lsappinfo", "find", fmt.Sprintf("pid=%d", info.PID)).Output()
	if err != nil {
		return "", false
	}
	target := strings.TrimSpace(string(asn))
	if target == "" {
		return "", false
	}

	out, err := exec.CommandContext(ctx, "lsappinfo", "info", "-only", "name", target).Output()
	if err != nil {
		return "", false
	}
	return parseRegistryName(string(out))
}

// parseRegistryName extracts the value from lsappinfo output of the form
// `"LSDisplayName"="Safari"`.
func parseRegistryName(out string) (string, bool) {
	_, value, found := strings.Cut(out, "=")
	if !found {
		return "", false
	}
	value = strings.TrimSpace(value)
	value = strings.Trim(value, "\"")
	if value == "" {
		return "", false
	}
	return value, true
}
