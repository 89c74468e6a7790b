//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"time"

	"focusloop/internal/core/timekeeper"
)

type idleProvider struct {
	xprintidlePath string
	gdbusPath      string
}

func newIdleProvider() IdleProvider {
	provider := &idleProvider{}
	if path, err := exec.LookPath("xprintidle"); err == nil {
		provider.xprintidlePath = path
	}
	if path, err := exec.LookPath("gdbus"); err == nil {
		provider.gdbusPath = path
	}
	return provider
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	if provider.xprintidlePath != "" {
		output, err := exec.Command(provider.xprintidlePath).Output()
		if err == nil {
			return parseMillis(string(output))
		}
		if provider.gdbusPath == "" {
			return 0, fmt.Errorf("xprintidle: %w", err)
		}
	}
	if provider.gdbusPath != "" {
		output, err := exec.Command(provider.gdbusPath,
			"call", "--session",
			"--dest", "org.gnome.Mutter.IdleMonitor",
			"--object-path", "/org/gnome/Mutter/IdleMonitor/Core",
			"--method", "org.gnome.Mutter.IdleMonitor.GetIdletime",
		).Output()
		if err != nil {
			return 0, fmt.Errorf("%w: mutter idle monitor: %v", timekeeper.ErrIdleUnsupported, err)
		}
		return parseMutterIdle(string(output))
	}
	return 0, timekeeper.ErrIdleUnsupported
}
