package platform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IdleProvider returns the duration since last user input. It satisfies
// timekeeper.IdleChecker.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

var (
	hidIdlePattern    = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)
	mutterIdlePattern = regexp.MustCompile(`\(uint64\s+(\d+),?\)`)
)

// parseMillis reads the plain millisecond count printed by xprintidle.
func parseMillis(output string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

// parseMutterIdle reads the GVariant reply of Mutter's IdleMonitor.GetIdletime.
func parseMutterIdle(output string) (time.Duration, error) {
	match := mutterIdlePattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("parse mutter idle time: unexpected reply %q", strings.TrimSpace(output))
	}
	return parseMillis(match[1])
}

// parseHIDIdleTime reads the nanosecond HIDIdleTime property from ioreg output.
func parseHIDIdleTime(output string) (time.Duration, error) {
	match := hidIdlePattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("parse HIDIdleTime: property not found")
	}
	nanos, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
	}
	return time.Duration(nanos), nil
}
