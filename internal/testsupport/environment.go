package testsupport

import (
	"fmt"
	"sync"
)

// Notification is one desktop notification raised through RecordingEnvironment.
type Notification struct {
	Title   string
	Message string
}

// RecordingEnvironment records the host-side effects of a session.
type RecordingEnvironment struct {
	mu            sync.Mutex
	calls         []string
	notifications []Notification
	focusMode     bool
	completed     []int
}

// NewRecordingEnvironment returns an empty RecordingEnvironment.
func NewRecordingEnvironment() *RecordingEnvironment {
	return &RecordingEnvironment{}
}

func (env *RecordingEnvironment) EnterFocusMode() {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.focusMode = true
	env.calls = append(env.calls, "enter_focus_mode")
}

func (env *RecordingEnvironment) ExitFocusMode() {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.focusMode = false
	env.calls = append(env.calls, "exit_focus_mode")
}

func (env *RecordingEnvironment) Notify(title, message string) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.notifications = append(env.notifications, Notification{Title: title, Message: message})
	env.calls = append(env.calls, "notify")
}

func (env *RecordingEnvironment) ShowSessionComplete(cycles int) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.completed = append(env.completed, cycles)
	env.calls = append(env.calls, fmt.Sprintf("session_complete:%d", cycles))
}

// Calls returns every recorded call in order.
func (env *RecordingEnvironment) Calls() []string {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([]string(nil), env.calls...)
}

// Notifications returns the recorded notifications in order.
func (env *RecordingEnvironment) Notifications() []Notification {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([]Notification(nil), env.notifications...)
}

// InFocusMode reports the focus mode last requested.
func (env *RecordingEnvironment) InFocusMode() bool {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.focusMode
}

// Completed returns the cycle counts passed to ShowSessionComplete.
func (env *RecordingEnvironment) Completed() []int {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([]int(nil), env.completed...)
}
