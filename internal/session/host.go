package session

// Host carries out the session's effects on the surrounding desktop.
type Host interface {
	EnterFocusMode()
	ExitFocusMode()
	Notify(title, message string)
	ShowSessionComplete(cycles int)
}

// NoopHost ignores every host effect.
type NoopHost struct{}

func (NoopHost) EnterFocusMode()         {}
func (NoopHost) ExitFocusMode()          {}
func (NoopHost) Notify(string, string)   {}
func (NoopHost) ShowSessionComplete(int) {}
