package playback

// Command is the one-way message posted to an embedded player surface.
// It serializes to {"event":"command","func":<name>,"args":[...]}.
type Command struct {
	Event string `json:"event"`
	Func  string `json:"func"`
	Args  []any  `json:"args"`
}

const (
	FuncPlay      = "playVideo"
	FuncPause     = "pauseVideo"
	FuncSeek      = "seekTo"
	FuncSetVolume = "setVolume"
)

func newCommand(function string, args ...any) Command {
	if args == nil {
		args = []any{}
	}
	return Command{Event: "command", Func: function, Args: args}
}
