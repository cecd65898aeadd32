package core

// NoContext is reported as the context URI when the playing item has no context.
const NoContext = "none"

// PlaybackRequest is the body of a start-playback call. URI is passed through
// to the upstream unvalidated.
type PlaybackRequest struct {
	URI        string  `json:"uri"`
	PositionMs *uint32 `json:"position_ms,omitempty"`
}

// Device is a playback endpoint registered to the user's account.
type Device struct {
	ID     string
	Name   string
	Type   string
	Active bool
}

// Snapshot is the normalized view of the current playback. The zero value
// with Present unset means nothing is playing.
type Snapshot struct {
	Present    bool
	ContextURI string
	Timestamp  int64
	ProgressMs uint32
	IsPlaying  bool
}

// EmptySnapshot is returned when the upstream reports no playback at all.
var EmptySnapshot = Snapshot{}

// IsEmpty reports whether s stands for "nothing playing".
func (s Snapshot) IsEmpty() bool {
	return !s.Present
}
