package events

import "encoding/json"

// Event name constants
const (
	PotentialRecomputed = "potential.recomputed"
	ProfileReloaded     = "profile.reloaded"
)

// Event is a generic SSE event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// PotentialEvent is the typed payload for potential.recomputed.
type PotentialEvent struct {
	Value   float64 `json:"value"`
	Ions    int     `json:"ions"`
	Calcium string  `json:"calcium,omitempty"`
	Error   string  `json:"error,omitempty"`
	Ts      int64   `json:"ts"`
}

// ProfileEvent is the typed payload for profile.reloaded.
type ProfileEvent struct {
	Path string `json:"path"`
	Ts   int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name. If Data is empty, it returns the zero value of T
// with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.PotentialEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Value)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
