package ws

// Snapshot wraps a full collection state sent over a board socket. Clients
// replace their local copy wholesale; there are no incremental patches.
type Snapshot struct {
	Type string `json:"type"` // "snapshot"
	Data any    `json:"data"`
}
