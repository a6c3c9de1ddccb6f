// internal/status/snapshot.go
package status

// Snapshot represents exactly what the publisher is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Verdict     uint16
	PassMask    uint16
	RS485Detail uint16
	Part        uint16
}
