package sim

import "sync"

// Diagnostics is a concurrent string-keyed map of opaque telemetry values,
// written by the engine during a step and read back after it returns.
// Per-key writes are last-writer-wins (§5): concurrent strategy/integrator
// workers may publish the same key from different goroutines within a phase
// and only the most recent write is kept, matching the mutex-guarded field
// access the teacher uses in logging.go's DefaultLogger.
type Diagnostics struct {
	mu     sync.Mutex
	fields map[string]any
}

// Required diagnostics keys (§3), published when applicable by the
// strategy/oversampler/engine that owns them.
const (
	KeyStrategy     = "Strategy"
	KeySubsteps     = "Substeps"
	KeyOversampling = "Oversampling"
	KeyNodes        = "Nodes"
	KeyMaxDepth     = "MaxDepth"
	KeyVisits       = "Visits"
	KeyTheta        = "Theta"
	KeyGridSize     = "GridSize"
	KeyBodies       = "Bodies"
	KeyCells        = "Cells"
)

// NewDiagnostics returns an empty diagnostics map.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{fields: make(map[string]any)}
}

// Set publishes (or overwrites) a named field.
func (d *Diagnostics) Set(key string, value any) {
	d.mu.Lock()
	d.fields[key] = value
	d.mu.Unlock()
}

// Get reads a named field. ok is false if the key was never published.
func (d *Diagnostics) Get(key string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.fields[key]
	return v, ok
}

// Snapshot returns a shallow copy of every published field.
func (d *Diagnostics) Snapshot() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// Reset clears every field, called by the engine at the start of a step so
// a step's diagnostics never leak into the next one.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	for k := range d.fields {
		delete(d.fields, k)
	}
	d.mu.Unlock()
}
