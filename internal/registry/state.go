package registry

// State is the lifecycle stage of a Registry.
type State uint8

const (
	// Accumulating accepts registrations and injection requests.
	Accumulating State = iota
	// Finalizing runs the injection fixpoint and schema assembly.
	Finalizing
	// Finalized produced a schema. Terminal.
	Finalized
	// Failed produced a diagnostic. Terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case Accumulating:
		return "accumulating"
	case Finalizing:
		return "finalizing"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	}
	return "unknown"
}
