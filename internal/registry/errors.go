package registry

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotAccumulating is returned by every mutating call once Finish has
	// started.
	ErrNotAccumulating = errors.New("registry is no longer accumulating")
	// ErrDuplicateDefinition matches every *DuplicateDefinitionError.
	ErrDuplicateDefinition = errors.New("duplicate definition")
)

// DuplicateDefinitionError reports a second registration of a name within one
// category.
type DuplicateDefinitionError struct {
	Category string
	Name     string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Category, e.Name)
}

func (e *DuplicateDefinitionError) Is(target error) bool { return target == ErrDuplicateDefinition }

// StuckInjection is a field injection that could not be applied.
type StuckInjection struct {
	Target     string
	Provenance Provenance
	Reason     string
}

// RegistrationError lists every injection left unapplied when the fixpoint
// stalled.
type RegistrationError struct {
	Stuck []StuckInjection
}

func (e *RegistrationError) Error() string {
	msg := "unresolved field injections:\n"
	for _, s := range e.Stuck {
		msg += fmt.Sprintf("- %s.%s requested by module %q: %s\n", s.Target, s.Provenance.Field, s.Provenance.Module, s.Reason)
	}
	return msg
}

// Targets returns the distinct stuck target names, sorted.
func (e *RegistrationError) Targets() []string {
	seen := make(map[string]bool, len(e.Stuck))
	var out []string
	for _, s := range e.Stuck {
		if !seen[s.Target] {
			seen[s.Target] = true
			out = append(out, s.Target)
		}
	}
	sort.Strings(out)
	return out
}
