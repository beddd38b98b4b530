package registry

import (
	"fmt"

	"go.uber.org/zap"
)

// resolveInjections drains the pending queue in FIFO passes. Each pass
// applies every injection whose target exists and requeues the rest; a pass
// without progress ends the loop. Injected fields and interfaces are then
// sorted by name so the result does not depend on arrival order.
func (r *Registry) resolveInjections() error {
	queue := r.pending
	r.pending = nil
	var stuck []StuckInjection

	for len(queue) > 0 {
		progress := false
		var next []pendingInjection
		for _, inj := range queue {
			obj, ok := r.objects.get(inj.target)
			if !ok {
				next = append(next, inj)
				continue
			}
			progress = true

			out := inj.transform(obj)
			switch {
			case out == nil:
				stuck = append(stuck, StuckInjection{Target: inj.target, Provenance: inj.provenance, Reason: "transform returned nil"})
			case out.Name() != inj.target:
				stuck = append(stuck, StuckInjection{
					Target:     inj.target,
					Provenance: inj.provenance,
					Reason:     fmt.Sprintf("transform renamed the object to %q", out.Name()),
				})
			default:
				r.objects.set(inj.target, out)
				r.logger.Debug("field injected",
					zap.String("type", inj.target),
					zap.String("field", inj.provenance.Field),
					zap.String("module", inj.provenance.Module),
				)
			}
		}
		if !progress {
			for _, inj := range next {
				stuck = append(stuck, StuckInjection{Target: inj.target, Provenance: inj.provenance, Reason: r.missingReason(inj.target)})
			}
			break
		}
		queue = next
	}

	if len(stuck) > 0 {
		for _, s := range stuck {
			r.logger.Error("field injection stuck",
				zap.String("type", s.Target),
				zap.String("field", s.Provenance.Field),
				zap.String("module", s.Provenance.Module),
				zap.String("reason", s.Reason),
			)
		}
		return &RegistrationError{Stuck: stuck}
	}

	for _, obj := range r.objects.values() {
		b := r.bases[obj.Name()]
		obj.SortFrom(b.fields, b.interfaces)
	}
	return nil
}

func (r *Registry) missingReason(target string) string {
	switch {
	case r.interfaces.has(target):
		return "target is an interface, not an object"
	case r.inputs.has(target):
		return "target is an input object, not an object"
	case r.unions.has(target):
		return "target is a union, not an object"
	case r.enums.has(target):
		return "target is an enum, not an object"
	case r.scalars.has(target):
		return "target is a scalar, not an object"
	}
	return "target type is not registered"
}
