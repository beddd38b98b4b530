// Package registry assembles a dynamic schema from independently authored
// modules.
//
// Modules register named definitions and may request field injections into
// object types owned by other modules, before or after those types are
// registered. Finish applies every injection by fixpoint and hands the
// result to the dynamic schema builder. A Registry is single-use and not
// safe for concurrent use.
package registry

import (
	"fmt"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	"go.uber.org/zap"
)

// Transform rewrites the target object of an injection. It must return an
// object with the same name.
type Transform func(*dynamic.Object) *dynamic.Object

// Provenance names the module and field that requested an injection.
type Provenance struct {
	Module string
	Field  string
}

// Module is a named registration function.
type Module struct {
	Name     string
	Register func(*Registry) error
}

type Option func(*Registry)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type pendingInjection struct {
	target     string
	transform  Transform
	provenance Provenance
}

// base records how many fields and interfaces an object had when it was
// registered; entries after these were injected.
type base struct {
	fields     int
	interfaces int
}

type Registry struct {
	state  State
	logger *zap.Logger

	objects    *ordered[*dynamic.Object]
	inputs     *ordered[*dynamic.InputObject]
	enums      *ordered[*dynamic.Enum]
	unions     *ordered[*dynamic.Union]
	interfaces *ordered[*dynamic.Interface]
	scalars    *ordered[*dynamic.Scalar]

	bases   map[string]base
	pending []pendingInjection
}

func New(opts ...Option) *Registry {
	r := &Registry{
		logger:     zap.NewNop(),
		objects:    newOrdered[*dynamic.Object](),
		inputs:     newOrdered[*dynamic.InputObject](),
		enums:      newOrdered[*dynamic.Enum](),
		unions:     newOrdered[*dynamic.Union](),
		interfaces: newOrdered[*dynamic.Interface](),
		scalars:    newOrdered[*dynamic.Scalar](),
		bases:      make(map[string]base),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) State() State { return r.state }

func (r *Registry) checkAccumulating(op string) error {
	if r.state != Accumulating {
		return fmt.Errorf("%s: %w (state %s)", op, ErrNotAccumulating, r.state)
	}
	return nil
}

func (r *Registry) RegisterObject(obj *dynamic.Object) error {
	if err := r.checkAccumulating("register object"); err != nil {
		return err
	}
	if r.objects.has(obj.Name()) {
		return &DuplicateDefinitionError{Category: "object", Name: obj.Name()}
	}
	r.setObject(obj)
	return nil
}

// OverrideObject replaces a registered object. Injections already applied
// to the previous definition are lost.
func (r *Registry) OverrideObject(obj *dynamic.Object) error {
	if err := r.checkAccumulating("override object"); err != nil {
		return err
	}
	if !r.objects.has(obj.Name()) {
		return fmt.Errorf("override object: %q is not registered", obj.Name())
	}
	r.logger.Debug("object overridden", zap.String("type", obj.Name()))
	r.setObject(obj)
	return nil
}

func (r *Registry) setObject(obj *dynamic.Object) {
	r.objects.set(obj.Name(), obj)
	r.bases[obj.Name()] = base{fields: len(obj.FieldNames()), interfaces: len(obj.Interfaces())}
}

func (r *Registry) RegisterInputObject(def *dynamic.InputObject) error {
	return register(r, r.inputs, "input object", def)
}

func (r *Registry) RegisterEnum(def *dynamic.Enum) error {
	return register(r, r.enums, "enum", def)
}

func (r *Registry) RegisterUnion(def *dynamic.Union) error {
	return register(r, r.unions, "union", def)
}

func (r *Registry) RegisterInterface(def *dynamic.Interface) error {
	return register(r, r.interfaces, "interface", def)
}

func (r *Registry) RegisterScalar(def *dynamic.Scalar) error {
	return register(r, r.scalars, "scalar", def)
}

func register[T dynamic.Type](r *Registry, into *ordered[T], category string, def T) error {
	if err := r.checkAccumulating("register " + category); err != nil {
		return err
	}
	if into.has(def.Name()) {
		return &DuplicateDefinitionError{Category: category, Name: def.Name()}
	}
	into.set(def.Name(), def)
	return nil
}

// ExpandObject queues transform to run against the object named target once
// it is registered. The target does not need to exist yet.
func (r *Registry) ExpandObject(target string, transform Transform, provenance Provenance) error {
	if err := r.checkAccumulating("expand object"); err != nil {
		return err
	}
	if transform == nil {
		return fmt.Errorf("expand object %s: nil transform from module %q", target, provenance.Module)
	}
	r.pending = append(r.pending, pendingInjection{target: target, transform: transform, provenance: provenance})
	return nil
}

// InjectFields queues one injection per field into target. Each is
// attributed to module and the field's own name.
func (r *Registry) InjectFields(target, module string, fields ...*dynamic.Field) error {
	for _, f := range fields {
		if f == nil {
			return fmt.Errorf("inject into %s: nil field from module %q", target, module)
		}
		err := r.ExpandObject(target, func(o *dynamic.Object) *dynamic.Object {
			return o.Field(f)
		}, Provenance{Module: module, Field: f.Name()})
		if err != nil {
			return err
		}
	}
	return nil
}

// Register runs module registration functions in order and stops at the
// first failure.
func (r *Registry) Register(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
		r.logger.Debug("module registered", zap.String("module", m.Name))
	}
	return nil
}

// Finish resolves every pending injection and assembles the schema. It may
// be called once; the registry ends Finalized or Failed.
func (r *Registry) Finish(query, mutation, subscription string) (*dynamic.Schema, error) {
	if err := r.checkAccumulating("finish"); err != nil {
		return nil, err
	}
	r.state = Finalizing

	if err := r.resolveInjections(); err != nil {
		r.state = Failed
		return nil, err
	}

	b := dynamic.NewSchemaBuilder(query, mutation, subscription).WithLogger(r.logger)
	for _, def := range r.enums.values() {
		b.Register(def)
	}
	for _, def := range r.unions.values() {
		b.Register(def)
	}
	for _, def := range r.interfaces.values() {
		b.Register(def)
	}
	for _, def := range r.inputs.values() {
		b.Register(def)
	}
	for _, def := range r.scalars.values() {
		b.Register(def)
	}
	for _, def := range r.objects.values() {
		b.Register(def)
	}

	s, err := b.Finish()
	if err != nil {
		r.state = Failed
		r.logger.Error("schema assembly failed", zap.Error(err))
		return nil, err
	}
	r.state = Finalized
	r.pending = nil
	return s, nil
}
