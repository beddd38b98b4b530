// Package app is the composition root. It lists the demonstration modules in
// an explicit order and assembles them into a schema.
package app

import (
	"context"
	"time"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	avatars "github.com/hanpama/gqlcompose/internal/modules/avatars"
	counter "github.com/hanpama/gqlcompose/internal/modules/counter"
	directions "github.com/hanpama/gqlcompose/internal/modules/directions"
	echo "github.com/hanpama/gqlcompose/internal/modules/echo"
	foobar "github.com/hanpama/gqlcompose/internal/modules/foobar"
	nodes "github.com/hanpama/gqlcompose/internal/modules/nodes"
	pets "github.com/hanpama/gqlcompose/internal/modules/pets"
	profiles "github.com/hanpama/gqlcompose/internal/modules/profiles"
	root "github.com/hanpama/gqlcompose/internal/modules/root"
	scores "github.com/hanpama/gqlcompose/internal/modules/scores"
	users "github.com/hanpama/gqlcompose/internal/modules/users"
	registry "github.com/hanpama/gqlcompose/internal/registry"
	"go.uber.org/zap"
)

// Modules returns the default module list. Each call gets a fresh counter
// store. The order only affects which module reports a failure first.
func Modules() []registry.Module {
	return []registry.Module{
		root.Module,
		users.Module,
		avatars.Module,
		profiles.Module,
		counter.Module(counter.NewStore()),
		foobar.Module,
		pets.Module,
		nodes.Module,
		directions.Module,
		echo.Module,
		scores.Module,
	}
}

// NewSchema registers modules in order and finishes the registry with the
// Query and Mutation roots. A nil logger disables logging.
func NewSchema(logger *zap.Logger, modules ...registry.Module) (*dynamic.Schema, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	s, err := assemble(logger, modules)
	eventbus.Publish(context.Background(), events.SchemaAssembled{Modules: len(modules), Err: err, Duration: time.Since(start)})
	if err != nil {
		return nil, err
	}
	logger.Info("schema assembled", zap.Int("modules", len(modules)), zap.Int("types", len(s.Raw().Types)))
	return s, nil
}

func assemble(logger *zap.Logger, modules []registry.Module) (*dynamic.Schema, error) {
	r := registry.New(registry.WithLogger(logger))
	if err := r.Register(modules...); err != nil {
		return nil, err
	}
	return r.Finish(root.QueryType, root.MutationType, "")
}

// Root returns the parent value of root fields for one request.
func Root() dynamic.FieldValue {
	return dynamic.Borrowed(root.New(), "")
}
