// Package ops maps operation names to their argument schema and handler.
// The registry is the single dispatch point used by the MCP server and the CLI.
package ops

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/matsen/scimcp/internal/args"
)

// ErrUnknownOperation is returned by Call for a name with no registration.
var ErrUnknownOperation = errors.New("unknown operation")

// Handler executes one validated call and returns a JSON-serializable payload.
type Handler func(ctx context.Context, v args.Values) (any, error)

// Operation is a named, schema-validated remote operation.
type Operation struct {
	Name        string
	Title       string
	Description string
	// Action completes "An error occurred while ..." in failure messages.
	Action string
	// Group names the upstream service (or "local" for pure operations).
	Group  string
	Schema args.Schema
	Handle Handler
}

// Registry holds operations by name. It is safe for concurrent lookups.
type Registry struct {
	mu    sync.RWMutex
	ops   map[string]Operation
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// Register adds an operation. Names must be unique and handlers non-nil.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return errors.New("operation name is required")
	}
	if op.Handle == nil {
		return fmt.Errorf("operation %s: handler is required", op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("operation %s already registered", op.Name)
	}
	r.ops[op.Name] = op
	r.order = append(r.order, op.Name)
	return nil
}

// MustRegister is Register that panics on error; for static tool tables.
func (r *Registry) MustRegister(ops ...Operation) {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the named operation.
func (r *Registry) Lookup(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Operations returns all operations in registration order.
func (r *Registry) Operations() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Operation, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.ops[name])
	}
	return out
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Call validates raw against the operation schema and runs the handler.
// Validation failures are returned before the handler is reached.
func (r *Registry) Call(ctx context.Context, name string, raw map[string]any) (any, error) {
	op, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return op.Call(ctx, raw)
}

// FailureMessage renders err for the caller. Invalid input is reported as is;
// everything else is prefixed with the operation's action.
func (op Operation) FailureMessage(err error) string {
	if errors.Is(err, args.ErrInvalidInput) {
		return err.Error()
	}
	action := op.Action
	if action == "" {
		action = "running " + op.Name
	}
	return fmt.Sprintf("An error occurred while %s: %v", action, err)
}

// Call validates raw and runs the handler.
func (op Operation) Call(ctx context.Context, raw map[string]any) (any, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	vals, err := op.Schema.Validate(raw)
	if err != nil {
		return nil, err
	}
	return op.Handle(ctx, vals)
}
