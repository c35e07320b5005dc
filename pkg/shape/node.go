// Package shape defines the reusable geometric building blocks of a
// footprint. A node is bound to a sketch context, builds its entities and
// constraints into that context's system, and serializes itself once the
// system has been solved.
package shape

import (
	"errors"
	"fmt"

	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/units"
)

var (
	ErrNotBound      = errors.New("node is not bound to a sketch")
	ErrAlreadyBound  = errors.New("node is already bound")
	ErrAlreadyBuilt  = errors.New("node is already built")
	ErrInvalidNodeID = errors.New("invalid node id")
)

// Context is what a node needs from the sketch it joins.
type Context struct {
	System    *sketch.System
	Workplane *sketch.Workplane
	Units     units.Converter
}

// Node is a shape that can be placed in a footprint.
type Node interface {
	NodeID() string
	Bind(ctx *Context) error
	Build() error
	Serialize() string
}

// NodeBase carries the identity and binding shared by all nodes.
type NodeBase struct {
	ID  string
	ctx *Context
}

// NodeID returns the node's identity.
func (b *NodeBase) NodeID() string { return b.ID }

// Bind attaches the node to a sketch context. A node binds once.
func (b *NodeBase) Bind(ctx *Context) error {
	if b.ID == "" {
		return fmt.Errorf("shape: bind: %w: empty", ErrInvalidNodeID)
	}
	if ctx == nil || ctx.System == nil || ctx.Workplane == nil || ctx.Units == nil {
		return fmt.Errorf("shape: bind %s: incomplete context", b.ID)
	}
	if b.ctx != nil {
		return fmt.Errorf("shape: bind %s: %w", b.ID, ErrAlreadyBound)
	}
	b.ctx = ctx
	return nil
}

// Bound reports whether Bind has succeeded.
func (b *NodeBase) Bound() bool { return b.ctx != nil }

// Context returns the bound context, or nil.
func (b *NodeBase) Context() *Context { return b.ctx }

func (b *NodeBase) requireBound(op string) (*Context, error) {
	if b.ctx == nil {
		return nil, fmt.Errorf("shape: %s %s: %w", op, b.ID, ErrNotBound)
	}
	return b.ctx, nil
}

// Compile-time interface checks.
var (
	_ Node = (*Pad)(nil)
	_ Node = (*ConstructionLine)(nil)
)
