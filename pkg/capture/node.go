package capture

import (
	"sync"

	"paperview/pkg/geom"
)

// Node is a box in a composition whose transform can be read and replaced.
type Node interface {
	Transform() geom.Matrix
	SetTransform(m geom.Matrix)

	// Parent is the immediate transform-bearing ancestor, nil at the root
	// or when the node is detached.
	Parent() Node
}

// Box is a concurrency-safe Node.
type Box struct {
	mu     sync.Mutex
	m      geom.Matrix
	parent *Box
}

// NewBox creates a box with an identity transform under parent.
func NewBox(parent *Box) *Box {
	return &Box{m: geom.Identity(), parent: parent}
}

// Transform returns the box's own transform.
func (b *Box) Transform() geom.Matrix {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m
}

// SetTransform replaces the box's own transform.
func (b *Box) SetTransform(m geom.Matrix) {
	b.mu.Lock()
	b.m = m
	b.mu.Unlock()
}

// Parent implements Node. A nil *Box parent is reported as a nil Node.
func (b *Box) Parent() Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.parent == nil {
		return nil
	}
	return b.parent
}

// Detach removes the box from its parent.
func (b *Box) Detach() {
	b.mu.Lock()
	b.parent = nil
	b.mu.Unlock()
}
