// Package view models the lifetime of a mounted screen. Work started on
// behalf of a view must not touch it once the view is gone.
package view

import (
	"context"
	"sync"
)

// Scope is a mounted view. Closing it cancels its context.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewScope mounts a view derived from parent
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context is canceled when the view unmounts
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Alive reports whether results may still be applied to the view
func (s *Scope) Alive() bool {
	return s.ctx.Err() == nil
}

// Close unmounts the view; it is safe to call more than once
func (s *Scope) Close() {
	s.once.Do(s.cancel)
}

// Background returns a scope that lives for the whole process, for callers
// that are not tied to a view.
func Background() *Scope {
	return &Scope{ctx: context.Background(), cancel: func() {}}
}
