package apiclient

import "context"

// AbortHandle pairs a context with its cancel function. Pass Context() to
// the requests that Abort should cancel.
type AbortHandle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Abortable creates a fresh, independent handle derived from parent.
func Abortable(parent context.Context) *AbortHandle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &AbortHandle{ctx: ctx, cancel: cancel}
}

// Context returns the context to bind requests to.
func (h *AbortHandle) Context() context.Context {
	return h.ctx
}

// Abort cancels every request bound to this handle. Calling it again, or
// after the requests finished, does nothing.
func (h *AbortHandle) Abort() {
	h.cancel()
}

// Aborted reports whether the handle's context has been cancelled.
func (h *AbortHandle) Aborted() bool {
	return h.ctx.Err() != nil
}
