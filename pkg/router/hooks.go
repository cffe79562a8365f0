package router

import (
	"context"
	"fmt"
	"runtime/debug"
)

type verdictKind int

const (
	verdictContinue verdictKind = iota
	verdictAbort
	verdictRedirect
)

// Verdict is a before-hook's decision about a pending navigation.
type Verdict struct {
	kind verdictKind
	path string
}

// Continue lets the navigation proceed to the next hook.
func Continue() Verdict {
	return Verdict{kind: verdictContinue}
}

// Abort cancels the navigation. The current page stays mounted.
func Abort() Verdict {
	return Verdict{kind: verdictAbort}
}

// Redirect abandons the navigation and starts a new one to path.
func Redirect(path string) Verdict {
	return Verdict{kind: verdictRedirect, path: path}
}

// IsAbort reports whether the verdict aborts the navigation.
func (v Verdict) IsAbort() bool { return v.kind == verdictAbort }

// IsRedirect reports whether the verdict redirects the navigation.
func (v Verdict) IsRedirect() bool { return v.kind == verdictRedirect }

// Path returns the redirect target.
func (v Verdict) Path() string { return v.path }

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v.kind {
	case verdictAbort:
		return "abort"
	case verdictRedirect:
		return "redirect " + v.path
	default:
		return "continue"
	}
}

// BeforeHook runs before the current page is unmounted.
type BeforeHook interface {
	// Before inspects the pending navigation. Returning an error abandons it
	// and sends the user to the NotFound page.
	Before(ctx context.Context, nav *Context) (Verdict, error)
}

// BeforeFunc is a function adapter for BeforeHook.
type BeforeFunc func(ctx context.Context, nav *Context) (Verdict, error)

// Before implements BeforeHook.
func (f BeforeFunc) Before(ctx context.Context, nav *Context) (Verdict, error) {
	return f(ctx, nav)
}

// AfterHook runs after a page has mounted. It is for side effects only.
type AfterHook interface {
	After(ctx context.Context, nav *Context, page Page)
}

// AfterFunc is a function adapter for AfterHook.
type AfterFunc func(ctx context.Context, nav *Context, page Page)

// After implements AfterHook.
func (f AfterFunc) After(ctx context.Context, nav *Context, page Page) {
	f(ctx, nav, page)
}

// runBefore runs hooks in order. The first abort or redirect short-circuits the
// rest. A panicking hook is reported as an error.
func runBefore(ctx context.Context, hooks []BeforeHook, nav *Context) (Verdict, error) {
	for i, h := range hooks {
		var v Verdict
		err := protect(func() error {
			var err error
			v, err = h.Before(ctx, nav)
			return err
		})
		if err != nil {
			return Verdict{}, fmt.Errorf("before hook %d: %w", i, err)
		}
		if v.kind != verdictContinue {
			return v, nil
		}
	}
	return Continue(), nil
}

// PanicError is returned when a hook or page panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// protect runs fn and converts a panic into a *PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return fn()
}
