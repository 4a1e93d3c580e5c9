package execute

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/leftmike/primdb/stmt"
)

type Handler interface {
	Handle(ctx context.Context, s stmt.Stmt) (*stmt.Result, error)
}

type HandlerFunc func(ctx context.Context, s stmt.Stmt) (*stmt.Result, error)

func (hf HandlerFunc) Handle(ctx context.Context, s stmt.Stmt) (*stmt.Result, error) {
	return hf(ctx, s)
}

type Middleware func(h Handler) Handler

// Chain wraps h in mws; the first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for mdx := len(mws) - 1; mdx >= 0; mdx -= 1 {
		h = mws[mdx](h)
	}
	return h
}

// Run is the innermost handler: it executes the statement against env.
func Run(env *stmt.Env) Handler {
	return HandlerFunc(
		func(ctx context.Context, s stmt.Stmt) (*stmt.Result, error) {
			return s.Execute(ctx, env)
		})
}

// Recover turns a panic while handling a statement into an error.
func Recover() Middleware {
	return func(h Handler) Handler {
		return HandlerFunc(
			func(ctx context.Context, s stmt.Stmt) (res *stmt.Result, err error) {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(log.Fields{
							"cmd":   s.Command(),
							"panic": r,
							"stack": string(debug.Stack()),
						}).Error("internal fault")
						res = nil
						err = fmt.Errorf("internal error: %v", r)
					}
				}()

				return h.Handle(ctx, s)
			})
	}
}

// Timing logs how long each statement took; if report returns true, it is also added to
// the messages of the result.
func Timing(report func() bool) Middleware {
	return func(h Handler) Handler {
		return HandlerFunc(
			func(ctx context.Context, s stmt.Stmt) (*stmt.Result, error) {
				start := time.Now()
				res, err := h.Handle(ctx, s)
				elapsed := time.Since(start)

				log.WithFields(log.Fields{
					"cmd":     s.Command(),
					"elapsed": elapsed,
				}).Debug("timing")
				if err == nil && res != nil && report() {
					res.Messages = append(res.Messages,
						fmt.Sprintf("%s finished in %.3f seconds.", s.Command(),
							elapsed.Seconds()))
				}
				return res, err
			})
	}
}

// Confirmer asks the user whether to go ahead with action.
type Confirmer interface {
	Confirm(action string) bool
}

// Confirm asks c before handling a destructive statement, if enabled returns true. When
// the answer is no, the statement is not executed.
func Confirm(c Confirmer, enabled func() bool) Middleware {
	return func(h Handler) Handler {
		return HandlerFunc(
			func(ctx context.Context, s stmt.Stmt) (*stmt.Result, error) {
				if ds, ok := s.(stmt.Destructive); ok && enabled() {
					if !c.Confirm(ds.Action()) {
						log.WithField("cmd", s.Command()).Info("cancelled")
						return &stmt.Result{
							Messages: []string{"Operation cancelled."},
						}, nil
					}
				}
				return h.Handle(ctx, s)
			})
	}
}
