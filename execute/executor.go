// Package execute is the entry point for a line of input: it parses the line, runs the
// statement through the middleware, and reports the outcome.
package execute

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/leftmike/primdb/cache"
	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/flags"
	"github.com/leftmike/primdb/parser"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/stmt"
	"github.com/leftmike/primdb/storage"
)

// Outcome is everything the shell needs to report about one line of input.
type Outcome struct {
	Messages []string
	Columns  []string
	Records  []record.Record
	Exit     bool
	Err      error
}

type Executor struct {
	env     *stmt.Env
	handler Handler
}

func NewExecutor(gw storage.Gateway, flgs flags.Flags, c Confirmer) *Executor {
	env := &stmt.Env{
		Gateway: gw,
	}
	if flgs.GetFlag(flags.CacheSelect) {
		env.Cache = cache.New()
	}

	return &Executor{
		env: env,
		handler: Chain(Run(env),
			Recover(),
			Confirm(c,
				func() bool {
					return flgs.GetFlag(flags.ConfirmDestructive)
				}),
			Timing(
				func() bool {
					return flgs.GetFlag(flags.ReportTiming)
				})),
	}
}

// Message is how err is shown to the user.
func Message(err error) string {
	if dberr.Is(err, dberr.InvalidCommand) {
		return err.Error()
	}
	return fmt.Sprintf("Error: %s", err)
}

func failed(err error) Outcome {
	return Outcome{
		Messages: []string{Message(err)},
		Err:      err,
	}
}

// Execute parses and executes one line. An empty line has an empty outcome.
func (ex *Executor) Execute(ctx context.Context, line string) Outcome {
	s, err := parser.Parse(line)
	if err != nil {
		log.WithFields(log.Fields{
			"line":  line,
			"error": err.Error(),
		}).Info("parse failed")
		return failed(err)
	} else if s == nil {
		return Outcome{}
	}

	if _, ok := s.(*stmt.Exit); !ok {
		err = ctx.Err()
		if err != nil {
			return failed(err)
		}
	}

	log.WithField("cmd", s.Command()).Debug(s.String())
	res, err := ex.handler.Handle(ctx, s)
	if err != nil {
		log.WithFields(log.Fields{
			"cmd":   s.Command(),
			"error": err.Error(),
		}).Info("execute failed")
		return failed(err)
	}

	return Outcome{
		Messages: res.Messages,
		Columns:  res.Columns,
		Records:  res.Records,
		Exit:     res.Exit,
	}
}

func (ex *Executor) Close() error {
	if ex.env.Cache != nil {
		hits, misses := ex.env.Cache.Stats()
		log.WithFields(log.Fields{
			"hits":   hits,
			"misses": misses,
		}).Debug("select cache")
	}
	return ex.env.Gateway.Close()
}
