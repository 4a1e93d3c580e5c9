// Package repl is the interactive shell: it reads a line, executes it, and prints the
// outcome until exit or end of input.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"

	"github.com/leftmike/primdb/execute"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/value"
)

const (
	Prompt = "primdb> "
)

type LineReader interface {
	Prompt(p string) (string, error)
}

type historyAppender interface {
	AppendHistory(s string)
}

type confirmer struct {
	lr LineReader
	w  io.Writer
}

// Confirmer asks for confirmation using lr; only y or Y is yes.
func Confirmer(lr LineReader, w io.Writer) execute.Confirmer {
	return confirmer{
		lr: lr,
		w:  w,
	}
}

func (c confirmer) Confirm(action string) bool {
	s, err := c.lr.Prompt(fmt.Sprintf("Are you sure you want to perform \"%s\"? [y/n]: ",
		action))
	if err != nil {
		fmt.Fprintln(c.w)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s), "y")
}

// Run reads and executes lines until exit, end of input, or an interrupt.
func Run(ctx context.Context, lr LineReader, w io.Writer, ex *execute.Executor) error {
	ha, _ := lr.(historyAppender)

	for {
		if ctx.Err() != nil {
			return interrupted(w)
		}
		line, err := lr.Prompt(Prompt)
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Fprintln(w, "\nExiting.")
			return nil
		} else if err != nil {
			fmt.Fprintln(w, "Exiting.")
			return err
		}
		if ctx.Err() != nil {
			return interrupted(w)
		}
		if ha != nil && strings.TrimSpace(line) != "" {
			ha.AppendHistory(line)
		}

		out := ex.Execute(ctx, line)
		Print(w, out)
		if out.Exit {
			log.Info("exit")
			return nil
		}
	}
}

func interrupted(w io.Writer) error {
	log.Info("interrupted")
	fmt.Fprintln(w, "Exiting.")
	return nil
}

// Print writes the records of out as a grid, followed by the messages of out.
func Print(w io.Writer, out execute.Outcome) {
	if len(out.Records) > 0 {
		printRecords(w, out.Columns, out.Records)
	}
	for _, msg := range out.Messages {
		fmt.Fprintln(w, msg)
	}
}

func printRecords(w io.Writer, cols []string, recs []record.Record) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeader(cols)

	row := make([]string, len(cols))
	for _, r := range recs {
		for cdx, col := range cols {
			v, _ := r.Get(col)
			row[cdx] = value.Format(v)
		}
		tw.Append(row)
	}
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", tw.NumLines())
}
