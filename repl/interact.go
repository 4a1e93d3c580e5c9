package repl

import (
	"fmt"
	"os"

	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
)

// Console reads lines from the terminal with line editing and a history file.
type Console struct {
	line    *liner.State
	history string
}

func NewConsole(history string) *Console {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	return &Console{
		line:    line,
		history: history,
	}
}

func (c *Console) Prompt(p string) (string, error) {
	return c.line.Prompt(p)
}

func (c *Console) AppendHistory(s string) {
	c.line.AppendHistory(s)
}

func (c *Console) Close() error {
	if c.history != "" {
		if f, err := os.Create(c.history); err != nil {
			log.WithField("file", c.history).Warn(err)
			fmt.Fprintf(os.Stderr, "primdb: error writing history file, %s: %s\n", c.history,
				err)
		} else {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	return c.line.Close()
}
