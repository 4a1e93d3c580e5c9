package stmt

import (
	"context"
)

var helpLines = []string{
	"Commands:",
	"  create_table <name> <column:type> ...  create a table; types are int, str, and bool",
	"  drop_table <name>                      delete a table and its records",
	"  list_tables                            list the tables",
	"  insert into <name> values (<value>, ...)",
	"                                         add a record",
	"  select from <name> [where <column> = <value>]",
	"                                         show records",
	"  update <name> set <column> = <value>[, ...] where <column> = <value>",
	"                                         change records",
	"  delete from <name> where <column> = <value>",
	"                                         delete records",
	"  info <name>                            describe a table",
	"  help                                   show this help",
	"  exit                                   leave primdb",
}

type Help struct{}

func (_ *Help) String() string {
	return "help"
}

func (_ *Help) Command() string {
	return "help"
}

func (_ *Help) Execute(ctx context.Context, env *Env) (*Result, error) {
	return &Result{
		Messages: append([]string(nil), helpLines...),
	}, nil
}

type Exit struct{}

func (_ *Exit) String() string {
	return "exit"
}

func (_ *Exit) Command() string {
	return "exit"
}

func (_ *Exit) Execute(ctx context.Context, env *Env) (*Result, error) {
	return &Result{
		Messages: []string{"Exiting."},
		Exit:     true,
	}, nil
}
