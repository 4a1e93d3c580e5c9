package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leftmike/primdb/execute"
	"github.com/leftmike/primdb/repl"
	"github.com/leftmike/primdb/storage"
	"github.com/leftmike/primdb/storage/jsonfile"
	"github.com/leftmike/primdb/storage/keyval"
)

var (
	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive shell (the default)",
		Args:  cobra.NoArgs,
		RunE:  replRun,
	}

	store        = "json"
	dataDir      = jsonfile.DataDir
	metadataFile = jsonfile.MetadataFile
	historyFile  = ".primdb_history"
)

func initShellFlags(fs *pflag.FlagSet) {
	fs.StringVar(&store, "store", store, "storage to use: json, bbolt, badger, pebble, or memory")
	cfg.Flag(fs, "store").Env("PRIMDB_STORE")

	fs.StringVar(&dataDir, "data", dataDir, "`directory` containing table data")
	cfg.Flag(fs, "data").Env("PRIMDB_DATA")

	fs.StringVar(&metadataFile, "metadata", metadataFile, "`file` containing the schema (json)")
	cfg.Flag(fs, "metadata").Env("PRIMDB_METADATA")

	fs.StringVar(&historyFile, "history", historyFile, "`file` to keep command history in")
	cfg.Flag(fs, "history").Env("PRIMDB_HISTORY")
}

func init() {
	primdbCmd.AddCommand(replCmd)
}

func openGateway() (storage.Gateway, error) {
	var kv keyval.KV
	var err error
	switch store {
	case "json":
		return jsonfile.NewGateway(metadataFile, dataDir), nil
	case "bbolt":
		kv, err = keyval.MakeBBoltKV(dataDir)
	case "badger":
		kv, err = keyval.MakeBadgerKV(dataDir, log.StandardLogger())
	case "pebble":
		kv, err = keyval.MakePebbleKV(dataDir, log.StandardLogger())
	case "memory":
		kv = keyval.MakeBTreeKV()
	default:
		return nil,
			fmt.Errorf("primdb: got %s for store; want json, bbolt, badger, pebble, or memory",
				store)
	}
	if err != nil {
		return nil, fmt.Errorf("primdb: %s", err)
	}
	return keyval.NewGateway(kv), nil
}

func replRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("primdb: unexpected arguments: %v", args)
	}

	gw, err := openGateway()
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"store": store,
		"data":  dataDir,
	}).Info("storage open")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.WithField("signal", sig).Info("primdb interrupted")
			cancel()
		case <-ctx.Done():
		}
	}()

	console := repl.NewConsole(historyFile)
	ex := execute.NewExecutor(gw, flgs, repl.Confirmer(console, os.Stdout))
	err = repl.Run(ctx, console, os.Stdout, ex)

	if cerr := console.Close(); err == nil {
		err = cerr
	}
	if cerr := ex.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("primdb: %s", cerr)
	}
	return err
}
