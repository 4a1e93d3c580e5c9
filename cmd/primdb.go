package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/leftmike/primdb/config"
	"github.com/leftmike/primdb/flags"
)

var (
	primdbCmd = &cobra.Command{
		Use:   "primdb",
		Short: "A minimal record store",
		Long: "Primdb is a single user record store with a small command language: create " +
			"tables, then insert, select, update, and delete records.",
		PersistentPreRunE: primdbPreRun,
		PersistentPostRun: primdbPostRun,
		RunE:              replRun,
		SilenceUsage:      true,
	}

	logFile   = "primdb.log"
	logLevel  = "info"
	logStderr = false
	logWriter io.WriteCloser

	configFile = "primdb.hcl"
	noConfig   = false

	cfg  = config.NewConfig()
	flgs = flags.Config(cfg)
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
	})

	fs := primdbCmd.PersistentFlags()

	fs.StringVar(&logFile, "log-file", logFile, "`file` to use for logging")
	cfg.Flag(fs, "log-file").Env("PRIMDB_LOG_FILE")

	fs.StringVar(&logLevel, "log-level", logLevel,
		"log level: trace, debug, info, warn, error, fatal, or panic")
	cfg.Flag(fs, "log-level").Env("PRIMDB_LOG_LEVEL")

	fs.BoolVarP(&logStderr, "log-stderr", "s", logStderr, "log to standard error")

	fs.StringVar(&configFile, "config-file", configFile, "`file` to load config from")
	fs.BoolVar(&noConfig, "no-config", noConfig, "don't load config file")

	initShellFlags(fs)
}

func Execute() error {
	return primdbCmd.Execute()
}

func loadConfig(cmd *cobra.Command) error {
	err := cfg.Env()
	if err != nil {
		return err
	}

	if configFile == "" || noConfig {
		return nil
	}
	_, err = os.Stat(configFile)
	if os.IsNotExist(err) && !cmd.Flags().Changed("config-file") {
		return nil
	}
	return cfg.LoadFile(configFile)
}

func primdbPreRun(cmd *cobra.Command, args []string) error {
	err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("primdb: %s", err)
	}

	if !logStderr && logFile != "" {
		logWriter, err = os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			logWriter = nil
			return fmt.Errorf("primdb: %s", err)
		}
		log.SetOutput(logWriter)
	}

	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("primdb: %s", err)
	}
	log.SetLevel(ll)

	log.WithField("pid", os.Getpid()).Info("primdb starting")
	return nil
}

func primdbPostRun(cmd *cobra.Command, args []string) {
	log.WithField("pid", os.Getpid()).Info("primdb done")

	if logWriter != nil {
		logWriter.Close()
	}
}
