// Package cli implements the mnemo CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kavro/mnemo/internal/config"
	"github.com/kavro/mnemo/internal/engine"
	"github.com/kavro/mnemo/internal/store"
)

var (
	dbPath     string
	configPath string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mnemo",
	Short: "Hybrid long-term memory for chat personas",
	Long:  "On-device memory engine for chat agents. Ingests conversation turns into a SQLite-backed triple index and answers semantic, temporal, and hybrid recall queries. Single binary, no server.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MNEMO_DB or ~/.mnemo/memory.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $MNEMO_CONFIG)")
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func openStore() (*store.SQLiteStore, config.Config) {
	cfg := loadConfig()
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}
	return s, cfg
}

func openEngine() (*engine.Engine, *store.SQLiteStore) {
	s, cfg := openStore()

	emb, err := cfg.NewEmbedder()
	if err != nil {
		s.Close()
		exitErr("configure embedder", err)
	}

	return engine.New(s, store.NewSettingsFlags(s), emb, cfg.Engine), s
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
