// Package cli implements the memory-man CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/beano/memory-man/internal/config"
	"github.com/beano/memory-man/internal/store"
)

var (
	dbFlag     string
	configFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memory-man",
	Short: "Durable, queryable memory for coding agents",
	Long:  "A persistent knowledge store for short facts keyed by project, category, tags, and importance. SQLite-backed, single binary, MCP server included.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database path (default: $MEMORY_MAN_DB or ~/.memory-man/memory.db)")
	RootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (default: $MEMORY_MAN_CONFIG or ~/.memory-man/config.yaml)")
}

func loadConfig() (config.Config, error) {
	path := configFlag
	if path == "" {
		path = os.Getenv("MEMORY_MAN_CONFIG")
	}
	if path == "" {
		home, _ := os.UserHomeDir()
		candidate := filepath.Join(home, ".memory-man", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	return cfg, nil
}

func openStore() (*store.SQLiteStore, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	s, err := store.NewSQLiteStore(cfg.DBPath, store.Options{
		MaxContentSize: cfg.MaxContentSize,
		Categories:     cfg.Categories(),
		SearchLimit:    cfg.SearchLimit,
	})
	return s, cfg, err
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
