// wv is the command-line client for the wikivault document store:
// spaces, live trees, change requests, reviews, and merges.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/config"
	"github.com/wikivault/wikivault/internal/debug"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/storage/sqlite"
	"github.com/wikivault/wikivault/internal/wiki"
)

// Global runtime state, resolved in PersistentPreRunE from flags,
// config file, and environment (flags win).
var (
	dbPath      string
	actorFlag   string
	rolesFlag   string
	jsonOutput  bool
	verboseFlag bool

	store storage.Storage
	svc   *wiki.Service

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

// noStoreCommands run without a database: scaffolding, metadata, shell
// plumbing.
var noStoreCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"help":       true,
	"completion": true,
}

func needsStore(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if noStoreCommands[c.Name()] {
			return false
		}
	}
	return true
}

var rootCmd = &cobra.Command{
	Use:   "wv",
	Short: "Versioned document trees for collaborative wikis",
	Long: `wv manages wiki spaces as versioned document trees: immutable
revisions over content-addressed blobs, change requests with reviewers,
three-way merges, and stable permalink routes.

Run 'wv init' once per project, then 'wv space create' to start a tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return err
		}

		// Flags override config and environment.
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if dbPath == "" {
			dbPath = config.DefaultDBPath()
		}
		if logFile := config.GetString("log-file"); logFile != "" {
			debug.SetLogFile(logFile,
				config.GetInt("log.max-size"),
				config.GetInt("log.max-backups"),
				config.GetInt("log.max-age"))
		} else if dir := config.ProjectDir(); dir != "" {
			debug.SetLogDir(dir,
				config.GetInt("log.max-size"),
				config.GetInt("log.max-backups"),
				config.GetInt("log.max-age"))
		}
		debug.Logf("command %s (db=%s)", cmd.Name(), dbPath)

		if !needsStore(cmd) {
			return nil
		}
		if dbPath == "" {
			return fmt.Errorf("no wiki database found; run 'wv init' first or pass --db")
		}

		s, err := sqlite.New(cmd.Context(), dbPath)
		if err != nil {
			return fmt.Errorf("opening database %s: %w", dbPath, err)
		}
		store = s
		svc = wiki.New(store)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				debug.Logf("closing store: %v", err)
			}
			store = nil
		}
		debug.Close()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the wiki database (default: .wikivault/wiki.db)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Acting user for attribution (default: config, git, hostname)")
	rootCmd.PersistentFlags().StringVar(&rolesFlag, "roles", "", "Comma-separated role names for the acting user")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		exitWithError(err)
	}
}
