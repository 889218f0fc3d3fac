package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wikivault/wikivault/internal/config"
	"github.com/wikivault/wikivault/internal/storage/sqlite"
	"github.com/wikivault/wikivault/internal/ui"
)

// initConfig is the scaffolded .wikivault/config.yaml.
type initConfig struct {
	Actor string   `yaml:"actor,omitempty"`
	Roles []string `yaml:"roles,omitempty"`
	DB    string   `yaml:"db,omitempty"`
	JSON  bool     `yaml:"json"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a wiki project in the current directory",
	Long: `Creates a .wikivault directory with a config.yaml and an empty
wiki database. Safe to re-run; existing files are kept unless --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		initActor, _ := cmd.Flags().GetString("with-actor")
		initRoles, _ := cmd.Flags().GetStringSlice("with-roles")

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		projectDir := filepath.Join(cwd, config.ProjectDirName)
		if err := os.MkdirAll(projectDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", projectDir, err)
		}

		configPath := filepath.Join(projectDir, "config.yaml")
		wroteConfig := false
		if _, err := os.Stat(configPath); os.IsNotExist(err) || force {
			raw, err := yaml.Marshal(&initConfig{Actor: initActor, Roles: initRoles})
			if err != nil {
				return err
			}
			if err := os.WriteFile(configPath, raw, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", configPath, err)
			}
			wroteConfig = true
		}

		// Opening the store runs the migrations, so a fresh database is
		// immediately usable.
		path := filepath.Join(projectDir, "wiki.db")
		if dbPath != "" {
			path = dbPath
		}
		s, err := sqlite.New(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("initializing database %s: %w", path, err)
		}
		if err := s.Close(); err != nil {
			return err
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"project_dir":  projectDir,
				"config_path":  configPath,
				"db_path":      path,
				"wrote_config": wroteConfig,
			})
			return nil
		}
		fmt.Printf("%s Initialized wiki project in %s\n", ui.RenderPass("✓"), projectDir)
		if wroteConfig {
			fmt.Printf("  Config:   %s\n", configPath)
		} else {
			fmt.Printf("  Config:   %s (kept)\n", configPath)
		}
		fmt.Printf("  Database: %s\n", path)
		fmt.Println("\nNext: create a space with 'wv space create <name>'")
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing config.yaml")
	initCmd.Flags().String("with-actor", "", "Seed the config actor field")
	initCmd.Flags().StringSlice("with-roles", nil, "Seed the config roles list")
	rootCmd.AddCommand(initCmd)
}
