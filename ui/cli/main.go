// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the gadget
// application using the Cobra library. It defines the root command,
// subcommands (create, deploy, list, key, log), flags, and the main
// entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tanglekit/tangle-cli/internal/config"
	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/logging"
	"github.com/tanglekit/tangle-cli/internal/scaffold"
	"github.com/tanglekit/tangle-cli/internal/tui"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config

// configDefaults are the baseline settings applied before the config
// file, environment and flags are merged in. The chain indices default to
// the Tangle testnet runtime layout.
var configDefaults = map[string]any{
	"database.type":               "sqlite",
	"database.dsn":                "./gadget.db",
	"language":                    "en",
	"rpc.url":                     "http://127.0.0.1:9944",
	"chain.ss58_prefix":           42,
	"chain.services_pallet_index": 51,
	"chain.create_call_index":     0,
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	// Load optional config file argument from cli
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, configDefaults, optionalConfigPath)
	// A "file not found" error is expected on first run, so we handle it
	// specifically and persist a default config for subsequent runs.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Post-process config to ensure critical values are not empty, falling
	// back to defaults. This handles config files with blank values.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = configDefaults["database.type"].(string)
		viper.Set("database.type", appConfig.Database.Type)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = configDefaults["database.dsn"].(string)
		viper.Set("database.dsn", appConfig.Database.Dsn)
	}
	if appConfig.Language == "" {
		appConfig.Language = configDefaults["language"].(string)
		viper.Set("language", appConfig.Language)
	}
	if appConfig.RPC.URL == "" {
		appConfig.RPC.URL = configDefaults["rpc.url"].(string)
	}

	// Initialize i18n
	i18n.Init(appConfig.Language)

	// Initialize the deployment registry if not already initialized by
	// tests or earlier setup.
	if !db.IsInitialized() {
		if _, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	return rootCmd.Execute()
}

func applyDefaultFlags(cmd *cobra.Command) {
	// Avoid redefining flags if they already exist (NewRootCmd may be
	// called multiple times in tests which creates a new root but uses
	// package-level subcommands). pflag will panic on duplicate flag
	// definitions, so check first.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./gadget.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gadget",
		Short: "gadget scaffolds blueprint projects and deploys them to the Tangle network.",
		Long: `gadget is the Tangle blueprint developer tool.
It scaffolds new blueprint projects, bundles their artifacts and registers
them on-chain by submitting a signed create-blueprint extrinsic. A local
database keeps a registry of every deployment.

Running without a subcommand will launch the interactive dashboard.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				v, c, d := resolveBuildVersion(nil)
				fmt.Printf("%s\n", compositeVersion(v, c, d))
				os.Exit(0)
			}
			if verbose {
				logging.SetDebug(true)
				db.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// The database is already initialized by PersistentPreRunE.
			// i18n is also initialized, so we can just run the dashboard.
			if err := tui.Run(); err != nil {
				log.Errorf("dashboard error: %v", err)
			}
		},
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	// Define flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets -v for DB logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	applyDefaultFlags(cmd)

	// Add subcommand flags
	applyDefaultFlags(createCmd)
	applyDefaultFlags(deployCmd)
	applyDefaultFlags(listCmd)
	applyDefaultFlags(logCmd)
	if createCmd.Flags().Lookup("name") == nil {
		createCmd.Flags().StringVarP(&createName, "name", "n", "", "Name of the blueprint to scaffold (required)")
		createCmd.Flags().StringVarP(&createTemplate, "template", "t", scaffold.DefaultTemplate, "Project template to scaffold from")
		_ = createCmd.MarkFlagRequired("name")
	}
	if deployCmd.Flags().Lookup("rpc-url") == nil {
		deployCmd.Flags().StringVar(&deployRPCURL, "rpc-url", "", "HTTP RPC endpoint of the target Tangle node")
		deployCmd.Flags().StringVarP(&deployPackage, "package", "p", "", "Package directory containing blueprint.json (required)")
		_ = deployCmd.MarkFlagRequired("package")
	}
	if listCmd.Flags().Lookup("status") == nil {
		listCmd.Flags().StringVar(&listStatus, "status", "", "Filter deployments by status (submitted, failed)")
		listCmd.Flags().StringVar(&listSearch, "search", "", "Filter deployments by blueprint name or extrinsic hash substring")
	}
	if logCmd.Flags().Lookup("limit") == nil {
		logCmd.Flags().IntVar(&logLimit, "limit", 0, "Show only the most recent N entries (0 shows all)")
	}

	// Add a lightweight `version` subcommand so users and CI can run
	// `gadget version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		createCmd,
		deployCmd,
		listCmd,
		keyCmd,
		logCmd,
		debugCmd,
		versionCmd,
	)

	return cmd
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/tanglekit/tangle-cli" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, if no version was discovered, but a gitCommit was
	// provided via ldflags, show that to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
