package cli

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"neo-trader/internal/config"
	"neo-trader/internal/logging"
	"neo-trader/internal/neo"
	"neo-trader/internal/session"
	"neo-trader/internal/store"
	"neo-trader/internal/transport"
	"neo-trader/pkg/utils"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Client *neo.Client
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Credentials.Neo.ConsumerKey != "" {
		client, err := neo.NewClient(neo.Options{
			ConsumerKey: cfg.Credentials.Neo.ConsumerKey,
			Environment: session.Environment(cfg.Client.Environment),
			Transport: transport.Config{
				Timeout: time.Duration(cfg.Client.TimeoutSeconds) * time.Second,
				Retry: utils.RetryConfig{
					MaxAttempts:   cfg.Client.RetryAttempts,
					InitialDelay:  100 * time.Millisecond,
					MaxDelay:      10 * time.Second,
					BackoffFactor: 2.0,
				},
			},
			Logger: logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize API client")
		} else {
			app.Client = client
			logger.Debug().Msg("Neo API client initialized")
			if restoreSession(app) {
				logger.Debug().Msg("Saved session restored")
			}
		}
	}

	dbPath := filepath.Join(config.DefaultConfigDir(), "neo.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, scrip cache unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "neo",
		Short: "Kotak Neo trading CLI",
		Long: `Kotak Neo trading CLI.

A command-line client for the Kotak Neo trading API: two-step login,
order management, portfolio queries, live quotes, and a local scrip
master cache.

Use 'neo help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/neo-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addOrderCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addQuoteCommands(rootCmd, app)
	addScripCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("neo-trader v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Client Configuration")
			output.Printf("  Environment:     %s\n", app.Config.Client.Environment)
			output.Printf("  Timeout:         %ds\n", app.Config.Client.TimeoutSeconds)
			output.Printf("  Retry Attempts:  %d\n", app.Config.Client.RetryAttempts)
			output.Println()
			output.Bold("UI Configuration")
			output.Printf("  Color:           %v\n", app.Config.UI.ColorEnabled)
			output.Printf("  Date Format:     %s\n", app.Config.UI.DateFormat)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

// requireClient fails early when the API client is not configured.
func requireClient(app *App, output *Output) error {
	if app.Client == nil {
		output.Error("API client not configured. Set consumer_key in credentials.toml")
		return errNotConfigured
	}
	return nil
}

// renderResult prints a Result either as JSON or as a status line plus raw
// field dump, for commands without a dedicated table view.
func renderResult(output *Output, res *neo.Result) error {
	if output.IsJSON() {
		return output.JSON(map[string]interface{}{
			"status_code": res.StatusCode,
			"data":        res.Data,
			"error":       res.Error,
		})
	}
	if res.Failed() {
		output.Error("%s", res.Error)
		return nil
	}
	if !res.OK() {
		output.Warning("Upstream returned HTTP %d", res.StatusCode)
	}
	for _, k := range sortedKeys(res.Data) {
		output.Printf("  %s: %v\n", k, res.Data[k])
	}
	return nil
}
