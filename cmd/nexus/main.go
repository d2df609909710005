package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexus/cmd/nexus/workspace"
	"nexus/internal/app"
	"nexus/internal/config"
	"nexus/internal/logging"
)

var (
	// Global flags
	verbose       bool
	workspaceFlag string
	timeout       time.Duration

	// Logger
	logger *logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus AI - terminal workspace for projects, chat and AI tools",
	Long: `Nexus AI is a single-user workspace with projects, an AI chat assistant
and a catalog of prompt-driven AI tools.

State lives in the workspace's .nexus directory. Run without arguments to
start the interactive workspace.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive workspace owns the terminal and logs to file.
		if cmd == cmd.Root() {
			return nil
		}
		logger = logging.NewConsole(verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWorkspace,
}

// initCmd writes a default configuration into the workspace
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .nexus directory with a default config",
	RunE:  runInit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory (default: nearest .nexus or current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(paletteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the --workspace flag or the nearest directory
// holding .nexus.
func resolveWorkspace() (string, error) {
	if workspaceFlag != "" {
		return workspaceFlag, nil
	}
	return config.FindWorkspaceRoot()
}

func loadConfig() (*config.Config, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	return config.LoadWorkspace(ws)
}

// openController loads the workspace and wires a controller. Callers must
// Close it.
func openController() (*app.Controller, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	ctrl, err := app.Bootstrap(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, cfg, nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM. A bounded
// context also ends after --timeout.
func signalContext(bounded bool) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if !bounded || timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctrl, err := app.Bootstrap(cfg, logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signalContext(false)
	defer stop()

	logger.Get(logging.CategoryUI).Info("Starting workspace", zap.Bool("alt_screen", cfg.UI.AltScreen))
	return workspace.Run(ctx, ctrl, workspace.Options{
		AltScreen:       cfg.UI.AltScreen,
		RenderMarkdown:  cfg.UI.RenderMarkdown,
		DefaultCategory: cfg.UI.DefaultCategory,
		RecentProjects:  cfg.UI.RecentProjects,
		Logger:          logger.Get(logging.CategoryUI),
	})
}

func runInit(cmd *cobra.Command, args []string) error {
	ws := workspaceFlag
	if ws == "" {
		var err error
		if ws, err = os.Getwd(); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()

	path := config.DefaultPath(ws)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Workspace already initialized: %s\n", path)
		return nil
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Initialized nexus workspace at %s\n", ws)
	return nil
}
