package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/waylon/internal/config"
	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/ui"
	"github.com/rileyhilliard/waylon/internal/util"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
	urlFlag string
	viewFlg string
)

var rootCmd = &cobra.Command{
	Use:   "waylon",
	Short: "Build-status radiator for CI views",
	Long: `waylon polls a CI status source and shows every job in a view on one
screen, worst first. When nothing is failing or building it switches to an
"all clear" idle screen.

Run without a subcommand to start the radiator.

Examples:
  waylon                      # dashboard for the configured view
  waylon --view nightly       # a different view
  waylon status               # one-shot table, good for scripts
  waylon init                 # write .waylon.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return radiatorCommand(cmd.Context(), RadiatorOptions{})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .waylon.yaml, then ~/.config/waylon/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "status source base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&viewFlg, "view", "", "view to display (overrides config)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}

	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" && strings.HasPrefix(err.Error(), "unknown command") {
			fmt.Fprintf(os.Stderr, "%s Unknown command %q\n", ui.SymbolError, name)
			if similar := util.SuggestSimilar(name, commandNames(), 3); len(similar) > 0 {
				fmt.Fprintf(os.Stderr, "\n  Did you mean: %s?\n", util.JoinOrNone(similar))
			}
			fmt.Fprintln(os.Stderr, "\n  Run 'waylon --help' to see available commands.")
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n\n  Run 'waylon --help' for usage.\n", ui.SymbolError, err)
		}
		os.Exit(2)
	}

	fmt.Fprint(os.Stderr, err.Error())
	if !strings.HasSuffix(err.Error(), "\n") {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(1)
}

// commandNames lists the visible subcommands of the root command.
func commandNames() []string {
	var names []string
	for _, c := range rootCmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	return names
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}

// loadConfig resolves the config file, applies flag overrides and validates.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, path, err
	}

	if urlFlag != "" {
		cfg.URL = strings.TrimRight(strings.TrimSpace(urlFlag), "/")
	}
	if viewFlg != "" {
		cfg.View = strings.TrimSpace(viewFlg)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	applyColorMode(cfg.Output.Color)
	return cfg, path, nil
}

// applyColorMode honors output.color unless --no-color already won.
func applyColorMode(mode string) {
	if noColor {
		return
	}
	switch mode {
	case "never":
		ui.DisableColors()
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "waylon"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
