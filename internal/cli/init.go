package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/waylon/internal/config"
	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/source"
	"github.com/rileyhilliard/waylon/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// probeTimeout bounds the connectivity check init runs before saving.
const probeTimeout = 10 * time.Second

// defaultInitFetchTimeout is written to new config files.
const defaultInitFetchTimeout = "10s"

var (
	initURLFlag        string
	initViewFlag       string
	initForce          bool
	initUpdate         bool
	initNonInteractive bool
	initSkipProbe      bool
)

// initCmd creates a .waylon.yaml in the current directory
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .waylon.yaml config file",
	Long: `Create a .waylon.yaml in the current directory.

Prompts for the status source URL and the view to display, checks that the
view can be listed, then writes the file. Use --update to change url/view in
an existing file while keeping its comments and other settings.

Examples:
  waylon init
  waylon init --non-interactive --url http://ci.example.com:9292 --view main
  waylon init --update --view nightly`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := getInitDefaults()
		opts := InitOptions{
			URL:            firstNonEmpty(initURLFlag, defaults.URL),
			View:           firstNonEmpty(initViewFlag, defaults.View),
			Overwrite:      initForce,
			Update:         initUpdate,
			NonInteractive: initNonInteractive || defaults.NonInteractive,
			SkipProbe:      initSkipProbe,
			Out:            cmd.OutOrStdout(),
		}
		return Init(cmd.Context(), opts)
	},
}

func init() {
	initCmd.Flags().StringVar(&initURLFlag, "url", "", "status source base URL")
	initCmd.Flags().StringVar(&initViewFlag, "view", "", "view to display")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initUpdate, "update", false, "update url/view in an existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "don't prompt; take values from flags")
	initCmd.Flags().BoolVar(&initSkipProbe, "skip-probe", false, "don't check the status source before saving")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	URL            string    // Pre-specified status source URL
	View           string    // Pre-specified view
	Dir            string    // Directory to write into (default: current directory)
	Overwrite      bool      // Overwrite existing config without asking
	Update         bool      // Edit url/view in place in an existing config
	NonInteractive bool      // Skip prompts
	SkipProbe      bool      // Don't contact the status source
	Out            io.Writer // Defaults to stdout
}

// initDefaults holds values picked up from the environment.
type initDefaults struct {
	URL            string
	View           string
	NonInteractive bool
}

// getInitDefaults reads WAYLON_URL, WAYLON_VIEW and WAYLON_NON_INTERACTIVE.
// CI environments are always non-interactive.
func getInitDefaults() initDefaults {
	ni, _ := strconv.ParseBool(os.Getenv("WAYLON_NON_INTERACTIVE"))
	return initDefaults{
		URL:            strings.TrimSpace(os.Getenv("WAYLON_URL")),
		View:           strings.TrimSpace(os.Getenv("WAYLON_VIEW")),
		NonInteractive: ni || os.Getenv("CI") != "",
	}
}

// initFile is the layout written by init. Durations are written as strings.
type initFile struct {
	Version         int    `yaml:"version"`
	URL             string `yaml:"url"`
	View            string `yaml:"view"`
	RebuildInterval int    `yaml:"rebuild_interval"`
	RefreshInterval int    `yaml:"refresh_interval"`
	FetchTimeout    string `yaml:"fetch_timeout"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

// Init creates, overwrites or updates .waylon.yaml.
func Init(ctx context.Context, opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	_, statErr := os.Stat(configPath)
	exists := statErr == nil

	if opts.Update && !exists {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file not found: %s", configPath),
			"Run 'waylon init' without --update to create one.")
	}

	if exists && !opts.Overwrite && !opts.Update {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite or --update to edit url/view in place.")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	url, view := strings.TrimRight(strings.TrimSpace(opts.URL), "/"), strings.TrimSpace(opts.View)
	if url == "" && !opts.Update {
		url = config.DefaultURL
	}

	if !opts.NonInteractive {
		if opts.Update {
			if existing, err := config.Load(configPath); err == nil {
				url = firstNonEmpty(url, existing.URL)
				view = firstNonEmpty(view, existing.View)
			}
		}
		if err := promptSource(&url, &view); err != nil {
			return err
		}
	}

	if url != "" {
		if err := config.ValidateURL(url); err != nil {
			return err
		}
	}
	if view != "" || !opts.Update {
		if err := config.ValidateView(view); err != nil {
			return err
		}
	}

	if !opts.SkipProbe && url != "" && view != "" {
		if err := probeView(ctx, out, url, view, opts.NonInteractive); err != nil {
			return err
		}
	}

	if opts.Update {
		return updateConfig(out, configPath, url, view)
	}
	return writeConfig(out, configPath, url, view)
}

// promptSource asks for the status source URL and view.
func promptSource(url, view *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Status source URL").
				Description("Base URL of the API serving /api/view/<view>/servers.json").
				Placeholder(config.DefaultURL).
				Value(url).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("URL is required")
					}
					if config.ValidateURL(strings.TrimSpace(s)) != nil {
						return fmt.Errorf("use an absolute http(s) URL")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("View").
				Description("The view whose jobs the radiator shows").
				Placeholder("main").
				Value(view).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("view is required")
					}
					if strings.Contains(s, "/") {
						return fmt.Errorf("view is a name, not a path")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}
	*url = strings.TrimRight(strings.TrimSpace(*url), "/")
	*view = strings.TrimSpace(*view)
	return nil
}

// probeView lists the view's servers before saving. Interactive
// users may save anyway when the probe fails.
func probeView(ctx context.Context, out io.Writer, url, view string, nonInteractive bool) error {
	fmt.Fprintln(out)
	probe := ui.NewProbe(out, fmt.Sprintf("Listing view '%s' on %s", view, url))
	probe.Start()

	servers, err := probeSource(ctx, url, view)
	if err == nil {
		probe.Found(servers)
		fmt.Fprintln(out)
		return nil
	}
	probe.Failed(err)

	probeErr := errors.WrapWithCode(err, errors.ErrFetch,
		fmt.Sprintf("Couldn't list view '%s' on %s", view, url),
		"Check the URL and view name, or pass --skip-probe to save anyway.")
	if nonInteractive {
		return probeErr
	}

	fmt.Fprintln(out)
	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the source later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return probeErr
	}
	return nil
}

// probeSource lists the view's servers.
func probeSource(ctx context.Context, url, view string) ([]string, error) {
	client, err := source.NewClient(url, source.Options{Timeout: probeTimeout})
	if err != nil {
		return nil, err
	}
	return client.Servers(ctx, view)
}

// writeConfig writes a fresh config file with a header comment.
func writeConfig(out io.Writer, configPath, url, view string) error {
	file := initFile{
		Version:         config.CurrentConfigVersion,
		URL:             url,
		View:            view,
		RebuildInterval: config.DefaultRebuildInterval,
		RefreshInterval: config.DefaultRefreshInterval,
		FetchTimeout:    defaultInitFetchTimeout,
		MetricsAddr:     config.DefaultMetricsAddr,
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# waylon radiator configuration
# Run 'waylon' to start the dashboard, 'waylon status' for a one-shot table.
# Intervals are in seconds; fetch_timeout takes a duration like 10s.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolOK, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  waylon          - Start the radiator")
	fmt.Fprintln(out, "  waylon status   - Print the view once")
	return nil
}

// updateConfig edits url/view in place, keeping comments and other keys.
func updateConfig(out io.Writer, configPath, url, view string) error {
	values := map[string]string{}
	if url != "" {
		values["url"] = url
	}
	if view != "" {
		values["view"] = view
	}
	if len(values) == 0 {
		return errors.New(errors.ErrConfig,
			"Nothing to update",
			"Pass --url and/or --view with --update.")
	}

	if err := config.SetKeys(configPath, values); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Updated %s\n", ui.SymbolOK, configPath)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
