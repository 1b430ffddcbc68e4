package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/waylon/internal/config"
	"github.com/rileyhilliard/waylon/internal/dashboard"
	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/logger"
	"github.com/rileyhilliard/waylon/internal/rollup"
	"github.com/rileyhilliard/waylon/internal/scheduler"
	"github.com/rileyhilliard/waylon/internal/source"
	"github.com/rileyhilliard/waylon/internal/status"
	"github.com/rileyhilliard/waylon/internal/ui"
	"github.com/spf13/cobra"
)

// DefaultStatusTimeout bounds a one-shot status query.
const DefaultStatusTimeout = 30 * time.Second

var (
	statusJSON     bool
	statusExitCode bool
	statusTimeout  time.Duration
)

// statusCmd runs a single rebuild and prints the result
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current state of a view once",
	Long: `Discover every job in the view, fetch each job's status once, and print
the jobs worst first with a summary line.

Examples:
  waylon status
  waylon status --view nightly --json
  waylon status --exit-code && echo "all green"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(cmd.Context(), cmd.OutOrStdout(), StatusOptions{
			JSON:     statusJSON,
			ExitCode: statusExitCode,
			Timeout:  statusTimeout,
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	statusCmd.Flags().BoolVar(&statusExitCode, "exit-code", false, "exit 1 when any job is failing")
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", DefaultStatusTimeout, "give up waiting for the status source after this long")
	rootCmd.AddCommand(statusCmd)
}

// StatusOptions holds options for the status command.
type StatusOptions struct {
	JSON     bool
	ExitCode bool
	Timeout  time.Duration
}

// StatusOutput represents the JSON output for the status command.
type StatusOutput struct {
	View      string        `json:"view"`
	Mode      string        `json:"mode"`
	Counts    rollup.Counts `json:"counts"`
	Jobs      []JobOutput   `json:"jobs"`
	Alerts    []AlertOutput `json:"alerts,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// JobOutput is one job in StatusOutput, in severity order.
type JobOutput struct {
	ID      string         `json:"id"`
	Server  string         `json:"server"`
	Status  string         `json:"status"`
	Rank    int            `json:"rank"`
	URL     string         `json:"url,omitempty"`
	Weather *WeatherOutput `json:"weather,omitempty"`
}

// WeatherOutput is a job's build-stability report.
type WeatherOutput struct {
	Icon  string `json:"icon"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// AlertOutput is an active alert condition.
type AlertOutput struct {
	Key      string `json:"key"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// statusCommand implements the status command logic.
func statusCommand(ctx context.Context, w io.Writer, opts StatusOptions) error {
	machineMode = opts.JSON

	snap, err := fetchStatus(ctx, opts.Timeout)
	if err != nil {
		if opts.JSON {
			_ = WriteJSONFromError(w, err)
			return errors.NewExitError(1)
		}
		return err
	}

	if opts.JSON {
		if err := WriteJSONSuccess(w, statusToJSON(snap)); err != nil {
			return errors.WrapWithCode(err, errors.ErrExec, "Failed to write JSON output", "")
		}
	} else {
		renderStatus(w, snap)
	}

	if opts.ExitCode && snap.Counts.Failed > 0 {
		return errors.NewExitError(1)
	}
	return nil
}

// fetchStatus loads config and runs one rebuild against the status source.
func fetchStatus(ctx context.Context, timeout time.Duration) (scheduler.Snapshot, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return scheduler.Snapshot{}, err
	}

	logOpts := cfg.LoggerOptions()
	logOpts.File = ""
	logOpts.Writer = os.Stderr
	if machineMode && !verbose {
		logOpts.Level = "error"
	}
	log, closer := logger.New(logOpts)
	defer closer.Close()

	src, err := source.NewClient(cfg.URL, source.Options{
		Timeout: cfg.FetchTimeout,
		Logger:  logger.Named(log, "source"),
	})
	if err != nil {
		return scheduler.Snapshot{}, err
	}
	return collectStatus(ctx, cfg, src, timeout, log)
}

// collectStatus performs a single rebuild and returns its settle snapshot.
func collectStatus(ctx context.Context, cfg *config.Config, src source.Source, timeout time.Duration, log logger.Logger) (scheduler.Snapshot, error) {
	poller, err := scheduler.New(scheduler.Config{View: cfg.View}, src, scheduler.Options{
		Logger: logger.Named(log, "scheduler"),
	})
	if err != nil {
		return scheduler.Snapshot{}, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return poller.RunOnce(ctx)
}

// renderStatus prints the job table, alerts and rollup line.
func renderStatus(w io.Writer, snap scheduler.Snapshot) {
	rows := make([]ui.JobTableRow, 0, len(snap.Jobs))
	for _, job := range snap.Jobs {
		weather := ""
		if job.Weather != nil {
			weather = dashboard.WeatherGlyph(job.Weather)
			if job.Weather.Title != "" {
				weather += " " + job.Weather.Title
			}
		}
		rows = append(rows, ui.JobTableRow{
			Category: job.Category,
			Job:      job.ID,
			Server:   job.Server,
			Weather:  weather,
			URL:      job.URL,
		})
	}

	fmt.Fprintf(w, "%s\n\n", ui.MutedStyle().Render("View "+snap.View))
	if len(rows) == 0 {
		fmt.Fprintf(w, "No jobs in view %s\n", snap.View)
	} else {
		fmt.Fprint(w, ui.RenderJobTable(rows))
	}
	if alerts := ui.RenderAlerts(snap.Alerts); alerts != "" {
		fmt.Fprintf(w, "\n%s", alerts)
	}
	fmt.Fprintf(w, "\n%s\n", ui.RenderRollup(snap.Counts, snap.Mode))
}

// statusToJSON converts a snapshot to its JSON form.
func statusToJSON(snap scheduler.Snapshot) StatusOutput {
	out := StatusOutput{
		View:      snap.View,
		Mode:      snap.Mode.String(),
		Counts:    snap.Counts,
		Jobs:      make([]JobOutput, 0, len(snap.Jobs)),
		UpdatedAt: snap.UpdatedAt,
	}
	for _, job := range snap.Jobs {
		jo := JobOutput{
			ID:     job.ID,
			Server: job.Server,
			Status: job.Category.String(),
			Rank:   status.Rank(job.Category),
			URL:    job.URL,
		}
		if job.Weather != nil {
			jo.Weather = &WeatherOutput{Icon: job.Weather.Icon, Alt: job.Weather.Alt, Title: job.Weather.Title}
		}
		out.Jobs = append(out.Jobs, jo)
	}
	for _, a := range snap.Alerts {
		out.Alerts = append(out.Alerts, AlertOutput{Key: a.Key, Severity: a.Severity.String(), Message: a.Message})
	}
	return out
}
