// Package cli implements the waylon command-line interface.
//
// Each Cobra command is a thin shell: it loads and validates config, builds
// the status source client and a scheduler.Poller, and hands the poller a
// renderer suited to where the output goes.
//
// # Command Structure
//
//	waylon              - Radiator dashboard (same as 'waylon radiator')
//	waylon radiator     - Dashboard, or logged summaries with --headless
//	waylon status       - One rebuild, printed as a table or --json
//	waylon init         - Create or update .waylon.yaml
//	waylon version      - Build information
//
// # Radiator Wiring
//
// The dashboard and the poller reference each other: the poller renders
// into a dashboard.ProgramRenderer, and the bubbletea model sends r/R key
// presses back to the poller. The renderer is attached to the tea.Program
// after both exist. The poller, the program and the optional metrics
// listener run in one errgroup, so quitting the dashboard or a SIGINT stops
// all of them.
//
// When stdout is not a terminal the radiator runs headless with a
// dashboard.LogRenderer and logs go to stderr; otherwise logs go to the
// rotating log file from log.file so they don't tear the screen.
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color, --url, --view) are defined
// on the root command. --url and --view override the config file and
// WAYLON_* environment variables for that run only.
package cli
