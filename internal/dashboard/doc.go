// Package dashboard implements the radiator's full-screen TUI.
//
// The dashboard is a passive view of the poll scheduler: it never fetches
// anything itself. The scheduler pushes a Snapshot at every settle point
// and calls EnterIdle/ExitIdle on mode changes; ProgramRenderer turns those
// calls into Bubble Tea messages for a running program.
//
// # Layout
//
//	header   - title, view name, rollup panel, last update, spinner
//	alerts   - one banner per active alert condition
//	body     - job rows in severity order (scrollable viewport), or the
//	           "all clear" screen while in idle mode
//	footer   - key hints
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh job status now
//	R           - Rebuild the job list now
//	j/k, ↑/↓    - Scroll the job list
//	?           - Toggle help overlay
//
// LogRenderer is the headless counterpart used when stdout is not a
// terminal: each settle point becomes one log line.
package dashboard
