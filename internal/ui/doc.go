// Package ui provides terminal output helpers for waylon's one-shot commands.
//
// The full-screen radiator lives in the dashboard package; this package
// covers everything printed line by line: the probe indicator used by
// `waylon init`, and the job table, rollup line and alert list printed by
// `waylon status`.
//
// # Components Overview
//
//	Probe          - Animated line while init lists a view, then its outcome
//	RenderJobTable - Jobs in severity order with status, server and weather
//	RenderRollup   - One-line successful/building/failed/total summary
//	RenderAlerts   - Active alert conditions, one per line
//
// # Color Scheme
//
// Colors follow the dashboard's synthwave palette:
//
//	ColorSuccess (neon green) - Successful jobs
//	ColorError   (hot red)    - Failed jobs and danger alerts
//	ColorWarning (amber)      - Building jobs and warnings
//	ColorMuted   (dim violet) - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Probe Usage
//
//	p := ui.NewProbe(os.Stdout, "Listing view 'main' on "+url)
//	p.Start()
//	servers, err := client.Servers(ctx, "main")
//	if err != nil {
//		p.Failed(err)
//	} else {
//		p.Found(servers)
//	}
package ui
