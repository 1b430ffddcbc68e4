// Package rollup derives per-category job counts for the radiator's summary panel.
package rollup

import (
	"iter"

	"github.com/rileyhilliard/waylon/internal/registry"
	"github.com/rileyhilliard/waylon/internal/status"
)

// Counts is the per-category summary of the registry. Jobs still Unknown are
// not counted, so Total only covers jobs with a known status.
type Counts struct {
	Failed     int `json:"failed"`
	Building   int `json:"building"`
	Successful int `json:"successful"`
	Total      int `json:"total"`
}

// Aggregate counts jobs by category in a single pass.
func Aggregate(jobs iter.Seq[registry.Job]) Counts {
	var c Counts
	for job := range jobs {
		switch job.Category {
		case status.Failed:
			c.Failed++
		case status.Building:
			c.Building++
		case status.Successful:
			c.Successful++
		}
	}
	c.Total = c.Failed + c.Building + c.Successful
	return c
}
