// Package status defines the build status categories a job can be in, the
// mapping from the status source's raw strings, and the severity ranking used
// to order the radiator.
package status

import "sort"

// Category is the build state of a job.
type Category int

const (
	Unknown Category = iota
	Building
	Failed
	Successful
)

// Raw status strings reported by the status source.
const (
	RawRunning = "running"
	RawFailure = "failure"
	RawSuccess = "success"
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Unknown:
		return "unknown"
	case Building:
		return "building"
	case Failed:
		return "failed"
	case Successful:
		return "successful"
	default:
		return "invalid"
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return c >= Unknown && c <= Successful
}

// Parse maps a raw status string to a Category. Anything the source reports
// besides running, failure and success (including an empty string) is Unknown.
func Parse(raw string) Category {
	switch raw {
	case RawRunning:
		return Building
	case RawFailure:
		return Failed
	case RawSuccess:
		return Successful
	default:
		return Unknown
	}
}

// Rank returns the ordering key for a category. Higher ranks sort first.
// Unrecognized values rank -1, below everything else.
func Rank(c Category) int {
	switch c {
	case Failed:
		return 3
	case Building:
		return 2
	case Unknown:
		return 1
	case Successful:
		return 0
	default:
		return -1
	}
}

// SortByRank re-sorts items in place by descending rank of the category
// returned by key. Items of equal rank keep no particular relative order.
func SortByRank[T any](items []T, key func(T) Category) {
	sort.Slice(items, func(i, j int) bool {
		return Rank(key(items[i])) > Rank(key(items[j]))
	})
}
