package tasks

import (
	"fmt"

	"github.com/desertthunder/shelf/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadSource Phase = iota
	SaveItems
	CoverPhase
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case ReadSource:
		return "read_source"
	case SaveItems:
		return "save_items"
	case CoverPhase:
		return "fetch_covers"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// channel full, drop the update
	}
}

func readingSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reading %s...", name),
	}
}

func foundRowsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d records", total),
		Data:    total,
	}
}

func itemSavedUpdate(step, total int, it *models.Item, created bool) ProgressUpdate {
	verb := "Updated"
	if created {
		verb = "Added"
	}
	return ProgressUpdate{
		Phase:   SaveItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s (%s)", step, total, verb, it.Title, it.Status.Label()),
		Data:    it,
	}
}

func itemFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %v", step, total, err),
	}
}

func coverUpdate(step, total int, res CoverResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title)
	if res.Error != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Error)
	}
	return ProgressUpdate{
		Phase:   CoverPhase,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func exportWrittenUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %d items to %s", count, path),
		Data:    path,
	}
}
