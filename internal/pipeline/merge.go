package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Result is one segment's completed transcription. Failed segments have no
// Result at all; failure is represented by omission.
type Result struct {
	Segment     Segment
	Text        string
	CompletedAt time.Time
}

// Merged is the offset-ordered concatenation of a batch's results.
type Merged struct {
	// Text is the full merged transcript. Empty when every segment failed.
	Text string
	// Results holds the contributing results sorted by start offset.
	Results []Result
}

// Merge orders results by original start offset and concatenates their
// text. With more than one contributing segment, a block delimiter is
// interleaved before each non-first segment's text; a sole segment's text
// is emitted unadorned. Completion order has no effect on the output.
func Merge(results []Result) Merged {
	sorted := make([]Result, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Text) != "" {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Segment.Start < sorted[j].Segment.Start
	})

	var b strings.Builder
	for i, r := range sorted {
		if i > 0 {
			// Blocks keep their original plan index, so a missing middle
			// segment never renumbers its successors.
			fmt.Fprintf(&b, "\n\n--- Block %d (%.0fs - %.0fs) ---\n",
				r.Segment.Index, r.Segment.Start, r.Segment.End)
		}
		b.WriteString(strings.TrimSpace(r.Text))
	}

	return Merged{
		Text:    strings.TrimSpace(b.String()),
		Results: sorted,
	}
}
