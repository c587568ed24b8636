package pipeline

import (
	"strings"
	"testing"
)

func seg(index int, start, end float64) Segment {
	return Segment{Index: index, Start: start, End: end, Extracted: true}
}

func TestMerge_OrderInvariantUnderCompletionOrder(t *testing.T) {
	results := []Result{
		{Segment: seg(1, 0, 1800), Text: "first"},
		{Segment: seg(2, 1800, 3600), Text: "second"},
		{Segment: seg(3, 3600, 4500), Text: "third"},
	}
	permutations := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}, {2, 0, 1}}

	var reference string
	for i, perm := range permutations {
		shuffled := make([]Result, len(results))
		for j, idx := range perm {
			shuffled[j] = results[idx]
		}
		merged := Merge(shuffled)
		if i == 0 {
			reference = merged.Text
			continue
		}
		if merged.Text != reference {
			t.Errorf("permutation %v produced different output:\n%s\nwant:\n%s", perm, merged.Text, reference)
		}
	}

	if !strings.HasPrefix(reference, "first") {
		t.Errorf("merged text does not start with the earliest segment: %q", reference)
	}
	if strings.Index(reference, "second") > strings.Index(reference, "third") {
		t.Errorf("segments out of offset order: %q", reference)
	}
}

func TestMerge_SingleSegmentUnadorned(t *testing.T) {
	merged := Merge([]Result{{Segment: seg(1, 0, 600), Text: " hello there "}})
	if merged.Text != "hello there" {
		t.Errorf("got %q", merged.Text)
	}
	if strings.Contains(merged.Text, "--- Block") {
		t.Errorf("sole segment must not carry a delimiter: %q", merged.Text)
	}
}

func TestMerge_DelimiterBeforeNonFirstBlocksOnly(t *testing.T) {
	merged := Merge([]Result{
		{Segment: seg(1, 0, 1800), Text: "part one"},
		{Segment: seg(2, 1800, 2700), Text: "part two"},
	})
	if strings.Count(merged.Text, "--- Block") != 1 {
		t.Fatalf("expected exactly one delimiter, got: %q", merged.Text)
	}
	if !strings.Contains(merged.Text, "--- Block 2 (1800s - 2700s) ---") {
		t.Errorf("missing delimiter for block 2: %q", merged.Text)
	}
	if !strings.HasPrefix(merged.Text, "part one") {
		t.Errorf("block 1 must be unprefixed: %q", merged.Text)
	}
}

func TestMerge_MissingMiddleSegmentKeepsLabels(t *testing.T) {
	// Segment 2 failed and produced no result.
	merged := Merge([]Result{
		{Segment: seg(3, 3600, 4500), Text: "third"},
		{Segment: seg(1, 0, 1800), Text: "first"},
	})
	if len(merged.Results) != 2 {
		t.Fatalf("expected 2 contributing results, got %d", len(merged.Results))
	}
	if merged.Results[0].Segment.Index != 1 || merged.Results[1].Segment.Index != 3 {
		t.Errorf("result order: %d, %d", merged.Results[0].Segment.Index, merged.Results[1].Segment.Index)
	}
	if !strings.Contains(merged.Text, "--- Block 3 (3600s - 4500s) ---") {
		t.Errorf("surviving segment renumbered or mislabeled: %q", merged.Text)
	}
	if strings.Contains(merged.Text, "Block 2") {
		t.Errorf("failed segment must not appear: %q", merged.Text)
	}
}

func TestMerge_AllFailedYieldsEmpty(t *testing.T) {
	merged := Merge(nil)
	if merged.Text != "" || len(merged.Results) != 0 {
		t.Errorf("expected empty merge, got %+v", merged)
	}
}

func TestMerge_BlankTextDropped(t *testing.T) {
	merged := Merge([]Result{
		{Segment: seg(1, 0, 1800), Text: "   "},
		{Segment: seg(2, 1800, 3600), Text: "real content"},
	})
	if len(merged.Results) != 1 {
		t.Fatalf("blank result not dropped: %+v", merged.Results)
	}
	if merged.Text != "real content" {
		t.Errorf("got %q", merged.Text)
	}
}
