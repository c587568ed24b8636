package pipeline

import (
	"math"
	"path/filepath"
	"testing"
)

func TestPlan_ShortFileSingleSegment(t *testing.T) {
	for _, d := range []float64{0, 1, 600, 1799.5, 1800} {
		segs := Plan(AudioFile{Path: "/a/talk.mp3", Duration: d}, 1800)
		if len(segs) != 1 {
			t.Fatalf("duration %v: expected 1 segment, got %d", d, len(segs))
		}
		seg := segs[0]
		if seg.Index != 1 || seg.Start != 0 || seg.End != d {
			t.Errorf("duration %v: got segment %+v", d, seg)
		}
		if seg.Extracted {
			t.Errorf("duration %v: single segment must not require extraction", d)
		}
		if seg.Path != "/a/talk.mp3" {
			t.Errorf("duration %v: single segment path = %s, want original", d, seg.Path)
		}
	}
}

func TestPlan_LongFileTilesExactly(t *testing.T) {
	cases := []struct {
		duration  float64
		threshold float64
		want      int
	}{
		{2700, 1800, 2},
		{3600, 1800, 2},
		{3601, 1800, 3},
		{7265.3, 1800, 5},
	}
	for _, tc := range cases {
		segs := Plan(AudioFile{Path: "/a/talk.mp3", Duration: tc.duration}, tc.threshold)
		if len(segs) != tc.want {
			t.Fatalf("duration %v: expected %d segments, got %d", tc.duration, tc.want, len(segs))
		}
		if segs[0].Start != 0 {
			t.Errorf("first segment starts at %v, want 0", segs[0].Start)
		}
		for i, seg := range segs {
			if seg.Index != i+1 {
				t.Errorf("segment %d has index %d", i, seg.Index)
			}
			if !seg.Extracted {
				t.Errorf("segment %d of a split file must require extraction", seg.Index)
			}
			if i > 0 && segs[i-1].End != seg.Start {
				t.Errorf("gap between segment %d end %v and segment %d start %v",
					i, segs[i-1].End, i+1, seg.Start)
			}
			if length := seg.End - seg.Start; length <= 0 || length > tc.threshold {
				t.Errorf("segment %d length %v out of (0, %v]", seg.Index, length, tc.threshold)
			}
		}
		if last := segs[len(segs)-1]; last.End != tc.duration {
			t.Errorf("last segment ends at %v, want %v", last.End, tc.duration)
		}
	}
}

func TestPlan_FinalPartialStrideKept(t *testing.T) {
	segs := Plan(AudioFile{Path: "/a/talk.mp3", Duration: 1900}, 1800)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	last := segs[1]
	if got := last.End - last.Start; math.Abs(got-100) > 1e-9 {
		t.Errorf("final segment length %v, want 100", got)
	}
}

func TestPlan_SegmentPathsZeroPadded(t *testing.T) {
	segs := Plan(AudioFile{Path: filepath.Join("some", "dir", "ep.m4a"), Duration: 5400}, 1800)
	want := []string{
		filepath.Join("some", "dir", "001.m4a"),
		filepath.Join("some", "dir", "002.m4a"),
		filepath.Join("some", "dir", "003.m4a"),
	}
	for i, seg := range segs {
		if seg.Path != want[i] {
			t.Errorf("segment %d path = %s, want %s", seg.Index, seg.Path, want[i])
		}
	}
}
