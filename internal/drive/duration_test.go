package drive

import (
	"context"
	"errors"
	"testing"
)

type fakeStrategy struct {
	name      string
	durations map[string]int64
	err       error
	calls     []string
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) VideoDurationMillis(_ context.Context, fileID string) (int64, error) {
	f.calls = append(f.calls, fileID)
	if f.err != nil {
		return 0, f.err
	}
	return f.durations[fileID], nil
}

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://drive.google.com/file/d/1AbC_d-9xyz/view", "1AbC_d-9xyz"},
		{"https://drive.google.com/file/d/abc123", "abc123"},
		{"https://docs.google.com/document/d/abc/edit", ""},
		{"https://drive.google.com/open?id=abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractFileID(tt.url); got != tt.want {
			t.Errorf("ExtractFileID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestResolveTakesMaxAcrossFiles(t *testing.T) {
	st := &fakeStrategy{name: "direct", durations: map[string]int64{
		"short": 10 * 60_000,
		"long":  52*60_000 + 14_000,
	}}
	r := NewResolver(st)

	minutes, ok := r.Resolve(context.Background(), []string{
		"https://drive.google.com/file/d/short/view",
		"https://drive.google.com/file/d/long/view",
	}, 60)
	if !ok {
		t.Fatal("expected a measurement")
	}
	// 52m14s rounds to 52.
	if minutes != 52 {
		t.Errorf("minutes = %d, want 52", minutes)
	}
}

func TestResolveRounding(t *testing.T) {
	tests := []struct {
		millis int64
		want   int
	}{
		{52*60_000 + 29_999, 52},
		{52*60_000 + 30_000, 53},
		{60_000, 1},
		{29_999, 0},
	}
	for _, tt := range tests {
		st := &fakeStrategy{name: "direct", durations: map[string]int64{"f": tt.millis}}
		minutes, ok := NewResolver(st).Resolve(context.Background(),
			[]string{"https://drive.google.com/file/d/f/view"}, 0)
		if tt.want == 0 {
			// Sub-30s measurements round to zero and count as no measurement.
			continue
		}
		if !ok || minutes != tt.want {
			t.Errorf("Resolve(%d millis) = %d,%v, want %d,true", tt.millis, minutes, ok, tt.want)
		}
	}
}

func TestResolveStrategyFallthrough(t *testing.T) {
	failing := &fakeStrategy{name: "delegated", err: errors.New("permission denied")}
	working := &fakeStrategy{name: "direct", durations: map[string]int64{"vid": 30 * 60_000}}
	r := NewResolver(failing, working)

	minutes, ok := r.Resolve(context.Background(),
		[]string{"https://drive.google.com/file/d/vid/view"}, 45)
	if !ok || minutes != 30 {
		t.Fatalf("Resolve = %d,%v, want 30,true", minutes, ok)
	}
	if len(failing.calls) != 1 || len(working.calls) != 1 {
		t.Errorf("strategy calls: delegated=%d direct=%d, want 1 each", len(failing.calls), len(working.calls))
	}
}

func TestResolveFirstSuccessStopsChain(t *testing.T) {
	first := &fakeStrategy{name: "delegated", durations: map[string]int64{"vid": 20 * 60_000}}
	second := &fakeStrategy{name: "direct", durations: map[string]int64{"vid": 99 * 60_000}}
	r := NewResolver(first, second)

	minutes, _ := r.Resolve(context.Background(),
		[]string{"https://drive.google.com/file/d/vid/view"}, 0)
	if minutes != 20 {
		t.Errorf("minutes = %d, want 20 from the first strategy", minutes)
	}
	if len(second.calls) != 0 {
		t.Error("second strategy should not be consulted after a success")
	}
}

func TestResolveRecordingFallback(t *testing.T) {
	failing := &fakeStrategy{name: "direct", err: errors.New("not found")}
	r := NewResolver(failing)

	minutes, ok := r.Resolve(context.Background(),
		[]string{"https://drive.google.com/file/d/vid/view?name=Recording+2025-07-16.mp4"}, 60)
	if !ok || minutes != 60 {
		t.Errorf("Resolve = %d,%v, want scheduled fallback 60,true", minutes, ok)
	}
}

func TestResolveNoMeasurementNoRecording(t *testing.T) {
	failing := &fakeStrategy{name: "direct", err: errors.New("not found")}
	r := NewResolver(failing)

	minutes, ok := r.Resolve(context.Background(),
		[]string{"https://drive.google.com/file/d/vid/view"}, 60)
	if ok || minutes != 0 {
		t.Errorf("Resolve = %d,%v, want 0,false", minutes, ok)
	}

	if _, ok := r.Resolve(context.Background(), nil, 60); ok {
		t.Error("no URLs must yield no measurement")
	}
}
