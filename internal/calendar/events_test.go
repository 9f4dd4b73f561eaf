package calendar

import (
	"reflect"
	"testing"
	"time"
)

func TestScheduledMinutes(t *testing.T) {
	base := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ev   Event
		want int
	}{
		{"exact hour", Event{Start: base, End: base.Add(60 * time.Minute)}, 60},
		{"rounds up at 30s", Event{Start: base, End: base.Add(45*time.Minute + 30*time.Second)}, 46},
		{"rounds down below 30s", Event{Start: base, End: base.Add(45*time.Minute + 29*time.Second)}, 45},
		{"end before start", Event{Start: base, End: base.Add(-10 * time.Minute)}, 0},
		{"no schedule", Event{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.ScheduledMinutes(); got != tt.want {
				t.Errorf("ScheduledMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasSchedule(t *testing.T) {
	base := time.Now()
	if (Event{Start: base, End: base.Add(time.Hour)}).HasSchedule() != true {
		t.Error("timed event should have schedule")
	}
	if (Event{Start: base}).HasSchedule() {
		t.Error("missing end should not have schedule")
	}
	if (Event{}).HasSchedule() {
		t.Error("all-day event should not have schedule")
	}
}

func TestSplitAttachments(t *testing.T) {
	tests := []struct {
		name      string
		urls      []string
		wantDocs  []string
		wantVids  []string
	}{
		{
			name: "documents and videos are separated",
			urls: []string{
				"https://docs.google.com/document/d/abc/edit",
				"https://drive.google.com/file/d/vid123/view",
			},
			wantDocs: []string{"https://docs.google.com/document/d/abc/edit"},
			wantVids: []string{"https://drive.google.com/file/d/vid123/view"},
		},
		{
			name: "file extension heuristics",
			urls: []string{
				"https://drive.google.com/open?id=1&name=notes.pdf",
				"https://drive.google.com/open?id=2&name=rec.mp4",
				"https://drive.google.com/open?id=3&name=slides.docx",
			},
			wantDocs: []string{
				"https://drive.google.com/open?id=1&name=notes.pdf",
				"https://drive.google.com/open?id=3&name=slides.docx",
			},
			wantVids: []string{"https://drive.google.com/open?id=2&name=rec.mp4"},
		},
		{
			name: "non-google links are dropped",
			urls: []string{
				"https://example.com/file/d/abc",
				"https://zoom.us/rec/share/xyz.mp4",
			},
		},
		{
			name: "empty and unclassifiable entries are dropped",
			urls: []string{"", "https://drive.google.com/drive/folders/xyz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, vids := SplitAttachments(tt.urls)
			if !reflect.DeepEqual(docs, tt.wantDocs) {
				t.Errorf("documents = %v, want %v", docs, tt.wantDocs)
			}
			if !reflect.DeepEqual(vids, tt.wantVids) {
				t.Errorf("videos = %v, want %v", vids, tt.wantVids)
			}
		})
	}
}
