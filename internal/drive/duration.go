// Package drive resolves the actual length of a meeting from its recording
// files. Measurement is strictly best-effort: every lookup failure is
// logged and swallowed, and the caller falls back to the scheduled length.
package drive

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// fileIDPattern matches the file identifier inside a Drive file URL,
// e.g. https://drive.google.com/file/d/<id>/view.
var fileIDPattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// ExtractFileID pulls the provider file id out of a Drive URL. Returns ""
// when the URL has a different shape.
func ExtractFileID(url string) string {
	m := fileIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// Strategy is one credential identity able to read video metadata.
// Strategies are tried in order; any error falls through to the next.
type Strategy interface {
	Name() string
	// VideoDurationMillis returns the measured media duration of the file,
	// or 0 when the file carries no video metadata.
	VideoDurationMillis(ctx context.Context, fileID string) (int64, error)
}

// Resolver computes a best-effort actual meeting duration from recording
// URLs using an ordered chain of credential strategies.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the measured duration in whole minutes and true when a
// recording yields one. When no measurement succeeds but some URL names a
// "Recording" artifact, the scheduled duration is returned as the best
// estimate: the recording proves the meeting happened even if its length
// cannot be read. Otherwise ok is false.
func (r *Resolver) Resolve(ctx context.Context, videoURLs []string, scheduledMinutes int) (minutes int, ok bool) {
	if len(videoURLs) == 0 {
		return 0, false
	}

	var maxMillis int64
	for _, url := range videoURLs {
		fileID := ExtractFileID(url)
		if fileID == "" {
			continue
		}
		for _, st := range r.strategies {
			millis, err := st.VideoDurationMillis(ctx, fileID)
			if err != nil {
				log.Printf("duration lookup via %s failed for file %s: %v", st.Name(), fileID, err)
				continue
			}
			if millis > maxMillis {
				maxMillis = millis
			}
			break
		}
	}
	if maxMillis > 0 {
		return roundMillisToMinutes(maxMillis), true
	}

	for _, url := range videoURLs {
		if strings.Contains(url, "Recording") {
			return scheduledMinutes, true
		}
	}
	return 0, false
}

func roundMillisToMinutes(millis int64) int {
	return int((millis + 30_000) / 60_000)
}
