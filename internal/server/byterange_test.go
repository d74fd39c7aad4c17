package server

import "testing"

func TestParseSingleRange(t *testing.T) {
	tests := []struct {
		name   string
		header string
		start  int64
		end    int64
		ok     bool
	}{
		{name: "explicit range", header: "bytes=0-99", start: 0, end: 99, ok: true},
		{name: "open ended", header: "bytes=500-", start: 500, end: -1, ok: true},
		{name: "single byte", header: "bytes=7-7", start: 7, end: 7, ok: true},
		{name: "spaces tolerated", header: "bytes= 10 - 20 ", start: 10, end: 20, ok: true},
		{name: "suffix form ignored", header: "bytes=-500", ok: false},
		{name: "multi range ignored", header: "bytes=0-1,5-9", ok: false},
		{name: "wrong unit", header: "items=0-99", ok: false},
		{name: "no dash", header: "bytes=100", ok: false},
		{name: "garbage start", header: "bytes=abc-5", ok: false},
		{name: "garbage end", header: "bytes=0-xyz", ok: false},
		{name: "empty", header: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end, ok := parseSingleRange(tc.header)
			if ok != tc.ok {
				t.Fatalf("parseSingleRange(%q) ok = %v, want %v", tc.header, ok, tc.ok)
			}
			if !ok {
				return
			}
			if start != tc.start || end != tc.end {
				t.Fatalf("parseSingleRange(%q) = (%d, %d), want (%d, %d)", tc.header, start, end, tc.start, tc.end)
			}
		})
	}
}

func TestResolveRequestRange(t *testing.T) {
	const audio = "audio/mpeg"

	tests := []struct {
		name        string
		header      string
		length      int64
		contentType string
		outcome     rangeOutcome
		start       int64
		end         int64
	}{
		{name: "no header full", header: "", length: 100, contentType: audio, outcome: rangeFull, start: 0, end: 99},
		{name: "partial window", header: "bytes=10-19", length: 100, contentType: audio, outcome: rangePartial, start: 10, end: 19},
		{name: "open ended to last byte", header: "bytes=90-", length: 100, contentType: audio, outcome: rangePartial, start: 90, end: 99},
		{name: "full object as range", header: "bytes=0-99", length: 100, contentType: audio, outcome: rangePartial, start: 0, end: 99},
		{name: "start at length", header: "bytes=100-", length: 100, contentType: audio, outcome: rangeUnsatisfiable},
		{name: "end past length", header: "bytes=0-100", length: 100, contentType: audio, outcome: rangeUnsatisfiable},
		{name: "inverted", header: "bytes=50-10", length: 100, contentType: audio, outcome: rangeUnsatisfiable},
		{name: "empty object any range", header: "bytes=0-", length: 0, contentType: audio, outcome: rangeUnsatisfiable},
		{name: "malformed downgraded to full", header: "bytes=oops", length: 100, contentType: audio, outcome: rangeFull, start: 0, end: 99},
		{name: "suffix downgraded to full", header: "bytes=-10", length: 100, contentType: audio, outcome: rangeFull, start: 0, end: 99},
		{name: "multi downgraded to full", header: "bytes=0-1,2-3", length: 100, contentType: audio, outcome: rangeFull, start: 0, end: 99},
		{name: "video honored", header: "bytes=0-0", length: 100, contentType: "video/mp4", outcome: rangePartial, start: 0, end: 0},
		{name: "image ignores range", header: "bytes=0-0", length: 100, contentType: "image/jpeg", outcome: rangeFull, start: 0, end: 99},
		{name: "json ignores range", header: "bytes=0-0", length: 100, contentType: "application/json", outcome: rangeFull, start: 0, end: 99},
		{name: "empty content type ignores range", header: "bytes=0-0", length: 100, contentType: "", outcome: rangeFull, start: 0, end: 99},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcome, window := resolveRequestRange(tc.header, tc.length, tc.contentType)
			if outcome != tc.outcome {
				t.Fatalf("outcome = %v, want %v", outcome, tc.outcome)
			}
			if outcome == rangeUnsatisfiable {
				return
			}
			if window.start != tc.start || window.end != tc.end {
				t.Fatalf("window = [%d, %d], want [%d, %d]", window.start, window.end, tc.start, tc.end)
			}
		})
	}
}

func TestByteServable(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"audio/mpeg", true},
		{"video/mp4", true},
		{"AUDIO/FLAC", true},
		{"image/png", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := byteServable(tc.contentType); got != tc.want {
			t.Errorf("byteServable(%q) = %v, want %v", tc.contentType, got, tc.want)
		}
	}
}
