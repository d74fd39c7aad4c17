package server

import (
	"strconv"
	"strings"
)

// rangeOutcome is the byte-serving decision for one request.
type rangeOutcome int

const (
	// rangeFull serves the whole object with status 200.
	rangeFull rangeOutcome = iota
	// rangePartial serves [start, end] with status 206.
	rangePartial
	// rangeUnsatisfiable answers 416 with Content-Range: bytes */length.
	rangeUnsatisfiable
)

// byteRange is an inclusive byte window within an object.
type byteRange struct {
	start int64
	end   int64
}

func (r byteRange) length() int64 { return r.end - r.start + 1 }

// resolveRequestRange turns a raw Range header value into a serving
// decision for an object of the given length and content type.
//
// Only audio and video honor byte serving; other content types ignore the
// header and serve full content. Only the single-range explicit-start form
// bytes=start-end (end optional) is parsed; multi-range and suffix
// (bytes=-n) requests are ignored rather than rejected, which downgrades
// them to a full response. A parsed range is satisfiable only when
// 0 <= start <= end < length; anything else is answered 416, never
// clamped.
func resolveRequestRange(header string, length int64, contentType string) (rangeOutcome, byteRange) {
	full := byteRange{start: 0, end: length - 1}

	header = strings.TrimSpace(header)
	if header == "" || !byteServable(contentType) {
		return rangeFull, full
	}

	start, end, ok := parseSingleRange(header)
	if !ok {
		return rangeFull, full
	}
	if end < 0 {
		end = length - 1
	}
	if start >= length || end >= length || start > end {
		return rangeUnsatisfiable, byteRange{}
	}
	return rangePartial, byteRange{start: start, end: end}
}

// byteServable reports whether a content type participates in byte
// serving.
func byteServable(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(contentType, "audio/") || strings.HasPrefix(contentType, "video/")
}

// parseSingleRange parses "bytes=start-end" with an optional end. The
// returned end is -1 when omitted. ok is false for anything else: other
// units, multi-range lists, suffix ranges, or garbage.
func parseSingleRange(header string) (start, end int64, ok bool) {
	spec, found := strings.CutPrefix(header, "bytes=")
	if !found || strings.Contains(spec, ",") {
		return 0, 0, false
	}

	startRaw, endRaw, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}
	startRaw = strings.TrimSpace(startRaw)
	endRaw = strings.TrimSpace(endRaw)
	if startRaw == "" {
		// Suffix form; not honored.
		return 0, 0, false
	}

	start, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, false
	}
	if endRaw == "" {
		return start, -1, true
	}
	end, err = strconv.ParseInt(endRaw, 10, 64)
	if err != nil || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}
