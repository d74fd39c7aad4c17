package models

import "testing"

func TestParseMediaKind(t *testing.T) {
	cases := []struct {
		raw     string
		want    MediaKind
		wantErr bool
	}{
		{"song", MediaKindSong, false},
		{" Video ", MediaKindVideo, false},
		{"PHOTO", MediaKindPhoto, false},
		{"", "", true},
		{"podcast", "", true},
	}
	for _, tc := range cases {
		got, err := ParseMediaKind(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMediaKind(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMediaKind(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMediaKind(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeObjectRef(t *testing.T) {
	cases := []struct {
		objectID, legacyPath, want string
	}{
		{"65b2f1c09d1e4a0001aabbcc", "", "/files/65b2f1c09d1e4a0001aabbcc"},
		{"65b2f1c09d1e4a0001aabbcc", "/static/covers/old.jpg", "/files/65b2f1c09d1e4a0001aabbcc"},
		{"", "/static/covers/old.jpg", "/static/covers/old.jpg"},
		{"", "", ""},
		{"  ", "  ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeObjectRef(tc.objectID, tc.legacyPath); got != tc.want {
			t.Fatalf("NormalizeObjectRef(%q, %q) = %q, want %q", tc.objectID, tc.legacyPath, got, tc.want)
		}
	}
}

func TestMediaItemURLs(t *testing.T) {
	item := MediaItem{
		ObjectID:  "65b2f1c09d1e4a0001aabbcc",
		CoverPath: "/static/covers/legacy.png",
	}
	if got := item.ContentURL(); got != "/files/65b2f1c09d1e4a0001aabbcc" {
		t.Fatalf("ContentURL = %q", got)
	}
	if got := item.CoverURL(); got != "/static/covers/legacy.png" {
		t.Fatalf("CoverURL = %q", got)
	}

	item.CoverObjectID = "65b2f1c09d1e4a0001ddeeff"
	if got := item.CoverURL(); got != "/files/65b2f1c09d1e4a0001ddeeff" {
		t.Fatalf("CoverURL with object id = %q", got)
	}
}
