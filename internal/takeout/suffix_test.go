package takeout_test

import (
	"testing"

	"mediamend/internal/takeout"
)

func TestParseSuffixPlacements(t *testing.T) {
	cases := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"IMG_3136(1).MOV", 1, true},
		{"IMG_3136.MOV(1)", 1, true},
		{"IMG_0042(15).jpg", 15, true},
		{"PXL_20210818(999).mp4", 999, true},
		{"IMG_0042(0).jpg", 0, true},
		{"IMG_3136.MOV", 0, false},
		{"holiday(2020).jpg", 0, false},
		{"holiday(12345).jpg", 0, false},
		{"holiday.jpg(2020)", 0, false},
		{"(2).json", 0, false},
		{"noextension", 0, false},
	}
	for _, tc := range cases {
		got, ok := takeout.ParseSuffix(tc.name)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseSuffix(%q) = %d, %v; want %d, %v", tc.name, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestParseSuffixUsesLastParenGroup(t *testing.T) {
	got, ok := takeout.ParseSuffix("trip(2020)(3).jpg")
	if !ok || got != 3 {
		t.Fatalf("ParseSuffix = %d, %v; want 3, true", got, ok)
	}
}

func TestSplitSuffix(t *testing.T) {
	base, n, ok := takeout.SplitSuffix("IMG_3136(1).MOV")
	if !ok || n != 1 || base != "IMG_3136.MOV" {
		t.Fatalf("SplitSuffix before-ext = %q, %d, %v", base, n, ok)
	}
	base, n, ok = takeout.SplitSuffix("IMG_3136.MOV(2)")
	if !ok || n != 2 || base != "IMG_3136.MOV" {
		t.Fatalf("SplitSuffix after-ext = %q, %d, %v", base, n, ok)
	}
	base, _, ok = takeout.SplitSuffix("IMG_3136.MOV")
	if ok || base != "IMG_3136.MOV" {
		t.Fatalf("SplitSuffix without suffix = %q, %v", base, ok)
	}
}

func TestSuffixSpellings(t *testing.T) {
	if got := takeout.InsertSuffix("IMG_3136.MOV", 1); got != "IMG_3136(1).MOV" {
		t.Errorf("InsertSuffix = %q", got)
	}
	if got := takeout.AppendSuffix("IMG_3136.MOV", 1); got != "IMG_3136.MOV(1)" {
		t.Errorf("AppendSuffix = %q", got)
	}
	if got := takeout.InsertSuffix("noextension", 2); got != "noextension(2)" {
		t.Errorf("InsertSuffix without extension = %q", got)
	}
}

func TestParseMediaFile(t *testing.T) {
	m := takeout.ParseMediaFile("/workbench/Takeout/Photos/IMG_3136(1).MOV")
	if m.Name != "IMG_3136(1).MOV" || m.Stem != "IMG_3136" || m.Ext != ".MOV" {
		t.Fatalf("unexpected components: %+v", m)
	}
	if !m.HasSuffix || m.Suffix != 1 {
		t.Fatalf("expected suffix 1, got %+v", m)
	}
	if got := m.DirBase(); got != "IMG_3136(1)" {
		t.Errorf("DirBase = %q", got)
	}

	plain := takeout.ParseMediaFile("/workbench/IMG_0042.jpg")
	if plain.HasSuffix {
		t.Fatalf("unexpected suffix: %+v", plain)
	}
	if got := plain.DirBase(); got != "IMG_0042" {
		t.Errorf("DirBase = %q", got)
	}
}
