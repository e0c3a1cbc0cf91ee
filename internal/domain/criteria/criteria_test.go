package criteria

import (
	"reflect"
	"testing"
)

func TestMergeKeywords_DedupCaseInsensitive(t *testing.T) {
	c := New([]string{"Minimal", "Luxe"}, []string{"Cream"}, []string{"Carpet"}, nil)

	merged := c.MergeKeywords([]string{"minimal", "Organic", "LUXE", "Organic"})

	want := []string{"Minimal", "Luxe", "Organic"}
	if !reflect.DeepEqual(merged.Keywords(), want) {
		t.Errorf("Keywords() = %v, want %v", merged.Keywords(), want)
	}
}

func TestMergeKeywords_DoesNotMutateReceiver(t *testing.T) {
	c := New([]string{"Minimal"}, nil, nil, nil)

	_ = c.MergeKeywords([]string{"Organic"})

	if len(c.Keywords()) != 1 {
		t.Errorf("receiver mutated: %v", c.Keywords())
	}
}

func TestNormalizeKeywordInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "  ,  , ", []string{}},
		{"trims and splits", " modern , warm wood ,cozy", []string{"modern", "warm wood", "cozy"}},
		{"dedups case-insensitive", "Modern,modern,MODERN", []string{"Modern"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeywordInput(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeKeywordInput(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	empty := New(nil, nil, nil, nil)
	if !empty.IsEmpty() {
		t.Error("expected empty criteria")
	}

	withPerf := New(nil, nil, nil, []string{"Outdoor"})
	if withPerf.IsEmpty() {
		t.Error("criteria with performance only is not empty")
	}
}
