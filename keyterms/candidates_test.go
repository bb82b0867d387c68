package keyterms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCandidates(t *testing.T) {
	t.Parallel()
	stops := NewStopwordSet(nil)

	tests := []struct {
		name       string
		normalized string
		maxLen     int
		want       []string
	}{
		{
			name:       "stopwords delimit phrases",
			normalized: "the quick brown fox jumps over the lazy dog",
			maxLen:     3,
			want: []string{
				"quick", "quick brown", "quick brown fox",
				"brown", "brown fox", "brown fox jumps",
				"fox", "fox jumps",
				"jumps",
				"lazy", "lazy dog",
				"dog",
			},
		},
		{
			name:       "single content word",
			normalized: "the keyboard",
			maxLen:     3,
			want:       []string{"keyboard"},
		},
		{
			name:       "all stopwords produce nothing",
			normalized: "the is a of and",
			maxLen:     3,
			want:       nil,
		},
		{
			name:       "phrase length cap",
			normalized: "deep neural network training",
			maxLen:     2,
			want: []string{
				"deep", "deep neural",
				"neural", "neural network",
				"network", "network training",
				"training",
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := GenerateCandidates(tt.normalized, stops, tt.maxLen)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateCandidatesDuplicatesAllowed(t *testing.T) {
	t.Parallel()
	stops := NewStopwordSet(nil)

	got := GenerateCandidates("cats and cats", stops, 2)
	assert.Equal(t, []string{"cats", "cats"}, got)
}

func TestFilterCandidates(t *testing.T) {
	t.Parallel()
	stops := NewStopwordSet(DefaultSupplement())

	in := []string{
		"machine learning",
		"via",   // supplement stopword
		"x",     // below minimum length
		"--",    // no alphanumeric content
		"ai",    // short but valid
		"  ",    // whitespace only
		"the",   // base stopword
		"model", // valid
	}
	got := FilterCandidates(in, stops)
	assert.Equal(t, []string{"machine learning", "ai", "model"}, got)
}

func TestStopwordSet(t *testing.T) {
	t.Parallel()

	base := NewStopwordSet(nil)
	assert.True(t, base.Contains("the"))
	assert.True(t, base.Contains("because"))
	assert.False(t, base.Contains("via"))

	extended := NewStopwordSet([]string{"Via", " skip ", ""})
	assert.True(t, extended.Contains("via"))
	assert.True(t, extended.Contains("skip"))
	assert.Equal(t, base.Len()+2, extended.Len())
}
