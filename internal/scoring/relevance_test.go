package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceScoreNoMatches(t *testing.T) {
	ev := RawEvent{Title: "Local bake sale", Content: "Cookies and pies downtown."}
	score := RelevanceScore(ev, []string{"ukraine", "sanctions"}, []string{"war"})
	assert.Zero(t, score)
}

func TestRelevanceScoreWeights(t *testing.T) {
	keywords := []string{"ukraine"}
	crisis := []string{"war", "invasion"}

	tests := []struct {
		name string
		ev   RawEvent
		want int
	}{
		{
			name: "single keyword match",
			ev:   RawEvent{Title: "Ukraine grain exports resume"},
			want: 2,
		},
		{
			name: "single crisis match",
			ev:   RawEvent{Content: "Analysts warn of a wider war."},
			want: 3,
		},
		{
			name: "keyword plus two crisis terms",
			ev:   RawEvent{Title: "Ukraine war", Content: "fears of invasion grow"},
			want: 8,
		},
		{
			name: "case insensitive",
			ev:   RawEvent{Title: "UKRAINE UPDATE"},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelevanceScore(tt.ev, keywords, crisis))
		})
	}
}

func TestFilterRelevantDropsBelowMinimum(t *testing.T) {
	events := []RawEvent{
		{Title: "Ukraine ceasefire talks", URL: "https://a.example/1"},
		{Title: "Celebrity gossip roundup", URL: "https://b.example/2"},
		{Title: "Sanctions tighten", URL: "https://c.example/3"},
	}
	kept := FilterRelevant(events, []string{"ukraine", "sanctions"}, []string{"ceasefire"})

	assert.Len(t, kept, 2)
	assert.Equal(t, "https://a.example/1", kept[0].URL)
	assert.Equal(t, "https://c.example/3", kept[1].URL)
}

func TestFilterRelevantEmptyKeywordIgnored(t *testing.T) {
	events := []RawEvent{{Title: "anything at all"}}
	kept := FilterRelevant(events, []string{""}, []string{""})
	assert.Empty(t, kept)
}
