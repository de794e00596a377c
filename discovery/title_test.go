package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestHubTitle(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{
			name:   "no titles",
			titles: nil,
			want:   "Untitled Hub",
		},
		{
			name:   "no shared terms falls back to first title",
			titles: []string{"Raft consensus", "Skip lists", "Bloom filters"},
			want:   "Hub: Raft consensus",
		},
		{
			name:   "shared terms ordered by frequency",
			titles: []string{"Graph pruning basics", "Advanced graph pruning", "Pruning large graphs"},
			want:   "Hub: Pruning & Graph",
		},
		{
			name:   "stop words and short tokens excluded",
			titles: []string{"The Go Runtime", "A Go Runtime Story"},
			want:   "Hub: Runtime",
		},
		{
			name:   "ties broken by first seen order",
			titles: []string{"alpha beta", "alpha beta"},
			want:   "Hub: Alpha & Beta",
		},
		{
			name:   "only first three titles contribute",
			titles: []string{"compaction levels", "write amplification", "read amplification", "compaction tuning"},
			want:   "Hub: Amplification",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestHubTitle(tt.titles))
		})
	}
}

func TestJourneyTitle(t *testing.T) {
	assert.Equal(t, "Journey: graph pruning", journeyTitle("Hub: graph pruning"))
	assert.Equal(t, "Journey: Distributed Systems", journeyTitle("Distributed Systems"))
}
