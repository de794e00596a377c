package core

import (
	"testing"
)

func TestContentHash(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "basic content",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := ContentHash(tt.content)
			h2 := ContentHash(tt.content)

			if h1 != h2 {
				t.Errorf("ContentHash() produced different hashes for same content: %s vs %s", h1, h2)
			}
			if len(h1) != 64 {
				t.Errorf("ContentHash() length = %d, want 64 hex chars", len(h1))
			}
		})
	}
}

func TestContentHash_Different(t *testing.T) {
	h1 := ContentHash("content1")
	h2 := ContentHash("content2")

	if h1 == h2 {
		t.Errorf("ContentHash() produced same hash for different content")
	}
}

func TestTier_RoundTrip(t *testing.T) {
	for _, tier := range []Tier{TierSapling, TierTree, TierGrove} {
		parsed, err := ParseTier(tier.String())
		if err != nil {
			t.Errorf("ParseTier(%q) error: %v", tier.String(), err)
		}
		if parsed != tier {
			t.Errorf("ParseTier(%q) = %v, want %v", tier.String(), parsed, tier)
		}
	}

	if _, err := ParseTier("bonsai"); err == nil {
		t.Errorf("ParseTier() accepted unknown tier name")
	}
}

func TestEmbeddingStatus_RoundTrip(t *testing.T) {
	statuses := []EmbeddingStatus{
		EmbeddingPending, EmbeddingProcessing, EmbeddingComplete, EmbeddingError,
	}
	for _, status := range statuses {
		parsed, err := ParseEmbeddingStatus(status.String())
		if err != nil {
			t.Errorf("ParseEmbeddingStatus(%q) error: %v", status.String(), err)
		}
		if parsed != status {
			t.Errorf("ParseEmbeddingStatus(%q) = %v, want %v", status.String(), parsed, status)
		}
	}

	if _, err := ParseEmbeddingStatus("done"); err == nil {
		t.Errorf("ParseEmbeddingStatus() accepted unknown status name")
	}
}

func TestCurationStatus_RoundTrip(t *testing.T) {
	for _, status := range []CurationStatus{CurationSuggested, CurationApproved, CurationRejected} {
		parsed, err := ParseCurationStatus(status.String())
		if err != nil {
			t.Errorf("ParseCurationStatus(%q) error: %v", status.String(), err)
		}
		if parsed != status {
			t.Errorf("ParseCurationStatus(%q) = %v, want %v", status.String(), parsed, status)
		}
	}
}

func TestEmbedding_DocumentLevel(t *testing.T) {
	docLevel := &Embedding{DocumentId: 1, ChunkId: 0}
	if !docLevel.DocumentLevel() {
		t.Errorf("expected document-level embedding")
	}

	chunkLevel := &Embedding{DocumentId: 1, ChunkId: 7}
	if chunkLevel.DocumentLevel() {
		t.Errorf("expected chunk-level embedding")
	}
}

func TestSuggestedHub_Title(t *testing.T) {
	hub := &SuggestedHub{SuggestedTitle: "Hub: Go & Concurrency"}
	if got := hub.Title(); got != "Hub: Go & Concurrency" {
		t.Errorf("Title() = %q, want suggested title", got)
	}

	hub.TitleOverride = "Concurrency Patterns"
	if got := hub.Title(); got != "Concurrency Patterns" {
		t.Errorf("Title() = %q, want override", got)
	}
}

func TestSuggestedJourney_Title(t *testing.T) {
	journey := &SuggestedJourney{SuggestedTitle: "Journey: Go & Concurrency"}
	if got := journey.Title(); got != "Journey: Go & Concurrency" {
		t.Errorf("Title() = %q, want suggested title", got)
	}

	journey.TitleOverride = "Learning Path"
	if got := journey.Title(); got != "Learning Path" {
		t.Errorf("Title() = %q, want override", got)
	}
}
