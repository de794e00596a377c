package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, generated from database
// sequences.
type ID uint64

// ContentHash computes a hex-encoded BLAKE2b-256 digest of document content.
// It is the deduplication key for ingestion: identical content always
// produces an identical hash.
func ContentHash(content string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// Tier is a coarse importance bucket attached to a document. Tiers are
// assigned by callers, never computed by the pipeline.
type Tier int

const (
	// TierSapling is the default tier for newly ingested documents.
	TierSapling Tier = iota + 1
	// TierTree marks established documents.
	TierTree
	// TierGrove marks documents anchoring a curated collection.
	TierGrove
)

func (t Tier) String() string {
	switch t {
	case TierSapling:
		return "sapling"
	case TierTree:
		return "tree"
	case TierGrove:
		return "grove"
	default:
		return "unknown"
	}
}

// ParseTier converts a tier name to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "sapling":
		return TierSapling, nil
	case "tree":
		return TierTree, nil
	case "grove":
		return TierGrove, nil
	default:
		return 0, ErrInvalidTier
	}
}

// EmbeddingStatus tracks a document through the embedding lifecycle:
// pending -> processing -> complete, with processing -> error on failure.
// Error is terminal until an operator resets the document to pending.
type EmbeddingStatus int

const (
	// EmbeddingPending means the document is waiting to be embedded.
	EmbeddingPending EmbeddingStatus = iota + 1
	// EmbeddingProcessing means embedding is in progress.
	EmbeddingProcessing
	// EmbeddingComplete means all chunk embeddings and the document-level
	// embedding have been stored.
	EmbeddingComplete
	// EmbeddingError means embedding failed; see Document.EmbeddingError.
	EmbeddingError
)

func (s EmbeddingStatus) String() string {
	switch s {
	case EmbeddingPending:
		return "pending"
	case EmbeddingProcessing:
		return "processing"
	case EmbeddingComplete:
		return "complete"
	case EmbeddingError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseEmbeddingStatus converts a status name to an EmbeddingStatus.
func ParseEmbeddingStatus(s string) (EmbeddingStatus, error) {
	switch s {
	case "pending":
		return EmbeddingPending, nil
	case "processing":
		return EmbeddingProcessing, nil
	case "complete":
		return EmbeddingComplete, nil
	case "error":
		return EmbeddingError, nil
	default:
		return 0, ErrInvalidEmbeddingStatus
	}
}

// CurationStatus is the review state of a suggested hub or journey.
type CurationStatus int

const (
	// CurationSuggested is the initial state for pipeline output.
	CurationSuggested CurationStatus = iota + 1
	// CurationApproved marks output accepted by a curator.
	CurationApproved
	// CurationRejected marks output declined by a curator.
	CurationRejected
)

func (s CurationStatus) String() string {
	switch s {
	case CurationSuggested:
		return "suggested"
	case CurationApproved:
		return "approved"
	case CurationRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseCurationStatus converts a status name to a CurationStatus.
func ParseCurationStatus(s string) (CurationStatus, error) {
	switch s {
	case "suggested":
		return CurationSuggested, nil
	case "approved":
		return CurationApproved, nil
	case "rejected":
		return CurationRejected, nil
	default:
		return 0, ErrInvalidCurationStatus
	}
}

// RunStage identifies which pipeline stage a PipelineRun records.
type RunStage int

const (
	// StageCluster is a hub-discovery clustering run.
	StageCluster RunStage = iota + 1
	// StageSynthesize is a journey-synthesis run.
	StageSynthesize
)

func (s RunStage) String() string {
	switch s {
	case StageCluster:
		return "cluster"
	case StageSynthesize:
		return "synthesize"
	default:
		return "unknown"
	}
}

// RunStatus is the lifecycle state of a PipelineRun.
type RunStatus int

const (
	// RunRunning means the run is in progress.
	RunRunning RunStatus = iota + 1
	// RunComplete means the run finished. Per-item failures may still be
	// recorded in the run's Errors.
	RunComplete
	// RunError means the run aborted.
	RunError
)

func (s RunStatus) String() string {
	switch s {
	case RunRunning:
		return "running"
	case RunComplete:
		return "complete"
	case RunError:
		return "error"
	default:
		return "unknown"
	}
}

// Document is a unit of ingested free text. Content and chunks are immutable
// after ingestion; the embedding fields are mutated by the embedding stage,
// and tier/archival by callers.
type Document struct {
	Id              ID
	Title           string
	Content         string
	ContentHash     string // BLAKE2b-256 hex digest of Content, unique per document
	Tier            Tier
	SourceType      string
	SourceURL       string
	Archived        bool
	EmbeddingStatus EmbeddingStatus
	EmbeddingError  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Chunk is an overlapping, size-bounded passage of a document, produced once
// at ingestion time and never mutated. CharStart and CharEnd are rune offsets
// into the normalized document text; Content always equals that span.
type Chunk struct {
	Id         ID
	DocumentId ID
	Index      int // 0-based, contiguous per document
	Content    string
	CharStart  int
	CharEnd    int
}

// Embedding is a stored vector for a chunk or a whole document.
// ChunkId == 0 marks the single document-level embedding.
type Embedding struct {
	DocumentId ID
	ChunkId    ID
	Vector     []float32
	Model      string
	CreatedAt  time.Time
}

// DocumentLevel reports whether this is the document-level embedding.
func (e *Embedding) DocumentLevel() bool {
	return e.ChunkId == 0
}

// DocumentMatch is one nearest-neighbor result from the store.
type DocumentMatch struct {
	Id         ID
	Title      string
	Content    string
	Similarity float32
}

// SuggestedHub is a discovered cluster of related documents, a candidate
// topic landing point. Membership is immutable once created; re-clustering
// produces new hub records. Only Status and TitleOverride change, via
// curation.
type SuggestedHub struct {
	Id             ID
	SuggestedTitle string
	TitleOverride  string
	MemberDocIds   []ID
	Centroid       []float32
	ClusterQuality float32 // mean cosine similarity of members to the centroid
	Algorithm      string
	InputDocCount  int
	Status         CurationStatus
	ComputedAt     time.Time
	UpdatedAt      time.Time
}

// Title returns the curated title override if set, otherwise the suggested
// title.
func (h *SuggestedHub) Title() string {
	if h.TitleOverride != "" {
		return h.TitleOverride
	}
	return h.SuggestedTitle
}

// SuggestedJourney is an ordered reading path through one hub's documents.
// NodeDocIds is always a permutation of the owning hub's members and is
// immutable once created.
type SuggestedJourney struct {
	Id              ID
	HubId           ID
	SuggestedTitle  string
	TitleOverride   string
	NodeDocIds      []ID
	SynthesisMethod string
	Status          CurationStatus
	ComputedAt      time.Time
	UpdatedAt       time.Time
}

// Title returns the curated title override if set, otherwise the suggested
// title.
func (j *SuggestedJourney) Title() string {
	if j.TitleOverride != "" {
		return j.TitleOverride
	}
	return j.SuggestedTitle
}

// PipelineRun is an append-only audit record of one clustering or synthesis
// invocation.
type PipelineRun struct {
	Id                 ID
	Stage              RunStage
	Status             RunStatus
	StartedAt          time.Time
	CompletedAt        time.Time
	DocumentsProcessed int
	ClustersCreated    int
	JourneysCreated    int
	Errors             []string
}

// PipelineStats summarizes the corpus for operational monitoring.
type PipelineStats struct {
	TotalDocuments   int
	ByTier           map[string]int
	ByStatus         map[string]int
	PendingEmbedding int
}
