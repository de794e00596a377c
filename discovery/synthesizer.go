// Copyright 2026 Arbor Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
)

const synthesisMethod = "nearest-neighbor"

// SynthesizeOptions control a journey synthesis run.
type SynthesizeOptions struct {
	// IncludeSuggested also synthesizes journeys for hubs still awaiting
	// curation. By default only approved hubs are used.
	IncludeSuggested bool
}

// SynthesizeResult summarizes a synthesis run.
type SynthesizeResult struct {
	JourneysCreated int
	RunId           core.ID
}

// Synthesizer orders hub members into suggested reading journeys.
type Synthesizer struct {
	embeddings storage.EmbeddingRepository
	hubs       storage.HubRepository
	journeys   storage.JourneyRepository
	runs       storage.RunRepository
	logger     *slog.Logger
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSynthesizerLogger sets the logger.
func WithSynthesizerLogger(logger *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// NewSynthesizer creates a synthesizer over the given repositories.
func NewSynthesizer(embeddings storage.EmbeddingRepository, hubs storage.HubRepository, journeys storage.JourneyRepository, runs storage.RunRepository, opts ...SynthesizerOption) (*Synthesizer, error) {
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if hubs == nil {
		return nil, ErrHubRepositoryRequired
	}
	if journeys == nil {
		return nil, ErrJourneyRepositoryRequired
	}
	if runs == nil {
		return nil, ErrRunRepositoryRequired
	}

	s := &Synthesizer{
		embeddings: embeddings,
		hubs:       hubs,
		journeys:   journeys,
		runs:       runs,
		logger:     slog.Default().With("component", "synthesizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SynthesizeJourneys creates one suggested journey per eligible hub and
// records the pass as a PipelineRun. A hub is eligible when at least two of
// its members have document-level embeddings. Hubs below that bar are skipped
// without error; individual journey write failures are recorded in the run's
// errors without aborting the pass.
func (s *Synthesizer) SynthesizeJourneys(ctx context.Context, opts *SynthesizeOptions) (*SynthesizeResult, error) {
	if opts == nil {
		opts = &SynthesizeOptions{}
	}

	run, err := s.runs.StartRun(ctx, core.StageSynthesize)
	if err != nil {
		return nil, fmt.Errorf("starting synthesis run: %w", err)
	}

	statuses := []core.CurationStatus{core.CurationApproved}
	if opts.IncludeSuggested {
		statuses = append(statuses, core.CurationSuggested)
	}

	hubs, err := s.hubs.ListHubs(ctx, statuses...)
	if err != nil {
		return nil, s.failRun(ctx, run, fmt.Errorf("listing hubs: %w", err))
	}

	created := 0
	for _, hub := range hubs {
		path, ok, err := s.orderMembers(ctx, hub)
		if err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("hub %d: %v", hub.Id, err))
			s.logger.Warn("failed to order hub members", "hub", hub.Id, "error", err)
			continue
		}
		if !ok {
			s.logger.Debug("hub has too few embedded members, skipping", "hub", hub.Id)
			continue
		}

		journey := &core.SuggestedJourney{
			HubId:           hub.Id,
			SuggestedTitle:  journeyTitle(hub.Title()),
			NodeDocIds:      path,
			SynthesisMethod: synthesisMethod,
			Status:          core.CurationSuggested,
		}
		if _, err := s.journeys.AddJourney(ctx, journey); err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("hub %d: %v", hub.Id, err))
			s.logger.Warn("failed to store suggested journey", "hub", hub.Id, "error", err)
			continue
		}
		run.DocumentsProcessed += len(path)
		created++
	}

	run.JourneysCreated = created
	run.Status = core.RunComplete
	run.CompletedAt = time.Now()
	if _, err := s.runs.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("completing synthesis run: %w", err)
	}

	s.logger.Info("synthesis complete",
		"hubs", len(hubs),
		"journeys", created)

	return &SynthesizeResult{JourneysCreated: created, RunId: run.Id}, nil
}

// orderMembers arranges a hub's members into a reading path by greedy
// nearest-neighbor walk over document vectors, starting at the first stored
// member. Members without a document-level embedding keep their stored order
// at the end of the path, so the path is always a permutation of the hub's
// members. Returns ok=false when fewer than two members have embeddings.
func (s *Synthesizer) orderMembers(ctx context.Context, hub *core.SuggestedHub) ([]core.ID, bool, error) {
	embs, err := s.embeddings.GetDocumentEmbeddings(ctx, hub.MemberDocIds...)
	if err != nil {
		return nil, false, fmt.Errorf("loading member embeddings: %w", err)
	}

	vectors := make(map[core.ID][]float32, len(embs))
	for _, emb := range embs {
		vectors[emb.DocumentId] = emb.Vector
	}

	var embedded, vectorless []core.ID
	for _, id := range hub.MemberDocIds {
		if _, ok := vectors[id]; ok {
			embedded = append(embedded, id)
		} else {
			vectorless = append(vectorless, id)
		}
	}
	if len(embedded) < 2 {
		return nil, false, nil
	}

	path := make([]core.ID, 0, len(hub.MemberDocIds))
	current := embedded[0]
	path = append(path, current)
	remaining := embedded[1:]

	for len(remaining) > 0 {
		best := 0
		bestSim := core.CosineSimilarity(vectors[current], vectors[remaining[0]])
		for i := 1; i < len(remaining); i++ {
			sim := core.CosineSimilarity(vectors[current], vectors[remaining[i]])
			if sim > bestSim {
				best, bestSim = i, sim
			}
		}
		current = remaining[best]
		path = append(path, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	path = append(path, vectorless...)
	return path, true, nil
}

// failRun marks the run as aborted and returns the cause.
func (s *Synthesizer) failRun(ctx context.Context, run *core.PipelineRun, cause error) error {
	run.Status = core.RunError
	run.Errors = append(run.Errors, cause.Error())
	run.CompletedAt = time.Now()
	if _, err := s.runs.UpdateRun(ctx, run); err != nil {
		s.logger.Warn("failed to record run failure", "run", run.Id, "error", err)
	}
	return cause
}
