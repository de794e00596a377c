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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/arborlabs/arbor/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const expansionPrompt = `Rewrite the user's search query as one or two complete sentences that state
what the user is looking for. Preserve every term from the original query and
add closely related terms and phrasings that a relevant document would use.

Rules:
- Output only the rewritten query text. No preamble, no quotes, no lists.
- Do not answer the query. Only restate and enrich it.
- Stay on the query's topic. Do not introduce unrelated subjects.
- Keep the output under 100 words.

Example:
Input: "graph pruning"
Output: Techniques and strategies for pruning graphs, removing redundant nodes
and edges to reduce graph size while preserving structure and connectivity.`

// QueryExpander implements ai.QueryExpander using OpenAI-compatible chat APIs.
type QueryExpander struct {
	client llms.Model
	logger *slog.Logger
}

// newQueryExpander is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryExpander(config *ai.Config) (*QueryExpander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExpanderHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExpanderModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryExpander{
		client: client,
		logger: slog.Default().With("component", "openai-expander"),
	}, nil
}

// NewQueryExpander creates a new query expander using the provided configuration.
//
// Returns ai.QueryExpander interface to enforce abstraction.
func NewQueryExpander(config *ai.Config) (ai.QueryExpander, error) {
	return newQueryExpander(config)
}

// ExpandQuery rewrites a search query into a fuller statement using an LLM.
func (e *QueryExpander) ExpandQuery(ctx context.Context, query string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(expansionPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		e.logger.Error("failed to generate expansion", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return "", errors.New("expander returned no choices")
	}

	expanded := strings.TrimSpace(response.Choices[0].Content)
	expanded = strings.Trim(expanded, `"`)

	e.logger.Debug("expanded query",
		"original_length", len(query),
		"expanded_length", len(expanded))

	return expanded, nil
}
