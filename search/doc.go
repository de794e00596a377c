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


// Package search provides semantic similarity search over document embeddings.
//
// The Searcher embeds a query and ranks documents by cosine similarity of
// their document-level vectors. Terse queries are optionally rewritten by an
// LLM before embedding; expansion is gated by simple heuristics and its
// failures silently fall back to the raw query.
//
// FindSimilarDocuments reuses a stored document vector as the query, giving
// "more like this" results without an embedding call.
package search
