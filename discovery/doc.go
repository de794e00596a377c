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


// Package discovery turns embedded documents into curated structure.
//
// The Clusterer groups documents into suggested hubs with a greedy
// single-pass cosine clustering over document-level vectors. The Synthesizer
// orders each hub's members into a suggested reading journey by a
// nearest-neighbor walk. Both record their passes as PipelineRun audit
// records; per-item failures land in the run's error list instead of
// aborting the pass.
package discovery
