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


package storage

import (
	"math"
	"time"

	"github.com/arborlabs/arbor/core"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored record types. Field order is
// the wire format; changing it breaks existing databases.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalEmbedding serializes an Embedding to bytes.
func MarshalEmbedding(emb *core.Embedding) []byte {
	buf := make([]byte, EmbeddingMUS.Size(*emb))
	EmbeddingMUS.Marshal(*emb, buf)
	return buf
}

// UnmarshalEmbedding deserializes an Embedding from bytes.
func UnmarshalEmbedding(data []byte) (*core.Embedding, error) {
	emb, _, err := EmbeddingMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &emb, nil
}

// MarshalHub serializes a SuggestedHub to bytes.
func MarshalHub(hub *core.SuggestedHub) []byte {
	buf := make([]byte, HubMUS.Size(*hub))
	HubMUS.Marshal(*hub, buf)
	return buf
}

// UnmarshalHub deserializes a SuggestedHub from bytes.
func UnmarshalHub(data []byte) (*core.SuggestedHub, error) {
	hub, _, err := HubMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &hub, nil
}

// MarshalJourney serializes a SuggestedJourney to bytes.
func MarshalJourney(journey *core.SuggestedJourney) []byte {
	buf := make([]byte, JourneyMUS.Size(*journey))
	JourneyMUS.Marshal(*journey, buf)
	return buf
}

// UnmarshalJourney deserializes a SuggestedJourney from bytes.
func UnmarshalJourney(data []byte) (*core.SuggestedJourney, error) {
	journey, _, err := JourneyMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &journey, nil
}

// MarshalRun serializes a PipelineRun to bytes.
func MarshalRun(run *core.PipelineRun) []byte {
	buf := make([]byte, RunMUS.Size(*run))
	RunMUS.Marshal(*run, buf)
	return buf
}

// UnmarshalRun deserializes a PipelineRun from bytes.
func UnmarshalRun(data []byte) (*core.PipelineRun, error) {
	run, _, err := RunMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Serializer values.

var (
	// IDMUS serializes core.ID values.
	IDMUS = idMUS{}
	// DocumentMUS serializes core.Document records.
	DocumentMUS = documentMUS{}
	// ChunkMUS serializes core.Chunk records.
	ChunkMUS = chunkMUS{}
	// EmbeddingMUS serializes core.Embedding records.
	EmbeddingMUS = embeddingMUS{}
	// HubMUS serializes core.SuggestedHub records.
	HubMUS = hubMUS{}
	// JourneyMUS serializes core.SuggestedJourney records.
	JourneyMUS = journeyMUS{}
	// RunMUS serializes core.PipelineRun records.
	RunMUS = runMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (core.ID, int, error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(u), n, err
}

func (idMUS) Size(v core.ID) int {
	return varint.Uint64.Size(uint64(v))
}

type documentMUS struct{}

func (documentMUS) Marshal(v core.Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += marshalString(v.Title, bs[n:])
	n += marshalString(v.Content, bs[n:])
	n += marshalString(v.ContentHash, bs[n:])
	n += varint.Int.Marshal(int(v.Tier), bs[n:])
	n += marshalString(v.SourceType, bs[n:])
	n += marshalString(v.SourceURL, bs[n:])
	n += marshalBool(v.Archived, bs[n:])
	n += varint.Int.Marshal(int(v.EmbeddingStatus), bs[n:])
	n += marshalString(v.EmbeddingError, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (v core.Document, n int, err error) {
	var (
		u uint64
		i int
		m int
	)
	if u, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.Id = core.ID(u)
	if v.Title, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Content, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.ContentHash, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if i, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Tier = core.Tier(i)
	n += m
	if v.SourceType, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.SourceURL, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Archived, m, err = unmarshalBool(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if i, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.EmbeddingStatus = core.EmbeddingStatus(i)
	n += m
	if v.EmbeddingError, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (documentMUS) Size(v core.Document) (n int) {
	n = varint.Uint64.Size(uint64(v.Id))
	n += sizeString(v.Title)
	n += sizeString(v.Content)
	n += sizeString(v.ContentHash)
	n += varint.Int.Size(int(v.Tier))
	n += sizeString(v.SourceType)
	n += sizeString(v.SourceURL)
	n += 1 // Archived
	n += varint.Int.Size(int(v.EmbeddingStatus))
	n += sizeString(v.EmbeddingError)
	n += sizeTime(v.CreatedAt)
	n += sizeTime(v.UpdatedAt)
	return n
}

type chunkMUS struct{}

func (chunkMUS) Marshal(v core.Chunk, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += varint.Uint64.Marshal(uint64(v.DocumentId), bs[n:])
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += marshalString(v.Content, bs[n:])
	n += varint.Int.Marshal(v.CharStart, bs[n:])
	n += varint.Int.Marshal(v.CharEnd, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (v core.Chunk, n int, err error) {
	var (
		u uint64
		m int
	)
	if u, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.Id = core.ID(u)
	if u, m, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.DocumentId = core.ID(u)
	n += m
	if v.Index, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Content, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CharStart, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CharEnd, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (chunkMUS) Size(v core.Chunk) (n int) {
	n = varint.Uint64.Size(uint64(v.Id))
	n += varint.Uint64.Size(uint64(v.DocumentId))
	n += varint.Int.Size(v.Index)
	n += sizeString(v.Content)
	n += varint.Int.Size(v.CharStart)
	n += varint.Int.Size(v.CharEnd)
	return n
}

type embeddingMUS struct{}

func (embeddingMUS) Marshal(v core.Embedding, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.DocumentId), bs)
	n += varint.Uint64.Marshal(uint64(v.ChunkId), bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalString(v.Model, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (embeddingMUS) Unmarshal(bs []byte) (v core.Embedding, n int, err error) {
	var (
		u uint64
		m int
	)
	if u, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.DocumentId = core.ID(u)
	if u, m, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.ChunkId = core.ID(u)
	n += m
	if v.Vector, m, err = unmarshalVector(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Model, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (embeddingMUS) Size(v core.Embedding) (n int) {
	n = varint.Uint64.Size(uint64(v.DocumentId))
	n += varint.Uint64.Size(uint64(v.ChunkId))
	n += sizeVector(v.Vector)
	n += sizeString(v.Model)
	n += sizeTime(v.CreatedAt)
	return n
}

type hubMUS struct{}

func (hubMUS) Marshal(v core.SuggestedHub, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += marshalString(v.SuggestedTitle, bs[n:])
	n += marshalString(v.TitleOverride, bs[n:])
	n += marshalIDs(v.MemberDocIds, bs[n:])
	n += marshalVector(v.Centroid, bs[n:])
	n += varint.Uint32.Marshal(math.Float32bits(v.ClusterQuality), bs[n:])
	n += marshalString(v.Algorithm, bs[n:])
	n += varint.Int.Marshal(v.InputDocCount, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.ComputedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (hubMUS) Unmarshal(bs []byte) (v core.SuggestedHub, n int, err error) {
	var (
		u  uint64
		u3 uint32
		i  int
		m  int
	)
	if u, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.Id = core.ID(u)
	if v.SuggestedTitle, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.TitleOverride, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.MemberDocIds, m, err = unmarshalIDs(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Centroid, m, err = unmarshalVector(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if u3, m, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.ClusterQuality = math.Float32frombits(u3)
	n += m
	if v.Algorithm, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.InputDocCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if i, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Status = core.CurationStatus(i)
	n += m
	if v.ComputedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (hubMUS) Size(v core.SuggestedHub) (n int) {
	n = varint.Uint64.Size(uint64(v.Id))
	n += sizeString(v.SuggestedTitle)
	n += sizeString(v.TitleOverride)
	n += sizeIDs(v.MemberDocIds)
	n += sizeVector(v.Centroid)
	n += varint.Uint32.Size(math.Float32bits(v.ClusterQuality))
	n += sizeString(v.Algorithm)
	n += varint.Int.Size(v.InputDocCount)
	n += varint.Int.Size(int(v.Status))
	n += sizeTime(v.ComputedAt)
	n += sizeTime(v.UpdatedAt)
	return n
}

type journeyMUS struct{}

func (journeyMUS) Marshal(v core.SuggestedJourney, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += varint.Uint64.Marshal(uint64(v.HubId), bs[n:])
	n += marshalString(v.SuggestedTitle, bs[n:])
	n += marshalString(v.TitleOverride, bs[n:])
	n += marshalIDs(v.NodeDocIds, bs[n:])
	n += marshalString(v.SynthesisMethod, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.ComputedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (journeyMUS) Unmarshal(bs []byte) (v core.SuggestedJourney, n int, err error) {
	var (
		u uint64
		i int
		m int
	)
	if u, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.Id = core.ID(u)
	if u, m, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.HubId = core.ID(u)
	n += m
	if v.SuggestedTitle, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.TitleOverride, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.NodeDocIds, m, err = unmarshalIDs(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.SynthesisMethod, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if i, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Status = core.CurationStatus(i)
	n += m
	if v.ComputedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (journeyMUS) Size(v core.SuggestedJourney) (n int) {
	n = varint.Uint64.Size(uint64(v.Id))
	n += varint.Uint64.Size(uint64(v.HubId))
	n += sizeString(v.SuggestedTitle)
	n += sizeString(v.TitleOverride)
	n += sizeIDs(v.NodeDocIds)
	n += sizeString(v.SynthesisMethod)
	n += varint.Int.Size(int(v.Status))
	n += sizeTime(v.ComputedAt)
	n += sizeTime(v.UpdatedAt)
	return n
}

type runMUS struct{}

func (runMUS) Marshal(v core.PipelineRun, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += varint.Int.Marshal(int(v.Stage), bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.StartedAt, bs[n:])
	n += marshalTime(v.CompletedAt, bs[n:])
	n += varint.Int.Marshal(v.DocumentsProcessed, bs[n:])
	n += varint.Int.Marshal(v.ClustersCreated, bs[n:])
	n += varint.Int.Marshal(v.JourneysCreated, bs[n:])
	n += marshalStrings(v.Errors, bs[n:])
	return n
}

func (runMUS) Unmarshal(bs []byte) (v core.PipelineRun, n int, err error) {
	var (
		u uint64
		i int
		m int
	)
	if u, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.Id = core.ID(u)
	if i, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Stage = core.RunStage(i)
	n += m
	if i, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Status = core.RunStatus(i)
	n += m
	if v.StartedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CompletedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.DocumentsProcessed, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.ClustersCreated, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.JourneysCreated, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Errors, m, err = unmarshalStrings(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (runMUS) Size(v core.PipelineRun) (n int) {
	n = varint.Uint64.Size(uint64(v.Id))
	n += varint.Int.Size(int(v.Stage))
	n += varint.Int.Size(int(v.Status))
	n += sizeTime(v.StartedAt)
	n += sizeTime(v.CompletedAt)
	n += varint.Int.Size(v.DocumentsProcessed)
	n += varint.Int.Size(v.ClustersCreated)
	n += varint.Int.Size(v.JourneysCreated)
	n += sizeStrings(v.Errors)
	return n
}

// Primitive helpers shared by the serializers above.

func marshalString(v string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	return n + copy(bs[n:], v)
}

func unmarshalString(bs []byte) (string, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return "", n, err
	}
	if l < 0 {
		return "", n, ErrSerializationFailed
	}
	if len(bs) < n+l {
		return "", n, ErrTruncatedData
	}
	return string(bs[n : n+l]), n + l, nil
}

func sizeString(v string) int {
	return varint.Int.Size(len(v)) + len(v)
}

func marshalBool(v bool, bs []byte) int {
	if v {
		bs[0] = 1
	} else {
		bs[0] = 0
	}
	return 1
}

func unmarshalBool(bs []byte) (bool, int, error) {
	if len(bs) < 1 {
		return false, 0, ErrTruncatedData
	}
	return bs[0] != 0, 1, nil
}

// Times are stored as Unix microseconds, with 0 reserved for the zero time.
func marshalTime(v time.Time, bs []byte) int {
	var micros int64
	if !v.IsZero() {
		micros = v.UnixMicro()
	}
	return varint.Int64.Marshal(micros, bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	if micros == 0 {
		return time.Time{}, n, nil
	}
	return time.UnixMicro(micros), n, nil
}

func sizeTime(v time.Time) int {
	var micros int64
	if !v.IsZero() {
		micros = v.UnixMicro()
	}
	return varint.Int64.Size(micros)
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) ([]float32, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if l < 0 {
		return nil, n, ErrSerializationFailed
	}
	if l == 0 {
		return nil, n, nil
	}
	if l > len(bs)-n {
		// Each element takes at least one byte.
		return nil, n, ErrTruncatedData
	}
	v := make([]float32, l)
	for i := 0; i < l; i++ {
		bits, m, err := varint.Uint32.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + m, err
		}
		v[i] = math.Float32frombits(bits)
		n += m
	}
	return v, n, nil
}

func sizeVector(v []float32) (n int) {
	n = varint.Int.Size(len(v))
	for _, f := range v {
		n += varint.Uint32.Size(math.Float32bits(f))
	}
	return n
}

func marshalIDs(v []core.ID, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, id := range v {
		n += varint.Uint64.Marshal(uint64(id), bs[n:])
	}
	return n
}

func unmarshalIDs(bs []byte) ([]core.ID, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if l < 0 {
		return nil, n, ErrSerializationFailed
	}
	if l == 0 {
		return nil, n, nil
	}
	if l > len(bs)-n {
		return nil, n, ErrTruncatedData
	}
	v := make([]core.ID, l)
	for i := 0; i < l; i++ {
		u, m, err := varint.Uint64.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + m, err
		}
		v[i] = core.ID(u)
		n += m
	}
	return v, n, nil
}

func sizeIDs(v []core.ID) (n int) {
	n = varint.Int.Size(len(v))
	for _, id := range v {
		n += varint.Uint64.Size(uint64(id))
	}
	return n
}

func marshalStrings(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += marshalString(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) ([]string, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if l < 0 {
		return nil, n, ErrSerializationFailed
	}
	if l == 0 {
		return nil, n, nil
	}
	if l > len(bs)-n {
		return nil, n, ErrTruncatedData
	}
	v := make([]string, l)
	for i := 0; i < l; i++ {
		s, m, err := unmarshalString(bs[n:])
		if err != nil {
			return nil, n + m, err
		}
		v[i] = s
		n += m
	}
	return v, n, nil
}

func sizeStrings(v []string) (n int) {
	n = varint.Int.Size(len(v))
	for _, s := range v {
		n += sizeString(s)
	}
	return n
}
