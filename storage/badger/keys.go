package badger

import (
	"encoding/binary"
	"time"

	"github.com/arborlabs/arbor/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentHashPrefix = "dochash"
	documentDatePrefix = "docdate"
	documentIDSeq      = "docseq"
	chunkPrefix        = "chkrec"
	chunkIDSeq         = "chkseq"
	docEmbeddingPrefix = "embdoc"
	chkEmbeddingPrefix = "embchk"
	hubPrefix          = "hubrec"
	hubIDSeq           = "hubseq"
	journeyPrefix      = "jrnrec"
	journeyHubPrefix   = "jrnhub"
	journeyIDSeq       = "jrnseq"
	runPrefix          = "runrec"
	runIDSeq           = "runseq"
)

// makeIDKey generates "prefix:" followed by the BigEndian ID, so
// lexicographic iteration visits records in ID order.
func makeIDKey(prefix string, id core.ID) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCompositeKey generates "prefix:" followed by two BigEndian values.
func makeCompositeKey(prefix string, a, b uint64) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+16)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], a)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], b)
	return buf
}

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return makeIDKey(documentPrefix, id)
}

// makeDocumentHashKey generates a key for the content-hash index.
// Format: prefix:hash, value is the document ID.
func makeDocumentHashKey(hash string) []byte {
	return []byte(documentHashPrefix + ":" + hash)
}

// makeDocumentDateKey generates a composite key for the creation-date index.
// Format: prefix:timestamp:id in BigEndian so lexicographic sort orders by
// creation time, ties by ID.
func makeDocumentDateKey(timestamp time.Time, id core.ID) []byte {
	return makeCompositeKey(documentDatePrefix, uint64(timestamp.UnixMicro()), uint64(id))
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:documentID:index, so prefix iteration over a document
// visits chunks in index order.
func makeChunkKey(documentId core.ID, index int) []byte {
	return makeCompositeKey(chunkPrefix, uint64(documentId), uint64(index))
}

// makeDocChunksPrefix generates the iteration prefix for one document's
// chunks.
func makeDocChunksPrefix(documentId core.ID) []byte {
	return makeIDKey(chunkPrefix, documentId)
}

// makeDocEmbeddingKey generates the key for a document-level embedding.
func makeDocEmbeddingKey(documentId core.ID) []byte {
	return makeIDKey(docEmbeddingPrefix, documentId)
}

// makeChunkEmbeddingKey generates the key for a chunk-level embedding.
// Format: prefix:documentID:chunkID.
func makeChunkEmbeddingKey(documentId, chunkId core.ID) []byte {
	return makeCompositeKey(chkEmbeddingPrefix, uint64(documentId), uint64(chunkId))
}

// makeChunkEmbeddingsPrefix generates the iteration prefix for one
// document's chunk-level embeddings.
func makeChunkEmbeddingsPrefix(documentId core.ID) []byte {
	return makeIDKey(chkEmbeddingPrefix, documentId)
}

// makeHubKey generates a key for a hub by ID.
func makeHubKey(id core.ID) []byte {
	return makeIDKey(hubPrefix, id)
}

// makeJourneyKey generates a key for a journey by ID.
func makeJourneyKey(id core.ID) []byte {
	return makeIDKey(journeyPrefix, id)
}

// makeHubJourneyKey generates a composite key for the hub index of
// journeys. Format: prefix:hubID:journeyID, value is the journey ID.
func makeHubJourneyKey(hubId, journeyId core.ID) []byte {
	return makeCompositeKey(journeyHubPrefix, uint64(hubId), uint64(journeyId))
}

// makeHubJourneysPrefix generates the iteration prefix for one hub's
// journeys.
func makeHubJourneysPrefix(hubId core.ID) []byte {
	return makeIDKey(journeyHubPrefix, hubId)
}

// makeRunKey generates a key for a pipeline run by ID.
func makeRunKey(id core.ID) []byte {
	return makeIDKey(runPrefix, id)
}
