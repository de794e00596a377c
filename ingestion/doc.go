// Package ingestion provides document intake and the embedding lifecycle.
//
// The Ingestor adds documents to storage with content-hash deduplication and
// chunks their text once at ingestion. The Embedder then drives documents
// through the embedding state machine (pending -> processing -> complete or
// error), storing one vector per chunk plus a document-level vector.
//
// Batch embedding is performed concurrently using a worker pool. Per-document
// failures are recorded on the document and in the batch result; they do not
// abort the batch.
package ingestion
