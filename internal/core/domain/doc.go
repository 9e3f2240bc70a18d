// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IndexEntry: A passage with its embedding, as stored by a vector index
//   - SearchHit: A similarity search result
//   - Answer: A generated answer with the passages it was grounded on
//   - RawDocument: Uploaded bytes before text extraction
//   - AppSettings: Chunking, retrieval, provider and storage configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
