// Package domain defines the core entities of the résumé analyzer.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Document: An uploaded résumé split into ordered pages
//   - Chunk: A bounded span of page text used as the unit of retrieval
//   - Mode: A preset question or a custom one
//   - Analysis: The generated answer and the metadata around it
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
