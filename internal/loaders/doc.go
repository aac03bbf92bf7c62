// Package loaders provides implementations of the DocumentLoader interface
// for the résumé formats the analyzer accepts. Each loader knows how to
// extract ordered page text from a specific MIME type.
//
// Loaders are registered with the Registry at startup.
package loaders
