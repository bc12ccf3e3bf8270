// Package registrar contains concrete implementations of core.Registrar.
//
// The canonical Registrar interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. Implementation
// packages like this one (HTTP client, in-memory fake) provide URL-minting
// backends that can be swapped without touching calling code.
//
// HTTPClient talks to a real artifact registrar over REST; InMemory serves
// pre-seeded put URLs and is intended for tests, examples and single-process
// prototypes.
package registrar
