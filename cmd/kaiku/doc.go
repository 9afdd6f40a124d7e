// Package main hosts the kaiku CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into pipeline
// stage runs (fetch, download, transcribe), corpus queries (search, export),
// and configuration scaffolding. It centralizes configuration resolution,
// structured logging setup, and the stage-run lock so subcommands can focus
// on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
