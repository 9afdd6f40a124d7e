// Package services contains shared helpers for external collaborator clients:
// a sentinel error taxonomy and wrapping utilities used to classify failures
// as item-local or run-fatal.
package services
