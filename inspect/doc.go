// Package inspect renders decoded modules for people: a WAT-like text
// listing, a YAML document and a per-section summary.
package inspect
