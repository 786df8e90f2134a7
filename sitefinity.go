// Package sitefinity sources content from a Sitefinity REST API and turns
// each content item into a graph node for a static-site generator host.
// It discovers content types, counts and pages through their items
// (optionally per locale) and registers normalized nodes with stable ids
// and content digests.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, oauth2/, sqlite/).
package sitefinity
