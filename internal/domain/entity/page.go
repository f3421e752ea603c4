// Package entity defines domain entities for chrome coordination.
package entity

// PageID uniquely identifies a browsing page within its container.
type PageID string
