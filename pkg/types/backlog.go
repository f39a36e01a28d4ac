// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BacklogEntry is one uncurated publication in the ranked backlog.
// Rank is 1-based and contiguous across a ranking.
type BacklogEntry struct {
	Identifier   Identifier `json:"identifier"`
	DisplayLabel string     `json:"displayLabel,omitempty"`
	Rank         int        `json:"rank"`
}
