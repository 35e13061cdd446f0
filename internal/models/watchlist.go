// Package models defines data structures for the stock dashboard
package models

import "strings"

// WatchStatus is the lifecycle state of a watchlist entry
type WatchStatus string

const (
	StatusWatching   WatchStatus = "watching"
	StatusInterested WatchStatus = "interested"
	StatusArchived   WatchStatus = "archived"
)

// Valid reports whether s is one of the known watch statuses.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWatching, StatusInterested, StatusArchived:
		return true
	}
	return false
}

// PERRecord is one dated point in an entry's earnings-multiple history.
// A nil PER records that the provider had no multiple on that day.
type PERRecord struct {
	Date   string   `json:"date"`
	PER    *float64 `json:"per"`
	Source string   `json:"source"`
}

// WatchlistEntry is a single stock on the watchlist, keyed by code.
type WatchlistEntry struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	AddedDate  string      `json:"added_date"`
	Note       string      `json:"note"`
	Rank       string      `json:"kabumart_rank"`
	Status     WatchStatus `json:"status"`
	PER        *float64    `json:"per,omitempty"`
	PERHistory []PERRecord `json:"per_history,omitempty"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
}

// WatchlistDocument is the root aggregate persisted as a single JSON document.
type WatchlistDocument struct {
	Watchlist []WatchlistEntry `json:"watchlist"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}

// FindByCode returns the index of the entry with the given code, or -1.
// Codes are compared case-insensitively.
func (d *WatchlistDocument) FindByCode(code string) int {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i := range d.Watchlist {
		if strings.ToUpper(d.Watchlist[i].Code) == code {
			return i
		}
	}
	return -1
}

// PERRefreshItem reports a single code's change in a bulk PER refresh.
type PERRefreshItem struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	OldPER *float64 `json:"old_per"`
	NewPER *float64 `json:"new_per"`
}

// PERRefreshError reports a per-code failure during a bulk PER refresh.
type PERRefreshError struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// PERRefreshResult summarises a bulk PER refresh run.
type PERRefreshResult struct {
	Updated   int               `json:"updated"`
	Results   []PERRefreshItem  `json:"results"`
	Errors    []PERRefreshError `json:"errors"`
	CheckedAt string            `json:"checked_at"`
}
