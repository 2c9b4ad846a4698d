package domain

import "encoding/json"

// URLStatus is the reachability outcome of one URL in one check cycle.
type URLStatus struct {
	URL string `json:"url"`
	Up  bool   `json:"up"`
}

// StatusReport maps each checked URL to its status for a single cycle.
// Entries keep the order in which URLs were first set; setting a URL again
// overwrites its value in place.
type StatusReport struct {
	entries []URLStatus
	index   map[string]int
}

func NewStatusReport(capacity int) *StatusReport {
	if capacity < 0 {
		capacity = 0
	}
	return &StatusReport{
		entries: make([]URLStatus, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// Set records the status of url. Only the checker assembling a cycle should call it.
func (r *StatusReport) Set(url string, up bool) {
	if i, ok := r.index[url]; ok {
		r.entries[i].Up = up
		return
	}
	r.index[url] = len(r.entries)
	r.entries = append(r.entries, URLStatus{URL: url, Up: up})
}

func (r *StatusReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Lookup returns the status of url and whether it was part of the report.
func (r *StatusReport) Lookup(url string) (up bool, ok bool) {
	if r == nil {
		return false, false
	}
	i, ok := r.index[url]
	if !ok {
		return false, false
	}
	return r.entries[i].Up, true
}

// Statuses returns a copy of all entries in report order.
func (r *StatusReport) Statuses() []URLStatus {
	if r == nil {
		return nil
	}
	out := make([]URLStatus, len(r.entries))
	copy(out, r.entries)
	return out
}

// Failures returns the down entries in report order.
func (r *StatusReport) Failures() []URLStatus {
	if r == nil {
		return nil
	}
	var out []URLStatus
	for _, s := range r.entries {
		if !s.Up {
			out = append(out, s)
		}
	}
	return out
}

func (r *StatusReport) UpCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range r.entries {
		if s.Up {
			n++
		}
	}
	return n
}

func (r *StatusReport) DownCount() int {
	return r.Len() - r.UpCount()
}

// Map returns the report as a plain url -> up mapping.
func (r *StatusReport) Map() map[string]bool {
	out := make(map[string]bool, r.Len())
	if r == nil {
		return out
	}
	for _, s := range r.entries {
		out[s.URL] = s.Up
	}
	return out
}

// MarshalJSON encodes the report as an ordered array of statuses.
func (r *StatusReport) MarshalJSON() ([]byte, error) {
	s := r.Statuses()
	if s == nil {
		s = []URLStatus{}
	}
	return json.Marshal(s)
}
