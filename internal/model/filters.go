package model

import "net/url"

type FilterDimension string

const (
	FilterPlatform  FilterDimension = "platform"
	FilterType      FilterDimension = "type"
	FilterSentiment FilterDimension = "sentiment"
	FilterStatus    FilterDimension = "status"
)

// InboxFilters is a sparse mapping from filter dimension to the single
// selected value for that dimension. Entirely client-local.
type InboxFilters map[FilterDimension]string

func NewInboxFilters() InboxFilters {
	return make(InboxFilters)
}

// Toggle selects value on dim, or clears dim if value is already selected.
// Toggling the same value twice is a no-op overall.
func (f InboxFilters) Toggle(dim FilterDimension, value string) {
	if f[dim] == value {
		delete(f, dim)
		return
	}
	f[dim] = value
}

func (f InboxFilters) IsActive(dim FilterDimension, value string) bool {
	return f[dim] == value
}

func (f InboxFilters) Clear() {
	for dim := range f {
		delete(f, dim)
	}
}

func (f InboxFilters) Clone() InboxFilters {
	clone := make(InboxFilters, len(f))
	for dim, value := range f {
		clone[dim] = value
	}
	return clone
}

// Query encodes the filter set as request query parameters.
func (f InboxFilters) Query() url.Values {
	values := url.Values{}
	for dim, value := range f {
		values.Set(string(dim), value)
	}
	return values
}
