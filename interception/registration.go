package interception

import "sort"

// Registration binds an ordered set of interceptors to an operation
// filter. Several registrations may target one executor; the applicable
// set for a call is the union of interceptors from every matching
// registration, stable-sorted by Order.
type Registration struct {
	interceptors []Interceptor
	filter       OperationFilter
}

// NewRegistration creates a registration matching every operation
func NewRegistration(interceptors ...Interceptor) *Registration {
	return &Registration{
		interceptors: interceptors,
		filter:       MatchAll(),
	}
}

// WithFilter scopes the registration to operations the filter matches
func (r *Registration) WithFilter(filter OperationFilter) *Registration {
	if filter != nil {
		r.filter = filter
	}
	return r
}

// Add appends interceptors to the registration
func (r *Registration) Add(interceptors ...Interceptor) *Registration {
	r.interceptors = append(r.interceptors, interceptors...)
	return r
}

// Matches returns true if the registration applies to the operation
func (r *Registration) Matches(op Operation) bool {
	return r.filter.Matches(op)
}

// applicable resolves the interceptor set for one operation: the union
// of all matching registrations, stable-sorted ascending by Order so
// equal-order interceptors keep registration order.
func applicable(registrations []*Registration, op Operation) []Interceptor {
	var chain []Interceptor
	for _, reg := range registrations {
		if reg.Matches(op) {
			chain = append(chain, reg.interceptors...)
		}
	}
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].Order() < chain[j].Order()
	})
	return chain
}
