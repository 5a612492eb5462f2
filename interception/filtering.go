package interception

// OperationFilter decides whether a registration applies to an operation
type OperationFilter interface {
	// Matches returns true if the operation should be intercepted
	Matches(op Operation) bool
}

// OperationFilterFunc is a function adapter for OperationFilter
type OperationFilterFunc func(op Operation) bool

// Matches implements OperationFilter
func (f OperationFilterFunc) Matches(op Operation) bool {
	return f(op)
}

// MatchAll returns a filter that matches every operation. It is the
// default filter of a registration.
func MatchAll() OperationFilter {
	return OperationFilterFunc(func(Operation) bool { return true })
}

// OperationNameFilter matches operations by name, ignoring the service
type OperationNameFilter struct {
	allowed map[string]bool
}

// NewOperationNameFilter creates a filter that matches only the given
// operation names
func NewOperationNameFilter(names ...string) *OperationNameFilter {
	allowed := make(map[string]bool)
	for _, n := range names {
		allowed[n] = true
	}
	return &OperationNameFilter{allowed: allowed}
}

// Matches implements OperationFilter
func (f *OperationNameFilter) Matches(op Operation) bool {
	return f.allowed[op.Name]
}

// ServiceFilter matches every operation of the given services
type ServiceFilter struct {
	allowed map[string]bool
}

// NewServiceFilter creates a filter that matches only the given services
func NewServiceFilter(services ...string) *ServiceFilter {
	allowed := make(map[string]bool)
	for _, s := range services {
		allowed[s] = true
	}
	return &ServiceFilter{allowed: allowed}
}

// Matches implements OperationFilter
func (f *ServiceFilter) Matches(op Operation) bool {
	return f.allowed[op.Service]
}

// AndFilter combines filters with AND logic
type AndFilter struct {
	filters []OperationFilter
}

// NewAndFilter creates a filter that matches when all filters match
func NewAndFilter(filters ...OperationFilter) *AndFilter {
	return &AndFilter{filters: filters}
}

// Matches implements OperationFilter
func (f *AndFilter) Matches(op Operation) bool {
	for _, filter := range f.filters {
		if !filter.Matches(op) {
			return false
		}
	}
	return true
}

// OrFilter combines filters with OR logic
type OrFilter struct {
	filters []OperationFilter
}

// NewOrFilter creates a filter that matches when at least one filter matches
func NewOrFilter(filters ...OperationFilter) *OrFilter {
	return &OrFilter{filters: filters}
}

// Matches implements OperationFilter
func (f *OrFilter) Matches(op Operation) bool {
	for _, filter := range f.filters {
		if filter.Matches(op) {
			return true
		}
	}
	return false
}
