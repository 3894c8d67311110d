package callscribe

// DefaultPerPage is assumed when the results counter is not rendered.
const DefaultPerPage = 10

// Pagination describes the result set as read from a list page.
type Pagination struct {
	TotalResults int `json:"totalResults"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	PerPage      int `json:"perPage"`
}

// ReconcileTotalPages returns the larger of the explicit page count read from
// the pagination controls and the count computed from the results counter.
// The pagination controls may be partially rendered, so neither signal is
// trusted alone.
func ReconcileTotalPages(explicit, totalResults, perPage int) int {
	if totalResults > 0 && perPage > 0 {
		if computed := (totalResults + perPage - 1) / perPage; computed > explicit {
			return computed
		}
	}
	return explicit
}
