package catalog

// Result is one page of retrieved products.
// Total counts every row under the same filters, regardless of Limit and Offset.
type Result struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// EmptyResult returns a zero-match page for the query.
func EmptyResult(q Query) Result {
	return Result{Products: []Product{}, Total: 0, Limit: q.Limit(), Offset: q.Offset()}
}
