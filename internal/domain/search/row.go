package search

// Row is one structured (tabular) search result.
type Row struct {
	Date       string `json:"date"`
	TestType   string `json:"testType"`
	Count      int    `json:"count"`
	Status     string `json:"status"`
	Lab        string `json:"lab,omitempty"`
	Instrument string `json:"instrument,omitempty"`
}

// TotalCount sums Count across rows.
func TotalCount(rows []Row) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}
