package plan

// DataSource identifies the external resource a plan routes to.
type DataSource string

const (
	// AISearch routes the question to the search index.
	AISearch DataSource = "ai_search"
	// None answers without an external data source.
	None DataSource = "none"
)

// DefaultTop is the result cap used when neither the planner nor the model picks one.
const DefaultTop = 5

// Plan is the structured decision about whether and how to use a data source for a question.
// A Plan is produced once per question and passed by value.
type Plan struct {
	IsGreeting           bool       `json:"isGreeting"`
	IsDataSourceRequired bool       `json:"isDataSourceRequired"`
	DataSource           DataSource `json:"dataSource"`
	SearchQuery          string     `json:"searchQuery,omitempty"`
	Top                  int        `json:"top,omitempty"`
	DefaultAnswer        string     `json:"defaultAnswer,omitempty"`
}

// UsesSearch reports whether the plan asks for a search index lookup.
func (p Plan) UsesSearch() bool {
	return !p.IsGreeting && p.IsDataSourceRequired && p.DataSource == AISearch
}
