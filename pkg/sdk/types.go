package labassist

import (
	"github.com/kailas-cloud/labassist/internal/domain/answer"
	"github.com/kailas-cloud/labassist/internal/domain/plan"
)

// Row is one structured search result.
type Row struct {
	Date       string `json:"date"`
	TestType   string `json:"testType"`
	Count      int    `json:"count"`
	Status     string `json:"status"`
	Lab        string `json:"lab,omitempty"`
	Instrument string `json:"instrument,omitempty"`
}

// Answer is the response to one question.
type Answer struct {
	Question string `json:"question"`
	// Text is HTML when written by the model, plain text for fallbacks.
	Text           string `json:"text"`
	Rows           []Row  `json:"rows,omitempty"`
	TotalCount     int    `json:"totalCount"`
	UsedDataSource bool   `json:"usedDataSource"`
	// DataSource is empty when no data source was used.
	DataSource string `json:"dataSource,omitempty"`
	// Resolution names the branch that produced Text, e.g. "summary" or "no_results".
	Resolution string `json:"resolution"`
}

// Plan is the routing decision for a question.
type Plan struct {
	IsGreeting           bool   `json:"isGreeting"`
	IsDataSourceRequired bool   `json:"isDataSourceRequired"`
	DataSource           string `json:"dataSource"`
	SearchQuery          string `json:"searchQuery,omitempty"`
	Top                  int    `json:"top,omitempty"`
	DefaultAnswer        string `json:"defaultAnswer,omitempty"`
}

func answerFromDomain(a answer.Answer) Answer {
	out := Answer{
		Question:       a.Question,
		Text:           a.Text,
		TotalCount:     a.TotalCount,
		UsedDataSource: a.UsedDataSource,
		DataSource:     string(a.DataSource),
		Resolution:     string(a.Resolution),
	}
	if len(a.Rows) > 0 {
		out.Rows = make([]Row, len(a.Rows))
		for i, r := range a.Rows {
			out.Rows[i] = Row(r)
		}
	}
	return out
}

func planFromDomain(p plan.Plan) Plan {
	return Plan{
		IsGreeting:           p.IsGreeting,
		IsDataSourceRequired: p.IsDataSourceRequired,
		DataSource:           string(p.DataSource),
		SearchQuery:          p.SearchQuery,
		Top:                  p.Top,
		DefaultAnswer:        p.DefaultAnswer,
	}
}
