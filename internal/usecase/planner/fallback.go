package planner

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/labassist/internal/domain/plan"
)

// DefaultAnswer is the canned reply used for greetings and unanswered questions.
const DefaultAnswer = "I'm here to help you with lab operations. How can I assist you today?"

var (
	greetingRe = regexp.MustCompile(`(?i)^(hi|hello|hey|hola|howdy|sup|yo)\b`)

	dataKeywordRe = regexp.MustCompile(`(?i)test|tests|downtime|maintenance|utilization|trend|count|schedule|` +
		`performed|list|history|last|past|month|week|day|analysis|optidist|optiflash|error|errors|` +
		`root cause|cause|fix|how to|proactive|reactive|action|manual|documentation|doc|pdf|csv|` +
		`calibration|troubleshoot|heater|power`)
)

// Fallback computes a plan from the question text alone. It is total and deterministic.
func Fallback(question string) plan.Plan {
	return plan.Plan{
		IsGreeting:           greetingRe.MatchString(strings.TrimSpace(question)),
		IsDataSourceRequired: dataKeywordRe.MatchString(question),
		DataSource:           plan.AISearch,
		SearchQuery:          question,
		Top:                  plan.DefaultTop,
		DefaultAnswer:        DefaultAnswer,
	}
}
