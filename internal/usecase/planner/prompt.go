package planner

import "github.com/kailas-cloud/labassist/internal/domain"

const decisionSystemPrompt = "You return JSON only."

const decisionExamples = `[
  {
    "isGreeting": false,
    "isDataSourceRequired": true,
    "dataSource": "ai_search",
    "question": "Show me 10 failed tests.",
    "defaultAnswer": "No results found in the data source for this query.",
    "searchQuery": "failed tests",
    "top": 10
  },
  {
    "isGreeting": true,
    "isDataSourceRequired": false,
    "dataSource": null,
    "question": "Hi",
    "defaultAnswer": "I'm here to help you with lab operations. How can I assist you today?",
    "searchQuery": null,
    "top": null
  },
  {
    "isGreeting": false,
    "isDataSourceRequired": true,
    "dataSource": "ai_search",
    "question": "What does the OptiDist manual say about calibration?",
    "defaultAnswer": "No results found in the data source for this query.",
    "searchQuery": "OptiDist calibration manual",
    "top": 5
  },
  {
    "isGreeting": false,
    "isDataSourceRequired": true,
    "dataSource": "ai_search",
    "question": "Find information about maintenance procedures",
    "defaultAnswer": "No results found in the data source for this query.",
    "searchQuery": "maintenance procedures",
    "top": 5
  },
  {
    "isGreeting": false,
    "isDataSourceRequired": true,
    "dataSource": "ai_search",
    "question": "What's the root cause of Optidist heater error and how can i fix it?",
    "defaultAnswer": "No results found in the data source for this query.",
    "searchQuery": "heater error root cause",
    "top": 5
  },
  {
    "isGreeting": false,
    "isDataSourceRequired": true,
    "dataSource": "ai_search",
    "question": "What's the proactive action for Heater power error?",
    "defaultAnswer": "No results found in the data source for this query.",
    "searchQuery": "Heater power error proactive action",
    "top": 5
  }
]`

const decisionRules = `You are a lab operations assistant. Decide how to answer or which tool to call.
Return JSON only with keys: isGreeting (boolean), isDataSourceRequired (boolean), dataSource ("ai_search" or null), searchQuery (string or null), top (number or null), defaultAnswer (string or null).

Rules:
- If it's a greeting (hi, hello, hey), isGreeting=true and no datasource.
- ALWAYS use ai_search for: error questions, root cause questions, "how to fix", "what is the cause", "proactive action", "reactive action", manual/documentation questions, OptiDist questions, heater errors, calibration, troubleshooting.
- If the user asks for lab data (tests, downtime, maintenance, utilization, trends, counts, CSV data), use ai_search.
- If the user asks about manuals, procedures, documentation, PDFs, error codes, or "what does X say", use ai_search.
- Extract key terms for searchQuery (e.g., "heater error" from "root cause of heater error", "OptiDist calibration" from "what does OptiDist manual say about calibration").
- Set top to 5-10 for error/documentation questions, 10-20 for data queries.
- If no datasource is needed (only greetings), answer via defaultAnswer.`

// decisionRequest builds the JSON-mode completion request for one question.
func decisionRequest(question string) domain.CompletionRequest {
	user := decisionRules + "\n\nExamples:\n" + decisionExamples + "\n\nQuestion: " + question + "\nJSON:"
	return domain.CompletionRequest{
		Operation: "plan",
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: decisionSystemPrompt},
			{Role: domain.RoleUser, Content: user},
		},
		MaxTokens:   200,
		Temperature: 0,
		JSON:        true,
	}
}
