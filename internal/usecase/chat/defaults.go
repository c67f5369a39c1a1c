package chat

// DefaultSuggestions are the lab troubleshooting questions offered on a fresh install, in display order.
var DefaultSuggestions = []struct{ ID, Text string }{
	{"q1", "What's the root cause of OptiDist heater error and how can I fix it?"},
	{"q2", "What is the proactive action for error code 105 in OptiFuel?"},
	{"q3", "What are the reactive actions for OptiMPP error codes?"},
	{"q4", "Show me the root cause analysis for OptiCPP error codes."},
	{"q5", "What proactive actions should I take for OptiFPP equipment errors?"},
	{"q6", "How do I troubleshoot error code 105 in OptiFuel?"},
	{"q7", "What are the common root causes for OptiDist equipment failures?"},
}
