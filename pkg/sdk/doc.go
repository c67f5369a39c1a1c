// Package labassist answers lab-operations questions in-process: it plans the
// question, searches the document index, narrows long manuals to the relevant
// section and asks the language model for an HTML summary.
//
// Every collaborator is optional. Without a language model the planner falls
// back to keyword heuristics and no summary is written; without a search index
// the answer degrades to the fixed fallback texts.
//
//	client, _ := labassist.New(
//	    labassist.WithSearch("https://lab.search.windows.net", key, "lab-docs"),
//	    labassist.WithAzureOpenAI("https://lab.openai.azure.com", key, "gpt-4o", "2024-08-01-preview"),
//	)
//	a, _ := client.Ask(ctx, "What's the root cause of OptiDist heater error?")
//	fmt.Println(a.Text)
package labassist
