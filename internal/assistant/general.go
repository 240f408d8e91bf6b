package assistant

import "strings"

func (a *Assistant) handleCreate(snapshot Snapshot) string {
	p := personaFor(snapshot.Settings)

	var b strings.Builder
	b.WriteString(p.greeting())
	b.WriteString(" I can create things for you — just be a little more specific:\n")
	b.WriteString("- \"add task buy milk\"\n")
	b.WriteString("- \"add note call the plumber\"")
	return b.String()
}

func (a *Assistant) handleGeneral(snapshot Snapshot) string {
	p := personaFor(snapshot.Settings)

	var b strings.Builder
	b.WriteString(p.greeting())
	b.WriteString(" I'm FloCat, your assistant. Here's what you can ask me:\n")
	b.WriteString("- \"What's on my calendar today?\"\n")
	b.WriteString("- \"Show me my tasks\" or \"add task buy milk\"\n")
	b.WriteString("- \"How are my habits doing?\"\n")
	b.WriteString("- \"Summarize my journal\"\n")
	b.WriteString("- \"Find notes about the launch\"")
	return b.String()
}
