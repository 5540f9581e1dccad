package engine

import (
	"strings"

	"audit-agent/backends"
	"audit-agent/prompts"
)

const emptyContextPlaceholder = "(no data retrieved)"

// BuildPrompt assembles the system and user messages sent to the generation
// backends. Pure function of its inputs.
func BuildPrompt(query, formattedContext string, opts Options) backends.Prompt {
	if strings.TrimSpace(formattedContext) == "" {
		formattedContext = emptyContextPlaceholder
	}

	user := prompts.AuditUser()
	user = strings.ReplaceAll(user, "%CONTEXT%", formattedContext)
	user = strings.ReplaceAll(user, "%QUERY%", query)

	return backends.Prompt{
		System:   prompts.AuditSystem(),
		User:     user,
		Query:    query,
		Limit:    opts.Limit,
		TenantID: opts.TenantID,
	}
}
