package bots

// Scope says which kind of project a bot applies to.
type Scope string

const (
	ScopeTeam     Scope = "team"
	ScopePersonal Scope = "personal"
)

// Meta describes one bot for the CLI and the dashboard.
type Meta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Scope       Scope  `json:"scope"`

	// RequiresField names the registry field a personal bot needs,
	// e.g. "habitFile". Empty means the bot falls back to the project
	// path.
	RequiresField string `json:"requiresField,omitempty"`
}

// registryOrder is the single source of truth for bot metadata. Order
// determines display order on the dashboard. Adding a bot means one
// entry here plus a dispatch arm in the orchestrator.
var registryOrder = []Meta{
	{ID: "gitbot", Name: "GitBot", Icon: "🔍", Description: "Git history analyzer", Scope: ScopeTeam},
	{ID: "qabot", Name: "QABot", Icon: "🧪", Description: "Test suggestion from recent changes", Scope: ScopeTeam},
	{ID: "pmbot", Name: "PMBot", Icon: "📊", Description: "Issue analyzer and sprint planner", Scope: ScopeTeam},
	{ID: "orchestrator", Name: "Orchestrator", Icon: "🎭", Description: "Runs the other bots and combines their reports", Scope: ScopeTeam},
	{ID: "journalbot", Name: "JournalBot", Icon: "📓", Description: "Personal journal and notes analyzer", Scope: ScopePersonal, RequiresField: "notesDir"},
	{ID: "taskbot", Name: "TaskBot", Icon: "✅", Description: "Personal task list analyzer", Scope: ScopePersonal, RequiresField: "taskFile"},
	{ID: "habitbot", Name: "HabitBot", Icon: "🔄", Description: "Habit and goal tracking analyzer", Scope: ScopePersonal, RequiresField: "habitFile"},
	{ID: "notebot", Name: "NoteBot", Icon: "📝", Description: "Markdown notes analyzer and editor", Scope: ScopePersonal},
}

// All returns every registered bot in display order.
func All() []Meta {
	out := make([]Meta, len(registryOrder))
	copy(out, registryOrder)
	return out
}

// TeamBots returns the bots scoped to team projects.
func TeamBots() []Meta {
	return byScope(ScopeTeam)
}

// PersonalBots returns the bots scoped to personal projects.
func PersonalBots() []Meta {
	return byScope(ScopePersonal)
}

func byScope(s Scope) []Meta {
	var out []Meta
	for _, m := range registryOrder {
		if m.Scope == s {
			out = append(out, m)
		}
	}
	return out
}

// Lookup finds a bot by id.
func Lookup(id string) (Meta, bool) {
	for _, m := range registryOrder {
		if m.ID == id {
			return m, true
		}
	}
	return Meta{}, false
}
