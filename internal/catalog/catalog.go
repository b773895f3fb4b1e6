// Package catalog holds the static achievement definitions. The set is
// fixed at build time; everything else in the daemon refers to
// achievements by id only.
package catalog

// Achievement ids. Persisted state references these strings, so they must
// never be renamed once shipped.
const (
	FirstGoal       = "goal-pioneer"
	FirstProject    = "project-architect"
	FirstTask       = "task-tamer"
	FirstTimeBlock  = "time-blocker"
	FirstAIChat     = "ai-companion"
	FirstDocument   = "document-keeper"
	FirstReferral   = "ambassador"
	DomainExplorer  = "domain-explorer"
	RenaissanceMind = "renaissance-mind"
	GoalCrusher     = "goal-crusher"
	StreakWeek      = "streak-week"
	StreakMonth     = "streak-month"
	StreakQuarter   = "streak-quarter"
	StreakHalfYear  = "streak-half-year"
	StreakYear      = "streak-year"
)

type Definition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var definitions = map[string]Definition{
	FirstGoal: {
		ID:          FirstGoal,
		Title:       "Goal Pioneer",
		Description: "Created your very first goal",
		Icon:        "🎯",
	},
	FirstProject: {
		ID:          FirstProject,
		Title:       "Project Architect",
		Description: "Created your first project",
		Icon:        "🏗️",
	},
	FirstTask: {
		ID:          FirstTask,
		Title:       "Task Tamer",
		Description: "Completed your first task",
		Icon:        "✅",
	},
	FirstTimeBlock: {
		ID:          FirstTimeBlock,
		Title:       "Time Blocker",
		Description: "Scheduled your first time block",
		Icon:        "📅",
	},
	FirstAIChat: {
		ID:          FirstAIChat,
		Title:       "AI Companion",
		Description: "Had your first conversation with the assistant",
		Icon:        "🤖",
	},
	FirstDocument: {
		ID:          FirstDocument,
		Title:       "Document Keeper",
		Description: "Uploaded your first document",
		Icon:        "📄",
	},
	FirstReferral: {
		ID:          FirstReferral,
		Title:       "Ambassador",
		Description: "Invited your first friend",
		Icon:        "📣",
	},
	DomainExplorer: {
		ID:          DomainExplorer,
		Title:       "Domain Explorer",
		Description: "Set goals across three different areas of life",
		Icon:        "🧭",
	},
	RenaissanceMind: {
		ID:          RenaissanceMind,
		Title:       "Renaissance Mind",
		Description: "A true generalist: three life domains on a Pro plan",
		Icon:        "🎨",
	},
	GoalCrusher: {
		ID:          GoalCrusher,
		Title:       "Goal Crusher",
		Description: "Completed a goal from start to finish",
		Icon:        "🏆",
	},
	StreakWeek: {
		ID:          StreakWeek,
		Title:       "Week Warrior",
		Description: "Opened the app 7 days in a row",
		Icon:        "🔥",
	},
	StreakMonth: {
		ID:          StreakMonth,
		Title:       "Monthly Devotee",
		Description: "A full month of daily check-ins",
		Icon:        "⚡",
	},
	StreakQuarter: {
		ID:          StreakQuarter,
		Title:       "Quarterly Champion",
		Description: "90 consecutive days of showing up",
		Icon:        "💎",
	},
	StreakHalfYear: {
		ID:          StreakHalfYear,
		Title:       "Half-Year Hero",
		Description: "180 days without missing a single one",
		Icon:        "🌟",
	},
	StreakYear: {
		ID:          StreakYear,
		Title:       "Year One Legend",
		Description: "365 days straight. Unstoppable.",
		Icon:        "👑",
	},
}

func Get(id string) (Definition, bool) {
	def, ok := definitions[id]
	return def, ok
}

func All() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def)
	}
	return out
}

func Len() int {
	return len(definitions)
}

// iconDomains maps a goal icon to a life domain, used as a fallback when a
// goal carries no explicit domain tag.
var iconDomains = map[string]string{
	"💪": "Health",
	"🏃": "Health",
	"🧘": "Mindfulness",
	"💼": "Career",
	"🚀": "Career",
	"💰": "Finance",
	"📈": "Finance",
	"📚": "Learning",
	"🎓": "Learning",
	"❤️": "Relationships",
	"👪": "Relationships",
	"🎨": "Creativity",
	"🎸": "Creativity",
	"✈️": "Travel",
}

// DomainForIcon returns the life domain associated with a goal icon, or ""
// when the icon is unknown.
func DomainForIcon(icon string) string {
	return iconDomains[icon]
}
