package models

type EventType string

const (
	EventGoalCreated      EventType = "goal_created"
	EventProjectCreated   EventType = "project_created"
	EventTaskCompleted    EventType = "task_completed"
	EventGoalCompleted    EventType = "goal_completed"
	EventTimeBlockCreated EventType = "time_block_created"
	EventAIConversation   EventType = "ai_conversation"
	EventDocumentUploaded EventType = "document_uploaded"
	EventReferralSent     EventType = "referral_sent"
)

// Goal is the slice of goal data the rules care about. The UI owns the
// full goal model; only domain/icon/completion state crosses the boundary.
type Goal struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// Event is the tagged context handed to the rule evaluator. Which fields
// are meaningful depends on Type.
type Event struct {
	Type  EventType `json:"type"`
	Goals []Goal    `json:"goals,omitempty"`
	First bool      `json:"first,omitempty"`
	Pro   bool      `json:"pro,omitempty"`
}
