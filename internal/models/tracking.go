package models

// ActionType names a tracked one-shot user action.
type ActionType string

const (
	ActionGoalCreated      ActionType = "goal_created"
	ActionProjectCreated   ActionType = "project_created"
	ActionTaskCompleted    ActionType = "task_completed"
	ActionTimeBlockCreated ActionType = "time_block_created"
	ActionAIConversation   ActionType = "ai_conversation"
	ActionDocumentUploaded ActionType = "document_uploaded"
	ActionReferralSent     ActionType = "referral_sent"
)

// TrackData carries the optional payload of a tracked action.
type TrackData struct {
	Goals []Goal `json:"goals,omitempty"`
	Pro   bool   `json:"pro,omitempty"`
}

// Tier is the subscription level reported by the host application.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Paid reports whether the tier unlocks tier-gated achievements.
func (t Tier) Paid() bool {
	return t == TierPro || t == TierPremium
}
