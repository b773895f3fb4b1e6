package models

// UnlockRecord is the persisted unlock state for a single achievement.
// Unlocked never goes back to false and Date is never rewritten; Seen only
// transitions false to true.
type UnlockRecord struct {
	Unlocked bool   `json:"unlocked"`
	Date     string `json:"date,omitempty"`
	Seen     bool   `json:"seen"`
}

// Ledger maps achievement id to unlock state. The whole mapping is stored
// under a single key, serialized as JSON.
type Ledger map[string]UnlockRecord

func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}
