package settings

// ChecklistItem is one step of the global registration checklist. Assignments
// keep per-item completion flags keyed by the item ID; items can be removed
// later, in which case the stale flags are simply ignored.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Option is an entry of a user-editable dropdown list. The key is stable and
// is what gets stored on records; the label is display-only and can be
// renamed freely.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Registration status keys referenced by the participant lifecycle. The
// labels are editable; these keys are not.
const (
	RegStatusRegistered    = "registered"
	RegStatusWillRegister  = "will_register"
	RegStatusUndecided     = "undecided"
	RegStatusOtherTraining = "other_training"
	RegStatusNegative      = "negative"
)

// Option list names accepted by the settings API.
const (
	ListActions         = "actions"
	ListContactStatuses = "contact_statuses"
	ListRegStatuses     = "reg_statuses"
)

func defaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{ID: "c1", Label: "Registration entered in the system"},
		{ID: "c2", Label: "Invoice issued"},
		{ID: "c3", Label: "Welcome email sent"},
		{ID: "c4", Label: "Added to the training group chat"},
	}
}

func defaultActionOptions() []Option {
	return []Option{
		{Key: "call_again", Label: "Call again"},
		{Key: "send_email", Label: "Send email"},
		{Key: "awaiting_reply", Label: "Awaiting reply"},
		{Key: "send_registration_link", Label: "Send registration link"},
	}
}

func defaultContactStatusOptions() []Option {
	return []Option{
		{Key: "unreachable", Label: "Unreachable"},
		{Key: "spoke", Label: "Spoke"},
		{Key: "busy", Label: "Busy"},
		{Key: "will_call_back", Label: "Will call back"},
	}
}

func defaultRegStatusOptions() []Option {
	return []Option{
		{Key: RegStatusRegistered, Label: "Registered"},
		{Key: RegStatusWillRegister, Label: "Will register"},
		{Key: RegStatusUndecided, Label: "Undecided"},
		{Key: RegStatusOtherTraining, Label: "Attending another training"},
		{Key: RegStatusNegative, Label: "Negative"},
	}
}
