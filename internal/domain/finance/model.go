package finance

// ExpenseLine is one manually entered cost item on a training's report.
type ExpenseLine struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Expense is the per-training report configuration: the toggles, the manual
// cost lines and the chosen revenue-share ratio. The two line lists hit
// different stages: instructor expenses shrink the commission base before the
// payout, custom expenses come off the net profit after it.
type Expense struct {
	TrainingID         string        `json:"trainingId"`
	ApplyVAT           bool          `json:"applyVat"`
	ApplyWithholding   bool          `json:"applyWithholding"`
	InstructorExpenses []ExpenseLine `json:"instructorExpenses"`
	CustomExpenses     []ExpenseLine `json:"customExpenses"`
	ShareRatio         float64       `json:"shareRatio"` // house share in percent
}

// WaterfallInput carries everything the deduction chain needs.
type WaterfallInput struct {
	Gross            float64
	ApplyVAT         bool
	ApplyWithholding bool
	ExtraExpenses    float64
	CommissionRate   float64 // 0 means use the default
}

// Waterfall is the fully resolved deduction chain for one training.
type Waterfall struct {
	Gross            float64 `json:"gross"`
	VAT              float64 `json:"vat"`
	Withholding      float64 `json:"withholding"`
	ExtraExpenses    float64 `json:"extraExpenses"`
	CommissionBase   float64 `json:"commissionBase"`
	CommissionRate   float64 `json:"commissionRate"`
	InstructorPayout float64 `json:"instructorPayout"`
}

// Share is the two-way split of a net profit figure. The halves are computed
// independently and may not sum exactly to the input under floating point.
type Share struct {
	Profit float64 `json:"profit"`
	Ratio  float64 `json:"ratio"`
	House  float64 `json:"house"`
	Team   float64 `json:"team"`
}

// InstructorReport is the payout view for one training.
type InstructorReport struct {
	TrainingID      string    `json:"trainingId"`
	TrainingTitle   string    `json:"trainingTitle"`
	InstructorID    string    `json:"instructorId,omitempty"`
	InstructorName  string    `json:"instructorName,omitempty"`
	Headcount       int       `json:"headcount"`
	ProjectedGross  float64   `json:"projectedGross"`
	CollectedGross  float64   `json:"collectedGross"`
	Waterfall       Waterfall `json:"waterfall"`
	CustomExpenses  float64   `json:"customExpenses"`
	NetProfit       float64   `json:"netProfit"`
	Split           Share     `json:"split"`
}

// Summary is the company-wide financial overview.
type Summary struct {
	ProjectedGross  float64            `json:"projectedGross"`
	CollectedTotal  float64            `json:"collectedTotal"`
	TotalExpenses   float64            `json:"totalExpenses"`
	ByTraining      map[string]float64 `json:"byTraining"` // trainingId -> collected
	ParticipantDebt float64            `json:"participantDebt"`
}
