package participant

import (
	"strings"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPending  PaymentStatus = "pending"
	PaymentRefunded PaymentStatus = "refunded"
)

func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPaid, PaymentPartial, PaymentPending, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodCash     PaymentMethod = "cash"
	MethodOnline   PaymentMethod = "online"
)

func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCard, MethodTransfer, MethodCash, MethodOnline:
		return true
	}
	return false
}

type ParticipationType string

const (
	ParticipationOnline   ParticipationType = "online"
	ParticipationHybrid   ParticipationType = "hybrid"
	ParticipationInPerson ParticipationType = "in_person"
)

type InteractionType string

const (
	InteractionCall    InteractionType = "call"
	InteractionEmail   InteractionType = "email"
	InteractionNote    InteractionType = "note"
	InteractionMeeting InteractionType = "meeting"
)

// PaymentRecord is one collected payment on an assignment. Append-only; the
// sum of a participant's payment amounts is what was actually collected,
// independent of the training's current list price.
type PaymentRecord struct {
	ID          string        `firestore:"id" json:"id"`
	Amount      float64       `firestore:"amount" json:"amount"`
	Method      PaymentMethod `firestore:"method" json:"method"`
	Date        string        `firestore:"date" json:"date"`
	Description string        `firestore:"description,omitempty" json:"description,omitempty"`
	ReceiptURL  string        `firestore:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
}

// InteractionLog is one contact touchpoint, newest first.
type InteractionLog struct {
	ID          string          `firestore:"id" json:"id"`
	Date        string          `firestore:"date" json:"date"`
	Type        InteractionType `firestore:"type" json:"type"`
	Note        string          `firestore:"note" json:"note"`
	PerformedBy string          `firestore:"performedBy" json:"performedBy"`
}

type DocumentType string

const (
	DocCertificate DocumentType = "CERTIFICATE"
	DocInvoice     DocumentType = "INVOICE"
	DocOther       DocumentType = "OTHER"
)

type Document struct {
	ID         string       `firestore:"id" json:"id"`
	Name       string       `firestore:"name" json:"name"`
	URL        string       `firestore:"url" json:"url"`
	UploadDate string       `firestore:"uploadDate" json:"uploadDate"`
	Type       DocumentType `firestore:"type" json:"type"`
}

// TrainingAssignment ties a participant to one training. The trainingId is a
// weak reference: the training may be gone and everything still has to
// render, contributing zero to any aggregate.
type TrainingAssignment struct {
	TrainingID           string            `firestore:"trainingId" json:"trainingId"`
	RegStatus            string            `firestore:"regStatus" json:"regStatus"`
	PaymentStatus        PaymentStatus     `firestore:"paymentStatus" json:"paymentStatus"`
	RegistrationDate     string            `firestore:"registrationDate" json:"registrationDate"`
	Discount             float64           `firestore:"discount,omitempty" json:"discount,omitempty"`
	ParticipationType    ParticipationType `firestore:"participationType,omitempty" json:"participationType,omitempty"`
	Payments             []PaymentRecord   `firestore:"payments" json:"payments"`
	Attendance           map[string]bool   `firestore:"attendance,omitempty" json:"attendance,omitempty"`         // scheduleDayId -> attended
	ChecklistState       map[string]bool   `firestore:"checklistState,omitempty" json:"checklistState,omitempty"` // checklistItemId -> checked
	NextAction           string            `firestore:"nextAction,omitempty" json:"nextAction,omitempty"`
	CurrentContactStatus string            `firestore:"currentContactStatus,omitempty" json:"currentContactStatus,omitempty"`
}

// CollectedAmount is the sum of payments actually recorded on this
// assignment.
func (a TrainingAssignment) CollectedAmount() float64 {
	var sum float64
	for _, p := range a.Payments {
		sum += p.Amount
	}
	return sum
}

// Participant is a person anywhere between raw lead and paying attendee. The
// remote store is the single persistence authority; IDs are assigned by it.
type Participant struct {
	ID         string `firestore:"-" json:"id"`
	Name       string `firestore:"name" json:"name"`
	Phone      string `firestore:"phone,omitempty" json:"phone,omitempty"`
	Email      string `firestore:"email,omitempty" json:"email,omitempty"`
	NationalID string `firestore:"nationalId,omitempty" json:"nationalId,omitempty"`
	Notes      string `firestore:"notes,omitempty" json:"notes,omitempty"`

	Assignments    []TrainingAssignment `firestore:"assignments" json:"assignments"`
	InteractionLog []InteractionLog     `firestore:"interactionLog" json:"interactionLog"`
	Documents      []Document           `firestore:"documents" json:"documents"`

	// Legacy CRM fields kept for imported records.
	CrmStatus       string `firestore:"crmStatus,omitempty" json:"crmStatus,omitempty"`
	NextContactDate string `firestore:"nextContactDate,omitempty" json:"nextContactDate,omitempty"`
}

// Clone returns a deep copy. Mutation drafts must never alias the cached
// record's slices and maps, or a failed store write leaves half-applied
// state behind.
func (p Participant) Clone() Participant {
	cp := p
	cp.Assignments = make([]TrainingAssignment, len(p.Assignments))
	for i, a := range p.Assignments {
		a.Payments = append([]PaymentRecord(nil), a.Payments...)
		if a.Attendance != nil {
			m := make(map[string]bool, len(a.Attendance))
			for k, v := range a.Attendance {
				m[k] = v
			}
			a.Attendance = m
		}
		if a.ChecklistState != nil {
			m := make(map[string]bool, len(a.ChecklistState))
			for k, v := range a.ChecklistState {
				m[k] = v
			}
			a.ChecklistState = m
		}
		cp.Assignments[i] = a
	}
	cp.InteractionLog = append([]InteractionLog(nil), p.InteractionLog...)
	cp.Documents = append([]Document(nil), p.Documents...)
	return cp
}

// AssignmentFor returns the assignment referencing trainingID, if any.
func (p Participant) AssignmentFor(trainingID string) (*TrainingAssignment, bool) {
	for i := range p.Assignments {
		if p.Assignments[i].TrainingID == trainingID {
			return &p.Assignments[i], true
		}
	}
	return nil, false
}

type CreateParticipantInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (in *CreateParticipantInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.NationalID = strings.TrimSpace(in.NationalID)
}

type UpdateParticipantInput struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Email           *string `json:"email,omitempty"`
	NationalID      *string `json:"nationalId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CrmStatus       *string `json:"crmStatus,omitempty"`
	NextContactDate *string `json:"nextContactDate,omitempty"`
}

func (in *UpdateParticipantInput) Trim() {
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		*in.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		*in.Email = strings.TrimSpace(*in.Email)
	}
}

type AssignmentInput struct {
	TrainingID        string            `json:"trainingId"`
	RegStatus         string            `json:"regStatus"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus,omitempty"`
	RegistrationDate  string            `json:"registrationDate,omitempty"`
	Discount          float64           `json:"discount,omitempty"`
	ParticipationType ParticipationType `json:"participationType,omitempty"`
}

type UpdateAssignmentInput struct {
	RegStatus            *string            `json:"regStatus,omitempty"`
	PaymentStatus        *PaymentStatus     `json:"paymentStatus,omitempty"`
	Discount             *float64           `json:"discount,omitempty"`
	ParticipationType    *ParticipationType `json:"participationType,omitempty"`
	NextAction           *string            `json:"nextAction,omitempty"`
	CurrentContactStatus *string            `json:"currentContactStatus,omitempty"`
}

type PaymentInput struct {
	Amount      float64       `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Date        string        `json:"date,omitempty"`
	Description string        `json:"description,omitempty"`
	ReceiptURL  string        `json:"receiptUrl,omitempty"`
}

type InteractionInput struct {
	Type        InteractionType `json:"type"`
	Note        string          `json:"note"`
	PerformedBy string          `json:"performedBy,omitempty"`
}
