package instructor

import (
	"strings"
)

// Resume is the structured CV attached to an instructor, usually filled from
// an uploaded document.
type Resume struct {
	Summary     string       `json:"summary,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	Languages   []string     `json:"languages,omitempty"`
}

type Experience struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Period  string `json:"period,omitempty"`
	Details string `json:"details,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Year   string `json:"year,omitempty"`
}

// Instructor is someone who actually teaches trainings and gets paid for it.
type Instructor struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Title                 string  `json:"title,omitempty"`
	Phone                 string  `json:"phone,omitempty"`
	Email                 string  `json:"email,omitempty"`
	Specialty             string  `json:"specialty,omitempty"`
	DefaultCommissionRate float64 `json:"defaultCommissionRate,omitempty"`
	Resume                *Resume `json:"resume,omitempty"`
}

// Candidate statuses follow the hiring pipeline order.
type CandidateStatus string

const (
	CandidateNew         CandidateStatus = "new"
	CandidateContacted   CandidateStatus = "contacted"
	CandidateInterviewed CandidateStatus = "interviewed"
	CandidateOfferSent   CandidateStatus = "offer_sent"
	CandidateAgreed      CandidateStatus = "agreed"
	CandidateRejected    CandidateStatus = "rejected"
)

func IsValidCandidateStatus(s CandidateStatus) bool {
	switch s {
	case CandidateNew, CandidateContacted, CandidateInterviewed,
		CandidateOfferSent, CandidateAgreed, CandidateRejected:
		return true
	}
	return false
}

// CandidateNote is one touchpoint in the hiring conversation, newest first.
type CandidateNote struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Note string `json:"note"`
}

// Candidate is a potential instructor in the hiring pipeline. Promotion
// creates a fresh Instructor record; the candidate entry is kept for history.
type Candidate struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Email     string          `json:"email,omitempty"`
	Specialty string          `json:"specialty,omitempty"`
	Source    string          `json:"source,omitempty"`
	Status    CandidateStatus `json:"status"`
	Notes     []CandidateNote `json:"notes"`
	Resume    *Resume         `json:"resume,omitempty"`

	// set after promotion
	InstructorID string `json:"instructorId,omitempty"`
}

type CreateInstructorInput struct {
	Name                  string  `json:"name"`
	Title                 string  `json:"title,omitempty"`
	Phone                 string  `json:"phone,omitempty"`
	Email                 string  `json:"email,omitempty"`
	Specialty             string  `json:"specialty,omitempty"`
	DefaultCommissionRate float64 `json:"defaultCommissionRate,omitempty"`
}

func (in *CreateInstructorInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Title = strings.TrimSpace(in.Title)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Specialty = strings.TrimSpace(in.Specialty)
}

type UpdateInstructorInput struct {
	Name                  *string  `json:"name,omitempty"`
	Title                 *string  `json:"title,omitempty"`
	Phone                 *string  `json:"phone,omitempty"`
	Email                 *string  `json:"email,omitempty"`
	Specialty             *string  `json:"specialty,omitempty"`
	DefaultCommissionRate *float64 `json:"defaultCommissionRate,omitempty"`
}

type CreateCandidateInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Source    string `json:"source,omitempty"`
}

func (in *CreateCandidateInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Source = strings.TrimSpace(in.Source)
}
