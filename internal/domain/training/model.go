package training

import (
	"strings"
)

// Status is the soft lifecycle of a training. Trainings are never hard
// deleted; cancellation and completion are status changes.
type Status string

const (
	StatusPlanning         Status = "planning"
	StatusRegistrationPrep Status = "registration_prep"
	StatusRegistrationOpen Status = "registration_open"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPlanning, StatusRegistrationPrep, StatusRegistrationOpen, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ScheduleDay is one scheduled session of a training. Assignment attendance
// maps are keyed by its ID.
type ScheduleDay struct {
	ID        string `json:"id"`
	Date      string `json:"date"`      // "2006-01-02"
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
}

// Task is an operational to-do attached to a training.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

type Goals struct {
	TargetLeads        int     `json:"targetLeads"`
	TargetParticipants int     `json:"targetParticipants"`
	TargetRevenue      float64 `json:"targetRevenue"`
	MarketingBudget    float64 `json:"marketingBudget,omitempty"`
	CustomGoals        string  `json:"customGoals,omitempty"`
}

// Training is either a real, enrollable training (price > 0) or a grouping
// folder in the catalog tree. ParentTrainingID forms a forest; a node with
// children or without a price is treated as a folder.
type Training struct {
	ID               string        `json:"id"`
	ParentTrainingID string        `json:"parentTrainingId,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Content          string        `json:"content,omitempty"`
	InstructorIDs    []string      `json:"instructorIds"`
	StartDate        string        `json:"startDate,omitempty"` // "2006-01-02"
	EndDate          string        `json:"endDate,omitempty"`
	Schedule         []ScheduleDay `json:"schedule"`
	Price            float64       `json:"price"`
	EarlyBirdPrice   float64       `json:"earlyBirdPrice,omitempty"`
	SpecialPrice     float64       `json:"specialPrice,omitempty"`
	Quota            int           `json:"quota,omitempty"`
	Status           Status        `json:"status"`
	Location         string        `json:"location,omitempty"`
	Tasks            []Task        `json:"tasks"`
	Goals            Goals         `json:"goals"`
}

type CreateTrainingInput struct {
	ParentTrainingID string        `json:"parentTrainingId,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Content          string        `json:"content,omitempty"`
	InstructorIDs    []string      `json:"instructorIds,omitempty"`
	StartDate        string        `json:"startDate,omitempty"`
	EndDate          string        `json:"endDate,omitempty"`
	Schedule         []ScheduleDay `json:"schedule,omitempty"`
	Price            float64       `json:"price,omitempty"`
	EarlyBirdPrice   float64       `json:"earlyBirdPrice,omitempty"`
	SpecialPrice     float64       `json:"specialPrice,omitempty"`
	Quota            int           `json:"quota,omitempty"`
	Status           Status        `json:"status,omitempty"`
	Location         string        `json:"location,omitempty"`
	Goals            *Goals        `json:"goals,omitempty"`
}

func (in *CreateTrainingInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.ParentTrainingID = strings.TrimSpace(in.ParentTrainingID)
}

type UpdateTrainingInput struct {
	ParentTrainingID *string        `json:"parentTrainingId,omitempty"`
	Title            *string        `json:"title,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Content          *string        `json:"content,omitempty"`
	InstructorIDs    *[]string      `json:"instructorIds,omitempty"`
	StartDate        *string        `json:"startDate,omitempty"`
	EndDate          *string        `json:"endDate,omitempty"`
	Schedule         *[]ScheduleDay `json:"schedule,omitempty"`
	Price            *float64       `json:"price,omitempty"`
	EarlyBirdPrice   *float64       `json:"earlyBirdPrice,omitempty"`
	SpecialPrice     *float64       `json:"specialPrice,omitempty"`
	Quota            *int           `json:"quota,omitempty"`
	Status           *Status        `json:"status,omitempty"`
	Location         *string        `json:"location,omitempty"`
	Goals            *Goals         `json:"goals,omitempty"`
}

func (in *UpdateTrainingInput) Trim() {
	if in.Title != nil {
		*in.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		*in.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		*in.Location = strings.TrimSpace(*in.Location)
	}
	if in.ParentTrainingID != nil {
		*in.ParentTrainingID = strings.TrimSpace(*in.ParentTrainingID)
	}
}
