package ads

import (
	"strings"
)

type CampaignStatus string

const (
	StatusActive   CampaignStatus = "active"
	StatusPaused   CampaignStatus = "paused"
	StatusFinished CampaignStatus = "finished"
)

func IsValidStatus(s CampaignStatus) bool {
	switch s {
	case StatusActive, StatusPaused, StatusFinished:
		return true
	}
	return false
}

// Campaign is one paid acquisition campaign, usually tied to a training.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Platform    string         `json:"platform,omitempty"`
	TrainingID  string         `json:"trainingId,omitempty"`
	StartDate   string         `json:"startDate,omitempty"`
	EndDate     string         `json:"endDate,omitempty"`
	Budget      float64        `json:"budget,omitempty"`
	Spend       float64        `json:"spend"`
	Impressions int            `json:"impressions"`
	Clicks      int            `json:"clicks"`
	Leads       int            `json:"leads"`
	Status      CampaignStatus `json:"status"`
	Notes       string         `json:"notes,omitempty"`
}

// Metrics are the derived performance figures. Zero denominators are guarded
// with max(x, 1) so an untouched campaign still renders.
type Metrics struct {
	CampaignID     string  `json:"campaignId"`
	CostPerLead    float64 `json:"costPerLead"`
	ConversionRate float64 `json:"conversionRate"` // leads per click, percent
	ClickThrough   float64 `json:"clickThrough"`   // clicks per impression, percent
	BudgetUsed     float64 `json:"budgetUsed"`     // spend over budget, percent
}

type CreateCampaignInput struct {
	Name       string  `json:"name"`
	Platform   string  `json:"platform,omitempty"`
	TrainingID string  `json:"trainingId,omitempty"`
	StartDate  string  `json:"startDate,omitempty"`
	EndDate    string  `json:"endDate,omitempty"`
	Budget     float64 `json:"budget,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

func (in *CreateCampaignInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Platform = strings.TrimSpace(in.Platform)
	in.TrainingID = strings.TrimSpace(in.TrainingID)
}

type UpdateCampaignInput struct {
	Name        *string         `json:"name,omitempty"`
	Platform    *string         `json:"platform,omitempty"`
	TrainingID  *string         `json:"trainingId,omitempty"`
	StartDate   *string         `json:"startDate,omitempty"`
	EndDate     *string         `json:"endDate,omitempty"`
	Budget      *float64        `json:"budget,omitempty"`
	Spend       *float64        `json:"spend,omitempty"`
	Impressions *int            `json:"impressions,omitempty"`
	Clicks      *int            `json:"clicks,omitempty"`
	Leads       *int            `json:"leads,omitempty"`
	Status      *CampaignStatus `json:"status,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}
