package models

import "time"

// ApplicationStatus — статус заявки команды на турнир (ребро APPLIED_FOR).
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// Application is the APPLIED_FOR edge joined with the applying team.
// Approved and Rejected are terminal: the edge is kept for audit and never
// deleted by the review path.
type Application struct {
	TeamID    string            `json:"teamId"`
	TeamName  string            `json:"name"`
	Sport     string            `json:"sport"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ApplicationSummary — облегчённая проекция заявки для агрегированных
// представлений (домашняя страница, страница турнира).
type ApplicationSummary struct {
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
	Sport  string `json:"sport"`
	Status string `json:"status"`
}
