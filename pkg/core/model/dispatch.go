package model

import (
	"strings"
	"time"
)

// DispatchStatus is the volunteer-side lifecycle state of a dispatch
type DispatchStatus string

const (
	DispatchPending    DispatchStatus = "PENDING"
	DispatchInProgress DispatchStatus = "IN_PROGRESS"
	DispatchResolved   DispatchStatus = "RESOLVED"
)

func (s DispatchStatus) IsValid() bool {
	return s == DispatchPending || s == DispatchInProgress || s == DispatchResolved
}

// IsTarget reports whether a volunteer may request a move to this status
func (s DispatchStatus) IsTarget() bool {
	return s == DispatchInProgress || s == DispatchResolved
}

// IsTerminal reports whether no further transitions apply
func (s DispatchStatus) IsTerminal() bool {
	return s == DispatchResolved
}

// Label renders the status for people ("IN_PROGRESS" -> "IN PROGRESS")
func (s DispatchStatus) Label() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// Complaint is an incident report. Read-only from the client's perspective.
type Complaint struct {
	ID               ID
	ComplainantName  string
	ComplainantPhone string
	Type             string
	Location         string
	Description      string
	ReportedAt       time.Time
}

// Dispatch binds one complaint to the signed-in volunteer and carries its
// own status, independent of the complaint fields
type Dispatch struct {
	ID        ID
	Status    DispatchStatus
	Complaint Complaint
}

// ComplaintID returns the id of the bound complaint
func (d Dispatch) ComplaintID() ID {
	return d.Complaint.ID
}
