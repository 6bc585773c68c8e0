package apiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/wsafety/desk/pkg/core/failure"
	"github.com/wsafety/desk/pkg/core/model"
)

const (
	checkDispatchPath = "/api/user/check-dispatch"
	updateStatusPath  = "/api/complaint/updateVolunteers"
)

type tokenRequest struct {
	Token string `json:"token"`
}

// dispatchRecord is the wire shape of an assigned dispatch: the backend
// inlines the complaint fields next to the dispatch's own
type dispatchRecord struct {
	DispatchID       model.ID             `json:"dispatchId"`
	ComplaintID      model.ID             `json:"complaintId"`
	VolunteerStatus  model.DispatchStatus `json:"volunteerStatus"`
	ComplainantName  string               `json:"complainantName"`
	ComplainantPhone string               `json:"complainantPhone"`
	Type             string               `json:"type"`
	Location         string               `json:"location"`
	Description      string               `json:"description"`
	ReportedAt       string               `json:"reportedAt"`
}

func (r dispatchRecord) toModel() model.Dispatch {
	status := r.VolunteerStatus
	if status == "" {
		status = model.DispatchPending
	}
	return model.Dispatch{
		ID:     r.DispatchID,
		Status: status,
		Complaint: model.Complaint{
			ID:               r.ComplaintID,
			ComplainantName:  r.ComplainantName,
			ComplainantPhone: r.ComplainantPhone,
			Type:             r.Type,
			Location:         r.Location,
			Description:      r.Description,
			ReportedAt:       parseTimestamp(r.ReportedAt),
		},
	}
}

// parseTimestamp accepts the layouts the backend has been seen to emit and
// returns the zero time for anything else
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type checkDispatchResponse struct {
	Complaints []dispatchRecord `json:"complaints"`
}

type updateStatusRequest struct {
	Token      string               `json:"token" validate:"required"`
	DispatchID model.ID             `json:"dispatchId" validate:"required"`
	NewStatus  model.DispatchStatus `json:"newStatus" validate:"required,oneof=IN_PROGRESS RESOLVED"`
}

// AssignedDispatches fetches the dispatches assigned to the token's owner
func (c *Client) AssignedDispatches(ctx context.Context, token string) ([]model.Dispatch, error) {
	var resp checkDispatchResponse
	if err := c.post(ctx, "apiclient.AssignedDispatches", c.dispatchURL, checkDispatchPath, tokenRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	dispatches := make([]model.Dispatch, 0, len(resp.Complaints))
	for _, rec := range resp.Complaints {
		dispatches = append(dispatches, rec.toModel())
	}
	return dispatches, nil
}

// UpdateDispatchStatus moves a dispatch to status
func (c *Client) UpdateDispatchStatus(ctx context.Context, token string, id model.ID, status model.DispatchStatus) error {
	req := updateStatusRequest{Token: token, DispatchID: id, NewStatus: status}
	if err := validate.Struct(req); err != nil {
		return &failure.Error{Kind: failure.KindValidation, Message: fmt.Sprintf("invalid status update for dispatch %q", id), Err: err}
	}
	return c.post(ctx, "apiclient.UpdateDispatchStatus", c.dispatchURL, updateStatusPath, req, nil)
}
