package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wsafety/desk/pkg/core/failure"
	"github.com/wsafety/desk/pkg/core/model"
)

const pendingVerificationsPath = "/api/user/pending-verifications"

type adminRequest struct {
	AdminPassword string `json:"adminPassword"`
}

type pendingVerificationsResponse struct {
	Users []model.Volunteer `json:"users"`
}

// PendingVolunteers fetches every volunteer awaiting verification.
// A missing or null users field is an empty list.
func (c *Client) PendingVolunteers(ctx context.Context, credential string) ([]model.Volunteer, error) {
	var resp pendingVerificationsResponse
	if err := c.post(ctx, "apiclient.PendingVolunteers", c.verificationURL, pendingVerificationsPath, adminRequest{AdminPassword: credential}, &resp); err != nil {
		return nil, err
	}
	if resp.Users == nil {
		return []model.Volunteer{}, nil
	}
	return resp.Users, nil
}

// VerifyVolunteer approves a pending volunteer
func (c *Client) VerifyVolunteer(ctx context.Context, credential string, id model.ID) error {
	return c.review(ctx, credential, id, model.DecisionVerify)
}

// RejectVolunteer rejects a pending volunteer
func (c *Client) RejectVolunteer(ctx context.Context, credential string, id model.ID) error {
	return c.review(ctx, credential, id, model.DecisionReject)
}

func (c *Client) review(ctx context.Context, credential string, id model.ID, decision model.Decision) error {
	if !decision.IsValid() {
		return failure.Validation(fmt.Sprintf("unknown review decision %q", decision))
	}
	if id.IsZero() {
		return failure.Validation("volunteer id is required")
	}
	path := fmt.Sprintf("/api/user/%s/%s", decision, url.PathEscape(id.String()))
	return c.post(ctx, "apiclient.ReviewVolunteer", c.verificationURL, path, adminRequest{AdminPassword: credential}, nil)
}
