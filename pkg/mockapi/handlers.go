package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wsafety/desk/pkg/core/model"
)

type adminRequest struct {
	AdminPassword string `json:"adminPassword"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type updateStatusRequest struct {
	Token      string               `json:"token"`
	DispatchID model.ID             `json:"dispatchId"`
	NewStatus  model.DispatchStatus `json:"newStatus"`
}

type dispatchRecord struct {
	DispatchID       model.ID             `json:"dispatchId"`
	ComplaintID      model.ID             `json:"complaintId"`
	VolunteerStatus  model.DispatchStatus `json:"volunteerStatus"`
	ComplainantName  string               `json:"complainantName"`
	ComplainantPhone string               `json:"complainantPhone"`
	Type             string               `json:"type"`
	Location         string               `json:"location"`
	Description      string               `json:"description,omitempty"`
	ReportedAt       string               `json:"reportedAt"`
}

func toRecord(d model.Dispatch) dispatchRecord {
	return dispatchRecord{
		DispatchID:       d.ID,
		ComplaintID:      d.Complaint.ID,
		VolunteerStatus:  d.Status,
		ComplainantName:  d.Complaint.ComplainantName,
		ComplainantPhone: d.Complaint.ComplainantPhone,
		Type:             d.Complaint.Type,
		Location:         d.Complaint.Location,
		Description:      d.Complaint.Description,
		ReportedAt:       d.Complaint.ReportedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) checkAdmin(w http.ResponseWriter, r *http.Request) bool {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if req.AdminPassword == "" || req.AdminPassword != s.adminPassword {
		writeError(w, http.StatusUnauthorized, "Invalid admin password")
		return false
	}
	return true
}

func (s *Server) handlePendingVerifications(w http.ResponseWriter, r *http.Request) {
	if !s.checkAdmin(w, r) {
		return
	}

	s.mu.Lock()
	users := make([]model.Volunteer, len(s.pending))
	copy(users, s.pending)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleReview(decision model.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.checkAdmin(w, r) {
			return
		}
		id := model.ID(chi.URLParam(r, "id"))

		s.mu.Lock()
		defer s.mu.Unlock()

		for i, v := range s.pending {
			if v.ID == id {
				s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
				s.reviewed[id] = decision.Result()
				writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
				return
			}
		}
		writeError(w, http.StatusNotFound, "User not found or already reviewed")
	}
}

func (s *Server) handleCheckDispatch(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	subject, err := s.verifyToken(req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	s.mu.Lock()
	records := make([]dispatchRecord, 0, len(s.dispatches[subject]))
	for _, d := range s.dispatches[subject] {
		records = append(records, toRecord(d))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"complaints": records})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	subject, err := s.verifyToken(req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if !req.NewStatus.IsTarget() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.dispatches[subject] {
		if d.ID == req.DispatchID {
			s.dispatches[subject][i].Status = req.NewStatus
			writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Dispatch not found")
}
