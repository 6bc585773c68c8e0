package mockapi

import (
	"time"

	"github.com/wsafety/desk/pkg/core/model"
)

// DemoSubject is the volunteer the demo dispatches are assigned to
const DemoSubject = "101"

// SeedDemo fills the server with a few pending volunteers and dispatches
func SeedDemo(s *Server) {
	s.AddVolunteer(model.Volunteer{ID: "1", Name: "Asha Verma", Email: "asha@example.com", Type: "NGO", Location: "Pune", ProofPath: "/uploads/asha.png"})
	s.AddVolunteer(model.Volunteer{ID: "2", Name: "Ravi Kumar", Email: "ravi@example.com", Type: "INDIVIDUAL", Location: "Mumbai"})
	s.AddVolunteer(model.Volunteer{ID: "3", Name: "Meera Joshi", Email: "meera@example.com", Type: "POLICE", Location: "Nagpur", ProofPath: "/uploads/meera.jpg"})

	reported := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	s.Assign(DemoSubject, model.Dispatch{
		ID:     "501",
		Status: model.DispatchPending,
		Complaint: model.Complaint{
			ID: "C-9001", ComplainantName: "Priya S", ComplainantPhone: "+91 98200 00001",
			Type: "HARASSMENT", Location: "Andheri station", Description: "Followed from the platform exit.",
			ReportedAt: reported,
		},
	})
	s.Assign(DemoSubject, model.Dispatch{
		ID:     "502",
		Status: model.DispatchInProgress,
		Complaint: model.Complaint{
			ID: "C-9002", ComplainantName: "Neha R", ComplainantPhone: "+91 98200 00002",
			Type: "STALKING", Location: "FC Road", ReportedAt: reported.Add(2 * time.Hour),
		},
	})
}
