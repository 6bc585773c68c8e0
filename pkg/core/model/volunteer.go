package model

import "strings"

// VerificationStatus is the admin-side review state of a volunteer
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

func (s VerificationStatus) IsValid() bool {
	return s == VerificationPending || s == VerificationVerified || s == VerificationRejected
}

// Decision is the outcome an admin applies to a pending volunteer
type Decision string

const (
	DecisionVerify Decision = "verify"
	DecisionReject Decision = "reject"
)

func (d Decision) IsValid() bool {
	return d == DecisionVerify || d == DecisionReject
}

// Result is the verification status a decision moves the volunteer to
func (d Decision) Result() VerificationStatus {
	if d == DecisionReject {
		return VerificationRejected
	}
	return VerificationVerified
}

// Volunteer is a prospective volunteer awaiting admin review.
// Only pending volunteers are ever loaded, so Status is implicit.
type Volunteer struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	ProofPath string `json:"filePath,omitempty"`
}

// Status always reports PENDING for a loaded volunteer
func (v Volunteer) Status() VerificationStatus {
	return VerificationPending
}

// HasProof reports whether the volunteer uploaded a proof of identity
func (v Volunteer) HasProof() bool {
	return v.ProofPath != ""
}

// ProofURL resolves the proof reference against the backend base URL.
// Absolute references are returned unchanged.
func (v Volunteer) ProofURL(baseURL string) string {
	if v.ProofPath == "" {
		return ""
	}
	if strings.HasPrefix(v.ProofPath, "http://") || strings.HasPrefix(v.ProofPath, "https://") {
		return v.ProofPath
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(v.ProofPath, "/")
}
