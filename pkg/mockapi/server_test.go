package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsafety/desk/pkg/core/model"
)

func post(t *testing.T, s *Server, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	s := New()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestPendingVerifications(t *testing.T) {
	s := New(WithAdminPassword("pw"))
	s.AddVolunteer(model.Volunteer{ID: "1", Name: "Asha"})

	code, body := post(t, s, RoutePendingVerifications, `{"adminPassword":"pw"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["users"], 1)

	code, body = post(t, s, RoutePendingVerifications, `{"adminPassword":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid admin password", body["error"])

	code, _ = post(t, s, RoutePendingVerifications, `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, 3, s.Calls(RoutePendingVerifications))
}

func TestReview(t *testing.T) {
	s := New()
	s.AddVolunteer(model.Volunteer{ID: "1"})
	s.AddVolunteer(model.Volunteer{ID: "2"})

	code, _ := post(t, s, "/api/user/reject/1", `{"adminPassword":"secret"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.VerificationRejected, s.ReviewStatus("1"))
	assert.Equal(t, model.VerificationPending, s.ReviewStatus("2"))
	assert.Empty(t, s.ReviewStatus("3"))

	code, body := post(t, s, "/api/user/verify/1", `{"adminPassword":"secret"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found or already reviewed", body["error"])
	assert.Equal(t, 1, s.Calls(RouteVerify))
	assert.Equal(t, 1, s.Calls(RouteReject))
}

func TestFailNext(t *testing.T) {
	s := New()

	s.FailNext(RoutePendingVerifications, http.StatusServiceUnavailable, "maintenance")
	code, body := post(t, s, RoutePendingVerifications, `{"adminPassword":"secret"}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "maintenance", body["error"])

	s.FailNext(RoutePendingVerifications, http.StatusInternalServerError, "")
	code, body = post(t, s, RoutePendingVerifications, `{"adminPassword":"secret"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, body, "error")

	// rules apply once
	code, _ = post(t, s, RoutePendingVerifications, `{"adminPassword":"secret"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestCheckDispatch(t *testing.T) {
	s := New()
	SeedDemo(s)
	token, err := s.IssueToken(DemoSubject, "VOLUNTEER")
	require.NoError(t, err)

	code, body := post(t, s, RouteCheckDispatch, `{"token":"`+token+`"}`)
	require.Equal(t, http.StatusOK, code)
	complaints, ok := body["complaints"].([]any)
	require.True(t, ok)
	require.Len(t, complaints, 2)
	first := complaints[0].(map[string]any)
	assert.Equal(t, float64(501), first["dispatchId"], "numeric ids go out as numbers")
	assert.Equal(t, "PENDING", first["volunteerStatus"])
	assert.Equal(t, "2025-03-14T18:30:00Z", first["reportedAt"])

	// other volunteers see nothing
	other, err := s.IssueToken("202", "VOLUNTEER")
	require.NoError(t, err)
	_, body = post(t, s, RouteCheckDispatch, `{"token":"`+other+`"}`)
	assert.Empty(t, body["complaints"])
}

func TestCheckDispatch_RejectsBadTokens(t *testing.T) {
	s := New(WithSigningKey("real-key"))

	forged, err := New(WithSigningKey("other-key")).IssueToken(DemoSubject, "VOLUNTEER")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := s.IssueToken(DemoSubject, "VOLUNTEER")
	require.NoError(t, err)
	s.now = time.Now

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: DemoSubject}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"forged":   forged,
		"expired":  expired,
		"unsigned": unsigned,
		"garbage":  "not-a-token",
		"empty":    "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			code, body := post(t, s, RouteCheckDispatch, `{"token":"`+token+`"}`)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, "Invalid or expired token", body["error"])
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	s := New()
	SeedDemo(s)
	token, err := s.IssueToken(DemoSubject, "VOLUNTEER")
	require.NoError(t, err)

	code, _ := post(t, s, RouteUpdateStatus, `{"token":"`+token+`","dispatchId":501,"newStatus":"RESOLVED"}`)
	require.Equal(t, http.StatusOK, code)
	status, ok := s.DispatchStatus(DemoSubject, "501")
	require.True(t, ok)
	assert.Equal(t, model.DispatchResolved, status)

	code, body := post(t, s, RouteUpdateStatus, `{"token":"`+token+`","dispatchId":"501","newStatus":"PENDING"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid status", body["error"])

	code, body = post(t, s, RouteUpdateStatus, `{"token":"`+token+`","dispatchId":"999","newStatus":"IN_PROGRESS"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Dispatch not found", body["error"])

	_, ok = s.DispatchStatus(DemoSubject, "999")
	assert.False(t, ok)
}
