// Package mockapi is an in-memory stand-in for the W-Safety backend. It
// serves the same endpoints the desk client calls, for local development and
// HTTP-level tests.
package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/core/model"
)

const (
	defaultAdminPassword = "secret"
	defaultSigningKey    = "mockapi-signing-key"
	tokenTTL             = 24 * time.Hour
)

type volunteerClaims struct {
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

type failureRule struct {
	status  int
	message string
}

// Server holds the backend state
type Server struct {
	mu            sync.Mutex
	adminPassword string
	signingKey    []byte
	logger        *zap.Logger
	now           func() time.Time

	pending    []model.Volunteer
	reviewed   map[model.ID]model.VerificationStatus
	dispatches map[string][]model.Dispatch // by volunteer subject
	failNext   map[string]failureRule      // by route pattern
	calls      map[string]int              // by route pattern
}

// Option configures the Server
type Option func(*Server)

// WithAdminPassword sets the password admin endpoints require
func WithAdminPassword(password string) Option {
	return func(s *Server) {
		s.adminPassword = password
	}
}

// WithSigningKey sets the HMAC key used for volunteer tokens
func WithSigningKey(key string) Option {
	return func(s *Server) {
		s.signingKey = []byte(key)
	}
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty server
func New(opts ...Option) *Server {
	s := &Server{
		adminPassword: defaultAdminPassword,
		signingKey:    []byte(defaultSigningKey),
		logger:        zap.NewNop(),
		now:           time.Now,
		reviewed:      make(map[model.ID]model.VerificationStatus),
		dispatches:    make(map[string][]model.Dispatch),
		failNext:      make(map[string]failureRule),
		calls:         make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Route patterns, usable with FailNext and Calls
const (
	RoutePendingVerifications = "/api/user/pending-verifications"
	RouteVerify               = "/api/user/verify/{id}"
	RouteReject               = "/api/user/reject/{id}"
	RouteCheckDispatch        = "/api/user/check-dispatch"
	RouteUpdateStatus         = "/api/complaint/updateVolunteers"
	RouteHealth               = "/health"
)

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get(RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "mockapi"})
	})
	r.Post(RoutePendingVerifications, s.track(RoutePendingVerifications, s.handlePendingVerifications))
	r.Post(RouteVerify, s.track(RouteVerify, s.handleReview(model.DecisionVerify)))
	r.Post(RouteReject, s.track(RouteReject, s.handleReview(model.DecisionReject)))
	r.Post(RouteCheckDispatch, s.track(RouteCheckDispatch, s.handleCheckDispatch))
	r.Post(RouteUpdateStatus, s.track(RouteUpdateStatus, s.handleUpdateStatus))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// track counts calls per route and serves any failure queued with FailNext
func (s *Server) track(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		rule, fail := s.failNext[route]
		delete(s.failNext, route)
		s.mu.Unlock()

		if fail {
			writeError(w, rule.status, rule.message)
			return
		}
		next(w, r)
	}
}

// FailNext makes the next call to route fail with status. An empty message
// produces a failure body without an error field.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[route] = failureRule{status: status, message: message}
}

// Calls returns how many requests route has received
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// AddVolunteer registers a pending volunteer
func (s *Server) AddVolunteer(v model.Volunteer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, v)
}

// ReviewStatus returns the verification status of a volunteer
func (s *Server) ReviewStatus(id model.ID) model.VerificationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.reviewed[id]; ok {
		return status
	}
	for _, v := range s.pending {
		if v.ID == id {
			return model.VerificationPending
		}
	}
	return ""
}

// Assign binds a dispatch to the volunteer identified by subject
func (s *Server) Assign(subject string, d model.Dispatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatches[subject] = append(s.dispatches[subject], d)
}

// DispatchStatus returns the stored status of a volunteer's dispatch
func (s *Server) DispatchStatus(subject string, id model.ID) (model.DispatchStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dispatches[subject] {
		if d.ID == id {
			return d.Status, true
		}
	}
	return "", false
}

// IssueToken mints a signed volunteer token
func (s *Server) IssueToken(subject, userType string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, volunteerClaims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Server) verifyToken(raw string) (string, error) {
	var claims volunteerClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		writeJSON(w, status, map[string]string{})
		return
	}
	writeJSON(w, status, map[string]string{"error": message})
}
