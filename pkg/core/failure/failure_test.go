package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type FailureSuite struct {
	suite.Suite
}

func TestFailureSuite(t *testing.T) {
	suite.Run(t, new(FailureSuite))
}

func (s *FailureSuite) TestErrorString() {
	s.Run("message only", func() {
		s.Equal("admin password is required", Validation("admin password is required").Error())
	})

	s.Run("message with cause", func() {
		err := Transport(0, "", errors.New("connection refused"))
		s.Equal("request failed: connection refused", err.Error())
	})

	s.Run("status and server message", func() {
		err := Transport(401, "Invalid admin password", nil)
		s.Equal("request failed with status 401: Invalid admin password", err.Error())
	})

	s.Run("kind when empty", func() {
		s.Equal("decode", (&Error{Kind: KindDecode}).Error())
	})
}

func (s *FailureSuite) TestIsMatchesKind() {
	err := fmt.Errorf("fetch: %w", Transport(500, "", nil))
	s.True(errors.Is(err, &Error{Kind: KindTransport}))
	s.False(errors.Is(err, &Error{Kind: KindValidation}))
}

func (s *FailureSuite) TestUnwrap() {
	cause := errors.New("boom")
	err := Decode("malformed token", cause)
	s.ErrorIs(err, cause)
}

func (s *FailureSuite) TestHasKind() {
	s.True(HasKind(Blocked("busy"), KindBlocked))
	s.False(HasKind(errors.New("plain"), KindBlocked))
	s.Equal(Kind(""), KindOf(nil))
}

func (s *FailureSuite) TestServerMessage() {
	s.Equal("nope", ServerMessage(fmt.Errorf("wrapped: %w", Transport(403, "nope", nil))))
	s.Equal("", ServerMessage(errors.New("plain")))
}

func (s *FailureSuite) TestUserMessage() {
	s.Run("transport with server text", func() {
		s.Equal("User not found", UserMessage(Transport(404, "User not found", nil), "Error verifying user."))
	})

	s.Run("transport without server text", func() {
		s.Equal("Error verifying user.", UserMessage(Transport(0, "", errors.New("timeout")), "Error verifying user."))
	})

	s.Run("validation shows its own message", func() {
		s.Equal("Admin password is required.", UserMessage(Validation("Admin password is required."), "fallback"))
	})

	s.Run("unclassified error", func() {
		s.Equal("fallback", UserMessage(errors.New("plain"), "fallback"))
	})
}
