package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wsafety/desk/pkg/clients/apiclient"
	"github.com/wsafety/desk/pkg/core/dispatch"
	"github.com/wsafety/desk/pkg/core/identity"
	"github.com/wsafety/desk/pkg/core/model"
	"github.com/wsafety/desk/pkg/core/notify"
	"github.com/wsafety/desk/pkg/core/verification"
	"github.com/wsafety/desk/pkg/mockapi"
	"github.com/wsafety/desk/pkg/tokenstore"
)

type testEnv struct {
	app     *AppContext
	backend *mockapi.Server
	out     *bytes.Buffer
}

const testQueueSize = 20

func newTestEnv(t *testing.T, opts ...mockapi.Option) *testEnv {
	t.Helper()
	backend := mockapi.New(append([]mockapi.Option{mockapi.WithAdminPassword("secret")}, opts...)...)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	out := &bytes.Buffer{}
	client := apiclient.New(srv.URL)
	tokens := tokenstore.New(filepath.Join(t.TempDir(), "credentials.yaml"), "")
	messages := notify.NewQueue(testQueueSize)
	feedback := notify.NewSwitch(notify.WriterSink(out))
	notifier := notify.New(notify.WithSink(feedback))
	consoleLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	app := &AppContext{
		Client:       client,
		Tokens:       tokens,
		Identity:     identity.NewResolver(tokens, logger),
		Feedback:     feedback,
		Messages:     messages,
		Verification: verification.NewQueue(client, verification.WithLogger(logger), verification.WithNotifier(notifier)),
		Dispatch:     dispatch.NewLifecycle(client, tokens, dispatch.WithLogger(logger), dispatch.WithNotifier(notifier)),
		Logger:       logger,
		ConsoleLevel: &consoleLevel,
		Ctx:          context.Background(),
		Out:          out,
	}
	return &testEnv{app: app, backend: backend, out: out}
}

func (e *testEnv) run(input string, args ...string) error {
	root := &cobra.Command{Use: "desk", SilenceErrors: true, SilenceUsage: true}
	Register(root, e.app, strings.NewReader(input))
	root.SetArgs(args)
	return root.Execute()
}

func (e *testEnv) signIn(t *testing.T, subject string) {
	t.Helper()
	token, err := e.backend.IssueToken(subject, "VOLUNTEER")
	require.NoError(t, err)
	require.NoError(t, e.run("", "setToken", token))
}

func TestPending_RequiresPassword(t *testing.T) {
	e := newTestEnv(t)

	err := e.run("", "pending")

	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, e.out.String(), "✗ Admin password is required.")
	assert.Zero(t, e.backend.Calls(mockapi.RoutePendingVerifications))
}

func TestPending_ListsVolunteers(t *testing.T) {
	e := newTestEnv(t)
	e.backend.AddVolunteer(model.Volunteer{ID: "1", Name: "Asha Verma", Email: "asha@example.com"})
	e.backend.AddVolunteer(model.Volunteer{ID: "2", Name: "Ravi Kumar"})

	require.NoError(t, e.run("", "pending", "--password", "secret"))

	out := e.out.String()
	assert.Contains(t, out, "… Fetching pending users...")
	assert.Contains(t, out, "✓ 2 users found.")
	assert.Contains(t, out, "Asha Verma")
	assert.Contains(t, out, "Ravi Kumar")
}

func TestPending_WrongPassword(t *testing.T) {
	e := newTestEnv(t)

	err := e.run("", "pending", "-p", "nope")

	assert.True(t, IsReported(err))
	assert.Contains(t, e.out.String(), "✗ Invalid admin password")
}

func TestApprove_WithPassword(t *testing.T) {
	e := newTestEnv(t)
	e.backend.AddVolunteer(model.Volunteer{ID: "1", Name: "Asha"})
	e.backend.AddVolunteer(model.Volunteer{ID: "2", Name: "Ravi"})

	require.NoError(t, e.run("", "approve", "1", "--password", "secret"))

	assert.Equal(t, model.VerificationVerified, e.backend.ReviewStatus("1"))
	assert.Equal(t, model.VerificationPending, e.backend.ReviewStatus("2"))
	out := e.out.String()
	assert.Contains(t, out, "✓ User verified successfully.")
	assert.Contains(t, out, "Pending volunteers (1)")
}

func TestReject_WithoutFetchNeedsPassword(t *testing.T) {
	e := newTestEnv(t)

	err := e.run("", "reject", "1")

	assert.True(t, IsReported(err))
	assert.Contains(t, e.out.String(), "✗ Admin password is required.")
	assert.Zero(t, e.backend.Calls(mockapi.RouteReject))
}

func TestInteractive_ReusesFetchedList(t *testing.T) {
	e := newTestEnv(t)
	e.backend.AddVolunteer(model.Volunteer{ID: "1", Name: "Asha"})
	e.backend.AddVolunteer(model.Volunteer{ID: "2", Name: "Ravi"})

	input := strings.Join([]string{
		"pending --password secret",
		"reject 2",
		"approve 1",
		"bogus",
		"help",
		"exit",
	}, "\n")
	require.NoError(t, e.run(input, "interactive"))

	assert.Equal(t, model.VerificationVerified, e.backend.ReviewStatus("1"))
	assert.Equal(t, model.VerificationRejected, e.backend.ReviewStatus("2"))
	assert.Equal(t, 1, e.backend.Calls(mockapi.RoutePendingVerifications))

	out := e.out.String()
	assert.Contains(t, out, "✓ User rejected successfully.")
	assert.Contains(t, out, "All Caught Up!")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "Goodbye!")
}

func TestDispatches_NoToken(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("", "dispatches"))

	assert.Contains(t, e.out.String(), "No active complaints assigned.")
	assert.NotContains(t, e.out.String(), "✗")
	assert.Zero(t, e.backend.Calls(mockapi.RouteCheckDispatch))
}

func TestDispatchLifecycle(t *testing.T) {
	e := newTestEnv(t)
	mockapi.SeedDemo(e.backend)
	e.signIn(t, mockapi.DemoSubject)

	require.NoError(t, e.run("", "whoami"))
	assert.Contains(t, e.out.String(), "Role:    VOLUNTEER")

	require.NoError(t, e.run("", "dispatches"))
	assert.Contains(t, e.out.String(), "✓ 2 complaints assigned.")

	require.NoError(t, e.run("", "start", "501"))
	assert.Contains(t, e.out.String(), "✓ Status updated to IN PROGRESS!")

	status, ok := e.backend.DispatchStatus(mockapi.DemoSubject, "501")
	require.True(t, ok)
	assert.Equal(t, model.DispatchInProgress, status)

	require.NoError(t, e.run("", "resolve", "501"))
	status, _ = e.backend.DispatchStatus(mockapi.DemoSubject, "501")
	assert.Equal(t, model.DispatchResolved, status)

	// resolved is terminal: refused locally, no request sent
	before := e.backend.Calls(mockapi.RouteUpdateStatus)
	err := e.run("", "start", "501")
	require.Error(t, err)
	assert.False(t, IsReported(err))
	assert.Contains(t, err.Error(), "already RESOLVED")
	assert.Equal(t, before, e.backend.Calls(mockapi.RouteUpdateStatus))
}

func TestStart_UnknownDispatch(t *testing.T) {
	e := newTestEnv(t)
	mockapi.SeedDemo(e.backend)
	e.signIn(t, mockapi.DemoSubject)

	err := e.run("", "start", "999")

	assert.True(t, IsReported(err))
	assert.Contains(t, e.out.String(), "✗ Dispatch 999 is not assigned to you.")
}

func TestWhoami_NotSignedIn(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("", "whoami"))
	assert.Contains(t, e.out.String(), "Not signed in")
}

func TestSetToken_Clear(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, "7")

	require.NoError(t, e.run("", "setToken", "--clear"))

	token, err := e.app.Tokens.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Contains(t, e.out.String(), "✓ Token cleared")

	assert.Error(t, e.run("", "setToken"))
}

func TestApprove_BatchLargerThanFeedPrintsEveryMessage(t *testing.T) {
	e := newTestEnv(t)
	const n = 3 * testQueueSize
	args := []string{"approve", "--password", "secret"}
	for i := 1; i <= n; i++ {
		id := fmt.Sprint(i)
		e.backend.AddVolunteer(model.Volunteer{ID: model.ID(id), Name: "Volunteer " + id})
		args = append(args, id)
	}

	require.NoError(t, e.run("", args...))

	out := e.out.String()
	assert.Equal(t, n, strings.Count(out, "… Verifying user..."))
	assert.Equal(t, n, strings.Count(out, "✓ User verified successfully."))
	assert.Contains(t, out, "All Caught Up!")
	assert.Zero(t, e.app.Messages.Len())
}

func TestInteractive_QuotedArguments(t *testing.T) {
	e := newTestEnv(t, mockapi.WithAdminPassword("correct horse"))
	e.backend.AddVolunteer(model.Volunteer{ID: "1", Name: "Asha"})

	input := strings.Join([]string{
		`pending --password "correct horse"`,
		`approve 1`,
		`pending -p 'unclosed`,
		"exit",
	}, "\n")
	require.NoError(t, e.run(input, "interactive"))

	assert.Equal(t, model.VerificationVerified, e.backend.ReviewStatus("1"))
	out := e.out.String()
	assert.Contains(t, out, "✓ 1 users found.")
	assert.Contains(t, out, "✗ Error parsing command: unclosed quote: '")
	assert.Equal(t, 1, e.backend.Calls(mockapi.RoutePendingVerifications))
}

func TestTakeOverTerminal(t *testing.T) {
	e := newTestEnv(t)
	e.app.Messages.Notify(notify.Message{Text: "left over"})

	release := e.app.takeOverTerminal()
	assert.Zero(t, e.app.Messages.Len())
	assert.False(t, e.app.ConsoleLevel.Enabled(zapcore.ErrorLevel))

	require.Error(t, e.app.Verification.Fetch(e.app.Ctx, ""))
	assert.Empty(t, e.out.String())
	require.Equal(t, 1, e.app.Messages.Len())

	release()
	assert.Equal(t, zapcore.InfoLevel, e.app.ConsoleLevel.Level())
	require.Error(t, e.app.Verification.Fetch(e.app.Ctx, ""))
	assert.Contains(t, e.out.String(), "✗ Admin password is required.")
	assert.Equal(t, 1, e.app.Messages.Len())
}
