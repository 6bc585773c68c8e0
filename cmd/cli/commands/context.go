package commands

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/wsafety/desk/internal/config"
	"github.com/wsafety/desk/pkg/clients/apiclient"
	"github.com/wsafety/desk/pkg/core/dispatch"
	"github.com/wsafety/desk/pkg/core/identity"
	"github.com/wsafety/desk/pkg/core/notify"
	"github.com/wsafety/desk/pkg/core/verification"
	"github.com/wsafety/desk/pkg/tokenstore"
	"github.com/wsafety/desk/pkg/utils/logging"
)

// AppContext holds the application dependencies shared across all commands.
// Feedback prints notifications as they happen; Messages is the bounded feed a
// full-screen command reads while it owns the terminal.
type AppContext struct {
	Cfg          *config.Config
	Client       *apiclient.Client
	Tokens       *tokenstore.Store
	Identity     *identity.Resolver
	Feedback     *notify.Switch
	Messages     *notify.Queue
	Verification *verification.Queue
	Dispatch     *dispatch.Lifecycle
	Logger       *zap.Logger
	ConsoleLevel *zap.AtomicLevel
	Ctx          context.Context
	Out          io.Writer
}

// takeOverTerminal routes notifications to the Messages feed and silences
// console logging until the returned func is called
func (app *AppContext) takeOverTerminal() (release func()) {
	app.Messages.Drain()

	var restores []func()
	if app.Feedback != nil {
		restores = append(restores, app.Feedback.Route(app.Messages))
	}
	if app.ConsoleLevel != nil {
		restores = append(restores, logging.Silence(*app.ConsoleLevel))
	}

	return func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}
}
