package aliases

import (
	"context"
	"io"

	fs "cloud.google.com/go/firestore"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
)

// Chooser picks which of the claiming teams keeps a contested alias.
type Chooser func(alias string, claimants []string) (string, error)

type Context struct {
	context.Context

	Force  bool
	DryRun bool
	Fix    bool

	FirestoreClient *fs.Client
	Season          int

	Store sheets.Store
	Out   io.Writer

	// Choose defaults to an interactive prompt.
	Choose Chooser
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, Choose: askSurvey}
}
