package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

var _ goose.Logger = gooseLogger{}

func newGooseLogger(ctx context.Context, l logging.Logger) gooseLogger {
	if l == nil {
		l = logging.Nop{}
	}
	return gooseLogger{ctx: ctx, l: l.With("component", "goose")}
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf keeps the goose contract and exits after logging.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
