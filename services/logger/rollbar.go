package logsvc

import (
	"io"
	"os"
	"time"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/trezcool/acadmin/core"
	"github.com/trezcool/acadmin/core/academic"
)

// RollbarLogger reports to Rollbar (when a token is configured) and writes every entry locally.
type RollbarLogger struct {
	std    zerolog.Logger
	remote bool
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewLocalLogger builds the local zerolog sink from the log configuration.
// Entries go to conf.Log.File, or stderr so they stay apart from the prompts on stdout.
// The returned func closes the log file, if any.
func NewLocalLogger(conf *core.Config) (zerolog.Logger, func() error, error) {
	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	if conf.Log.File != "" {
		f, err := os.OpenFile(conf.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		out, closer = f, f.Close
	}
	if conf.Log.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: conf.Log.File != ""}
	}

	level, err := zerolog.ParseLevel(conf.Log.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	std := zerolog.New(out).Level(level).With().Timestamp().Str("app", conf.AppName).Logger()
	return std, closer, nil
}

func NewRollbarLogger(std zerolog.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	l := &RollbarLogger{std: std, remote: conf.RollbarToken != ""}
	l.Enable(l.remote)
	return l
}

// NewNopLogger discards everything.
func NewNopLogger() *RollbarLogger {
	return &RollbarLogger{std: zerolog.Nop()}
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.remote = enabled
	rollbar.SetEnabled(enabled)
}

// With returns a logger that adds the field to every local entry.
func (l *RollbarLogger) With(key, value string) *RollbarLogger {
	return &RollbarLogger{std: l.std.With().Str(key, value).Logger(), remote: l.remote}
}

// expected fmt: msg | error, map[string]interface{}, academic.Department
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var deptSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set the authenticated department as the Rollbar person
		if dept, ok := arg.(academic.Department); ok {
			if !deptSet { // only set one Department
				rollbar.SetPerson(dept.DeptID, dept.Name, "")
				deptSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !deptSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l *RollbarLogger) print(ev *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			ev = ev.Err(a)
		case map[string]interface{}:
			ev = ev.Fields(a)
		case academic.Department:
			ev = ev.Str("dept", a.DeptID)
		default:
			ev = ev.Interface("extra", a)
		}
	}
	ev.Msg(msg)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	if l.remote {
		rollbar.Debug(l.prepare(msg, args)...)
	}
	l.print(l.std.Debug(), msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	if l.remote {
		rollbar.Info(l.prepare(msg, args)...)
	}
	l.print(l.std.Info(), msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	if l.remote {
		rollbar.Warning(l.prepare(msg, args)...)
	}
	l.print(l.std.Warn(), msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	if l.remote {
		rollbar.Error(l.prepare(msg, args)...)
	}
	l.print(l.std.Error(), msg, args)
}

// Fatal reports, flushes Rollbar and exits.
func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	if l.remote {
		rollbar.Critical(l.prepare(msg, args)...)
		rollbar.Wait()
	}
	l.print(l.std.WithLevel(zerolog.FatalLevel), msg, args)
	os.Exit(1)
}

// Close waits for pending Rollbar items to be sent.
func (l *RollbarLogger) Close() {
	if l.remote {
		rollbar.Wait()
	}
}
