package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/client/client"
)

const (
	DefaultServer = "http://127.0.0.1:3000"
	// TokenEnv supplies the token to "mark" when -t is omitted.
	TokenEnv = "ATTENDANCE_TOKEN"
)

var errUsage = errors.New("usage: client <signup|login|mark> [flags]")

type attendanceClient interface {
	Signup(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	MarkAttendance(ctx context.Context, token, name string) (string, error)
}

type App struct {
	in        *bufio.Reader
	out       io.Writer
	getenv    func(string) string
	newClient func(server string) attendanceClient
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{
		in:     bufio.NewReader(in),
		out:    out,
		getenv: os.Getenv,
		newClient: func(server string) attendanceClient {
			return client.New(server, nil)
		},
	}
}

// Run executes one subcommand and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if err := a.run(ctx, args); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		return 1
	}
	return 0
}

func (a *App) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.out)
	server := fs.String("s", DefaultServer, "server URL")

	switch cmd {
	case "signup", "login":
		user := fs.String("u", "", "user name")
		password := fs.String("p", "", "password (prompted when omitted)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *user == "" {
			return fmt.Errorf("%s: -u is required", cmd)
		}
		pw, err := a.password(*password)
		if err != nil {
			return err
		}

		c := a.newClient(*server)
		if cmd == "signup" {
			msg, err := c.Signup(ctx, *user, pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg)
			return nil
		}

		token, err := c.Login(ctx, *user, pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, token)
		return nil

	case "mark":
		token := fs.String("t", "", "access token (default $"+TokenEnv+")")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *token == "" {
			*token = a.getenv(TokenEnv)
		}
		if *token == "" {
			return errors.New("mark: no token, pass -t or set " + TokenEnv)
		}
		name := strings.TrimSpace(strings.Join(fs.Args(), " "))
		if name == "" {
			return errors.New("mark: name is required")
		}

		date, err := a.newClient(*server).MarkAttendance(ctx, *token, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Attendance recorded for %s on %s\n", name, date)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *App) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	pw, err := GetPassword(a.in, a.out)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}
