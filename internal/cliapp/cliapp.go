// Package cliapp is the daybook command line client.
package cliapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/daybook/daybook/internal/syncclient"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

const defaultServer = "http://localhost:4000"

type app struct {
	out io.Writer
	log *slog.Logger
}

// New builds the daybook command tree. Output goes to out and client logs
// to stderr.
func New(out io.Writer) *cli.Command {
	a := &app{
		out: out,
		log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	return &cli.Command{
		Name:  "daybook",
		Usage: "Per-day todos and journal, synced to a Daybook server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Server base URL",
				Value:   defaultServer,
				Sources: cli.EnvVars("DAYBOOK_SERVER"),
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Account username",
				Sources: cli.EnvVars("DAYBOOK_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Account password, prompted for when empty",
				Sources: cli.EnvVars("DAYBOOK_PASSWORD"),
			},
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "Day to work on as YYYY-MM-DD (default today)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "register",
				Usage:  "Create an account",
				Action: a.register,
			},
			{
				Name:      "check-username",
				Usage:     "Check whether a username is free",
				ArgsUsage: "NAME",
				Action:    a.checkUsername,
			},
			a.todoCommand(),
			a.journalCommand(),
			{
				Name:   "export",
				Usage:  "Export the whole document and print a download link",
				Action: a.export,
			},
		},
	}
}

func (a *app) client(cmd *cli.Command) *syncclient.Client {
	return syncclient.NewClient(cmd.String("server"))
}

func (a *app) credentials(cmd *cli.Command) (string, string, error) {
	username := strings.TrimSpace(cmd.String("username"))
	if username == "" {
		return "", "", errors.New("username is required (--username or DAYBOOK_USERNAME)")
	}
	password := cmd.String("password")
	if password == "" {
		fmt.Fprint(a.out, "Password: ")
		raw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}
	return username, password, nil
}

func (a *app) options() syncclient.Options {
	return syncclient.Options{
		Logger:       a.log,
		WriteTimeout: 30 * time.Second,
	}
}

// withSession signs in, runs fn on the chosen date and logs out. The
// logout flush makes the command fail if the final push did.
func (a *app) withSession(ctx context.Context, cmd *cli.Command, fn func(s *syncclient.Session, date string) error) error {
	username, password, err := a.credentials(cmd)
	if err != nil {
		return err
	}
	c := a.client(cmd)
	s, err := syncclient.SignIn(ctx, c, c, username, password, a.options())
	if err != nil {
		return err
	}

	date := s.SelectedDate()
	if d := cmd.String("date"); d != "" {
		if !s.SelectDate(d) {
			_ = s.Logout(ctx)
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
		}
		date = d
	}

	runErr := fn(s, date)
	if err := s.Logout(ctx); err != nil {
		return errors.Join(runErr, fmt.Errorf("save failed: %w", err))
	}
	return runErr
}

func (a *app) register(ctx context.Context, cmd *cli.Command) error {
	username, password, err := a.credentials(cmd)
	if err != nil {
		return err
	}
	id, err := a.client(cmd).Register(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s (%s)\n", id.Username, id.UserID)
	return nil
}

func (a *app) checkUsername(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errors.New("usage: daybook check-username NAME")
	}
	available, err := a.client(cmd).CheckUsername(ctx, name)
	if err != nil {
		return err
	}
	if available {
		fmt.Fprintf(a.out, "%s is available\n", name)
	} else {
		fmt.Fprintf(a.out, "%s is taken\n", name)
	}
	return nil
}

func (a *app) export(ctx context.Context, cmd *cli.Command) error {
	username, password, err := a.credentials(cmd)
	if err != nil {
		return err
	}
	c := a.client(cmd)
	id, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}
	res, err := c.Export(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\nexpires in %s\n", res.URL, res.ExpiresIn)
	return nil
}

// argText joins the remaining arguments from index i into one string.
func argText(cmd *cli.Command, i int) string {
	args := cmd.Args().Slice()
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}
