package cliapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daybook/daybook/internal/models"
	"github.com/daybook/daybook/internal/syncclient"
	"github.com/urfave/cli/v3"
)

func (a *app) journalCommand() *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Write in the day's journal",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the day's entries and replies",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						a.printJournal(s, date)
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Write an entry",
				ArgsUsage: "TEXT",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					text := strings.TrimSpace(argText(cmd, 0))
					if text == "" {
						return errors.New("entry text is empty")
					}
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						msg := s.NewMessage(text, models.SenderUser)
						s.AddMessage(date, msg)
						fmt.Fprintf(a.out, "added %s\n", msg.ID)
						return nil
					})
				},
			},
			{
				Name:      "edit",
				Usage:     "Replace an entry's text",
				ArgsUsage: "ID TEXT",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, text := cmd.Args().First(), argText(cmd, 1)
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						return found(s.UpdateMessage(date, id, text), "entry", id, date)
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete an entry",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						return found(s.DeleteMessage(date, id), "entry", id, date)
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Delete every entry of the day",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						s.ClearMessagesForDate(date)
						fmt.Fprintf(a.out, "cleared %s\n", date)
						return nil
					})
				},
			},
			{
				Name:  "summarize",
				Usage: "Ask for a reply to the entries written since the last one",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c := a.client(cmd)
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						reply, ok := syncclient.RequestSummary(ctx, s, c, date)
						if !ok {
							fmt.Fprintln(a.out, "no reply added")
							return nil
						}
						fmt.Fprintln(a.out, reply.Text)
						return nil
					})
				},
			},
		},
	}
}

func (a *app) printJournal(s *syncclient.Session, date string) {
	list := s.Messages(date)
	if len(list) == 0 {
		fmt.Fprintf(a.out, "no entries on %s\n", date)
		return
	}
	for _, msg := range list {
		fmt.Fprintf(a.out, "%s %-4s %s  %s\n", msg.Timestamp.Local().Format("15:04"), msg.Sender, msg.ID, msg.Text)
	}
}
