package cliapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/daybook/daybook/internal/syncclient"
	"github.com/urfave/cli/v3"
)

func (a *app) todoCommand() *cli.Command {
	return &cli.Command{
		Name:  "todo",
		Usage: "Manage the day's todos",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show todos",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						a.printTodos(s, date)
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a todo",
				ArgsUsage: "TEXT",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					text := argText(cmd, 0)
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						item, ok := s.AddTodo(date, text)
						if !ok {
							return errors.New("todo text is empty")
						}
						fmt.Fprintf(a.out, "added %s\n", item.ID)
						return nil
					})
				},
			},
			{
				Name:      "done",
				Usage:     "Toggle a todo between done and not done",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						return found(s.ToggleTodoDone(date, id), "todo", id, date)
					})
				},
			},
			{
				Name:      "edit",
				Usage:     "Replace a todo's text",
				ArgsUsage: "ID TEXT",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, text := cmd.Args().First(), argText(cmd, 1)
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						return found(s.EditTodo(date, id, text), "todo", id, date)
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a todo",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						return found(s.DeleteTodo(date, id), "todo", id, date)
					})
				},
			},
			{
				Name:      "move",
				Usage:     "Move a todo to the position of another",
				ArgsUsage: "ID TARGET_ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					from, to := cmd.Args().Get(0), cmd.Args().Get(1)
					return a.withSession(ctx, cmd, func(s *syncclient.Session, date string) error {
						if !s.MoveTodo(date, from, to) {
							return fmt.Errorf("cannot move %q onto %q on %s", from, to, date)
						}
						a.printTodos(s, date)
						return nil
					})
				},
			},
		},
	}
}

func (a *app) printTodos(s *syncclient.Session, date string) {
	todos := s.Todos(date)
	if len(todos) == 0 {
		fmt.Fprintf(a.out, "no todos on %s\n", date)
		return
	}
	for _, item := range todos {
		mark := " "
		if item.Done {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %s  %s\n", mark, item.ID, item.Text)
	}
}

func found(ok bool, what, id, date string) error {
	if !ok {
		return fmt.Errorf("no %s %q on %s", what, id, date)
	}
	return nil
}
