package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"realtime_kanban/internal/board"
	"realtime_kanban/internal/client"
	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/logger"
)

func newRootCmd(s *settings) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "kanban",
		Short: "Real-time kanban board client",
		Long: `kanban talks to a kanban server over REST and its websocket feed.

The server address comes from --server, KANBAN_SERVER or "server" in ~/.kanban.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.load(configPath); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			// Failures are already returned as errors; the log is for -v only.
			if s.verbose() {
				logger.InitWriter(cmd.ErrOrStderr(), "debug", false)
			} else {
				logger.InitWriter(io.Discard, "error", false)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.kanban.yaml)")
	root.PersistentFlags().String("server", defaultServer, "kanban server base URL")
	root.PersistentFlags().BoolP("verbose", "v", false, "log client activity to stderr")
	// Lookup of our own flags cannot fail.
	_ = s.bind(root.PersistentFlags())

	root.AddCommand(
		newListCmd(s),
		newAddCmd(s),
		newMoveCmd(s),
		newRemoveCmd(s),
		newClearCmd(s),
		newWatchCmd(s),
	)
	return root
}

func newBoard(s *settings, opts ...board.Option) (*board.Board, *client.Client, error) {
	c, err := client.New(s.server())
	if err != nil {
		return nil, nil, err
	}
	opts = append([]board.Option{board.WithLogger(logger.Get())}, opts...)
	return board.New(c, opts...), c, nil
}

func newListCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := newBoard(s)
			if err != nil {
				return err
			}
			if err := b.Load(cmd.Context()); err != nil {
				return err
			}
			return b.Render(cmd.OutOrStdout())
		},
	}
}

func newAddCmd(s *settings) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseStatus(strings.TrimSpace(status))
			if err != nil {
				return err
			}
			b, _, err := newBoard(s)
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			if err := b.Add(cmd.Context(), st, title); err != nil {
				return err
			}
			for _, t := range b.Tasks() {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %q to %s\n", t.ID, t.Title, t.Status.Title())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", string(domain.StatusTodo), "column: todo, in-progress or done")
	return cmd
}

func newMoveCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseStatus(strings.TrimSpace(args[1]))
			if err != nil {
				return err
			}
			b, _, err := newBoard(s)
			if err != nil {
				return err
			}
			if err := b.Move(cmd.Context(), args[0], st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", args[0], st.Title())
			return nil
		},
	}
}

func newRemoveCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := newBoard(s)
			if err != nil {
				return err
			}
			if err := b.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := newBoard(s)
			if err != nil {
				return err
			}
			if err := b.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "board cleared")
			return nil
		},
	}
}

func newWatchCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the board live until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			redraw := func(b *board.Board) {
				fmt.Fprint(out, "\033[H\033[2J")
				_ = b.Render(out)
			}

			var b *board.Board
			b, c, err := newBoard(s, board.OnChange(func() { redraw(b) }))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sub, err := c.Subscribe(ctx)
			if err != nil {
				return err
			}
			defer sub.Close()

			// Load failures are logged by the board; the live feed still runs.
			if b.Load(ctx) != nil {
				redraw(b)
			}

			b.Follow(ctx, sub.Events())
			if err := sub.Err(); err != nil {
				logger.Get().Warn("event stream ended", "error", err)
			}
			return nil
		},
	}
}
