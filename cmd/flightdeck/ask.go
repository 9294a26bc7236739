package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/orchestrator"
	"flightdeck/internal/view"
)

type askOptions struct {
	arena   bool
	noColor bool
	json    bool
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask <description or devpost link>",
		Short: "Run the comparison once and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}

			// Logs go to stderr as console lines so stdout stays clean.
			a := newApp(cfg, "console", "stderr")
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ctrl := a.newController()
			defer ctrl.Close()

			return runAsk(ctx, ctrl, strings.Join(args, " "), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&opts.arena, "arena", false, "also run the arena and print the winning write-up")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable bold highlights")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the final state as JSON")
	return cmd
}

type controller interface {
	Submit(ctx context.Context, input string) error
	StartArena(ctx context.Context, input string) error
	Subscribe(fn func(orchestrator.State))
	Snapshot() orchestrator.State
}

func runAsk(ctx context.Context, ctrl controller, input string, opts *askOptions, stdout, stderr io.Writer) error {
	if err := ctrl.Submit(ctx, input); err != nil {
		return errors.New(apperrors.UserMessage(err))
	}

	if opts.arena {
		last := -2
		ctrl.Subscribe(func(s orchestrator.State) {
			if !s.Loading.Arena || s.Progress.Current == last {
				return
			}
			last = s.Progress.Current
			if s.Progress.Running() {
				_ = view.WriteProgress(stderr, s)
				fmt.Fprintln(stderr)
			}
		})

		if err := ctrl.StartArena(ctx, input); err != nil && !apperrors.Is(err, apperrors.ErrCodeArenaNotReady) {
			return err
		} else if err != nil {
			fmt.Fprintln(stderr, apperrors.UserMessage(err))
		}
	}

	state := ctrl.Snapshot()
	if opts.json {
		return writeStateJSON(stdout, state)
	}
	if err := view.WriteText(stdout, state, !opts.noColor); err != nil {
		return err
	}
	if state.Error != "" && len(state.Results) == 0 {
		return errors.New(state.Error)
	}
	return nil
}
