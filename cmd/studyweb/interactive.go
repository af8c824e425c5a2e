// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/studyweb/internal/render"
	"github.com/pdiddy/studyweb/internal/view"
	"github.com/pdiddy/studyweb/pkg/types"
)

const quitCommand = ":q"

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Ask questions one per line in a long-lived session",
	Long: `Interactive reads one question per line from standard input and prints
each answer. An empty line does nothing. Type :q or send EOF to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runInteractive(ctx, appConfig, logger, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runInteractive answers one question per input line until :q or EOF.
// Lines are read whole regardless of length.
func runInteractive(ctx context.Context, cfg types.AppConfig, log logrus.FieldLogger, in io.Reader, out io.Writer) error {
	pipeline, pc, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer pc.Close()

	v := view.New(pipeline, cfg.View.GuardStale, log)

	fmt.Fprintln(out, "StudyWeb: ask an academic question (:q to quit)")
	rd := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		line, err := rd.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading question: %w", err)
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == quitCommand {
			return nil
		}

		st, submitted := v.Ask(ctx, line)
		if !submitted {
			continue
		}
		if err := render.Text(out, st); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
