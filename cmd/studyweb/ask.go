// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/studyweb/internal/render"
	"github.com/pdiddy/studyweb/internal/view"
	"github.com/pdiddy/studyweb/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer one academic question",
	Long: `Ask derives a topic from the question, looks it up on Wikipedia, and
prints the direct answer. Questions mentioning "three" or "four" get that
many answer points; otherwise two.

A missing page or a failed lookup is printed in place of the answer.
Use --strict to exit non-zero in those cases.`,
	Example: `  studyweb ask define osmosis
  studyweb ask --json "three uses of enzymes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		yamlOut, _ := cmd.Flags().GetBool("yaml")
		strict, _ := cmd.Flags().GetBool("strict")
		if jsonOut && yamlOut {
			return fmt.Errorf("--json and --yaml are mutually exclusive")
		}

		format := formatText
		switch {
		case jsonOut:
			format = formatJSON
		case yamlOut:
			format = formatYAML
		}

		st, err := runAsk(cmd.Context(), appConfig, logger, strings.Join(args, " "), format, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if strict && st.Phase != view.Answered {
			return fmt.Errorf("no answer: %s", st.Phase)
		}
		return nil
	},
}

type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatYAML
)

// runAsk answers question once and writes the result to out.
func runAsk(ctx context.Context, cfg types.AppConfig, log logrus.FieldLogger, question string, format outputFormat, out io.Writer) (view.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	pipeline, pc, err := newPipeline(cfg, log)
	if err != nil {
		return view.State{}, err
	}
	defer pc.Close()

	v := view.New(pipeline, cfg.View.GuardStale, log)
	st, _ := v.Ask(ctx, question)

	switch format {
	case formatJSON:
		return st, render.JSON(out, render.FromState(st))
	case formatYAML:
		return st, render.YAML(out, render.FromState(st))
	default:
		return st, render.Text(out, st)
	}
}

func init() {
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	askCmd.Flags().Bool("yaml", false, "output the answer as YAML")
	askCmd.Flags().Bool("strict", false, "exit non-zero when no answer is found or the lookup fails")

	rootCmd.AddCommand(askCmd)
}
