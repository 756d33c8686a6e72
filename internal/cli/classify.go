package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"health-chatbot/internal/app"
	"health-chatbot/internal/core"
)

type classifyOptions struct {
	explain     bool
	file        string
	concurrency int
}

func newClassifyCommand(o *rootOptions) *cobra.Command {
	opts := &classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify one message, or every line of a file",
		Long: `Classify prints the reply the bot would give.

Example:
  healthbot classify "I can't sleep at night"
  healthbot classify --explain hello there
  healthbot classify --file questions.txt --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file == "" && len(args) == 0 {
				return fmt.Errorf("nothing to classify: pass text or --file")
			}
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}
			kb, err := app.LoadKnowledgeBase(cfg.Chatbot, logger)
			if err != nil {
				return err
			}
			m := app.NewMatcher(kb, cfg.Chatbot, logger)
			out := cmd.OutOrStdout()

			if opts.file == "" {
				printReply(out, "", m.Reply(strings.Join(args, " ")), opts.explain)
				return nil
			}

			lines, err := readLines(opts.file)
			if err != nil {
				return err
			}
			replies, err := classifyLines(cmd.Context(), m, lines, opts.concurrency)
			if err != nil {
				return err
			}
			for i, r := range replies {
				printReply(out, lines[i], r, opts.explain)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print the matched intent and score")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "classify each non-blank line of this file")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", runtime.NumCPU(), "parallel classifications for --file")
	return cmd
}

// classifyLines classifies every line with at most concurrency goroutines.
// Replies are returned in input order.
func classifyLines(ctx context.Context, m *core.Matcher, lines []string, concurrency int) ([]core.Reply, error) {
	replies := make([]core.Reply, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			replies[i] = m.Reply(line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := newLineScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// printReply writes one tab-separated result: the input (file mode only),
// then intent and score when explaining, then the reply.
func printReply(w io.Writer, input string, r core.Reply, explain bool) {
	var cols []string
	if input != "" {
		cols = append(cols, input)
	}
	if explain {
		tag := r.Tag
		if tag == "" {
			tag = "-"
		}
		cols = append(cols, tag, fmt.Sprintf("%.3f", r.Score))
	}
	cols = append(cols, r.Text)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}
