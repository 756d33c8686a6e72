package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"health-chatbot/internal/core"
)

type topicOptions struct {
	advice   bool
	keywords bool
	category string
}

func newTopicCommand(o *rootOptions) *cobra.Command {
	var opts topicOptions
	cmd := &cobra.Command{
		Use:   "topic [text...]",
		Short: "Print the health topic of a message",
		Long: `Topic sorts a message into diet, exercise, mental, sleep or general by
counting topic keywords. With --advice it also prints the detailed advice
for that topic. --category skips detection and uses the named topic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := o.load(cmd); err != nil {
				return err
			}
			text := strings.Join(args, " ")

			var category core.Category
			if opts.category != "" {
				c, ok := core.ParseCategory(opts.category)
				if !ok {
					return fmt.Errorf("unknown category %q (want one of %s)", opts.category, categoryNames())
				}
				category = c
			} else {
				if strings.TrimSpace(text) == "" {
					return fmt.Errorf("topic needs text or --category")
				}
				category = core.Categorize(text)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, category)
			if opts.keywords {
				fmt.Fprintf(out, "keywords: %s\n", strings.Join(core.Keywords(category), ", "))
			}
			if opts.advice {
				fmt.Fprintf(out, "\n%s\n", core.Advice(category, text))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.advice, "advice", false, "print the advice block for the topic")
	cmd.Flags().BoolVar(&opts.keywords, "keywords", false, "print the keywords that count toward the topic")
	cmd.Flags().StringVar(&opts.category, "category", "", "use this topic instead of detecting one")
	return cmd
}

func categoryNames() string {
	names := make([]string, len(core.Categories))
	for i, c := range core.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
