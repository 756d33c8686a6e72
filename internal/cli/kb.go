package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"health-chatbot/internal/knowledge"
)

func newKBCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge base",
	}
	cmd.AddCommand(newKBValidateCommand(o), newKBInitCommand(o), newKBShowCommand(o))
	return cmd
}

// kbPath returns the path argument, or the configured knowledge base.
func (o *rootOptions) kbPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return o.v.GetString("chatbot.knowledge_base")
}

func newKBValidateCommand(o *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Load a knowledge base and report problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.Load(o.kbPath(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			warnings := kb.Validate()
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "%s: %d intents, %d warnings\n", kb.Source(), kb.Len(), len(warnings))
			if strict && len(warnings) > 0 {
				return fmt.Errorf("%s has %d warnings", kb.Source(), len(warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when there are warnings")
	return cmd
}

func newKBInitCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in greeting/goodbye knowledge base",
		Long: `Init creates a starter knowledge base with greeting and goodbye intents.
The format follows the file extension (.json, .yaml or .yml). An existing
file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.kbPath(args)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("knowledge base already exists: %s", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			kb := knowledge.Default()
			if err := kb.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d intents\n", path, kb.Len())
			return nil
		},
	}
}

func newKBShowCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tag>",
		Short: "Print one intent of the configured knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.Load(o.kbPath(nil))
			if err != nil {
				return err
			}

			tag := args[0]
			in, ok := kb.Lookup(tag)
			if !ok {
				if s := suggestTags(tag, kb); len(s) > 0 {
					return fmt.Errorf("no intent %q in %s (did you mean %s?)", tag, kb.Source(), strings.Join(s, ", "))
				}
				return fmt.Errorf("no intent %q in %s", tag, kb.Source())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tag: %s\npatterns:\n", in.Tag)
			for _, p := range in.Patterns {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			fmt.Fprintln(out, "responses:")
			for _, r := range in.Responses {
				fmt.Fprintf(out, "  - %s\n", r)
			}
			return nil
		},
	}
}

// suggestTags returns up to three tags that fuzzily match tag, best first.
func suggestTags(tag string, kb *knowledge.KnowledgeBase) []string {
	intents := kb.Intents()
	tags := make([]string, len(intents))
	for i, in := range intents {
		tags[i] = in.Tag
	}
	var out []string
	for _, m := range fuzzy.Find(tag, tags) {
		if len(out) == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
