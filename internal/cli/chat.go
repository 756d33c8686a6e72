package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"health-chatbot/internal/app"
	"health-chatbot/internal/core"
)

var quitWords = map[string]bool{"quit": true, "exit": true, "bye": true}

func newChatCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot in the terminal",
		Long:  `Start an interactive session. Type quit, exit or bye to leave.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}
			kb, err := app.LoadKnowledgeBase(cfg.Chatbot, logger)
			if err != nil {
				return err
			}
			m := app.NewMatcher(kb, cfg.Chatbot, logger)
			return chatLoop(cmd.InOrStdin(), cmd.OutOrStdout(), m)
		},
	}
}

// chatLoop reads one message per line and prints the bot's reply until a
// quit word or end of input.
func chatLoop(in io.Reader, out io.Writer, m *core.Matcher) error {
	fmt.Fprintf(out, "Bot: %s\n", core.WelcomeMessage)
	fmt.Fprintln(out, `(type "quit" to exit)`)

	sc := newLineScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := sc.Text()
		if quitWords[strings.ToLower(strings.TrimSpace(line))] {
			fmt.Fprintf(out, "Bot: %s\n", core.GoodbyeMessage)
			return nil
		}
		fmt.Fprintf(out, "Bot: %s\n", m.Classify(line))
	}
}

// maxLineSize is the longest input line the chat loop and --file accept.
const maxLineSize = 1 << 20

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}
