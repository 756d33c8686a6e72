// Package cli implements the healthbot command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"health-chatbot/internal/config"
)

// Version is set at build time with -ldflags "-X health-chatbot/internal/cli.Version=...".
var Version = "dev"

// rootOptions carries state shared by every subcommand.
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the healthbot command tree on a fresh viper instance.
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	o := &rootOptions{v: v}
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "healthbot",
		Short: "Healthbot - intent-matching health assistant",
		Long: `Healthbot answers health questions by matching them against a small
knowledge base of intents and replying with one of the intent's canned
responses. Messages that match nothing well enough get a general fallback.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HEALTHBOT_*)
3. Config file (~/.healthbot/config.yaml or ./config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(o.v, o.cfgFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default: $HOME/.healthbot/config.yaml)")
	flags.String("kb", d.Chatbot.KnowledgeBase, "knowledge base file (JSON or YAML)")
	flags.Float64("threshold", d.Chatbot.Threshold, "minimum score (exclusive) for an intent to match")
	flags.Uint64("seed", d.Chatbot.Seed, "seed for response selection (0 = random)")
	flags.Bool("keep-stop-words", false, "match on stop words too")
	flags.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")

	_ = v.BindPFlag("chatbot.knowledge_base", flags.Lookup("kb"))
	_ = v.BindPFlag("chatbot.threshold", flags.Lookup("threshold"))
	_ = v.BindPFlag("chatbot.seed", flags.Lookup("seed"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(
		newServeCommand(o),
		newChatCommand(o),
		newClassifyCommand(o),
		newTopicCommand(o),
		newKBCommand(o),
		newConfigCommand(o),
		newVersionCommand(),
	)
	return cmd
}

// load decodes the configuration and installs the logger it describes.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.v)
	if err != nil {
		return config.Config{}, nil, err
	}
	if keep, _ := cmd.Flags().GetBool("keep-stop-words"); keep {
		cfg.Chatbot.RemoveStopWords = false
	}
	logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "healthbot %s\n", Version)
		},
	}
}
