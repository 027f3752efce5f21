// Package commands provides the CLI surface for ask.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/hyizhou/ask/internal/api"
	"github.com/hyizhou/ask/internal/chat"
	"github.com/hyizhou/ask/internal/config"
	"github.com/hyizhou/ask/internal/i18n"
	"github.com/hyizhou/ask/internal/models"
)

var (
	// Global flags
	modelFlag    string
	noStreamFlag bool
	onceFlag     bool
	versionFlag  bool

	// Version info (set at build time)
	Version = "0.1.3"

	// API key env var of the active profile, used in auth hints
	activeEnvKey string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Lightweight terminal AI assistant",
	Long: `ask forwards a question to a configured LLM endpoint and prints the
reply, keeping the conversation going in an interactive loop.

Examples:
  ask                                   Start interactive chat
  ask "What is Go?"                     Ask and stay in chat
  ask -m deepseek "Explain channels"    Pick a model for this run
  cat main.go | ask "Review this"       Pipe context in
  git diff | ask --once "Write a commit message"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command
func Execute() {
	i18n.Init(helpLanguage())
	rootCmd.Short = i18n.T("app_description")
	if path, _, err := config.ConfigPath(); err == nil {
		rootCmd.Long += "\n\n" + i18n.T("config_file_location", path)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, activeEnvKey))
		os.Exit(1)
	}
}

// helpLanguage peeks at the config file for the language setting so
// help text comes out in the right catalog. Unlike config.Resolve this
// never writes the first-run template; `ask -h` on a clean machine
// should not touch the filesystem.
func helpLanguage() string {
	path, _, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "language").String()
}

func init() {
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model profile to use (e.g. openai, deepseek, qwen)")
	rootCmd.Flags().BoolVar(&noStreamFlag, "no-stream", false, "Wait for the full reply instead of streaming")
	rootCmd.Flags().BoolVar(&onceFlag, "once", false, "Answer once and exit without entering interactive mode")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version and exit")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Println(i18n.T("version_info", Version))
		return nil
	}

	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	i18n.Init(cfg.Language)
	if cfg.Dev {
		fmt.Fprintln(os.Stderr, i18n.T("dev_mode_notice", cfg.Path))
	}

	stdinText := ""
	stat, _ := os.Stdin.Stat()
	piped := (stat.Mode() & os.ModeCharDevice) == 0
	if piped {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading piped stdin: %w", err)
		}
		stdinText = strings.TrimSpace(string(data))
	}
	query := buildQuery(stdinText, args)

	modelName := cfg.DefaultModel
	if modelFlag != "" {
		modelName = modelFlag
	}
	profile, err := cfg.Profile(modelName)
	if err != nil {
		return err
	}
	activeEnvKey = config.EnvKeyName(profile.Name)

	var clientOpts []api.ClientOption
	if proxy := cfg.ProxyURL(); proxy != "" {
		clientOpts = append(clientOpts, api.WithProxy(proxy))
	}
	client, err := api.NewClient(clientOpts...)
	if err != nil {
		return err
	}

	stream := cfg.StreamOutput && !noStreamFlag
	history := chat.NewHistoryBuffer(cfg.MaxHistory)
	session := chat.NewSession(bindSend(client, profile), history,
		chat.WithStreamOutput(stream), chat.WithSink(os.Stdout))
	r := newRunner(session, cfg, stream)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	proceed, err := runInitial(ctx, r, query, onceFlag)
	if err != nil || !proceed {
		return err
	}

	in := io.Reader(os.Stdin)
	if piped {
		// The pipe is drained; interactive input needs the terminal back.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			fmt.Fprintln(os.Stderr, i18n.T("stdin_reopen_failed"))
			return nil
		}
		defer tty.Close()
		in = tty
	}

	return r.interactiveLoop(ctx, in)
}

// runInitial handles the startup query and reports whether the process
// should continue into interactive mode. In once mode the exchange
// error propagates to the caller (and with it a non-zero exit);
// otherwise a failed initial exchange is printed and interactive mode
// still starts.
func runInitial(ctx context.Context, r *runner, query string, once bool) (bool, error) {
	if once {
		if query == "" {
			return false, errors.New(i18n.T("error_once_no_query"))
		}
		return false, r.exchange(ctx, query)
	}

	if query == "" {
		return true, nil
	}
	if err := r.exchange(ctx, query); err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		fmt.Fprintln(r.errOut, formatErrorMessage(err, activeEnvKey))
	}
	return true, nil
}

// buildQuery combines piped stdin content and positional arguments into
// a single question. Piped text comes first, fenced as a code block, so
// the typed question reads as an instruction about it.
func buildQuery(stdinText string, args []string) string {
	var parts []string
	if stdinText != "" {
		parts = append(parts, "```\n"+stdinText+"\n```")
	}
	if len(args) > 0 {
		parts = append(parts, strings.Join(args, " "))
	}
	return strings.Join(parts, "\n\n")
}

// bindSend adapts the HTTP client and a resolved profile to the session
// dispatcher signature
func bindSend(client *api.Client, profile models.ModelProfile) chat.SendFunc {
	return func(ctx context.Context, messages []models.Turn, stream bool) (chat.TokenStream, error) {
		s, err := client.Send(ctx, profile, messages, stream)
		if err != nil {
			return nil, err
		}
		s.Warn = func(warnErr error) {
			fmt.Fprintln(os.Stderr, i18n.T("warn_bad_stream_event", warnErr))
		}
		return s, nil
	}
}
