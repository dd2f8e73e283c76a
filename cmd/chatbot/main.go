package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gpniroj-png/chatbot-agent/core/chat"
	"github.com/gpniroj-png/chatbot-agent/internal/config"
	"github.com/gpniroj-png/chatbot-agent/internal/prefs"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	slogobs "github.com/gpniroj-png/chatbot-agent/providers/observability/slog"
)

var (
	flagProvider    string
	flagModel       string
	flagTemperature float32
	flagMaxTokens   int
	flagBuffered    bool
)

var rootCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "Chat with a hosted text-generation provider from the terminal",
	Long: `chatbot is an interactive terminal chat over Groq, Gemini, or the
Hugging Face Inference API. Responses stream token by token by default;
use --buffered for a single complete response per turn.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "provider to use (groq, gemini, huggingface)")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "model identifier (provider default if empty)")
	rootCmd.Flags().Float32VarP(&flagTemperature, "temperature", "t", 0, "sampling temperature [0..2]")
	rootCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "maximum generated tokens")
	rootCmd.Flags().BoolVar(&flagBuffered, "buffered", false, "wait for the complete response instead of streaming")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler at the configured level.
func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newClient resolves provider and model from flags, persisted preferences,
// and environment defaults (in that order) and constructs the facade.
func newClient(cfg *config.Config) (*chat.Client, error) {
	stored := prefs.Preferences{}
	if dir, err := prefs.DefaultDir(); err == nil {
		if loaded, err := prefs.NewStore(dir).Load(); err == nil {
			stored = loaded
		} else {
			slog.Warn("ignoring unreadable preferences", "error", err)
		}
	}

	provider := firstNonEmpty(flagProvider, stored.Provider, cfg.DefaultProvider)
	model := firstNonEmpty(flagModel, stored.Model, cfg.DefaultModel)

	return chat.New(chat.Config{
		Provider:    ai.ProviderName(provider),
		APIKey:      cfg.APIKeyFor(provider),
		Model:       model,
		Temperature: flagTemperature,
		MaxTokens:   flagMaxTokens,
	}, chat.WithObserver(slogobs.New(slog.Default())))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// runChat drives the interactive loop: read a line, send the history, print
// the reply, repeat until EOF or /quit.
func runChat(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	view := client.Config()
	fmt.Printf("chatbot — %s / %s (Ctrl-D or /quit to exit)\n", view.Provider, view.Model)

	var history []ai.Message
	stdin := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			fmt.Println()
			return stdin.Err()
		}
		input := strings.TrimSpace(stdin.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			return nil
		}

		history = append(history, ai.Message{Role: ai.RoleUser, Content: input})

		reply, err := sendTurn(ctx, client, history)
		if err != nil {
			if ai.IsCanceled(err) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			// Drop the failed turn so the history stays consistent
			history = history[:len(history)-1]
			continue
		}

		history = append(history, ai.Message{Role: ai.RoleAssistant, Content: reply})
	}
}

// sendTurn performs one request over the full history and returns the
// assistant's reply text. In streaming mode partial output is printed as it
// arrives; an error after partial output leaves the printed text on screen
// but the turn is treated as failed.
func sendTurn(ctx context.Context, client *chat.Client, history []ai.Message) (string, error) {
	if flagBuffered {
		result, err := client.Chat(ctx, history)
		if err != nil {
			return "", err
		}
		fmt.Println(result.Content)
		return result.Content, nil
	}

	var reply strings.Builder
	var streamErr error

	client.ChatStream(ctx, history, chat.StreamHandler{
		OnChunk: func(text string) {
			reply.WriteString(text)
			fmt.Print(text)
		},
		OnError: func(err error) {
			streamErr = err
		},
		OnComplete: func() {
			fmt.Println()
		},
	})

	if streamErr != nil {
		fmt.Println()
		return "", streamErr
	}
	return reply.String(), nil
}
