package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/rmay1er/ai-responder/cache"
	"github.com/rmay1er/ai-responder/invoke"
	"github.com/rmay1er/ai-responder/observability"
	"github.com/rmay1er/ai-responder/responder"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to responder config JSON file")
		user       = flag.String("user", "", "Session identifier; empty starts an anonymous session")
		prompt     = flag.String("prompt", "", "Single prompt to send; omit for an interactive chat")
		model      = flag.String("model", "", "Model name (overrides config and OPENAI_MODEL)")
		baseURL    = flag.String("base-url", "", "OpenAI-compatible API endpoint (overrides OPENAI_BASE_URL)")
		stateless  = flag.Bool("no-memory", false, "Answer without reading or writing session state")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY must be set")
		os.Exit(1)
	}

	cfg := responder.DefaultConfig()
	if *configFile != "" {
		loaded, err := responder.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	invokerCfg := invoke.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}
	if *baseURL != "" {
		invokerCfg.BaseURL = *baseURL
	}
	if *model != "" {
		invokerCfg.Model = *model
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	registry := builtinTools()
	invoker := invoke.NewOpenAIInvoker(invokerCfg, registry)

	r, err := responder.New(&cfg, invoker,
		responder.WithTools(registry),
		responder.WithObserver(observability.NewSlogObserver(logger)),
	)
	if err != nil {
		log.Fatalf("Failed to create responder: %v", err)
	}

	r.RegisterFaultHandler(func(kind cache.EventKind, detail string) {
		logger.Warn("session fault", "kind", string(kind), "detail", detail)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var callOpts []responder.CallOption
	if *stateless {
		callOpts = append(callOpts, responder.WithoutMemory())
	}

	if *prompt != "" {
		if err := runOnce(ctx, r, *user, *prompt, callOpts); err != nil {
			log.Fatalf("Turn failed: %v", err)
		}
	} else {
		runChat(ctx, r, *user, callOpts, logger)
	}

	if err := r.Shutdown(context.Background()); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}

func runOnce(ctx context.Context, r *responder.Responder, user, prompt string, opts []responder.CallOption) error {
	result, err := r.GetContextResponse(ctx, user, prompt, opts...)
	if err != nil {
		return err
	}
	fmt.Println(result.Text)
	return nil
}

func runChat(ctx context.Context, r *responder.Responder, user string, opts []responder.CallOption, logger *slog.Logger) {
	fmt.Fprintln(os.Stderr, "Interactive chat. Ctrl-D or an empty line to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		result, err := r.GetContextResponse(ctx, user, line, opts...)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error("turn failed", "error", err)
			if result == nil {
				continue
			}
		}

		fmt.Println(result.Text)

		// An anonymous session keeps its generated id for the whole chat.
		if user == "" {
			user = result.UserID
			logger.Info("session started", "user", user)
		}
	}
}
