// Package main provides an interactive calculator agent: type a task,
// watch the agent plan, call the calculator tool, and answer.
//
// Provider selection is driven by environment variables, checked in
// order: OPENAI_API_KEY, DEEPSEEK_API_KEY, QWEN_API_KEY. A .env file in
// the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"github.com/reagentkit/reagent"
	"github.com/reagentkit/reagent/agent"
	"github.com/reagentkit/reagent/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; the variables may come from the shell.
	_ = godotenv.Load()

	client, providerName, err := newClientFromEnv()
	if err != nil {
		return err
	}

	var hooks reagent.Hooks
	if os.Getenv("CALCAGENT_DEBUG") != "" {
		hooks = reagent.NewSlogHooks(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		))
	}

	calc, err := agent.New(agent.Config{
		Client: client,
		Tools:  []reagent.Tool{newCalculatorTool()},
		Hooks:  hooks,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s%sCalculator Agent%s (%s)\n", colorBold, colorYellow, colorReset, providerName)
	fmt.Printf("%sType a task and press Enter. Type 'exit' to quit.%s\n\n", colorDim, colorReset)

	rl, err := readline.New(colorCyan + colorBold + "Task: " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Printf("\n%sInterrupted, shutting down...%s\n", colorYellow, colorReset)
		cancel()
	}()

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" || input == "q" {
			fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		}

		result, err := calc.Run(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%sError: %v%s\n\n", colorRed, err, colorReset)
			continue
		}

		if !result.Plan.IsEmpty() {
			fmt.Printf("\n%sPlan:%s\n%s%s%s\n", colorYellow, colorReset,
				colorDim, result.Plan.Describe(), colorReset)
		}
		printTrace(result.Messages)
		fmt.Printf("\n%s%sAnswer:%s %s\n\n", colorBold, colorGreen, colorReset, result.Output)
	}
}

// printTrace prints the tool invocations of the finished run.
func printTrace(messages []reagent.Message) {
	for _, msg := range messages {
		for _, call := range msg.ToolCalls {
			fmt.Printf("%s[Tool: %s] Args: %s%s\n", colorDim, call.Name, call.Arguments, colorReset)
		}
		if msg.Role == reagent.RoleTool {
			fmt.Printf("%s    Output: %s%s\n", colorDim, msg.Content, colorReset)
		}
	}
}

// newClientFromEnv builds a chat client for the first provider whose
// API key is set.
func newClientFromEnv() (reagent.ChatClient, string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		model := envOr("OPENAI_MODEL", "gpt-4o-mini")
		client, err := models.NewOpenAI(model, key)
		return client, "openai/" + model, err
	}
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		model := envOr("DEEPSEEK_MODEL", "deepseek-chat")
		client, err := models.NewDeepSeek(model, key)
		return client, "deepseek/" + model, err
	}
	if key := os.Getenv("QWEN_API_KEY"); key != "" {
		model := envOr("QWEN_MODEL", "qwen-max")
		client, err := models.NewQwen(model, key, os.Getenv("QWEN_WORKSPACE"))
		return client, "qwen/" + model, err
	}
	return nil, "", fmt.Errorf(
		"no API key found: set OPENAI_API_KEY, DEEPSEEK_API_KEY or QWEN_API_KEY")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
