package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/agents"
	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
	"github.com/herald019/multi-agent-orchestrator-agentic-AI/llm"
	"github.com/herald019/multi-agent-orchestrator-agentic-AI/retrieval"
)

var (
	flagTask        string
	flagConfig      string
	flagMaxAttempts int
	flagNoWeb       bool
	flagVerbose     bool

	logger *zap.Logger
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orchestrator",
		Short: "Multi-agent pipeline turning a task into a validated project plan and report",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if flagVerbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runPipeline,
	}
	root.Flags().StringVar(&flagTask, "task", "", "Task description to plan for (required)")
	root.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.Flags().IntVar(&flagMaxAttempts, "max-attempts", 0, "Refinement attempt ceiling (default 3)")
	root.Flags().BoolVar(&flagNoWeb, "no-web", false, "Skip the web research stage")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	_ = root.MarkFlagRequired("task")
	return root
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := agents.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	if flagMaxAttempts > 0 {
		cfg.MaxAttempts = flagMaxAttempts
	}
	if flagNoWeb {
		cfg.UseWeb = false
	}
	if cfg.GroqAPIKey == "" {
		return errors.New("GROQ_API_KEY is not set in environment")
	}
	if cfg.UseWeb && cfg.TavilyAPIKey == "" {
		return errors.New("TAVILY_API_KEY is not set in environment (or pass --no-web)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry := framework.NewZapTelemetry(logger)
	options := &framework.LLMOptions{Model: cfg.Model, Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
	model := llm.NewInstrumentedModel(
		llm.NewClient(cfg.GroqEndpoint, cfg.GroqAPIKey, cfg.Model),
		telemetry,
		logger,
	)

	orch := &agents.Orchestrator{
		Planner:     &agents.Planner{Model: model, Options: options, Logger: logger},
		Reviewer:    &agents.Reviewer{Model: model, Options: options, Logger: logger},
		Reporter:    &agents.Reporter{Model: model, Options: options},
		MaxAttempts: cfg.MaxAttempts,
		Logger:      logger,
		Telemetry:   telemetry,
	}
	if cfg.UseWeb {
		orch.Research = &retrieval.Researcher{
			Search:  retrieval.NewClient(cfg.TavilyAPIKey),
			Model:   model,
			Options: options,
			Logger:  logger,
			TopK:    cfg.SearchTopK,
		}
	}

	state, err := orch.Run(ctx, flagTask)
	if err != nil {
		return err
	}
	printState(cmd, state)
	return nil
}

// printState writes the run log, plan, research, report, and sources to
// stdout. Ceiling exhaustion is already reflected in the log lines; the
// command exits 0 regardless.
func printState(cmd *cobra.Command, state *framework.State) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, headerStyle.Render("===== LOGS ====="))
	for _, line := range state.Logs() {
		fmt.Fprintln(out, "-", line)
	}

	fmt.Fprintln(out, "\n"+headerStyle.Render("===== PLAN (JSON) ====="))
	fmt.Fprintln(out, mustJSON(state.Plan))

	fmt.Fprintln(out, "\n"+headerStyle.Render("===== RESEARCH (JSON) ====="))
	fmt.Fprintln(out, mustJSON(state.Research))

	fmt.Fprintln(out, "\n"+headerStyle.Render("===== REPORT (Markdown) ====="))
	fmt.Fprintln(out, renderMarkdown(state.ReportMarkdown))

	if len(state.Sources) > 0 {
		fmt.Fprintln(out, "\n"+headerStyle.Render("===== SOURCES USED ====="))
		for i, s := range state.Sources {
			fmt.Fprintf(out, "[%d] %s - %s\n", i+1, s.Title, s.URL)
		}
	}
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// renderMarkdown pretty-prints the report for terminals, falling back to the
// raw Markdown when the renderer cannot be built.
func renderMarkdown(md string) string {
	if md == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
