// File path: cmd/docgen/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nicodishanthj/docgen/internal/api"
	"github.com/nicodishanthj/docgen/internal/catalog"
	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/llm"
	"github.com/nicodishanthj/docgen/internal/render"
	"github.com/nicodishanthj/docgen/internal/sweeper"
	"github.com/nicodishanthj/docgen/internal/workflow"
)

var version = "0.1.0"

const shutdownGrace = 10 * time.Second

func main() {
	logger := common.Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug("docgen: .env file not loaded", "error", err)
	} else {
		logger.Info("docgen: environment loaded from .env")
	}

	rootCmd := &cobra.Command{
		Use:   "docgen",
		Short: "Generate and render formal documents",
		Long: `docgen turns a conversational request into a formal document.

It asks a chat-completion service for the prose, structures the text into
headings, body paragraphs and numbered clauses, applies per-type validation
rules, and renders a paginated PDF.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("docgen: command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the collaborators shared by the subcommands.
type app struct {
	renderer  *render.PDF
	store     *catalog.Store
	pipeline  *document.Pipeline
	generator *workflow.Generator
}

func (rt *app) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			common.Logger().Warn("docgen: catalog close failed", "error", err)
		}
	}
}

func buildRuntime(ctx context.Context, withProvider bool, outputDir string) (*app, error) {
	renderCfg, err := render.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	renderCfg = renderCfg.Merge(render.Config{OutputDir: outputDir})
	renderer, err := render.New(renderCfg)
	if err != nil {
		return nil, err
	}
	catalogCfg, err := catalog.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("catalog config: %w", err)
	}
	store, err := catalog.Open(ctx, catalogCfg)
	if err != nil {
		return nil, err
	}
	rt := &app{renderer: renderer, store: store, pipeline: document.NewPipeline(renderer)}
	if !withProvider {
		return rt, nil
	}
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("llm config: %w", err)
	}
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	workflowCfg, err := workflow.LoadConfig()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("workflow config: %w", err)
	}
	workflowCfg.ArtifactRoot = renderer.OutputDir()
	rt.generator = workflow.NewGenerator(provider, rt.pipeline, store, workflowCfg)
	common.Logger().Info("docgen: llm provider ready", "provider", provider.Name(), "model", llmCfg.Model)
	return rt, nil
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := common.Logger()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := buildRuntime(ctx, true, "")
			if err != nil {
				return err
			}
			defer rt.Close()

			sweepCfg, err := sweeper.LoadConfig()
			if err != nil {
				return fmt.Errorf("sweeper config: %w", err)
			}
			sweepCfg.Dir = rt.renderer.OutputDir()
			sweepDone := make(chan struct{})
			go func() {
				defer close(sweepDone)
				_ = sweeper.New(sweepCfg, rt.store).Run(ctx)
			}()

			apiCfg := api.LoadConfig()
			server, err := api.NewServer(rt.generator, rt.store, &apiCfg)
			if err != nil {
				return err
			}
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}
			serveErr := make(chan error, 1)
			go func() {
				serveErr <- httpServer.ListenAndServe()
			}()
			reachable := addr
			if strings.HasPrefix(reachable, ":") {
				reachable = "localhost" + reachable
			}
			logger.Info("docgen: server listening", "addr", addr, "ui", "/ui/", "health", "/healthz")
			logger.Info("docgen: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/health", reachable))

			select {
			case err := <-serveErr:
				stop()
				<-sweepDone
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			logger.Info("docgen: shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("docgen: graceful shutdown failed", "error", err)
			}
			<-sweepDone
			return nil
		},
	}
	defaultAddr := ":5000"
	if env := strings.TrimSpace(os.Getenv("DOCGEN_ADDR")); env != "" {
		defaultAddr = env
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		docType   string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "generate [message]",
		Short: "Generate a document from a request and render it",
		Long: `Generate sends the request to the configured generation service and
renders the reply as a PDF.

Example:
  docgen generate --type affidavit "My name is Ravi Kumar, I need a name change affidavit"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(cmd.Context(), true, outputDir)
			if err != nil {
				return err
			}
			defer rt.Close()
			parsed, _ := document.ParseDocumentType(docType)
			result, err := rt.generator.Generate(cmd.Context(), strings.Join(args, " "), parsed)
			if err != nil {
				return fmt.Errorf("%w (%s)", err, workflow.Hint(err).Message())
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Document: %s (%s, %s)\n", result.Artifact.Path, result.DocumentType, result.Locale)
			fmt.Fprintf(out, "Artifact: %s\n", result.Artifact.ID)
			for key, value := range result.Fields {
				fmt.Fprintf(out, "  %s: %s\n", key, value)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&docType, "type", "t", string(document.TypeGeneral), "document type")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "artifact directory (defaults to DOCGEN_ARTIFACT_DIR)")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		docType   string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render existing text into a PDF",
		Long: `Render runs text through the structuring pipeline without calling the
generation service. With no file argument the text is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 && args[0] != "-" {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			rt, err := buildRuntime(cmd.Context(), false, outputDir)
			if err != nil {
				return err
			}
			defer rt.Close()
			parsed, _ := document.ParseDocumentType(docType)
			artifact, err := rt.pipeline.Render(document.DocumentRequest{DocumentType: parsed, RawText: string(raw)})
			if err != nil {
				return err
			}
			if err := rt.store.Record(cmd.Context(), artifact); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document: %s (%d bytes, %s)\n", artifact.Path, artifact.Size, artifact.Locale)
			return nil
		},
	}
	cmd.Flags().StringVarP(&docType, "type", "t", string(document.TypeGeneral), "document type")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "artifact directory (defaults to DOCGEN_ARTIFACT_DIR)")
	return cmd
}

func sweepCmd() *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired artifacts once",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer rt.Close()
			cfg, err := sweeper.LoadConfig()
			if err != nil {
				return err
			}
			cfg.Dir = rt.renderer.OutputDir()
			if retention > 0 {
				cfg.Retention = retention
			}
			result, err := sweeper.New(cfg, rt.store).SweepOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d, removed %d, vanished %d\n", result.Scanned, result.Removed, result.Vanished)
			return err
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "override the retention window (e.g. 30m)")
	return cmd
}
