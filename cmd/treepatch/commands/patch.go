// Package commands implements CLI command handlers for treepatch.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treepatch/internal/config"
	"github.com/Sumatoshi-tech/treepatch/pkg/langs/mini"
	"github.com/Sumatoshi-tech/treepatch/pkg/rewrite"
	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/textutil"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// outputFileMode is the permission set for files written with -o.
const outputFileMode = 0o600

// PatchCommand holds configuration and dependencies for the patch command.
type PatchCommand struct {
	format     string
	output     string
	configPath string
	trace      bool
	noColor    bool
	maxDepth   int
}

// NewPatchCommand creates the patch command.
func NewPatchCommand() *cobra.Command {
	pc := &PatchCommand{}

	cmd := &cobra.Command{
		Use:   "patch OLD NEW",
		Short: "Rewrite OLD into NEW with minimal text edits",
		Long: "Parse OLD and NEW, correlate their trees, and compute the minimal\n" +
			"text edits that carry OLD to NEW while preserving the formatting of\n" +
			"everything that did not change.",
		Args: cobra.ExactArgs(2),
		RunE: pc.run,
	}

	cmd.Flags().StringVarP(&pc.format, "format", "f", config.DefaultFormat, "Output format: text, unified, edits")
	cmd.Flags().StringVarP(&pc.output, "output", "o", "", "Write result to file instead of stdout")
	cmd.Flags().StringVar(&pc.configPath, "config", "", "Config file path (default: .treepatch.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&pc.trace, "trace", config.DefaultTrace, "Log every strategy attempt to stderr")
	cmd.Flags().BoolVar(&pc.noColor, "no-color", false, "Disable colored summary output")
	cmd.Flags().IntVar(&pc.maxDepth, "max-depth", config.DefaultMaxDepth, "Maximum tree nesting depth")

	return cmd
}

func (pc *PatchCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := pc.resolveConfig(cmd)
	if err != nil {
		return err
	}

	if !cfg.Color {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	oldSrc, oldTree, err := loadFile(args[0])
	if err != nil {
		return err
	}

	_, newTree, err := loadFile(args[1])
	if err != nil {
		return err
	}

	correlateTrees(oldTree, newTree)

	edits, err := pc.rewriteTrees(cmd, cfg, oldTree, newTree, oldSrc)
	if err != nil {
		return err
	}

	patched, err := span.Apply(oldSrc, edits)
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}

	if err := pc.writeResult(cmd.OutOrStdout(), cfg, args[0], edits, oldSrc, patched); err != nil {
		return err
	}

	writeSummary(cmd.ErrOrStderr(), edits, oldSrc, patched)

	return nil
}

// resolveConfig layers explicit flags over the loaded configuration.
func (pc *PatchCommand) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(pc.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("format") {
		cfg.Format = pc.format
	}

	if cmd.Flags().Changed("trace") {
		cfg.Trace = pc.trace
	}

	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = pc.maxDepth
	}

	if pc.noColor {
		cfg.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (pc *PatchCommand) rewriteTrees(
	cmd *cobra.Command,
	cfg *config.Config,
	oldTree, newTree *tree.Node,
	oldSrc []byte,
) ([]span.Edit, error) {
	opts := []rewrite.Option{rewrite.WithMaxDepth(cfg.MaxDepth)}

	if cfg.Trace {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, rewrite.WithTracer(rewrite.SlogTracer(logger)))
	}

	rw, err := mini.NewRewriter(opts...)
	if err != nil {
		return nil, err
	}

	edits, err := rw.Rewrite(oldTree, newTree, oldSrc)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	return edits, nil
}

func (pc *PatchCommand) writeResult(
	stdout io.Writer,
	cfg *config.Config,
	oldPath string,
	edits []span.Edit,
	oldSrc, patched []byte,
) error {
	out := stdout

	if pc.output != "" {
		f, err := os.OpenFile(pc.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFileMode)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()

		out = f
	}

	switch cfg.Format {
	case config.FormatText:
		if _, err := out.Write(patched); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	case config.FormatUnified:
		return renderUnified(out, oldPath, oldSrc, patched)
	case config.FormatEdits:
		renderEdits(out, edits, oldSrc)
	}

	return nil
}

// loadFile reads a source file and parses it into a tree.
func loadFile(path string) ([]byte, *tree.Node, error) {
	src, err := textutil.ReadSource(path)
	if err != nil {
		return nil, nil, err
	}

	node, err := mini.New().Parse(mini.CatFile, string(src))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return src, node, nil
}
