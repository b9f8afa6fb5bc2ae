package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treepatch/pkg/langs/mini"
	"github.com/Sumatoshi-tech/treepatch/pkg/rewrite"
)

// FmtCommand holds configuration for the fmt command.
type FmtCommand struct {
	output string
	write  bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	fc := &FmtCommand{}

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Reprint a file from its parsed tree",
		Long: "Parse FILE and print it back with canonical formatting. Parentheses\n" +
			"are reinserted from operator precedence, so the output parses to a\n" +
			"tree structurally equal to the input's.",
		Args: cobra.ExactArgs(1),
		RunE: fc.run,
	}

	cmd.Flags().StringVarP(&fc.output, "output", "o", "", "Write result to file instead of stdout")
	cmd.Flags().BoolVarP(&fc.write, "write", "w", false, "Rewrite FILE in place")

	return cmd
}

func (fc *FmtCommand) run(cmd *cobra.Command, args []string) error {
	_, node, err := loadFile(args[0])
	if err != nil {
		return err
	}

	printed := mini.New().Print(node, rewrite.PrecReset())

	switch {
	case fc.write:
		if err := os.WriteFile(args[0], []byte(printed), outputFileMode); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
	case fc.output != "":
		if err := os.WriteFile(fc.output, []byte(printed), outputFileMode); err != nil {
			return fmt.Errorf("write %s: %w", fc.output, err)
		}
	default:
		fmt.Fprint(cmd.OutOrStdout(), printed)
	}

	return nil
}
