package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"risk-profile-service/internal/domain"
	"risk-profile-service/internal/questionnaire"
)

// NewValidateCmd checks question resources without starting anything.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate questionnaire files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				g, err := questionnaire.DecodeFile(path)
				if err != nil {
					fmt.Fprintf(out, "FAIL %v\n", err)
					failed++
					continue
				}
				fmt.Fprintf(out, "ok   %s: %d questions, starts at %q\n", path, len(g.Questions), g.InitialQuestionID)
				if unreachable := domain.Unreachable(g); len(unreachable) > 0 {
					fmt.Fprintf(out, "     warning: unreachable questions: %s\n", strings.Join(unreachable, ", "))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
