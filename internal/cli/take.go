package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"risk-profile-service/internal/app"
	"risk-profile-service/internal/domain"
	"risk-profile-service/internal/questionnaire"
)

var errAborted = errors.New("questionnaire aborted")

// NewTakeCmd runs a questionnaire interactively on the terminal.
func NewTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take <file>",
		Short: "Answer a questionnaire in the terminal and print the diagnosis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := questionnaire.DecodeFile(args[0])
			if err != nil {
				return err
			}
			d, err := take(g, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			printDiagnosis(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func take(g *domain.QuestionGraph, in io.Reader, out io.Writer) (domain.Diagnosis, error) {
	t := app.NewTraversal()
	if err := t.Begin(g); err != nil {
		return domain.Diagnosis{}, err
	}

	scanner := bufio.NewScanner(in)
	for t.Status() == app.StatusActive {
		q, _ := t.Current()
		printQuestion(out, t, q)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return domain.Diagnosis{}, err
			}
			return domain.Diagnosis{}, errAborted
		}

		switch input := strings.TrimSpace(scanner.Text()); input {
		case "":
			continue
		case "q":
			return domain.Diagnosis{}, errAborted
		case "b":
			if !t.Retreat() {
				fmt.Fprintln(out, "already at the first question")
			}
			continue
		case "n":
		default:
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintf(out, "enter 1-%d, b to go back, n to keep your answer, q to quit\n", len(q.Options))
				continue
			}
			t.RecordAnswer(q.ID, q.Options[n-1].Text)
		}

		step, err := t.Advance()
		if err != nil {
			return domain.Diagnosis{}, err
		}
		if step == app.StepNoAnswer {
			fmt.Fprintln(out, "choose an option first")
		}
	}
	return app.Diagnose(t.Answers())
}

func printQuestion(out io.Writer, t *app.Traversal, q domain.Question) {
	p := t.Progress()
	fmt.Fprintf(out, "\n[%d/%d] %s\n", p.Current, p.Total, q.Text)
	selected, _ := t.Selected(q.ID)
	for i, opt := range q.Options {
		marker := " "
		if opt.Text == selected {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d) %s\n", marker, i+1, opt.Text)
	}
	fmt.Fprint(out, "> ")
}

func printDiagnosis(out io.Writer, d domain.Diagnosis) {
	fmt.Fprintf(out, "\nResult: %s\n%s\n", d.ResultType.Name, d.ResultType.Description)
	fmt.Fprintf(out, "\nRecommended: %s\n%s\n", d.Portfolio.Title, d.Portfolio.Details)
	if len(d.Radar) == 0 {
		return
	}
	fmt.Fprintln(out, "\nScores:")
	for _, p := range d.Radar {
		fmt.Fprintf(out, "  %-20s %5.1f / %.0f\n", p.Label, p.Value, p.FullMark)
	}
}
