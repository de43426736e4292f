package controller

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/quill/internal/model"
)

// SimpleUI implements UI using cobra Command's input and output streams.
type SimpleUI struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

// Confirm walks the candidates for one file, asking accept, edit, skip,
// or quit for each. Running out of input counts as quit so piped runs
// cannot hang on the prompt.
func (s *SimpleUI) Confirm(path m.Path, candidates []m.Candidate) ([]m.ConfirmResponse, error) {
	responses := make([]m.ConfirmResponse, 0, len(candidates))

	s.printf("\n%s\n", path)

	for i, candidate := range candidates {
		s.showCandidate(i, len(candidates), candidate)

		response := s.ask(candidate)
		responses = append(responses, response)

		if response.Decision == m.DecisionQuit {
			break
		}
	}

	return responses, nil
}

func (s *SimpleUI) showCandidate(index, total int, candidate m.Candidate) {
	s.printf("\n[%d/%d] %s (line %d)\n", index+1, total, candidate.Record.QualifiedName, candidate.Record.Line)

	if candidate.Existing != "" {
		s.printf("--- current\n%s", candidate.Existing)
		s.printf("+++ replacement\n%s", candidate.Rendered)

		return
	}

	s.printf("%s", candidate.Rendered)
}

func (s *SimpleUI) ask(candidate m.Candidate) m.ConfirmResponse {
	for {
		s.printf("[a]ccept  [e]dit  [s]kip  [q]uit > ")

		line, err := s.reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))

		if err != nil && answer == "" {
			// No more input; stop the run instead of looping forever.
			return m.ConfirmResponse{Decision: m.DecisionQuit}
		}

		switch answer {
		case "a", "":
			return m.ConfirmResponse{Decision: m.DecisionAccept}
		case "e":
			edited, editErr := editText(candidate.Rendered)
			if editErr != nil {
				s.printf("editor failed: %v\n", editErr)
				continue
			}

			return m.ConfirmResponse{Decision: m.DecisionEdit, Override: edited}
		case "s":
			return m.ConfirmResponse{Decision: m.DecisionReject}
		case "q":
			return m.ConfirmResponse{Decision: m.DecisionQuit}
		default:
			s.printf("unrecognized answer %q\n", answer)
		}
	}
}

// ShowRunReport prints the per-file results with totals in the footer.
func (s *SimpleUI) ShowRunReport(report m.RunReport) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Status", "Functions", "Reason"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, result := range report.Results {
		table.Append([]string{
			string(result.Path),
			string(result.Status),
			fmt.Sprintf("%d", result.Functions),
			result.Reason,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Run %s", report.ID),
		fmt.Sprintf("%d written / %d skipped / %d failed",
			report.Written(), report.Skipped(), report.Failed()),
		fmt.Sprintf("%d", report.Functions()),
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if report.DryRun {
		s.printf("dry run: no files were modified\n")
	}
}

// ShowCheckReport prints undocumented functions and scan failures.
func (s *SimpleUI) ShowCheckReport(report m.CheckReport) {
	if len(report.Undocumented) == 0 && len(report.Failures) == 0 {
		s.printf("all functions documented across %d file(s)\n", report.Files)

		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Line", "Function", "Signature"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, fn := range report.Undocumented {
		table.Append([]string{string(fn.Path), fmt.Sprintf("%d", fn.Line), fn.Name, fn.Signature})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d", report.Files),
		"",
		fmt.Sprintf("Undocumented %d", len(report.Undocumented)),
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if len(report.Failures) > 0 {
		paths := make([]string, 0, len(report.Failures))
		for path := range report.Failures {
			paths = append(paths, string(path))
		}

		sort.Strings(paths)

		s.printf("\nfailed to scan:\n")

		for _, path := range paths {
			s.printf("  %s: %s\n", path, report.Failures[m.Path(path)])
		}
	}
}

// ShowHistory prints recorded runs, newest first.
func (s *SimpleUI) ShowHistory(runs []m.RunRecord) {
	if len(runs) == 0 {
		s.printf("no recorded runs\n")

		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Started", "Language", "Style", "Written", "Skipped", "Failed", "Functions"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04"),
			string(run.Language),
			string(run.Style),
			fmt.Sprintf("%d", run.Written),
			fmt.Sprintf("%d", run.Skipped),
			fmt.Sprintf("%d", run.Failed),
			fmt.Sprintf("%d", run.Functions),
		})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
