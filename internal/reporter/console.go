package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"sql-remap/internal/model"
)

type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

func (r *ConsoleReporter) Report(result *model.ConversionResult) error {
	fmt.Fprintln(r.out, color.New(color.Bold).Sprint("Converted query:"))
	fmt.Fprintln(r.out, result.ConvertedQuery)
	fmt.Fprintln(r.out)

	if len(result.Outcomes) > 0 {
		table := tablewriter.NewWriter(r.out)
		table.SetHeader([]string{"Kind", "Type", "Legacy", "Target", "Detail"})
		table.SetAutoWrapText(false)

		for _, o := range result.Outcomes {
			table.Append([]string{
				kindColor(o.Kind).Sprint(string(o.Kind)),
				refType(o),
				o.Legacy,
				o.Target,
				detail(o),
			})
		}
		table.Render()
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintf(r.out, "%s statement %d: %s\n",
			color.YellowString("[%s]", d.Kind), d.Statement+1, d.Message)
	}

	mapped, unmapped, ambiguous := result.Counts()
	if unmapped == 0 && ambiguous == 0 && len(result.Diagnostics) == 0 {
		fmt.Fprintf(r.out, "\n%s %d references mapped, nothing left to fix.\n",
			color.GreenString("✔"), mapped)
	} else {
		fmt.Fprintf(r.out, "\n%s %d mapped, %d unmapped, %d ambiguous.\n",
			color.RedString("✘"), mapped, unmapped, ambiguous)
	}
	return nil
}

func kindColor(kind model.OutcomeKind) *color.Color {
	switch kind {
	case model.KindMapped:
		return color.New(color.FgGreen)
	case model.KindUnmapped:
		return color.New(color.FgYellow, color.Bold)
	case model.KindAmbiguous:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func refType(o model.Outcome) string {
	if o.IsTable {
		return "table"
	}
	return "column"
}

func detail(o model.Outcome) string {
	switch o.Kind {
	case model.KindUnmapped:
		return o.Reason
	case model.KindAmbiguous:
		return "candidates: " + strings.Join(o.Candidates, ", ")
	default:
		return o.Comment
	}
}
