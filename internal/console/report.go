package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
)

func monthHeader() string {
	cols := []string{"STACK"}
	for m := time.January; m <= time.December; m++ {
		cols = append(cols, strings.ToUpper(m.String()[:3]))
	}
	return strings.Join(cols, "\t")
}

// WriteCountReport renders a monthly session count table.
func WriteCountReport(w io.Writer, rows []domain.MonthlyCountRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, monthHeader()+"\t")
	for _, row := range rows {
		fmt.Fprint(tw, row.StackName)
		for _, n := range row.Months {
			fmt.Fprintf(tw, "\t%d", n)
		}
		fmt.Fprintln(tw, "\t")
	}
	return tw.Flush()
}

// WriteAverageReport renders a monthly average score table.
func WriteAverageReport(w io.Writer, rows []domain.MonthlyAverageRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, monthHeader()+"\t")
	for _, row := range rows {
		fmt.Fprint(tw, row.StackName)
		for _, avg := range row.Months {
			fmt.Fprintf(tw, "\t%.2f", avg)
		}
		fmt.Fprintln(tw, "\t")
	}
	return tw.Flush()
}

// WriteSessions renders the list of recorded sessions.
func WriteSessions(w io.Writer, sessions []domain.StudySession, stackNames map[int64]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTACK\tDATE\tSCORE")
	for _, s := range sessions {
		name, ok := stackNames[s.StackID]
		if !ok {
			name = fmt.Sprintf("#%d", s.StackID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", s.ID, name, s.Date.Local().Format("2006-01-02 15:04"), s.Score)
	}
	return tw.Flush()
}
