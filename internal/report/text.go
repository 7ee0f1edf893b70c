package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteText renders the report as a table per poll followed by the stats.
func WriteText(w io.Writer, r Report) error {
	if len(r.Entries) == 0 {
		if _, err := fmt.Fprintln(w, "No polls yet."); err != nil {
			return err
		}
	}

	for _, e := range r.Entries {
		if err := writeEntry(w, e); err != nil {
			return err
		}
	}

	return WriteStats(w, r)
}

func writeEntry(w io.Writer, e Entry) error {
	voted := ""
	if e.HasVoted {
		voted = " (voted)"
	}
	if _, err := fmt.Fprintf(w, "#%d %s%s\n  created %s\n", e.ID, e.Title, voted,
		e.Created().UTC().Format(time.RFC1123)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Candidate", "Votes", "Share"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for i, c := range e.Candidates {
		table.Append([]string{
			strconv.Itoa(i),
			c,
			strconv.FormatUint(e.Votes[i], 10),
			fmt.Sprintf("%.1f%%", e.Share(i)),
		})
	}
	table.SetFooter([]string{"", "Total", strconv.FormatUint(e.TotalVotes, 10), ""})
	table.Render()

	leader := "  No votes yet"
	if e.Winner != nil {
		leader = fmt.Sprintf("  Leading: %s with %d votes (%.1f%%)", e.Winner.Candidate,
			e.Winner.Votes, e.Winner.Percentage)
	}
	_, err := fmt.Fprintf(w, "%s\n\n", leader)
	return err
}

// WriteStats renders the dashboard statistics.
func WriteStats(w io.Writer, r Report) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Total Polls", "Total Votes", "Your Votes", "Active Polls"})
	table.Append([]string{
		strconv.Itoa(r.Stats.TotalPolls),
		strconv.FormatUint(r.Stats.TotalVotes, 10),
		strconv.Itoa(r.Stats.UserVotes),
		strconv.Itoa(r.Stats.ActivePolls),
	})
	table.Render()
	return nil
}
