package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/export"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func printIssues(w io.Writer, issues []models.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No complaints found")
		return
	}
	tw := newTable(w, export.Columns...)
	for _, is := range issues {
		fmt.Fprintln(tw, strings.Join(export.Row(is), "\t"))
	}
	tw.Flush()
}

func printIssue(w io.Writer, is *models.Issue) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range export.DetailRows(*is) {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}
	tw := newTable(w, "ID", "Name", "Email", "Phone", "Role", "Verified", "Enabled")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Email, orDash(u.PhoneNumber), orDash(u.Role), yesNo(u.Verified), yesNo(u.Enabled))
	}
	tw.Flush()
}

func printProfile(w io.Writer, p *models.Profile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(p.PhoneNumber))
	fmt.Fprintf(tw, "Address:\t%s\n", orDash(p.Address))
	fmt.Fprintf(tw, "Role:\t%s\n", orDash(p.Role))
	fmt.Fprintf(tw, "Bio:\t%s\n", orDash(p.Bio))
	fmt.Fprintf(tw, "Picture:\t%s\n", orDash(p.Picture))
	tw.Flush()
}

func printPager(w io.Writer, page, totalPages, total int) {
	if totalPages == 0 {
		return
	}
	fmt.Fprintf(w, "Page %d of %d (%d total)\n", page+1, totalPages, total)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
