package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wsafety/desk/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

func statusColor(s model.DispatchStatus) string {
	switch s {
	case model.DispatchPending:
		return colorYellow
	case model.DispatchInProgress:
		return colorBlue
	case model.DispatchResolved:
		return colorGreen
	}
	return colorDim
}

// renderVolunteers prints the pending list. An unloaded list and a loaded
// empty one read differently.
func renderVolunteers(w io.Writer, volunteers []model.Volunteer, loaded bool, baseURL string) {
	if !loaded {
		fmt.Fprintf(w, "\n%sReady for Review%s\n", colorBold, colorReset)
		fmt.Fprintf(w, "%sFetch with the admin password to load pending volunteers.%s\n\n", colorDim, colorReset)
		return
	}
	if len(volunteers) == 0 {
		fmt.Fprintf(w, "\n%sAll Caught Up!%s\n", colorGreen, colorReset)
		fmt.Fprintf(w, "%sNo volunteers are waiting for verification.%s\n\n", colorDim, colorReset)
		return
	}

	// Calculate column widths
	idColWidth := 4
	nameColWidth := 20
	for _, v := range volunteers {
		if len(v.ID) > idColWidth {
			idColWidth = len(v.ID)
		}
		if len(v.Name) > nameColWidth {
			nameColWidth = len(v.Name)
		}
	}
	idColWidth += 2
	nameColWidth += 2

	fmt.Fprintf(w, "\nPending volunteers (%d)\n\n", len(volunteers))
	fmt.Fprintf(w, "%-*s%-*s%s\n", idColWidth, "ID", nameColWidth, "Name", "Details")
	fmt.Fprintln(w, strings.Repeat("-", idColWidth+nameColWidth+40))

	for _, v := range volunteers {
		fmt.Fprintf(w, "%-*s%-*s%s · %s · %s\n", idColWidth, v.ID, nameColWidth, v.Name, v.Email, v.Type, v.Location)
		if v.HasProof() {
			fmt.Fprintf(w, "%-*s%sProof: %s%s\n", idColWidth+nameColWidth, "", colorDim, v.ProofURL(baseURL), colorReset)
		} else {
			fmt.Fprintf(w, "%-*s%sNo proof uploaded%s\n", idColWidth+nameColWidth, "", colorDim, colorReset)
		}
	}
	fmt.Fprintln(w)
}

// renderDispatches prints the volunteer's dispatch list
func renderDispatches(w io.Writer, dispatches []model.Dispatch, role string) {
	if role != "" {
		fmt.Fprintf(w, "\n%sSigned in as %s%s\n", colorDim, role, colorReset)
	}
	if len(dispatches) == 0 {
		fmt.Fprintf(w, "\n%sNo active complaints assigned.%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(w, "\nAssigned dispatches (%d)\n\n", len(dispatches))
	for _, d := range dispatches {
		c := d.Complaint
		description := c.Description
		if description == "" {
			description = "No description provided."
		}
		reported := "unknown"
		if !c.ReportedAt.IsZero() {
			reported = c.ReportedAt.Local().Format("02 Jan 2006, 15:04")
		}

		fmt.Fprintf(w, "%s#%s%s  %s  %s%-11s%s\n", colorBold, d.ID, colorReset, c.Type, statusColor(d.Status), d.Status.Label(), colorReset)
		fmt.Fprintf(w, "  Complaint %s · %s · %s\n", c.ID, c.ComplainantName, c.ComplainantPhone)
		fmt.Fprintf(w, "  %s · reported %s\n", c.Location, reported)
		fmt.Fprintf(w, "  %s%s%s\n\n", colorDim, description, colorReset)
	}

	// Legend
	fmt.Fprintln(w, "Legend:")
	fmt.Fprintf(w, "  %sPENDING%s     = assigned, not started (start or resolve)\n", colorYellow, colorReset)
	fmt.Fprintf(w, "  %sIN PROGRESS%s = being handled (resolve)\n", colorBlue, colorReset)
	fmt.Fprintf(w, "  %sRESOLVED%s    = closed, no further actions\n", colorGreen, colorReset)
}
