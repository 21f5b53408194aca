package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/stepper"
)

func printOutcome(out stepper.Outcome) {
	switch out.Status {
	case stepper.StatusInvalid:
		fmt.Fprintf(os.Stderr, "%s: please fix the following fields\n", out.Section.Title())
		for _, f := range errors.SortedFields(out.Fields) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f, out.Fields[f])
		}
	case stepper.StatusFailed:
		printNotice(out.Notice)
	default:
		fmt.Printf("%s\n  %s\n", out.Message, out.Description)
	}
	if out.Completed {
		fmt.Println("Onboarding complete.")
	}
}

func printNotice(n *errors.Notice) {
	if n == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", n.Title, n.Message)
	if n.Retryable {
		fmt.Fprintln(os.Stderr, "  This may be temporary, run the command again to retry.")
	}
}

func printError(err error) {
	n := errors.NoticeFor(errors.Normalize(err))
	printNotice(&n)
}

func printStatus(w io.Writer, ctrl *stepper.Controller, catalog *section.Catalog) {
	states := ctrl.States()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Subject:\t%s\n", orDash(ctrl.Subject()))
	fmt.Fprintln(tw, "STEP\tSECTION\tSTATE\tREMOTE ID")
	for i, id := range section.Order {
		st := states[id]
		state := "pending"
		if st.Submitted {
			state = "submitted"
		}
		if id == ctrl.Current() && !ctrl.Completed() {
			state += " (current)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, id.Title(), state, orDash(st.RemoteID))
	}
	tw.Flush()

	uploaded := ctrl.UploadedDocuments()
	if len(uploaded) == 0 {
		return
	}
	fmt.Fprintln(w, "\nUploaded documents:")
	for _, t := range uploaded {
		title := t
		for _, leaf := range catalog.Leaves() {
			if leaf.WireType == t {
				title = leaf.Title
				break
			}
		}
		fmt.Fprintf(w, "  - %s\n", title)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
