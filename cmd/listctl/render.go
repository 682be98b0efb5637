package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/foxxcyber/voicelist/internal/models"
)

func printResult(w io.Writer, res *models.CommandResult) {
	for _, a := range res.Actions {
		fmt.Fprintln(w, describeAction(a))
	}

	if res.Search != nil {
		printSearch(w, res.Search)
	}

	for _, p := range res.Proposals {
		fmt.Fprintf(w, "Substitutes for %q: %s\n", p.Item, strings.Join(p.Alternatives, ", "))
	}

	if res.Search == nil && res.List != nil {
		printList(w, res.List)
	}
}

func describeAction(a models.Action) string {
	switch a.Op {
	case models.OpAdd:
		return fmt.Sprintf("Added %s (%d)", a.Item, a.Qty)
	case models.OpRemove:
		return fmt.Sprintf("Removed %s", a.Item)
	case models.OpDecrement:
		return fmt.Sprintf("Removed %d of %s", a.Qty, a.Item)
	case models.OpRename:
		return fmt.Sprintf("Replaced %s with %s", a.Item, a.Target)
	case models.OpSetQty:
		return fmt.Sprintf("Set %s to %d", a.Item, a.Qty)
	case models.OpClear:
		return "Cleared the list"
	case models.OpSearch:
		return fmt.Sprintf("Searching products for %q", a.Item)
	case models.OpPropose:
		return fmt.Sprintf("Suggested substitutes for %s", a.Item)
	default:
		if a.Item != "" {
			return fmt.Sprintf("Nothing to do for %s", a.Item)
		}
		return "Nothing to do"
	}
}

func printSearch(w io.Writer, s *models.SearchOutcome) {
	if s.Status != models.SearchStatusOK {
		fmt.Fprintln(w, s.Status)
		return
	}
	for _, p := range s.Products {
		meta := derefOr(p.Category, "")
		if p.Brand != nil {
			meta = *p.Brand + " • " + meta
		}
		fmt.Fprintf(w, "  %-36s %-24s %s\n", p.Name, meta, p.DisplayPrice())
	}
}

func printList(w io.Writer, list *models.GroupedList) {
	if list.Count == 0 {
		fmt.Fprintln(w, "Your list is empty.")
		return
	}
	fmt.Fprintln(w, list.CountLabel)
	for _, g := range list.Categories {
		fmt.Fprintf(w, "%s (%d)\n", g.Category, g.Count)
		for _, it := range g.Items {
			line := "  " + it.Name
			if it.Label != "" {
				line += " - " + it.Label
			}
			fmt.Fprintln(w, line)
		}
	}
}

func printHistory(w io.Writer, h *models.PurchaseHistory) {
	if len(h.Counts) == 0 {
		fmt.Fprintln(w, "No purchases recorded.")
		return
	}
	names := make([]string, 0, len(h.Counts))
	for name := range h.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		line := fmt.Sprintf("  %-24s %d", name, h.Counts[name])
		if ts, ok := h.LastPurchased[name]; ok {
			line += "  last " + ts.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintln(w, line)
	}
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
