// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/sirosfoundation/go-isds/pkg/schema"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// print writes v as JSON, or calls text when the text format is selected.
func (a *app) print(v any, text func() error) error {
	if a.output == "json" || text == nil {
		return a.printJSON(v)
	}
	return text()
}

func (a *app) table(header string, rows func(w *tabwriter.Writer)) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func (a *app) printMessages(records []schema.MessageRecord) error {
	return a.print(records, func() error {
		return a.table("ID\tSTATUS\tSENDER\tRECIPIENT\tDELIVERED\tSUBJECT", func(w *tabwriter.Writer) {
			for _, m := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					m.ID, m.Status, m.Sender, m.Recipient, formatTime(m.DeliveryTime), m.Subject)
			}
		})
	})
}

func (a *app) printDataBoxes(boxes []schema.DataBoxInfo) error {
	return a.print(boxes, func() error {
		return a.table("ID\tTYPE\tIC\tNAME\tCITY\tSTATE", func(w *tabwriter.Writer) {
			for _, b := range boxes {
				name := str(b.FirmName)
				if name == "" {
					name = joinNonEmpty(str(b.GivenNames), str(b.LastName))
				}
				typ, state := "", ""
				if b.Type != nil {
					typ = string(*b.Type)
				}
				if b.State != nil {
					state = b.State.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					str(b.ID), typ, str(b.IC), name, str(b.AddressCity), state)
			}
		})
	})
}

func (a *app) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(a.out, format, args...)
	return err
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}

func formatTime(t *schema.DateTime) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
