// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package cli

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/service"
)

func newDataBoxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "databox",
		Aliases: []string{"db"},
		Short:   "Search and manage data boxes",
	}
	cmd.AddCommand(
		newFindCmd(a),
		newSearchCmd(a),
		&cobra.Command{
			Use:   "check <databox-id>",
			Short: "Show the state of a data box",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.CheckDataBox(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(res, func() error {
					return a.printf("%s: %s\n", args[0], res.State)
				})
			},
		},
		newCreditCmd(a),
		newActivityCmd(a),
		&cobra.Command{
			Use:   "dt-info <databox-id>",
			Short: "Show the long term storage of a data box",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.GetDTInfo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printJSON(res)
			},
		},
		&cobra.Command{
			Use:   "users <databox-id>",
			Short: "List the users of a data box",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.GetDataBoxUsers(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printJSON(res.List())
			},
		},
		&cobra.Command{
			Use:   "owner",
			Short: "Show the owner of the logged-in data box",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := a.client.GetOwnerInfo(cmd.Context())
				if err != nil {
					return err
				}
				return a.printJSON(res.OwnerInfo)
			},
		},
		&cobra.Command{
			Use:   "user",
			Short: "Show the logged-in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := a.client.GetUserInfo(cmd.Context())
				if err != nil {
					return err
				}
				return a.printJSON(res.UserInfo)
			},
		},
		&cobra.Command{
			Use:   "password-info",
			Short: "Show when the password expires",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := a.client.GetPasswordInfo(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(res, func() error {
					if res.ExpiresAt == nil {
						return a.printf("password does not expire\n")
					}
					return a.printf("password expires %s\n", formatTime(res.ExpiresAt))
				})
			},
		},
		newChangePasswordCmd(a),
		&cobra.Command{
			Use:   "pdz-info <sender-id>",
			Short: "Show whether a data box may send commercial messages",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.GetPDZInfo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(res.Info, func() error {
					return a.printf("%s: allowed=%t from=%s to=%s\n", res.Info.ID, res.Info.Allowed,
						formatTime(res.Info.EffectiveFrom), formatTime(res.Info.EffectiveTo))
				})
			},
		},
		newPDZSendCmd(a),
		&cobra.Command{
			Use:   "open-addressing <databox-id>",
			Short: "Allow the data box to receive commercial messages from anyone",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.client.SetOpenAddressing(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.printf("open addressing enabled for %s\n", args[0])
			},
		},
		&cobra.Command{
			Use:   "close-addressing <databox-id>",
			Short: "Revoke open addressing of a data box",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.client.ClearOpenAddressing(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.printf("open addressing disabled for %s\n", args[0])
			},
		},
	)
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	var id, typ, ic, firm, given, last, city, zip string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search data boxes by owner attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := &schema.OwnerInfo{
				ID:          optional(id),
				IC:          optional(ic),
				FirmName:    optional(firm),
				GivenNames:  optional(given),
				LastName:    optional(last),
				AddressCity: optional(city),
				ZipCode:     optional(zip),
			}
			if typ != "" {
				t := schema.DataBoxType(strings.ToUpper(typ))
				query.Type = &t
			}
			res, err := a.client.FindDataBox(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.printDataBoxes(res.DataBoxes())
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "data box ID")
	cmd.Flags().StringVar(&typ, "type", "", "data box type (OVM, PO, PFO, FO or a subtype)")
	cmd.Flags().StringVar(&ic, "ic", "", "company identification number")
	cmd.Flags().StringVar(&firm, "firm", "", "company name")
	cmd.Flags().StringVar(&given, "given-names", "", "given names of an individual")
	cmd.Flags().StringVar(&last, "last-name", "", "last name of an individual")
	cmd.Flags().StringVar(&city, "city", "", "address city")
	cmd.Flags().StringVar(&zip, "zip", "", "address zip code")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		req service.SearchRequest
		v3  bool
	)
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Full text search of data boxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Text = args[0]
			req.Type = strings.ToUpper(req.Type)
			req.Scope = strings.ToUpper(req.Scope)
			search := a.client.SearchDataBoxes
			if v3 {
				search = a.client.SearchDataBoxes3
			}
			res, err := search(cmd.Context(), req)
			if err != nil {
				return err
			}
			results := res.DataBoxes()
			return a.print(results, func() error {
				err := a.table("ID\tTYPE\tIC\tNAME\tADDRESS", func(w *tabwriter.Writer) {
					for _, r := range results {
						typ := ""
						if r.Type != nil {
							typ = string(*r.Type)
						}
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, typ, str(r.IC),
							schema.StripHighlights(str(r.Name)), schema.StripHighlights(str(r.Address)))
					}
				})
				if err != nil {
					return err
				}
				return a.printf("%d of %d\n", len(results), res.TotalCount)
			})
		},
	}
	cmd.Flags().StringVar(&req.Type, "type", "", "what the text matches: general, address, ico or dbid")
	cmd.Flags().StringVar(&req.Scope, "scope", "", "data box kinds: all, ovm, ovm_main, po, pfo or fo")
	cmd.Flags().IntVar(&req.Page, "page", 0, "result page, counted from zero")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 0, "results per page")
	cmd.Flags().BoolVar(&v3, "v3", false, "use the third version of the search")
	return cmd
}

func newActivityCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "activity <databox-id>",
		Short: "Show the state history of a data box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				opts service.ActivityStatusOptions
				err  error
			)
			if opts.From, err = parseTime("from", from); err != nil {
				return err
			}
			if opts.To, err = parseTime("to", to); err != nil {
				return err
			}
			res, err := a.client.GetActivityStatus(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			periods := res.List()
			return a.print(periods, func() error {
				return a.table("FROM\tTO\tSTATE", func(w *tabwriter.Writer) {
					for _, p := range periods {
						fmt.Fprintf(w, "%s\t%s\t%s\n", formatTime(p.From), formatTime(p.To), p.State)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start of the history")
	cmd.Flags().StringVar(&to, "to", "", "end of the history")
	return cmd
}

func newCreditCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "credit <databox-id>",
		Short: "Show the prepaid credit of a data box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				opts service.CreditInfoOptions
				err  error
			)
			if opts.From, err = parseTime("from", from); err != nil {
				return err
			}
			if opts.To, err = parseTime("to", to); err != nil {
				return err
			}
			res, err := a.client.GetCreditInfo(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.print(res, func() error {
				return a.printf("%s: %d.%02d CZK\n", args[0], res.CurrentCredit/100, res.CurrentCredit%100)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start of the credit history")
	cmd.Flags().StringVar(&to, "to", "", "end of the credit history")
	return cmd
}

func newPDZSendCmd(a *app) *cobra.Command {
	var pdzType string
	cmd := &cobra.Command{
		Use:   "pdz-send <databox-id>",
		Short: "Check whether a commercial message can be sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.GetPDZSendInfo(cmd.Context(), args[0], pdzType)
			if err != nil {
				return err
			}
			return a.print(res, func() error {
				return a.printf("%s: allowed=%t\n", args[0], res.Allowed)
			})
		},
	}
	cmd.Flags().StringVar(&pdzType, "type", service.PDZTypeNormal, "message type: Normal or Init")
	return cmd
}

func newChangePasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the login password",
		Long:  "Reads the current and the new password from standard input, one per line.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := bufio.NewScanner(cmd.InOrStdin())
			var lines []string
			for len(lines) < 2 && r.Scan() {
				lines = append(lines, strings.TrimRight(r.Text(), "\r"))
			}
			if err := r.Err(); err != nil {
				return err
			}
			if len(lines) < 2 {
				return fmt.Errorf("expected the current and the new password on standard input")
			}
			if _, err := a.client.ChangePassword(cmd.Context(), lines[0], lines[1]); err != nil {
				return err
			}
			return a.printf("password changed\n")
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
