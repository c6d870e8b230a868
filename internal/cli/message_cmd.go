// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/service"
)

// listFlags are shared by the listing commands.
type listFlags struct {
	from, to string
	status   int
	offset   int
	limit    int
}

func (f *listFlags) register(cmd *cobra.Command, withStatus bool) {
	cmd.Flags().StringVar(&f.from, "from", "", "start of the listing window")
	cmd.Flags().StringVar(&f.to, "to", "", "end of the listing window")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "1-based index of the first record")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of records")
	if withStatus {
		cmd.Flags().IntVar(&f.status, "status", 0, "list only messages in this status (1-9)")
	}
}

func (f *listFlags) options() (service.ListMessagesOptions, error) {
	var opts service.ListMessagesOptions
	var err error
	if opts.From, err = parseTime("from", f.from); err != nil {
		return opts, err
	}
	if opts.To, err = parseTime("to", f.to); err != nil {
		return opts, err
	}
	if f.status != 0 {
		if f.status < int(schema.MessageCreated) || f.status > int(schema.MessageDeleted) {
			return opts, fmt.Errorf("--status: expected 1-9, got %d", f.status)
		}
		filter := schema.FilterStatus(schema.MessageStatus(f.status))
		opts.StatusFilter = &filter
	}
	opts.Offset = f.offset
	opts.Limit = f.limit
	return opts, nil
}

func newMessagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List messages",
	}

	var received listFlags
	receivedCmd := &cobra.Command{
		Use:   "received",
		Short: "List received messages (last 90 days by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := received.options()
			if err != nil {
				return err
			}
			res, err := a.client.GetReceivedMessages(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printMessages(res.Messages())
		},
	}
	received.register(receivedCmd, true)

	var sent listFlags
	sentCmd := &cobra.Command{
		Use:   "sent",
		Short: "List sent messages (last 90 days by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := sent.options()
			if err != nil {
				return err
			}
			res, err := a.client.GetSentMessages(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printMessages(res.Messages())
		},
	}
	sent.register(sentCmd, true)

	var erased listFlags
	erasedCmd := &cobra.Command{
		Use:   "erased",
		Short: "List erased messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := erased.options()
			if err != nil {
				return err
			}
			res, err := a.client.GetErasedMessages(cmd.Context(), service.ErasedMessagesOptions{
				From:   opts.From,
				To:     opts.To,
				Offset: opts.Offset,
				Limit:  opts.Limit,
			})
			if err != nil {
				return err
			}
			return a.printMessages(res.Messages())
		},
	}
	erased.register(erasedCmd, false)

	var changes listFlags
	changesCmd := &cobra.Command{
		Use:   "changes",
		Short: "List message state changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseTime("from", changes.from)
			if err != nil {
				return err
			}
			to, err := parseTime("to", changes.to)
			if err != nil {
				return err
			}
			res, err := a.client.GetMessageStateChanges(cmd.Context(), service.StateChangesOptions{From: from, To: to})
			if err != nil {
				return err
			}
			list := res.Records.List()
			return a.print(list, func() error {
				return a.table("ID\tTIME\tSTATUS", func(w *tabwriter.Writer) {
					for _, c := range list {
						fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, formatTime(&c.EventTime), c.Status)
					}
				})
			})
		},
	}
	changesCmd.Flags().StringVar(&changes.from, "from", "", "start of the window")
	changesCmd.Flags().StringVar(&changes.to, "to", "", "end of the window")

	cmd.AddCommand(receivedCmd, sentCmd, erasedCmd, changesCmd)
	return cmd
}

func newMessageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Work with a single message",
	}
	cmd.AddCommand(
		newSendCmd(a),
		newDownloadCmd(a),
		newEnvelopeCmd(a),
		&cobra.Command{
			Use:   "delivery-info <message-id>",
			Short: "Show the delivery history of a message",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.GetDeliveryInfo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				d := res.Delivery
				return a.print(d, func() error {
					if err := a.printf("%s  %s  %s\n", d.Envelope.ID, d.Status, d.Envelope.Subject); err != nil {
						return err
					}
					if d.Events == nil {
						return nil
					}
					return a.table("TIME\tEVENT", func(w *tabwriter.Writer) {
						for _, e := range d.Events.Events {
							fmt.Fprintf(w, "%s\t%s\n", formatTime(&e.Time), e.Description)
						}
					})
				})
			},
		},
		&cobra.Command{
			Use:   "mark-read <message-id>",
			Short: "Mark a received message as downloaded",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.client.MarkMessageAsDownloaded(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.printf("message %s marked as downloaded\n", args[0])
			},
		},
		&cobra.Command{
			Use:   "verify <message-id>",
			Short: "Show the hash the system keeps for a message",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.VerifyMessage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(res.Hash, func() error {
					return a.printf("%s %s\n", res.Hash.Algorithm, res.Hash.Value)
				})
			},
		},
		&cobra.Command{
			Use:   "erase <message-id>",
			Short: "Erase a message from the data box",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.client.EraseMessage(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.printf("message %s erased\n", args[0])
			},
		},
		newAuthenticateCmd(a),
	)
	return cmd
}

func newSendCmd(a *app) *cobra.Command {
	var (
		req     service.CreateMessageRequest
		toHands string
		ref     string
		persDel bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to one or more data boxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if toHands != "" {
				req.ToHands = &toHands
			}
			if ref != "" {
				req.SenderRefNumber = &ref
			}
			if cmd.Flags().Changed("personal") {
				req.PersonalDelivery = &persDel
			}
			res, err := a.client.CreateMessage(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if res.Multiple != nil {
				for _, f := range res.Multiple.Results.Failed() {
					o := f.Status.Outcome()
					a.logger.Warn("recipient rejected",
						"message_id", str(f.ID),
						"code", o.Code,
						"message", o.Message)
				}
			}
			ids := res.MessageIDs()
			return a.print(ids, func() error {
				for _, id := range ids {
					if err := a.printf("%s\n", id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&req.Recipients, "to", nil, "recipient data box ID (repeatable)")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "message subject")
	cmd.Flags().StringSliceVar(&req.Attachments, "attach", nil, "file to attach (repeatable, first is the main document)")
	cmd.Flags().StringVar(&toHands, "to-hands", "", "person the message is addressed to")
	cmd.Flags().StringVar(&ref, "ref", "", "sender reference number")
	cmd.Flags().BoolVar(&persDel, "personal", false, "deliver to the addressee in person only")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("attach")
	return cmd
}

func newDownloadCmd(a *app) *cobra.Command {
	var (
		out    string
		signed bool
		sent   bool
	)
	cmd := &cobra.Command{
		Use:   "download <message-id>",
		Short: "Download a message and store its files",
		Long: `Download a message. Its files are written to the --out directory.

With --signed the signed message is written to --out as a single file
instead (a .zfo document).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if signed || sent {
				var (
					res *schema.SignedMessageResponse
					err error
				)
				if sent {
					res, err = a.client.DownloadSignedSentMessage(cmd.Context(), id)
				} else {
					res, err = a.client.DownloadSignedMessage(cmd.Context(), id)
				}
				if err != nil {
					return err
				}
				if out == "" {
					out = id + ".zfo"
				}
				return writeBase64(out, res.Signature)
			}

			res, err := a.client.DownloadMessage(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out == "" {
				out = id
			}
			if err := os.MkdirAll(out, 0o750); err != nil {
				return err
			}
			var files []schema.ReceivedFile
			if res.Message.Envelope.Files != nil {
				files = res.Message.Envelope.Files.Files
			}
			for i, f := range files {
				if f.EncodedContent == nil {
					a.logger.Warn("file has no binary content", "index", i, "description", f.Description)
					continue
				}
				name := filepath.Base(f.Description)
				if name == "." || name == string(filepath.Separator) || name == "" {
					name = "file-" + strconv.Itoa(i)
				}
				if err := writeBase64(filepath.Join(out, name), *f.EncodedContent); err != nil {
					return err
				}
			}
			return a.print(res.Message, func() error {
				return a.printf("%s: %d file(s) written to %s\n", id, len(files), out)
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory, or file with --signed")
	cmd.Flags().BoolVar(&signed, "signed", false, "download the signed received message")
	cmd.Flags().BoolVar(&sent, "sent", false, "download the signed sent message")
	return cmd
}

func newEnvelopeCmd(a *app) *cobra.Command {
	var sent bool
	cmd := &cobra.Command{
		Use:   "envelope <message-id>",
		Short: "Show a message envelope without its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			get := a.client.GetMessageEnvelope
			if sent {
				get = a.client.GetSentMessageEnvelope
			}
			res, err := get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := res.Message
			return a.print(m, func() error {
				return a.printf("ID:        %s\nSubject:   %s\nSender:    %s (%s)\nRecipient: %s (%s)\nStatus:    %s\nDelivered: %s\nAccepted:  %s\n",
					m.Envelope.ID, m.Envelope.Subject,
					m.Envelope.Sender, m.Envelope.SenderID,
					m.Envelope.Recipient, m.Envelope.RecipientID,
					m.Status, formatTime(m.DeliveryTime), formatTime(m.AcceptanceTime))
			})
		},
	}
	cmd.Flags().BoolVar(&sent, "sent", false, "the message was sent from this data box")
	return cmd
}

func newAuthenticateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "authenticate <file.zfo>",
		Short: "Check that a signed message originates from the system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := a.client.AuthenticateMessage(cmd.Context(), data)
			if err != nil {
				return err
			}
			return a.print(res, func() error {
				if res.Authentic {
					return a.printf("%s: authentic\n", args[0])
				}
				return a.printf("%s: NOT authentic\n", args[0])
			})
		},
	}
}

func writeBase64(path, content string) error {
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o640)
}
