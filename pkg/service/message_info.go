// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package service

import (
	"context"
	"time"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

// Listing defaults.
const (
	DefaultListWindow = 90 * 24 * time.Hour
	DefaultListOffset = 1
	DefaultListLimit  = 1000
)

var listArgs = []string{"dmFromTime", "dmToTime", "dmStatusFilter", "dmOffset", "dmLimit"}

var (
	opMessageEnvelopeDownload = Operation{
		Name:     "MessageEnvelopeDownload",
		Required: []string{"dmID"},
	}
	opSentMessageEnvelopeDownload = Operation{
		Name:     "SentMessageEnvelopeDownload",
		Required: []string{"dmID"},
	}
	opMarkMessageAsDownloaded = Operation{
		Name:     "MarkMessageAsDownloaded",
		Required: []string{"dmID"},
	}
	opGetDeliveryInfo = Operation{
		Name:     "GetDeliveryInfo",
		Required: []string{"dmID"},
	}
	opGetSignedDeliveryInfo = Operation{
		Name:     "GetSignedDeliveryInfo",
		Required: []string{"dmID"},
	}
	opGetListOfReceivedMessages = Operation{
		Name:     "GetListOfReceivedMessages",
		Optional: append([]string{"dmRecipientOrgUnitNum"}, listArgs...),
	}
	opGetListOfSentMessages = Operation{
		Name:     "GetListOfSentMessages",
		Optional: append([]string{"dmSenderOrgUnitNum"}, listArgs...),
	}
	opGetListOfErasedMessages = Operation{
		Name:     "GetListOfErasedMessages",
		Optional: []string{"dmFromTime", "dmToTime", "dmOffset", "dmLimit"},
	}
	opGetMessageStateChanges = Operation{
		Name:     "GetMessageStateChanges",
		Optional: []string{"dmFromTime", "dmToTime"},
	}
	opEraseMessage = Operation{
		Name:     "EraseMessage",
		Required: []string{"dmID"},
	}
	opVerifyMessage = Operation{
		Name:     "VerifyMessage",
		Required: []string{"dmID"},
	}
	opRegisterForNotifications = Operation{
		Name:     "RegisterForNotifications",
		Required: []string{"dmNotificationURL"},
	}
	opGetListForNotifications = Operation{
		Name:     "GetListForNotifications",
		Optional: []string{"dmFromTime", "dmToTime", "dmOffset", "dmLimit"},
	}
)

// MessageInfoGroup lists messages and reads their envelopes and delivery
// information.
var MessageInfoGroup = Group{
	Name: "message info",
	Path: "dx",
	WSDL: "dm_info.wsdl",
	Operations: []Operation{
		opMessageEnvelopeDownload,
		opSentMessageEnvelopeDownload,
		opMarkMessageAsDownloaded,
		opGetDeliveryInfo,
		opGetSignedDeliveryInfo,
		opGetListOfReceivedMessages,
		opGetListOfSentMessages,
		opGetListOfErasedMessages,
		opGetMessageStateChanges,
		opEraseMessage,
		opVerifyMessage,
		opRegisterForNotifications,
		opGetListForNotifications,
	},
}

// ListMessagesOptions filters a message listing. When neither bound is
// set, the last DefaultListWindow is listed; when only one is set, only
// that bound is sent.
type ListMessagesOptions struct {
	From *time.Time
	To   *time.Time
	// OrgUnitNum selects the recipient (received) or sender (sent)
	// organisation unit.
	OrgUnitNum *int64
	// StatusFilter defaults to NoStatusFilter.
	StatusFilter *schema.StatusFilter
	Offset       int `validate:"omitempty,min=1"`
	Limit        int `validate:"omitempty,min=1"`
}

// ErasedMessagesOptions filters an erased message listing. Bounds and
// paging default as for ListMessagesOptions.
type ErasedMessagesOptions struct {
	From   *time.Time
	To     *time.Time
	Offset int `validate:"omitempty,min=1"`
	Limit  int `validate:"omitempty,min=1"`
}

func (o ErasedMessagesOptions) listOptions() ListMessagesOptions {
	return ListMessagesOptions{From: o.From, To: o.To, Offset: o.Offset, Limit: o.Limit}
}

// NotificationRegistration subscribes an external endpoint to the
// notifications of the data box.
type NotificationRegistration struct {
	URL string `validate:"required,url"`
}

// NotificationListOptions filters the messages that raised notifications.
// Bounds and paging default as for ListMessagesOptions.
type NotificationListOptions struct {
	From   *time.Time
	To     *time.Time
	Offset int `validate:"omitempty,min=1"`
	Limit  int `validate:"omitempty,min=1"`
}

// StateChangesOptions bounds a state change listing. Unset bounds are not
// sent.
type StateChangesOptions struct {
	From *time.Time
	To   *time.Time
}

// MessageInfo is the message info service (dx).
type MessageInfo struct {
	Dispatcher
}

// NewMessageInfo creates the service on top of caller.
func NewMessageInfo(caller transport.Caller, opts ...Option) *MessageInfo {
	return &MessageInfo{Dispatcher: newDispatcher(MessageInfoGroup, caller, opts)}
}

// GetMessageEnvelope downloads the envelope of a received message.
func (s *MessageInfo) GetMessageEnvelope(ctx context.Context, messageID string) (*schema.MessageEnvelopeResponse, error) {
	return invoke[schema.MessageEnvelopeResponse](ctx, &s.Dispatcher, opMessageEnvelopeDownload, transport.Args{
		arg("dmID", messageID),
	})
}

// GetSentMessageEnvelope downloads the envelope of a sent message.
func (s *MessageInfo) GetSentMessageEnvelope(ctx context.Context, messageID string) (*schema.MessageEnvelopeResponse, error) {
	return invoke[schema.MessageEnvelopeResponse](ctx, &s.Dispatcher, opSentMessageEnvelopeDownload, transport.Args{
		arg("dmID", messageID),
	})
}

// MarkMessageAsDownloaded marks a received message as read.
func (s *MessageInfo) MarkMessageAsDownloaded(ctx context.Context, messageID string) (*schema.StatusResponse, error) {
	return invoke[schema.StatusResponse](ctx, &s.Dispatcher, opMarkMessageAsDownloaded, transport.Args{
		arg("dmID", messageID),
	})
}

// GetDeliveryInfo returns the delivery events of a message.
func (s *MessageInfo) GetDeliveryInfo(ctx context.Context, messageID string) (*schema.DeliveryInfoResponse, error) {
	return invoke[schema.DeliveryInfoResponse](ctx, &s.Dispatcher, opGetDeliveryInfo, transport.Args{
		arg("dmID", messageID),
	})
}

// GetSignedDeliveryInfo returns the delivery information as a signed CMS
// structure.
func (s *MessageInfo) GetSignedDeliveryInfo(ctx context.Context, messageID string) (*schema.SignedMessageResponse, error) {
	return invoke[schema.SignedMessageResponse](ctx, &s.Dispatcher, opGetSignedDeliveryInfo, transport.Args{
		arg("dmID", messageID),
	})
}

// GetListOfReceivedMessages lists received messages.
func (s *MessageInfo) GetListOfReceivedMessages(ctx context.Context, opts ListMessagesOptions) (*schema.ListOfMessagesResponse, error) {
	args, err := s.listArgs(opts, "dmRecipientOrgUnitNum", true)
	if err != nil {
		return nil, err
	}
	return invoke[schema.ListOfMessagesResponse](ctx, &s.Dispatcher, opGetListOfReceivedMessages, args)
}

// GetListOfSentMessages lists sent messages.
func (s *MessageInfo) GetListOfSentMessages(ctx context.Context, opts ListMessagesOptions) (*schema.ListOfMessagesResponse, error) {
	args, err := s.listArgs(opts, "dmSenderOrgUnitNum", true)
	if err != nil {
		return nil, err
	}
	return invoke[schema.ListOfMessagesResponse](ctx, &s.Dispatcher, opGetListOfSentMessages, args)
}

// GetListOfErasedMessages lists messages erased from the data box.
func (s *MessageInfo) GetListOfErasedMessages(ctx context.Context, opts ErasedMessagesOptions) (*schema.ListOfMessagesResponse, error) {
	if err := validateRequest(&opts); err != nil {
		return nil, err
	}
	args, err := s.listArgs(opts.listOptions(), "", false)
	if err != nil {
		return nil, err
	}
	return invoke[schema.ListOfMessagesResponse](ctx, &s.Dispatcher, opGetListOfErasedMessages, args)
}

// listArgs builds listing arguments with the default window, status
// filter and paging applied. An empty orgUnitArg drops OrgUnitNum.
func (s *MessageInfo) listArgs(opts ListMessagesOptions, orgUnitArg string, withStatus bool) (transport.Args, error) {
	if err := validateRequest(&opts); err != nil {
		return nil, err
	}
	if opts.From != nil && opts.To != nil && opts.From.After(*opts.To) {
		return nil, isdserr.Invalid("From", "after To")
	}

	from, to := opts.From, opts.To
	if from == nil && to == nil {
		now := s.now()
		start := now.Add(-DefaultListWindow)
		from, to = &start, &now
	}

	args := transport.Args{
		arg("dmFromTime", from),
		arg("dmToTime", to),
	}
	if orgUnitArg != "" {
		args = append(args, arg(orgUnitArg, opts.OrgUnitNum))
	}
	if withStatus {
		filter := schema.NoStatusFilter
		if opts.StatusFilter != nil {
			filter = *opts.StatusFilter
		}
		args = append(args, arg("dmStatusFilter", int(filter)))
	}

	offset, limit := opts.Offset, opts.Limit
	if offset == 0 {
		offset = DefaultListOffset
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	return append(args, arg("dmOffset", offset), arg("dmLimit", limit)), nil
}

// GetMessageStateChanges lists message status changes within the given
// bounds.
func (s *MessageInfo) GetMessageStateChanges(ctx context.Context, opts StateChangesOptions) (*schema.StateChangesResponse, error) {
	if opts.From != nil && opts.To != nil && opts.From.After(*opts.To) {
		return nil, isdserr.Invalid("From", "after To")
	}
	return invoke[schema.StateChangesResponse](ctx, &s.Dispatcher, opGetMessageStateChanges, transport.Args{
		arg("dmFromTime", opts.From),
		arg("dmToTime", opts.To),
	})
}

// EraseMessage erases a message from the data box.
func (s *MessageInfo) EraseMessage(ctx context.Context, messageID string) (*schema.StatusResponse, error) {
	return invoke[schema.StatusResponse](ctx, &s.Dispatcher, opEraseMessage, transport.Args{
		arg("dmID", messageID),
	})
}

// VerifyMessage returns the hash the system keeps for a message.
func (s *MessageInfo) VerifyMessage(ctx context.Context, messageID string) (*schema.VerifyMessageResponse, error) {
	return invoke[schema.VerifyMessageResponse](ctx, &s.Dispatcher, opVerifyMessage, transport.Args{
		arg("dmID", messageID),
	})
}

// RegisterForNotifications subscribes reg.URL to the notifications of the
// data box.
func (s *MessageInfo) RegisterForNotifications(ctx context.Context, reg NotificationRegistration) (*schema.StatusResponse, error) {
	if err := validateRequest(&reg); err != nil {
		return nil, err
	}
	return invoke[schema.StatusResponse](ctx, &s.Dispatcher, opRegisterForNotifications, transport.Args{
		arg("dmNotificationURL", reg.URL),
	})
}

// GetListForNotifications lists the messages that raised notifications.
func (s *MessageInfo) GetListForNotifications(ctx context.Context, opts NotificationListOptions) (*schema.ListOfMessagesResponse, error) {
	if err := validateRequest(&opts); err != nil {
		return nil, err
	}
	args, err := s.listArgs(ListMessagesOptions{
		From:   opts.From,
		To:     opts.To,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, "", false)
	if err != nil {
		return nil, err
	}
	return invoke[schema.ListOfMessagesResponse](ctx, &s.Dispatcher, opGetListForNotifications, args)
}
