// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package service

import (
	"context"
	"fmt"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

var (
	opCreateMessage = Operation{
		Name:     "CreateMessage",
		Required: []string{"dmEnvelope", "dmFiles"},
	}
	opCreateMultipleMessage = Operation{
		Name:     "CreateMultipleMessage",
		Required: []string{"dmRecipients", "dmEnvelope", "dmFiles"},
	}
	opMessageDownload = Operation{
		Name:     "MessageDownload",
		Required: []string{"dmID"},
	}
	opSignedMessageDownload = Operation{
		Name:     "SignedMessageDownload",
		Required: []string{"dmID"},
	}
	opSignedSentMessageDownload = Operation{
		Name:     "SignedSentMessageDownload",
		Required: []string{"dmID"},
	}
	opAuthenticateMessage = Operation{
		Name:     "AuthenticateMessage",
		Required: []string{"dmMessage"},
	}
	opResignDocument = Operation{
		Name:     "Re-signISDSDocument",
		Required: []string{"dmDoc"},
	}
)

// MessageOperationsGroup sends and downloads messages.
var MessageOperationsGroup = Group{
	Name: "message operations",
	Path: "dz",
	WSDL: "dm_operations.wsdl",
	Operations: []Operation{
		opCreateMessage,
		opCreateMultipleMessage,
		opMessageDownload,
		opSignedMessageDownload,
		opSignedSentMessageDownload,
		opAuthenticateMessage,
		opResignDocument,
	},
}

// CreateMessageRequest describes an outgoing message. Files are attached
// in order: first Files, then one file per Attachments path. If no file
// is marked main, the first one is sent as main.
type CreateMessageRequest struct {
	// Recipients are data box IDs. One recipient sends CreateMessage,
	// several send CreateMultipleMessage.
	Recipients  []string       `validate:"required,min=1,dive,required"`
	Subject     string         `validate:"required,max=255"`
	Files       []*schema.File `validate:"dive,required"`
	Attachments []string       `validate:"dive,required"`

	SenderOrgUnit       *string `validate:"omitempty,max=100"`
	SenderOrgUnitNum    *int64
	RecipientOrgUnit    *string `validate:"omitempty,max=100"`
	RecipientOrgUnitNum *int64
	ToHands             *string `validate:"omitempty,max=50"`
	RecipientRefNumber  *string `validate:"omitempty,max=50"`
	SenderRefNumber     *string `validate:"omitempty,max=50"`
	RecipientIdent      *string `validate:"omitempty,max=50"`
	SenderIdent         *string `validate:"omitempty,max=50"`
	LegalTitleLaw       *int64
	LegalTitleYear      *int64
	LegalTitleSect      *string
	LegalTitlePar       *string
	LegalTitlePoint     *string
	PersonalDelivery    *bool
	AllowSubstDelivery  *bool
	// Type is the commercial message type (dmType), e.g. "K" or "I".
	Type         *string `validate:"omitempty,len=1"`
	OVM          *bool
	PublishOwnID *bool
}

// CreateMessageResult holds the response of whichever operation was sent.
type CreateMessageResult struct {
	Single   *schema.CreateMessageResponse
	Multiple *schema.CreateMultipleMessageResponse
}

// MessageIDs returns the IDs of the created messages.
func (r *CreateMessageResult) MessageIDs() []string {
	if r.Single != nil {
		return []string{r.Single.ID}
	}
	if r.Multiple == nil {
		return nil
	}
	var ids []string
	for _, s := range r.Multiple.Results.Statuses {
		if s.ID != nil && s.Status.Outcome().OK() {
			ids = append(ids, *s.ID)
		}
	}
	return ids
}

// MessageOperations is the message operations service (dz).
type MessageOperations struct {
	Dispatcher
}

// NewMessageOperations creates the service on top of caller.
func NewMessageOperations(caller transport.Caller, opts ...Option) *MessageOperations {
	return &MessageOperations{Dispatcher: newDispatcher(MessageOperationsGroup, caller, opts)}
}

// CreateMessage sends a message to one or more recipients. Every file is
// read and encoded before anything is sent; a file that cannot be read
// fails the call with *isdserr.ResourceError.
func (s *MessageOperations) CreateMessage(ctx context.Context, req *CreateMessageRequest) (*CreateMessageResult, error) {
	if req == nil {
		return nil, isdserr.Missing("CreateMessageRequest")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	files, err := collectFiles(req)
	if err != nil {
		return nil, err
	}
	filesArg := arg("dmFiles", fileArgs(files))

	if len(req.Recipients) == 1 {
		resp, err := invoke[schema.CreateMessageResponse](ctx, &s.Dispatcher, opCreateMessage, transport.Args{
			arg("dmEnvelope", envelopeArgs(req, &req.Recipients[0])),
			filesArg,
		})
		if err != nil {
			return nil, err
		}
		return &CreateMessageResult{Single: resp}, nil
	}

	recipients := make([]transport.Args, len(req.Recipients))
	for i := range req.Recipients {
		recipients[i] = transport.Args{
			attr("dbIDRecipient", req.Recipients[i]),
			attr("dmRecipientOrgUnit", req.RecipientOrgUnit),
			attr("dmRecipientOrgUnitNum", req.RecipientOrgUnitNum),
			attr("dmToHands", req.ToHands),
		}
	}
	resp, err := invoke[schema.CreateMultipleMessageResponse](ctx, &s.Dispatcher, opCreateMultipleMessage, transport.Args{
		arg("dmRecipients", transport.Args{arg("dmRecipient", recipients)}),
		arg("dmEnvelope", envelopeArgs(req, nil)),
		filesArg,
	})
	if err != nil {
		return nil, err
	}
	return &CreateMessageResult{Multiple: resp}, nil
}

// collectFiles builds every attachment of req and checks it has content.
func collectFiles(req *CreateMessageRequest) ([]*schema.File, error) {
	files := make([]*schema.File, 0, len(req.Files)+len(req.Attachments))
	files = append(files, req.Files...)
	for _, path := range req.Attachments {
		f, err := schema.NewFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		return nil, isdserr.Invalid("Files", "at least one file is required")
	}
	for i, f := range files {
		if !f.HasContent() {
			return nil, isdserr.Invalid(fmt.Sprintf("Files[%d]", i), "file has no content")
		}
	}
	return files, nil
}

// envelopeArgs returns the dmEnvelope attributes. recipient is only set
// for single-recipient messages.
func envelopeArgs(req *CreateMessageRequest, recipient *string) transport.Args {
	args := transport.Args{
		attr("dmSenderOrgUnit", req.SenderOrgUnit),
		attr("dmSenderOrgUnitNum", req.SenderOrgUnitNum),
	}
	if recipient != nil {
		args = append(args,
			attr("dbIDRecipient", *recipient),
			attr("dmRecipientOrgUnit", req.RecipientOrgUnit),
			attr("dmRecipientOrgUnitNum", req.RecipientOrgUnitNum),
			attr("dmToHands", req.ToHands),
		)
	}
	return append(args,
		attr("dmAnnotation", req.Subject),
		attr("dmRecipientRefNumber", req.RecipientRefNumber),
		attr("dmSenderRefNumber", req.SenderRefNumber),
		attr("dmRecipientIdent", req.RecipientIdent),
		attr("dmSenderIdent", req.SenderIdent),
		attr("dmLegalTitleLaw", req.LegalTitleLaw),
		attr("dmLegalTitleYear", req.LegalTitleYear),
		attr("dmLegalTitleSect", req.LegalTitleSect),
		attr("dmLegalTitlePar", req.LegalTitlePar),
		attr("dmLegalTitlePoint", req.LegalTitlePoint),
		attr("dmPersonalDelivery", req.PersonalDelivery),
		attr("dmAllowSubstDelivery", req.AllowSubstDelivery),
		attr("dmType", req.Type),
		attr("dmOVM", req.OVM),
		attr("dmPublishOwnID", req.PublishOwnID),
	)
}

func fileArgs(files []*schema.File) transport.Args {
	hasMain := false
	for _, f := range files {
		if f.MetaType == schema.FileMain {
			hasMain = true
			break
		}
	}

	items := make([]transport.Args, len(files))
	for i, f := range files {
		metaType := f.MetaType
		switch {
		case !hasMain && i == 0:
			metaType = schema.FileMain
		case metaType == "":
			metaType = schema.FileEnclosure
		}
		items[i] = transport.Args{
			attr("dmMimeType", f.MimeType),
			attr("dmFileMetaType", string(metaType)),
			attr("dmFileGuid", nonEmpty(f.GUID)),
			attr("dmUpFileGuid", nonEmpty(f.UpperGUID)),
			attr("dmFileDescr", f.Description),
			arg("dmEncodedContent", f.EncodedContent),
		}
	}
	return transport.Args{arg("dmFile", items)}
}

// DownloadMessage downloads a received message with its files.
func (s *MessageOperations) DownloadMessage(ctx context.Context, messageID string) (*schema.DownloadMessageResponse, error) {
	return invoke[schema.DownloadMessageResponse](ctx, &s.Dispatcher, opMessageDownload, transport.Args{
		arg("dmID", messageID),
	})
}

// DownloadSignedMessage downloads a received message as a signed CMS
// structure.
func (s *MessageOperations) DownloadSignedMessage(ctx context.Context, messageID string) (*schema.SignedMessageResponse, error) {
	return invoke[schema.SignedMessageResponse](ctx, &s.Dispatcher, opSignedMessageDownload, transport.Args{
		arg("dmID", messageID),
	})
}

// DownloadSignedSentMessage downloads a sent message as a signed CMS
// structure.
func (s *MessageOperations) DownloadSignedSentMessage(ctx context.Context, messageID string) (*schema.SignedMessageResponse, error) {
	return invoke[schema.SignedMessageResponse](ctx, &s.Dispatcher, opSignedSentMessageDownload, transport.Args{
		arg("dmID", messageID),
	})
}

// AuthenticateMessage asks the system whether a signed message (as
// returned by DownloadSignedMessage, decoded) was issued by it.
func (s *MessageOperations) AuthenticateMessage(ctx context.Context, signedMessage []byte) (*schema.AuthenticateMessageResponse, error) {
	return invoke[schema.AuthenticateMessageResponse](ctx, &s.Dispatcher, opAuthenticateMessage, transport.Args{
		arg("dmMessage", signedMessage),
	})
}

// ResignDocument obtains a fresh signature on a document previously
// issued by the system.
func (s *MessageOperations) ResignDocument(ctx context.Context, document []byte) (*schema.ResignDocumentResponse, error) {
	return invoke[schema.ResignDocumentResponse](ctx, &s.Dispatcher, opResignDocument, transport.Args{
		arg("dmDoc", document),
	})
}
