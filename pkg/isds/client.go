// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package isds

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/service"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

// Base endpoints of the two environments.
const (
	ProductionURL = "https://ws1.mojedatovaschranka.cz/DS"
	TestURL       = "https://ws1.czebox.cz/DS"
)

// Client aggregates every service group behind one set of methods.
type Client struct {
	messages      *service.MessageOperations
	info          *service.MessageInfo
	search        *service.DataBoxSearch
	access        *service.DataBoxAccess
	manipulations *service.DataBoxManipulations
	services      []*transport.SOAPService
}

// Config holds client configuration
type Config struct {
	Username string
	Password string
	// Production selects the production environment instead of the test one.
	Production bool
	// BaseURL overrides the environment endpoint.
	BaseURL string
	// WSDLDir, when set, is read for the WSDL document of every service
	// group. Each document must declare all operations of its group.
	WSDLDir string
	// HTTPS tunes the transport. Credentials set here are overridden by
	// Username and Password.
	HTTPS   *transport.HTTPSConfig
	Timeout time.Duration
	Logger  *slog.Logger
	// Debug logs raw request and response XML.
	Debug bool
	// Clock replaces time.Now for default listing windows.
	Clock func() time.Time
}

// Endpoint returns the base endpoint selected by c.
func (c *Config) Endpoint() string {
	switch {
	case c.BaseURL != "":
		return strings.TrimRight(c.BaseURL, "/")
	case c.Production:
		return ProductionURL
	default:
		return TestURL
	}
}

// NewClient creates a client talking to the configured environment. A
// service group that cannot be initialized is a *isdserr.ConfigError.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, &isdserr.ConfigError{Service: "client", Err: fmt.Errorf("config is required")}
	}

	httpsConfig := transport.DefaultHTTPSConfig()
	if cfg.HTTPS != nil {
		copied := *cfg.HTTPS
		httpsConfig = &copied
	}
	httpsConfig.Username = cfg.Username
	httpsConfig.Password = cfg.Password
	if cfg.Timeout > 0 {
		httpsConfig.Timeout = cfg.Timeout
	}
	httpClient := transport.NewHTTPSClient(httpsConfig)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := cfg.Endpoint()
	callers := make([]transport.Caller, 0, len(service.Groups()))
	services := make([]*transport.SOAPService, 0, len(service.Groups()))
	for _, group := range service.Groups() {
		opts := []transport.ServiceOption{
			transport.WithLogger(logger),
			transport.WithDebug(cfg.Debug),
		}
		if cfg.WSDLDir != "" {
			w, err := loadGroupWSDL(cfg.WSDLDir, group)
			if err != nil {
				return nil, err
			}
			opts = append(opts, transport.WithWSDL(w))
		}

		svc, err := transport.NewSOAPService(group.Name, base+"/"+group.Path, httpClient, opts...)
		if err != nil {
			return nil, err
		}
		callers = append(callers, svc)
		services = append(services, svc)
	}

	serviceOpts := []service.Option{service.WithLogger(logger)}
	if cfg.Clock != nil {
		serviceOpts = append(serviceOpts, service.WithClock(cfg.Clock))
	}
	c, err := NewClientWithCallers(Callers{
		MessageOperations:    callers[0],
		MessageInfo:          callers[1],
		DataBoxSearch:        callers[2],
		DataBoxAccess:        callers[3],
		DataBoxManipulations: callers[4],
	}, serviceOpts...)
	if err != nil {
		return nil, err
	}
	c.services = services
	return c, nil
}

func loadGroupWSDL(dir string, group service.Group) (*transport.WSDL, error) {
	w, err := transport.LoadWSDL(filepath.Join(dir, group.WSDL))
	if err != nil {
		return nil, &isdserr.ConfigError{Service: group.Name, Err: err}
	}
	if err := w.Require(group.OperationNames()...); err != nil {
		return nil, &isdserr.ConfigError{Service: group.Name, Err: err}
	}
	return w, nil
}

// Callers holds one transport per service group.
type Callers struct {
	MessageOperations    transport.Caller
	MessageInfo          transport.Caller
	DataBoxSearch        transport.Caller
	DataBoxAccess        transport.Caller
	DataBoxManipulations transport.Caller
}

// NewClientWithCallers creates a client on top of already initialized
// transports. Every group needs a caller; a missing one is a
// *isdserr.ConfigError naming the group.
func NewClientWithCallers(callers Callers, opts ...service.Option) (*Client, error) {
	ordered := []transport.Caller{
		callers.MessageOperations,
		callers.MessageInfo,
		callers.DataBoxSearch,
		callers.DataBoxAccess,
		callers.DataBoxManipulations,
	}
	for i, group := range service.Groups() {
		if ordered[i] == nil {
			return nil, &isdserr.ConfigError{Service: group.Name, Err: fmt.Errorf("transport is required")}
		}
	}

	return &Client{
		messages:      service.NewMessageOperations(callers.MessageOperations, opts...),
		info:          service.NewMessageInfo(callers.MessageInfo, opts...),
		search:        service.NewDataBoxSearch(callers.DataBoxSearch, opts...),
		access:        service.NewDataBoxAccess(callers.DataBoxAccess, opts...),
		manipulations: service.NewDataBoxManipulations(callers.DataBoxManipulations, opts...),
	}, nil
}

// Services returns the SOAP services built by NewClient, in group order.
// It is empty for clients built with NewClientWithCallers.
func (c *Client) Services() []*transport.SOAPService { return c.services }

// CreateMessage sends a message to one or more data boxes.
func (c *Client) CreateMessage(ctx context.Context, req *service.CreateMessageRequest) (*service.CreateMessageResult, error) {
	return c.messages.CreateMessage(ctx, req)
}

// DownloadMessage downloads a received message with its files.
func (c *Client) DownloadMessage(ctx context.Context, messageID string) (*schema.DownloadMessageResponse, error) {
	return c.messages.DownloadMessage(ctx, messageID)
}

// DownloadSignedMessage downloads a received message in signed form.
func (c *Client) DownloadSignedMessage(ctx context.Context, messageID string) (*schema.SignedMessageResponse, error) {
	return c.messages.DownloadSignedMessage(ctx, messageID)
}

// DownloadSignedSentMessage downloads a sent message in signed form.
func (c *Client) DownloadSignedSentMessage(ctx context.Context, messageID string) (*schema.SignedMessageResponse, error) {
	return c.messages.DownloadSignedSentMessage(ctx, messageID)
}

// AuthenticateMessage checks that a signed message was issued by the system.
func (c *Client) AuthenticateMessage(ctx context.Context, signedMessage []byte) (*schema.AuthenticateMessageResponse, error) {
	return c.messages.AuthenticateMessage(ctx, signedMessage)
}

// ResignDocument renews the signature of a document issued by the system.
func (c *Client) ResignDocument(ctx context.Context, document []byte) (*schema.ResignDocumentResponse, error) {
	return c.messages.ResignDocument(ctx, document)
}

// GetMessageEnvelope downloads the envelope of a received message.
func (c *Client) GetMessageEnvelope(ctx context.Context, messageID string) (*schema.MessageEnvelopeResponse, error) {
	return c.info.GetMessageEnvelope(ctx, messageID)
}

// GetSentMessageEnvelope downloads the envelope of a sent message.
func (c *Client) GetSentMessageEnvelope(ctx context.Context, messageID string) (*schema.MessageEnvelopeResponse, error) {
	return c.info.GetSentMessageEnvelope(ctx, messageID)
}

// MarkMessageAsDownloaded marks a received message as read.
func (c *Client) MarkMessageAsDownloaded(ctx context.Context, messageID string) (*schema.StatusResponse, error) {
	return c.info.MarkMessageAsDownloaded(ctx, messageID)
}

// GetDeliveryInfo returns the delivery events of a message.
func (c *Client) GetDeliveryInfo(ctx context.Context, messageID string) (*schema.DeliveryInfoResponse, error) {
	return c.info.GetDeliveryInfo(ctx, messageID)
}

// GetSignedDeliveryInfo returns the delivery information in signed form.
func (c *Client) GetSignedDeliveryInfo(ctx context.Context, messageID string) (*schema.SignedMessageResponse, error) {
	return c.info.GetSignedDeliveryInfo(ctx, messageID)
}

// GetReceivedMessages lists received messages.
func (c *Client) GetReceivedMessages(ctx context.Context, opts service.ListMessagesOptions) (*schema.ListOfMessagesResponse, error) {
	return c.info.GetListOfReceivedMessages(ctx, opts)
}

// GetSentMessages lists sent messages.
func (c *Client) GetSentMessages(ctx context.Context, opts service.ListMessagesOptions) (*schema.ListOfMessagesResponse, error) {
	return c.info.GetListOfSentMessages(ctx, opts)
}

// GetErasedMessages lists erased messages.
func (c *Client) GetErasedMessages(ctx context.Context, opts service.ErasedMessagesOptions) (*schema.ListOfMessagesResponse, error) {
	return c.info.GetListOfErasedMessages(ctx, opts)
}

// GetMessageStateChanges lists message status changes.
func (c *Client) GetMessageStateChanges(ctx context.Context, opts service.StateChangesOptions) (*schema.StateChangesResponse, error) {
	return c.info.GetMessageStateChanges(ctx, opts)
}

// EraseMessage erases a message from the data box.
func (c *Client) EraseMessage(ctx context.Context, messageID string) (*schema.StatusResponse, error) {
	return c.info.EraseMessage(ctx, messageID)
}

// VerifyMessage returns the hash the system keeps for a message.
func (c *Client) VerifyMessage(ctx context.Context, messageID string) (*schema.VerifyMessageResponse, error) {
	return c.info.VerifyMessage(ctx, messageID)
}

// RegisterForNotifications subscribes an external endpoint to the
// notifications of the data box.
func (c *Client) RegisterForNotifications(ctx context.Context, reg service.NotificationRegistration) (*schema.StatusResponse, error) {
	return c.info.RegisterForNotifications(ctx, reg)
}

// GetNotificationList lists the messages that raised notifications.
func (c *Client) GetNotificationList(ctx context.Context, opts service.NotificationListOptions) (*schema.ListOfMessagesResponse, error) {
	return c.info.GetListForNotifications(ctx, opts)
}

// FindDataBox searches data boxes.
func (c *Client) FindDataBox(ctx context.Context, query *schema.OwnerInfo) (*schema.FindDataBoxResponse, error) {
	return c.search.FindDataBox(ctx, query)
}

// FindPersonalDataBox searches data boxes of individuals.
func (c *Client) FindPersonalDataBox(ctx context.Context, query *schema.OwnerInfo) (*schema.FindDataBoxResponse, error) {
	return c.search.FindPersonalDataBox(ctx, query)
}

// SearchDataBoxes runs a full text data box search.
func (c *Client) SearchDataBoxes(ctx context.Context, req service.SearchRequest) (*schema.SearchResponse, error) {
	return c.search.Search(ctx, req)
}

// SearchDataBoxes3 runs a full text data box search with ISDSSearch3.
func (c *Client) SearchDataBoxes3(ctx context.Context, req service.SearchRequest) (*schema.SearchResponse, error) {
	return c.search.Search3(ctx, req)
}

// GetDataBoxList downloads the list of data boxes of one kind.
func (c *Client) GetDataBoxList(ctx context.Context, kind string) (*schema.DataBoxListResponse, error) {
	return c.search.GetDataBoxList(ctx, kind)
}

// GetActivityStatus returns the state history of a data box.
func (c *Client) GetActivityStatus(ctx context.Context, dataBoxID string, opts service.ActivityStatusOptions) (*schema.ActivityStatusResponse, error) {
	return c.search.GetActivityStatus(ctx, dataBoxID, opts)
}

// GetDTInfo returns the long term storage of a data box.
func (c *Client) GetDTInfo(ctx context.Context, dataBoxID string) (*schema.DTInfoResponse, error) {
	return c.search.DTInfo(ctx, dataBoxID)
}

// CheckDataBox returns the state of a data box.
func (c *Client) CheckDataBox(ctx context.Context, dataBoxID string) (*schema.CheckDataBoxResponse, error) {
	return c.search.CheckDataBox(ctx, dataBoxID)
}

// GetCreditInfo returns the commercial message credit of a data box.
func (c *Client) GetCreditInfo(ctx context.Context, dataBoxID string, opts service.CreditInfoOptions) (*schema.CreditInfoResponse, error) {
	return c.search.DataBoxCreditInfo(ctx, dataBoxID, opts)
}

// GetPDZInfo returns the commercial messaging state of a sender.
func (c *Client) GetPDZInfo(ctx context.Context, senderID string) (*schema.PDZInfoResponse, error) {
	return c.search.PDZInfo(ctx, senderID)
}

// GetPDZSendInfo reports whether a data box may send a commercial message.
func (c *Client) GetPDZSendInfo(ctx context.Context, dataBoxID, pdzType string) (*schema.PDZSendInfoResponse, error) {
	return c.search.PDZSendInfo(ctx, dataBoxID, pdzType)
}

// GetOwnerInfo returns the data box of the login.
func (c *Client) GetOwnerInfo(ctx context.Context) (*schema.OwnerInfoResponse, error) {
	return c.access.GetOwnerInfo(ctx)
}

// GetOwnerInfoV1 returns the data box of the login with the first version
// of the operation.
func (c *Client) GetOwnerInfoV1(ctx context.Context) (*schema.OwnerInfoResponse, error) {
	return c.access.GetOwnerInfoV1(ctx)
}

// GetUserInfo returns the user of the login.
func (c *Client) GetUserInfo(ctx context.Context) (*schema.UserInfoResponse, error) {
	return c.access.GetUserInfo(ctx)
}

// ChangePassword changes the password of the login.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*schema.DbStatusResponse, error) {
	return c.access.ChangePassword(ctx, service.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
}

// GetPasswordInfo returns the password expiry of the login.
func (c *Client) GetPasswordInfo(ctx context.Context) (*schema.PasswordInfoResponse, error) {
	return c.access.GetPasswordInfo(ctx)
}

// SetOpenAddressing allows commercial messages from any sender.
func (c *Client) SetOpenAddressing(ctx context.Context, dataBoxID string) (*schema.DbStatusResponse, error) {
	return c.manipulations.SetOpenAddressing(ctx, dataBoxID)
}

// ClearOpenAddressing revokes SetOpenAddressing.
func (c *Client) ClearOpenAddressing(ctx context.Context, dataBoxID string) (*schema.DbStatusResponse, error) {
	return c.manipulations.ClearOpenAddressing(ctx, dataBoxID)
}

// GetDataBoxUsers lists the users with access to a data box.
func (c *Client) GetDataBoxUsers(ctx context.Context, dataBoxID string) (*schema.DataBoxUsersResponse, error) {
	return c.manipulations.GetDataBoxUsers(ctx, dataBoxID)
}
