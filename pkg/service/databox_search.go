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

// Full text search types. SearchGeneral matches any field.
const (
	SearchGeneral = "GENERAL"
	SearchAddress = "ADDRESS"
	SearchIC      = "ICO"
	SearchID      = "DBID"
)

// Full text search scopes.
const (
	ScopeAll     = "ALL"
	ScopeOVM     = "OVM"
	ScopeOVMMain = "OVM_MAIN"
	ScopePO      = "PO"
	ScopePFO     = "PFO"
	ScopeFO      = "FO"
)

// Data box list kinds of GetDataBoxList.
const (
	ListAll            = "ALL"
	ListOVM            = "OVM"
	ListEffectiveOVM   = "UPG"
	ListOpenAddressing = "POS"
)

// PDZ message types accepted by PDZSendInfo.
const (
	PDZTypeNormal = "Normal"
	PDZTypeInit   = "Init"
)

var (
	opFindDataBox2 = Operation{
		Name:     "FindDataBox2",
		Required: []string{"dbOwnerInfo"},
	}
	opCheckDataBox = Operation{
		Name:     "CheckDataBox",
		Required: []string{"dbID"},
		Optional: []string{"dbApproved", "dbExternRefNumber"},
	}
	opDataBoxCreditInfo = Operation{
		Name:     "DataBoxCreditInfo",
		Required: []string{"dbID"},
		Optional: []string{"ucFromDate", "ucToDate"},
	}
	opPDZInfo = Operation{
		Name:     "PDZInfo",
		Required: []string{"PDZSender"},
	}
	opPDZSendInfo = Operation{
		Name:     "PDZSendInfo",
		Required: []string{"dbId", "PDZType"},
	}
	opFindPersonalDataBox = Operation{
		Name:     "FindPersonalDataBox",
		Required: []string{"dbOwnerInfo"},
	}
	opISDSSearch2 = Operation{
		Name:     "ISDSSearch2",
		Required: []string{"searchText"},
		Optional: searchArgs,
	}
	opISDSSearch3 = Operation{
		Name:     "ISDSSearch3",
		Required: []string{"searchText"},
		Optional: searchArgs,
	}
	opGetDataBoxList = Operation{
		Name:     "GetDataBoxList",
		Required: []string{"dblType"},
	}
	opGetDataBoxActivityStatus = Operation{
		Name:     "GetDataBoxActivityStatus",
		Required: []string{"dbID"},
		Optional: []string{"baFrom", "baTo"},
	}
	opDTInfo = Operation{
		Name:     "DTInfo",
		Required: []string{"dbId"},
	}
)

var searchArgs = []string{"searchType", "searchScope", "page", "pageSize", "highlighting"}

// DataBoxSearchGroup finds data boxes and reads their public state.
var DataBoxSearchGroup = Group{
	Name: "data box search",
	Path: "df",
	WSDL: "db_search.wsdl",
	Operations: []Operation{
		opFindDataBox2,
		opCheckDataBox,
		opDataBoxCreditInfo,
		opPDZInfo,
		opPDZSendInfo,
		opFindPersonalDataBox,
		opISDSSearch2,
		opISDSSearch3,
		opGetDataBoxList,
		opGetDataBoxActivityStatus,
		opDTInfo,
	},
}

// CreditInfoOptions bounds the credit history returned by
// DataBoxCreditInfo. Only the dates are used.
type CreditInfoOptions struct {
	From *time.Time
	To   *time.Time
}

// SearchRequest is a full text data box search. Page counts from zero;
// a zero PageSize leaves the page size to the server.
type SearchRequest struct {
	Text         string `validate:"required"`
	Type         string `validate:"omitempty,oneof=GENERAL ADDRESS ICO DBID"`
	Scope        string `validate:"omitempty,oneof=ALL OVM OVM_MAIN PO PFO FO"`
	Page         int    `validate:"min=0"`
	PageSize     int    `validate:"min=0"`
	Highlighting bool
}

// ActivityStatusOptions bounds the history of GetDataBoxActivityStatus.
// Unset bounds are not sent.
type ActivityStatusOptions struct {
	From *time.Time
	To   *time.Time
}

// DataBoxSearch is the data box search service (df).
type DataBoxSearch struct {
	Dispatcher
}

// NewDataBoxSearch creates the service on top of caller.
func NewDataBoxSearch(caller transport.Caller, opts ...Option) *DataBoxSearch {
	return &DataBoxSearch{Dispatcher: newDispatcher(DataBoxSearchGroup, caller, opts)}
}

// FindDataBox searches data boxes matching the set fields of query. A
// query without any field set is rejected.
func (s *DataBoxSearch) FindDataBox(ctx context.Context, query *schema.OwnerInfo) (*schema.FindDataBoxResponse, error) {
	return s.findByOwner(ctx, opFindDataBox2, query)
}

// FindPersonalDataBox searches data boxes of individuals. Queries follow
// the FindDataBox rules.
func (s *DataBoxSearch) FindPersonalDataBox(ctx context.Context, query *schema.OwnerInfo) (*schema.FindDataBoxResponse, error) {
	return s.findByOwner(ctx, opFindPersonalDataBox, query)
}

func (s *DataBoxSearch) findByOwner(ctx context.Context, op Operation, query *schema.OwnerInfo) (*schema.FindDataBoxResponse, error) {
	if query == nil {
		return nil, isdserr.Missing("dbOwnerInfo")
	}
	fields := schema.EncodeFields(query)
	if len(fields) == 0 {
		return nil, isdserr.Invalid("dbOwnerInfo", "empty search query")
	}
	return invoke[schema.FindDataBoxResponse](ctx, &s.Dispatcher, op, transport.Args{
		arg("dbOwnerInfo", recordArgs(fields)),
	})
}

// Search runs a full text search with ISDSSearch2.
func (s *DataBoxSearch) Search(ctx context.Context, req SearchRequest) (*schema.SearchResponse, error) {
	return s.search(ctx, opISDSSearch2, req)
}

// Search3 runs a full text search with ISDSSearch3.
func (s *DataBoxSearch) Search3(ctx context.Context, req SearchRequest) (*schema.SearchResponse, error) {
	return s.search(ctx, opISDSSearch3, req)
}

func (s *DataBoxSearch) search(ctx context.Context, op Operation, req SearchRequest) (*schema.SearchResponse, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	var pageSize any
	if req.PageSize > 0 {
		pageSize = req.PageSize
	}
	return invoke[schema.SearchResponse](ctx, &s.Dispatcher, op, transport.Args{
		arg("searchText", req.Text),
		arg("searchType", nonEmpty(req.Type)),
		arg("searchScope", nonEmpty(req.Scope)),
		arg("page", req.Page),
		arg("pageSize", pageSize),
		arg("highlighting", req.Highlighting),
	})
}

// GetDataBoxList downloads the list of data boxes of one kind (ListAll,
// ListOVM, ListEffectiveOVM or ListOpenAddressing).
func (s *DataBoxSearch) GetDataBoxList(ctx context.Context, kind string) (*schema.DataBoxListResponse, error) {
	return invoke[schema.DataBoxListResponse](ctx, &s.Dispatcher, opGetDataBoxList, transport.Args{
		arg("dblType", kind),
	})
}

// GetActivityStatus returns the state history of a data box.
func (s *DataBoxSearch) GetActivityStatus(ctx context.Context, dataBoxID string, opts ActivityStatusOptions) (*schema.ActivityStatusResponse, error) {
	if opts.From != nil && opts.To != nil && opts.From.After(*opts.To) {
		return nil, isdserr.Invalid("From", "after To")
	}
	return invoke[schema.ActivityStatusResponse](ctx, &s.Dispatcher, opGetDataBoxActivityStatus, transport.Args{
		arg("dbID", dataBoxID),
		arg("baFrom", opts.From),
		arg("baTo", opts.To),
	})
}

// DTInfo returns the long term storage of a data box.
func (s *DataBoxSearch) DTInfo(ctx context.Context, dataBoxID string) (*schema.DTInfoResponse, error) {
	return invoke[schema.DTInfoResponse](ctx, &s.Dispatcher, opDTInfo, transport.Args{
		arg("dbId", dataBoxID),
	})
}

// CheckDataBox returns the state of a data box.
func (s *DataBoxSearch) CheckDataBox(ctx context.Context, dataBoxID string) (*schema.CheckDataBoxResponse, error) {
	return invoke[schema.CheckDataBoxResponse](ctx, &s.Dispatcher, opCheckDataBox, transport.Args{
		arg("dbID", dataBoxID),
	})
}

// DataBoxCreditInfo returns the commercial message credit of a data box.
func (s *DataBoxSearch) DataBoxCreditInfo(ctx context.Context, dataBoxID string, opts CreditInfoOptions) (*schema.CreditInfoResponse, error) {
	if opts.From != nil && opts.To != nil && opts.From.After(*opts.To) {
		return nil, isdserr.Invalid("From", "after To")
	}
	return invoke[schema.CreditInfoResponse](ctx, &s.Dispatcher, opDataBoxCreditInfo, transport.Args{
		arg("dbID", dataBoxID),
		arg("ucFromDate", dateArg(opts.From)),
		arg("ucToDate", dateArg(opts.To)),
	})
}

// PDZInfo returns the commercial messaging state of a sender data box.
func (s *DataBoxSearch) PDZInfo(ctx context.Context, senderID string) (*schema.PDZInfoResponse, error) {
	return invoke[schema.PDZInfoResponse](ctx, &s.Dispatcher, opPDZInfo, transport.Args{
		arg("PDZSender", senderID),
	})
}

// PDZSendInfo reports whether a data box may send a commercial message of
// the given type (PDZTypeNormal or PDZTypeInit).
func (s *DataBoxSearch) PDZSendInfo(ctx context.Context, dataBoxID, pdzType string) (*schema.PDZSendInfoResponse, error) {
	if pdzType != PDZTypeNormal && pdzType != PDZTypeInit {
		return nil, isdserr.Invalid("PDZType", "unknown type %q", pdzType)
	}
	return invoke[schema.PDZSendInfoResponse](ctx, &s.Dispatcher, opPDZSendInfo, transport.Args{
		arg("dbId", dataBoxID),
		arg("PDZType", pdzType),
	})
}

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}
