// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package service

import (
	"context"

	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

var (
	opSetOpenAddressing = Operation{
		Name:     "SetOpenAddressing",
		Required: []string{"dbID"},
	}
	opClearOpenAddressing = Operation{
		Name:     "ClearOpenAddressing",
		Required: []string{"dbID"},
	}
	opGetDataBoxUsers2 = Operation{
		Name:     "GetDataBoxUsers2",
		Required: []string{"dbID"},
	}
)

// DataBoxManipulationsGroup changes data box settings and lists data box
// users.
var DataBoxManipulationsGroup = Group{
	Name: "data box manipulations",
	Path: "DsManage",
	WSDL: "db_manipulations.wsdl",
	Operations: []Operation{
		opSetOpenAddressing,
		opClearOpenAddressing,
		opGetDataBoxUsers2,
	},
}

// DataBoxManipulations is the data box manipulations service (DsManage).
type DataBoxManipulations struct {
	Dispatcher
}

// NewDataBoxManipulations creates the service on top of caller.
func NewDataBoxManipulations(caller transport.Caller, opts ...Option) *DataBoxManipulations {
	return &DataBoxManipulations{Dispatcher: newDispatcher(DataBoxManipulationsGroup, caller, opts)}
}

// SetOpenAddressing lets any data box send commercial messages to
// dataBoxID.
func (s *DataBoxManipulations) SetOpenAddressing(ctx context.Context, dataBoxID string) (*schema.DbStatusResponse, error) {
	return invoke[schema.DbStatusResponse](ctx, &s.Dispatcher, opSetOpenAddressing, transport.Args{
		arg("dbID", dataBoxID),
	})
}

// ClearOpenAddressing revokes SetOpenAddressing.
func (s *DataBoxManipulations) ClearOpenAddressing(ctx context.Context, dataBoxID string) (*schema.DbStatusResponse, error) {
	return invoke[schema.DbStatusResponse](ctx, &s.Dispatcher, opClearOpenAddressing, transport.Args{
		arg("dbID", dataBoxID),
	})
}

// GetDataBoxUsers lists the users with access to a data box.
func (s *DataBoxManipulations) GetDataBoxUsers(ctx context.Context, dataBoxID string) (*schema.DataBoxUsersResponse, error) {
	return invoke[schema.DataBoxUsersResponse](ctx, &s.Dispatcher, opGetDataBoxUsers2, transport.Args{
		arg("dbID", dataBoxID),
	})
}
