// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package service

import (
	"context"

	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

// dbDummy is the placeholder argument of operations scoped to the login.
const dbDummy = "dbDummy"

var (
	opGetOwnerInfoFromLogin = Operation{
		Name:     "GetOwnerInfoFromLogin",
		Optional: []string{dbDummy},
	}
	opGetOwnerInfoFromLogin2 = Operation{
		Name:     "GetOwnerInfoFromLogin2",
		Optional: []string{dbDummy},
	}
	opGetUserInfoFromLogin2 = Operation{
		Name:     "GetUserInfoFromLogin2",
		Optional: []string{dbDummy},
	}
	opChangeISDSPassword = Operation{
		Name:     "ChangeISDSPassword",
		Required: []string{"dbOldPassword", "dbNewPassword"},
	}
	opGetPasswordInfo = Operation{
		Name:     "GetPasswordInfo",
		Optional: []string{dbDummy},
	}
)

// DataBoxAccessGroup reads the data box and user behind the login.
var DataBoxAccessGroup = Group{
	Name: "data box access",
	Path: "DsManage",
	WSDL: "db_access.wsdl",
	Operations: []Operation{
		opGetOwnerInfoFromLogin,
		opGetOwnerInfoFromLogin2,
		opGetUserInfoFromLogin2,
		opChangeISDSPassword,
		opGetPasswordInfo,
	},
}

// ChangePasswordRequest changes the password of the login.
type ChangePasswordRequest struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8,max=32,nefield=OldPassword"`
}

// DataBoxAccess is the data box access service (DsManage).
type DataBoxAccess struct {
	Dispatcher
}

// NewDataBoxAccess creates the service on top of caller.
func NewDataBoxAccess(caller transport.Caller, opts ...Option) *DataBoxAccess {
	return &DataBoxAccess{Dispatcher: newDispatcher(DataBoxAccessGroup, caller, opts)}
}

// GetOwnerInfo returns the data box of the login.
func (s *DataBoxAccess) GetOwnerInfo(ctx context.Context) (*schema.OwnerInfoResponse, error) {
	return invoke[schema.OwnerInfoResponse](ctx, &s.Dispatcher, opGetOwnerInfoFromLogin2, transport.Args{
		arg(dbDummy, ""),
	})
}

// GetOwnerInfoV1 returns the data box of the login through the first
// version of the operation, which lacks the newer owner fields.
func (s *DataBoxAccess) GetOwnerInfoV1(ctx context.Context) (*schema.OwnerInfoResponse, error) {
	return invoke[schema.OwnerInfoResponse](ctx, &s.Dispatcher, opGetOwnerInfoFromLogin, transport.Args{
		arg(dbDummy, ""),
	})
}

// GetUserInfo returns the user of the login.
func (s *DataBoxAccess) GetUserInfo(ctx context.Context) (*schema.UserInfoResponse, error) {
	return invoke[schema.UserInfoResponse](ctx, &s.Dispatcher, opGetUserInfoFromLogin2, transport.Args{
		arg(dbDummy, ""),
	})
}

// ChangePassword changes the password of the login. The client keeps using
// the credentials it was built with.
func (s *DataBoxAccess) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*schema.DbStatusResponse, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return invoke[schema.DbStatusResponse](ctx, &s.Dispatcher, opChangeISDSPassword, transport.Args{
		arg("dbOldPassword", req.OldPassword),
		arg("dbNewPassword", req.NewPassword),
	})
}

// GetPasswordInfo returns the password expiry of the login.
func (s *DataBoxAccess) GetPasswordInfo(ctx context.Context) (*schema.PasswordInfoResponse, error) {
	return invoke[schema.PasswordInfoResponse](ctx, &s.Dispatcher, opGetPasswordInfo, transport.Args{
		arg(dbDummy, ""),
	})
}
