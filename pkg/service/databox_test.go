package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

func ptr[T any](v T) *T { return &v }

func TestFindDataBox(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["FindDataBox2"] = schema.Wire{
		"dbStatus": okDbStatus(),
		"dbResults": schema.Wire{
			"_value_1": []any{
				schema.Wire{"dbOwnerInfo": schema.Wire{"dbID": "abc1234", "dbType": "PO", "ic": "12345678", "firmName": "Firma s.r.o."}},
			},
		},
	}

	boxType := schema.DataBoxPO
	resp, err := NewDataBoxSearch(caller).FindDataBox(context.Background(), &schema.OwnerInfo{
		Type: &boxType,
		IC:   ptr("12345678"),
	})
	require.NoError(t, err)
	boxes := resp.DataBoxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, "abc1234", *boxes[0].ID)

	call := caller.lastCall(t)
	assert.Equal(t, "FindDataBox2", call.Operation)
	query := argValue(t, call.Args, "dbOwnerInfo").(transport.Args)
	assert.Equal(t, []string{"dbType", "ic"}, query.Names())
	assert.Equal(t, "PO", argValue(t, query, "dbType"))
}

func TestFindDataBox_EmptyQuery(t *testing.T) {
	caller := newFakeCaller()
	svc := NewDataBoxSearch(caller)

	_, err := svc.FindDataBox(context.Background(), &schema.OwnerInfo{})
	assert.ErrorIs(t, err, isdserr.ErrSchema)
	_, err = svc.FindDataBox(context.Background(), nil)
	assert.ErrorIs(t, err, isdserr.ErrSchema)
	assert.Empty(t, caller.calls)
}

func TestFindDataBox_NoResults(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["FindDataBox2"] = schema.Wire{
		"dbStatus":  okDbStatus(),
		"dbResults": nil,
	}

	resp, err := NewDataBoxSearch(caller).FindDataBox(context.Background(), &schema.OwnerInfo{FirmName: ptr("Nikdo")})
	require.NoError(t, err)
	assert.Empty(t, resp.DataBoxes())
}

func TestCheckDataBox(t *testing.T) {
	tests := []struct {
		name      string
		response  schema.Wire
		wantState schema.DataBoxState
		wantErr   error
	}{
		{
			name:      "active",
			response:  schema.Wire{"dbState": "1", "dbStatus": okDbStatus()},
			wantState: schema.DataBoxActive,
		},
		{
			name:     "out of range state",
			response: schema.Wire{"dbState": "7", "dbStatus": okDbStatus()},
			wantErr:  isdserr.ErrSchema,
		},
		{
			name: "unknown data box",
			response: schema.Wire{
				"dbState":  "not-a-state",
				"dbStatus": schema.Wire{"dbStatusCode": "5001", "dbStatusMessage": "Schránka neexistuje"},
			},
			wantErr: isdserr.ErrRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newFakeCaller()
			caller.responses["CheckDataBox"] = tt.response

			resp, err := NewDataBoxSearch(caller).CheckDataBox(context.Background(), "abc1234")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, resp.State)
			assert.Equal(t, "abc1234", argValue(t, caller.lastCall(t).Args, "dbID"))
		})
	}
}

func TestDataBoxCreditInfo(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["DataBoxCreditInfo"] = schema.Wire{
		"currentCredit": "12500",
		"notifEmail":    "podatelna@example.cz",
		"dbStatus":      okDbStatus(),
	}
	svc := NewDataBoxSearch(caller)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)
	resp, err := svc.DataBoxCreditInfo(context.Background(), "abc1234", CreditInfoOptions{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(12500), resp.CurrentCredit)

	call := caller.lastCall(t)
	assert.Equal(t, []string{"dbID", "ucFromDate", "ucToDate"}, call.Args.Names())
	assert.Equal(t, "2024-01-01", argValue(t, call.Args, "ucFromDate"))
	assert.Equal(t, "2024-03-31", argValue(t, call.Args, "ucToDate"))

	_, err = svc.DataBoxCreditInfo(context.Background(), "abc1234", CreditInfoOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dbID"}, caller.lastCall(t).Args.Names())

	_, err = svc.DataBoxCreditInfo(context.Background(), "abc1234", CreditInfoOptions{From: &to, To: &from})
	assert.ErrorIs(t, err, isdserr.ErrSchema)
}

func TestPDZ(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["PDZInfo"] = schema.Wire{
		"pdzInfo":  schema.Wire{"dbID": "abc1234", "pdzAllowed": "true"},
		"dbStatus": okDbStatus(),
	}
	caller.responses["PDZSendInfo"] = schema.Wire{"PDZsiResult": "false", "dbStatus": okDbStatus()}
	svc := NewDataBoxSearch(caller)

	info, err := svc.PDZInfo(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.True(t, info.Info.Allowed)
	assert.Equal(t, "abc1234", argValue(t, caller.lastCall(t).Args, "PDZSender"))

	send, err := svc.PDZSendInfo(context.Background(), "abc1234", PDZTypeInit)
	require.NoError(t, err)
	assert.False(t, send.Allowed)
	assert.Equal(t, []string{"dbId", "PDZType"}, caller.lastCall(t).Args.Names())

	_, err = svc.PDZSendInfo(context.Background(), "abc1234", "Bogus")
	var se *isdserr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "PDZType", se.Path)
}

func TestDataBoxAccess(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["GetOwnerInfoFromLogin2"] = schema.Wire{
		"dbOwnerInfo": schema.Wire{"dbID": "abc1234", "dbType": "PFO_ADVOK", "dbState": "1", "aifoIsds": "false"},
		"dbStatus":    okDbStatus(),
	}
	caller.responses["GetUserInfoFromLogin2"] = schema.Wire{
		"dbUserInfo": schema.Wire{"pnLastName": "Novák", "userType": "PRIMARY_USER", "userPrivils": "255"},
		"dbStatus":   okDbStatus(),
	}
	caller.responses["GetPasswordInfo"] = schema.Wire{
		"pswExpDate": "2025-06-30T23:59:59.000+02:00",
		"dbStatus":   okDbStatus(),
	}
	caller.responses["ChangeISDSPassword"] = schema.Wire{"dbStatus": okDbStatus()}
	svc := NewDataBoxAccess(caller)
	ctx := context.Background()

	owner, err := svc.GetOwnerInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.DataBoxPFO, owner.OwnerInfo.Type.Kind())
	assert.Equal(t, schema.DataBoxActive, *owner.OwnerInfo.State)
	assert.Equal(t, []string{"dbDummy"}, caller.lastCall(t).Args.Names())

	user, err := svc.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(255), *user.UserInfo.Privileges)

	password, err := svc.GetPasswordInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, password.ExpiresAt)
	assert.Equal(t, 2025, password.ExpiresAt.Year())

	_, err = svc.ChangePassword(ctx, ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "new-secret1"})
	require.NoError(t, err)
	call := caller.lastCall(t)
	assert.Equal(t, "ChangeISDSPassword", call.Operation)
	assert.Equal(t, []string{"dbOldPassword", "dbNewPassword"}, call.Args.Names())
}

func TestChangePassword_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  ChangePasswordRequest
	}{
		{"missing old", ChangePasswordRequest{NewPassword: "new-secret1"}},
		{"too short", ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "abc"}},
		{"unchanged", ChangePasswordRequest{OldPassword: "same-secret", NewPassword: "same-secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newFakeCaller()
			_, err := NewDataBoxAccess(caller).ChangePassword(context.Background(), tt.req)
			assert.ErrorIs(t, err, isdserr.ErrSchema)
			assert.Empty(t, caller.calls)
		})
	}
}

func TestDataBoxManipulations(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["SetOpenAddressing"] = schema.Wire{"dbStatus": okDbStatus()}
	caller.responses["ClearOpenAddressing"] = schema.Wire{
		"dbStatus": schema.Wire{"dbStatusCode": "1101", "dbStatusMessage": "Neoprávněný přístup"},
	}
	svc := NewDataBoxManipulations(caller)

	resp, err := svc.SetOpenAddressing(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.True(t, resp.Status.Outcome().OK())

	_, err = svc.ClearOpenAddressing(context.Background(), "abc1234")
	var fault *isdserr.RemoteFault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "ClearOpenAddressing", fault.Operation)
	assert.Equal(t, "1101", fault.Code)

	assert.Equal(t, "DsManage", svc.Group().Path)
}

func TestFindPersonalDataBox(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["FindPersonalDataBox"] = schema.Wire{
		"dbStatus": okDbStatus(),
		"dbResults": schema.Wire{"_value_1": []any{
			schema.Wire{"dbOwnerInfo": schema.Wire{"dbID": "fo12345", "dbType": "FO", "pnLastName": "Nováková", "biDate": "1980-02-29"}},
		}},
	}
	svc := NewDataBoxSearch(caller)

	resp, err := svc.FindPersonalDataBox(context.Background(), &schema.OwnerInfo{
		LastName:  ptr("Nováková"),
		BirthDate: ptr(schema.NewDate(1980, time.February, 29)),
	})
	require.NoError(t, err)
	boxes := resp.DataBoxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, "fo12345", *boxes[0].ID)
	assert.Equal(t, time.February, boxes[0].BirthDate.Month())

	call := caller.lastCall(t)
	assert.Equal(t, "FindPersonalDataBox", call.Operation)
	query := argValue(t, call.Args, "dbOwnerInfo").(transport.Args)
	assert.Equal(t, []string{"pnLastName", "biDate"}, query.Names())

	_, err = svc.FindPersonalDataBox(context.Background(), &schema.OwnerInfo{})
	assert.ErrorIs(t, err, isdserr.ErrSchema)
	assert.Len(t, caller.calls, 1)
}

func TestSearch(t *testing.T) {
	caller := newFakeCaller()
	response := schema.Wire{
		"totalCount":   "27",
		"currentCount": "1",
		"position":     "10",
		"lastPage":     "false",
		"dbResults": schema.Wire{"_value_1": []any{
			schema.Wire{"dbResult": schema.Wire{
				"dbID":           "vqbab52",
				"dbType":         "OVM",
				"dbName":         "Ministerstvo " + schema.HighlightStart + "vnitra" + schema.HighlightEnd,
				"dbAddress":      "Nad Štolou 936/3, 17000 Praha 7",
				"dbICO":          "00007064",
				"dbIdOVM":        "",
				"dbEffectiveOVM": "true",
				"dbSendOptions":  "ALL",
			}},
		}},
		"dbStatus": okDbStatus(),
	}
	caller.responses["ISDSSearch2"] = response
	caller.responses["ISDSSearch3"] = response
	svc := NewDataBoxSearch(caller)
	ctx := context.Background()

	resp, err := svc.Search(ctx, SearchRequest{Text: "vnitra", Scope: ScopeOVM, Page: 1, PageSize: 10, Highlighting: true})
	require.NoError(t, err)
	assert.Equal(t, int64(27), resp.TotalCount)
	assert.Equal(t, int64(10), resp.Position)
	require.NotNil(t, resp.LastPage)
	assert.False(t, *resp.LastPage)

	results := resp.DataBoxes()
	require.Len(t, results, 1)
	assert.Equal(t, "vqbab52", results[0].ID)
	assert.Equal(t, "Ministerstvo vnitra", schema.StripHighlights(*results[0].Name))
	assert.Equal(t, schema.SendAll, *results[0].SendOptions)
	require.NotNil(t, results[0].IDOVM)
	assert.Empty(t, *results[0].IDOVM)

	call := caller.lastCall(t)
	assert.Equal(t, "ISDSSearch2", call.Operation)
	assert.Equal(t, []string{"searchText", "searchScope", "page", "pageSize", "highlighting"}, call.Args.Names())
	assert.Equal(t, true, argValue(t, call.Args, "highlighting"))

	_, err = svc.Search3(ctx, SearchRequest{Text: "00007064", Type: SearchIC})
	require.NoError(t, err)
	call = caller.lastCall(t)
	assert.Equal(t, "ISDSSearch3", call.Operation)
	assert.Equal(t, []string{"searchText", "searchType", "page", "highlighting"}, call.Args.Names())
	assert.Equal(t, 0, argValue(t, call.Args, "page"))
}

func TestSearch_InvalidRequests(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchRequest
		wantPath string
	}{
		{"missing text", SearchRequest{}, "SearchRequest.Text"},
		{"unknown type", SearchRequest{Text: "x", Type: "NAME"}, "SearchRequest.Type"},
		{"unknown scope", SearchRequest{Text: "x", Scope: "EVERYONE"}, "SearchRequest.Scope"},
		{"negative page", SearchRequest{Text: "x", Page: -1}, "SearchRequest.Page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newFakeCaller()
			_, err := NewDataBoxSearch(caller).Search(context.Background(), tt.req)

			var se *isdserr.SchemaError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.wantPath, se.Path)
			assert.Empty(t, caller.calls)
		})
	}
}

func TestSearch_UnknownSendOptions(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["ISDSSearch2"] = schema.Wire{
		"dbResults": schema.Wire{"_value_1": []any{
			schema.Wire{"dbResult": schema.Wire{"dbID": "vqbab52", "dbSendOptions": "SOME"}},
		}},
		"dbStatus": okDbStatus(),
	}

	_, err := NewDataBoxSearch(caller).Search(context.Background(), SearchRequest{Text: "vnitra"})
	assert.ErrorIs(t, err, isdserr.ErrSchema)
}

func TestGetDataBoxList(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["GetDataBoxList"] = schema.Wire{
		"dblData":  "UEsDBA==",
		"dbStatus": okDbStatus(),
	}

	resp, err := NewDataBoxSearch(caller).GetDataBoxList(context.Background(), ListOpenAddressing)
	require.NoError(t, err)
	archive, err := resp.Archive()
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), archive)
	assert.Equal(t, "POS", argValue(t, caller.lastCall(t).Args, "dblType"))

	_, err = NewDataBoxSearch(newFakeCaller()).GetDataBoxList(context.Background(), "")
	assert.ErrorIs(t, err, isdserr.ErrSchema)

	broken := schema.DataBoxListResponse{Data: "not base64!"}
	_, err = broken.Archive()
	assert.ErrorIs(t, err, isdserr.ErrSchema)
}

func TestGetActivityStatus(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["GetDataBoxActivityStatus"] = schema.Wire{
		"dbID": "abc1234",
		"Periods": schema.Wire{"Period": []any{
			schema.Wire{"PeriodFrom": "2020-01-01T00:00:00.000+01:00", "PeriodTo": "2023-06-30T23:59:59.999+02:00", "DbState": "1"},
			schema.Wire{"PeriodFrom": "2023-07-01T00:00:00.000+02:00", "PeriodTo": "", "DbState": "2"},
		}},
		"dbStatus": okDbStatus(),
	}
	from := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	resp, err := NewDataBoxSearch(caller).GetActivityStatus(context.Background(), "abc1234", ActivityStatusOptions{From: &from})
	require.NoError(t, err)
	periods := resp.List()
	require.Len(t, periods, 2)
	assert.Equal(t, schema.DataBoxActive, periods[0].State)
	assert.Equal(t, 2023, periods[0].To.Year())
	assert.Equal(t, schema.DataBoxInactive, periods[1].State)
	assert.Nil(t, periods[1].To)

	call := caller.lastCall(t)
	assert.Equal(t, []string{"dbID", "baFrom"}, call.Args.Names())
}

func TestGetActivityStatus_SinglePeriod(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["GetDataBoxActivityStatus"] = schema.Wire{
		"Periods":  schema.Wire{"Period": schema.Wire{"PeriodFrom": "2020-01-01T00:00:00+01:00", "DbState": "1"}},
		"dbStatus": okDbStatus(),
	}

	resp, err := NewDataBoxSearch(caller).GetActivityStatus(context.Background(), "abc1234", ActivityStatusOptions{})
	require.NoError(t, err)
	require.Len(t, resp.List(), 1)
	assert.Nil(t, resp.ID)
}

func TestGetActivityStatus_InvalidBounds(t *testing.T) {
	caller := newFakeCaller()
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := NewDataBoxSearch(caller).GetActivityStatus(context.Background(), "abc1234", ActivityStatusOptions{From: &from, To: &to})
	assert.ErrorIs(t, err, isdserr.ErrSchema)
	assert.Empty(t, caller.calls)
}

func TestDTInfo(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["DTInfo"] = schema.Wire{
		"ActDTType":     "4",
		"ActDTCapacity": "1000",
		"ActDTFrom":     "2024-01-01",
		"ActDTTo":       "2024-12-31",
		"ActDTCapUsed":  "312",
		"FutDTType":     "",
		"FutDTCapacity": "",
		"FutDTFrom":     "",
		"FutDTTo":       "",
		"FutDTPaid":     "",
		"dbStatus":      okDbStatus(),
	}

	resp, err := NewDataBoxSearch(caller).DTInfo(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), *resp.CurrentCapacity)
	assert.Equal(t, int64(312), *resp.CurrentUsed)
	assert.Equal(t, time.December, resp.CurrentTo.Month())
	assert.Nil(t, resp.FutureType)
	assert.Nil(t, resp.FutureFrom)

	call := caller.lastCall(t)
	assert.Equal(t, "DTInfo", call.Operation)
	assert.Equal(t, "abc1234", argValue(t, call.Args, "dbId"))
}

func TestGetOwnerInfoV1(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["GetOwnerInfoFromLogin"] = schema.Wire{
		"dbOwnerInfo": schema.Wire{"dbID": "abc1234", "dbType": "PO", "firmName": "Firma s.r.o."},
		"dbStatus":    okDbStatus(),
	}

	owner, err := NewDataBoxAccess(caller).GetOwnerInfoV1(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Firma s.r.o.", *owner.OwnerInfo.FirmName)

	call := caller.lastCall(t)
	assert.Equal(t, "GetOwnerInfoFromLogin", call.Operation)
	assert.Equal(t, []string{"dbDummy"}, call.Args.Names())
}

func TestGetDataBoxUsers(t *testing.T) {
	caller := newFakeCaller()
	caller.responses["GetDataBoxUsers2"] = schema.Wire{
		"dbUsers": schema.Wire{"dbUserInfo": []any{
			schema.Wire{"pnLastName": "Novák", "userID": "u1", "userType": "PRIMARY_USER", "userPrivils": "255"},
			schema.Wire{"pnLastName": "Dvořák", "userID": "u2", "userType": "OFFICIAL", "userPrivils": "1"},
		}},
		"dbStatus": okDbStatus(),
	}
	svc := NewDataBoxManipulations(caller)

	resp, err := svc.GetDataBoxUsers(context.Background(), "abc1234")
	require.NoError(t, err)
	users := resp.List()
	require.Len(t, users, 2)
	assert.Equal(t, "u2", *users[1].UserID)
	assert.Equal(t, int64(1), *users[1].Privileges)
	assert.Equal(t, "abc1234", argValue(t, caller.lastCall(t).Args, "dbID"))

	caller.responses["GetDataBoxUsers2"] = schema.Wire{"dbUsers": "", "dbStatus": okDbStatus()}
	resp, err = svc.GetDataBoxUsers(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.Empty(t, resp.List())
}
