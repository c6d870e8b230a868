package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
)

func okStatus() Wire {
	return Wire{"dmStatusCode": "0000", "dmStatusMessage": "Provedeno úspěšně."}
}

func TestDecodeResponse_ReceivedMessages(t *testing.T) {
	raw := Wire{
		"dmStatus": Wire{"dmStatusCode": "0000", "dmStatusMessage": "OK"},
		"dmRecords": Wire{
			"_value_1": []any{
				Wire{"dmRecord": recordWire()},
			},
		},
	}

	resp, err := DecodeResponse[ListOfMessagesResponse]("GetListOfReceivedMessages", raw)
	require.NoError(t, err)

	assert.Equal(t, "0000", resp.Status.StatusCode)
	require.NotNil(t, resp.Records)
	require.Len(t, resp.Records.Records, 1)
	assert.Equal(t, "123", resp.Records.Records[0].Record.ID)
	assert.Equal(t, "Alice", resp.Records.Records[0].Record.Sender)
	assert.Equal(t, "123", resp.Messages()[0].ID)
}

func TestDecodeResponse_FailureStatusWins(t *testing.T) {
	raw := Wire{
		"dmStatus": Wire{
			"dmStatusCode":      "1219",
			"dmStatusMessage":   "Zpráva nebyla nalezena.",
			"dmStatusRefNumber": "REF-1",
		},
		"dmRecords": Wire{"_value_1": []any{Wire{"dmRecord": recordWire()}}},
	}

	resp, err := DecodeResponse[ListOfMessagesResponse]("GetListOfReceivedMessages", raw)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, isdserr.ErrRemote))
	assert.False(t, errors.Is(err, isdserr.ErrSchema))

	var fault *isdserr.RemoteFault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "GetListOfReceivedMessages", fault.Operation)
	assert.Equal(t, "1219", fault.Code)
	assert.Equal(t, "Zpráva nebyla nalezena.", fault.Message)
	assert.Equal(t, "REF-1", fault.RefNumber)
}

func TestDecodeResponse_FailureStatusWithBrokenPayload(t *testing.T) {
	raw := Wire{
		"dbStatus": Wire{"dbStatusCode": "1007", "dbStatusMessage": "Chyba"},
		"dbState":  "not-a-state",
	}

	_, err := DecodeResponse[CheckDataBoxResponse]("CheckDataBox", raw)
	assert.ErrorIs(t, err, isdserr.ErrRemote)
}

func TestDecodeResponse_PayloadErrorAfterGoodStatus(t *testing.T) {
	raw := Wire{
		"dbStatus": Wire{"dbStatusCode": "0000", "dbStatusMessage": "OK"},
		"dbState":  "42",
	}

	_, err := DecodeResponse[CheckDataBoxResponse]("CheckDataBox", raw)
	var se *isdserr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "dbState", se.Path)
}

func TestDecodeResponse_MissingStatus(t *testing.T) {
	_, err := DecodeResponse[StatusResponse]("EraseMessage", Wire{})
	var se *isdserr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "dmStatus", se.Path)

	_, err = DecodeResponse[StatusResponse]("EraseMessage", nil)
	assert.ErrorIs(t, err, isdserr.ErrSchema)
}

func TestDecodeResponse_MalformedStatus(t *testing.T) {
	_, err := DecodeResponse[StatusResponse]("EraseMessage", Wire{
		"dmStatus": Wire{"dmStatusCode": "0000"},
	})
	var se *isdserr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "dmStatus.dmStatusMessage", se.Path)
}

func TestDecodeResponse_NoStatusField(t *testing.T) {
	_, err := DecodeResponse[MessageRecord]("X", recordWire())
	require.Error(t, err)
	assert.False(t, errors.Is(err, isdserr.ErrSchema))
}

func TestDecodeResponse_DownloadedMessage(t *testing.T) {
	raw := Wire{
		"dmStatus": okStatus(),
		"dmReturnedMessage": Wire{
			"dmDm": Wire{
				"dmID":                 "123",
				"dbIDSender":           "abc1234",
				"dmSender":             "Alice",
				"dmSenderType":         "30",
				"dmRecipient":          "Bob",
				"dbIDRecipient":        "xyz9876",
				"dmAnnotation":         "Invoice",
				"dmPersonalDelivery":   "false",
				"dmAllowSubstDelivery": "true",
				"dmFiles": Wire{
					"dmFile": []any{
						Wire{
							"dmMimeType":       "application/pdf",
							"dmFileMetaType":   "main",
							"dmFileDescr":      "invoice.pdf",
							"dmEncodedContent": "JVBERi0=",
						},
						Wire{
							"dmMimeType":     "text/plain",
							"dmFileMetaType": "enclosure",
							"dmFileDescr":    "note.txt",
						},
					},
				},
			},
			"dmHash":           Wire{"_value_1": "AAEC", "algorithm": "SHA-256"},
			"dmDeliveryTime":   "2024-03-01T10:11:12+01:00",
			"dmMessageStatus":  "4",
			"dmAttachmentSize": "3",
		},
	}

	resp, err := DecodeResponse[DownloadMessageResponse]("MessageDownload", raw)
	require.NoError(t, err)

	msg := resp.Message
	assert.Equal(t, "123", msg.Envelope.ID)
	assert.Equal(t, SenderPFO, msg.Envelope.SenderType)
	assert.True(t, msg.Envelope.AllowSubstDelivery)
	require.NotNil(t, msg.Envelope.Files)
	require.Len(t, msg.Envelope.Files.Files, 2)
	assert.Equal(t, FileMain, msg.Envelope.Files.Files[0].MetaType)
	assert.Nil(t, msg.Envelope.Files.Files[1].EncodedContent)
	require.NotNil(t, msg.Hash)
	assert.Equal(t, "SHA-256", msg.Hash.Algorithm)
	assert.Equal(t, MessageDeliveredByLogin, msg.Status)
	assert.Nil(t, msg.AcceptanceTime)
}

func TestDecodeResponse_FindDataBox(t *testing.T) {
	raw := Wire{
		"dbStatus": Wire{"dbStatusCode": "0000", "dbStatusMessage": "OK"},
		"dbResults": Wire{
			"_value_1": []any{
				Wire{"dbOwnerInfo": Wire{"dbID": "abc1234", "dbType": "PO", "firmName": "Firma"}},
				Wire{"dbOwnerInfo": Wire{"dbID": "def5678", "dbType": "OVM_NOTAR"}},
			},
		},
	}

	resp, err := DecodeResponse[FindDataBoxResponse]("FindDataBox2", raw)
	require.NoError(t, err)
	boxes := resp.DataBoxes()
	require.Len(t, boxes, 2)
	assert.Equal(t, "Firma", *boxes[0].FirmName)
	assert.Equal(t, DataBoxOVM, boxes[1].Type.Kind())
}

func TestMultipleStatus_Failed(t *testing.T) {
	raw := Wire{
		"dmStatus": okStatus(),
		"dmMultipleStatus": Wire{
			"dmSingleStatus": []any{
				Wire{"dmID": "1", "dmStatus": okStatus()},
				Wire{"dmStatus": Wire{"dmStatusCode": "1214", "dmStatusMessage": "Schránka neexistuje"}},
			},
		},
	}

	resp, err := DecodeResponse[CreateMultipleMessageResponse]("CreateMultipleMessage", raw)
	require.NoError(t, err)
	failed := resp.Results.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "1214", failed[0].Status.StatusCode)
}

func TestOutcome_OK(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"0000", true},
		{"0", true},
		{"OK", true},
		{"", false},
		{"1219", false},
		{"0001", false},
		{"9999", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.ok, Outcome{Code: tt.code}.OK())
		})
	}
}
