// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package isds provides the client for the Czech data box information system.

# Client Creation

	client, err := isds.NewClient(&isds.Config{
	    Username:   os.Getenv("ISDS_USERNAME"),
	    Password:   os.Getenv("ISDS_PASSWORD"),
	    Production: false,
	})

The test environment is used unless Production is set. When WSDLDir is set,
the WSDL document of each service group is loaded and checked against the
operations the client uses; a mismatch fails NewClient with a
*isdserr.ConfigError.

# Calls

Every method forwards to one remote operation and returns its typed
response:

	list, err := client.GetReceivedMessages(ctx, service.ListMessagesOptions{})
	for _, m := range list.Messages() {
	    fmt.Println(m.ID, m.Subject, m.Status)
	}

	res, err := client.CreateMessage(ctx, &service.CreateMessageRequest{
	    Recipients:  []string{"abc1234"},
	    Subject:     "Invoice",
	    Attachments: []string{"invoice.pdf"},
	})

Errors are never wrapped by the client. Use errors.Is with the isdserr
sentinels to tell a rejected request (ErrRemote) from a malformed one
(ErrSchema), an unreadable attachment (ErrResource) or a network failure
(ErrTransport).
*/
package isds
