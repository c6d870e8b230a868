// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package goisds implements a client for ISDS, the Czech information system
of data boxes (datové schránky).

# Overview

go-isds talks to the SOAP web services of ISDS with basic authentication.
Requests are described as ordered arguments, validated against the
operation they target, serialized to SOAP 1.1 and sent over HTTPS.
Responses are parsed into a generic wire form and decoded into typed
structures. The status carried by every response is checked before
anything else: a non-success status becomes a remote fault.

# Services

The remote system groups its operations into five services, each with its
own WSDL and endpoint path:

	Message operations     dz        dm_operations.wsdl
	Message information    dx        dm_info.wsdl
	Data box search        df        db_search.wsdl
	Data box access        DsManage  db_access.wsdl
	Data box manipulations DsManage  db_manipulations.wsdl

Endpoints are rooted at https://ws1.mojedatovaschranka.cz/DS in production
and https://ws1.czebox.cz/DS in the test environment.

# Package Structure

	github.com/sirosfoundation/go-isds/pkg/isds      - Client aggregating all services
	github.com/sirosfoundation/go-isds/pkg/service   - Per-service operations and request validation
	github.com/sirosfoundation/go-isds/pkg/schema    - Typed responses, enums and the wire codec
	github.com/sirosfoundation/go-isds/pkg/transport - SOAP envelope, WSDL loading and HTTPS transport
	github.com/sirosfoundation/go-isds/pkg/isdserr   - Error kinds

The isds command (cmd/isds) exposes the client on the command line.

# Quick Start

	client, err := isds.NewClient(&isds.Config{
	    Username: os.Getenv("ISDS_USERNAME"),
	    Password: os.Getenv("ISDS_PASSWORD"),
	})
	if err != nil {
	    return err
	}

	list, err := client.GetReceivedMessages(ctx, service.ListMessagesOptions{})
	if err != nil {
	    return err
	}
	for _, m := range list.Messages() {
	    fmt.Println(m.ID, m.Sender, m.Subject)
	}

# Errors

Every error is classified by one of the sentinels of package isdserr:

  - ErrSchema: the request or response does not match the expected shape
  - ErrRemote: the remote system rejected the request
  - ErrResource: a local attachment could not be read
  - ErrConfig: a service could not be initialized
  - ErrTransport: the HTTP exchange failed

# License

BSD-2-Clause License
*/
package goisds
