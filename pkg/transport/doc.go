// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport implements the SOAP 1.1 transport of the ISDS web services.

# HTTPS

HTTPSClient posts requests with TLS 1.2/1.3 and HTTP basic authentication:

	client := transport.NewHTTPSClient(&transport.HTTPSConfig{
	    MinTLSVersion: transport.TLS12,
	    MaxTLSVersion: transport.TLS13,
	    Username:      "user",
	    Password:      "secret",
	    Timeout:       30 * time.Second,
	})

# SOAP

SOAPService implements Caller for one service endpoint. Arguments are an
ordered Args list because request elements are XSD sequences:

	svc, err := transport.NewSOAPService("dx", "https://ws1.czebox.cz/DS/dx", client)
	resp, err := svc.Call(ctx, "GetListOfReceivedMessages", transport.Args{
	    {Name: "dmFromTime", Value: from},
	    {Name: "dmToTime", Value: to},
	    {Name: "dmStatusFilter", Value: -1},
	})

The response element is returned as map[string]any with string leaves.
Children of the dmRecords and dbResults containers are exposed as an
anonymous sequence under "_value_1":

	{"dmRecords": {"_value_1": [{"dmRecord": {...}}, ...]}, "dmStatus": {...}}

SOAP faults, with HTTP 200 or 500, are returned as *isdserr.RemoteFault.
Other network and HTTP failures match isdserr.ErrTransport.

# WSDL

LoadWSDL reads a service description so that the operations a client
relies on can be checked when the client is constructed.

# References

  - ISDS web services: https://www.datoveschranky.info/dulezite-informace/dokumentace
  - SOAP 1.1: https://www.w3.org/TR/2000/NOTE-SOAP-20000508/
  - TLS 1.3 RFC 8446: https://datatracker.ietf.org/doc/html/rfc8446
*/
package transport
