// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package service implements the remote service groups of the data box
// system on top of a transport.Caller.
//
// Each group (MessageOperations, MessageInfo, DataBoxSearch, DataBoxAccess,
// DataBoxManipulations) embeds a Dispatcher. An operation call:
//
//  1. fills defaults and validates the typed request,
//  2. checks the arguments against the Operation descriptor,
//  3. calls the transport,
//  4. decodes the response with schema.DecodeResponse, status first.
//
// A failure status is returned as *isdserr.RemoteFault and a malformed
// response as *isdserr.SchemaError. Transport errors are returned as is.
package service
