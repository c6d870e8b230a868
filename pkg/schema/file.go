// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
)

// File is an attachment of an outgoing message. All fields are computed
// once by NewFile.
type File struct {
	MimeType       string       `isds:"dmMimeType"`
	MetaType       FileMetaType `isds:"dmFileMetaType"`
	Description    string       `isds:"dmFileDescr"`
	GUID           string       `isds:"dmFileGuid"`
	UpperGUID      string       `isds:"dmUpFileGuid"`
	EncodedContent string       `isds:"dmEncodedContent"`
	// Path is the local resource the file was built from.
	Path string `isds:"-"`
}

// FileOption customizes a File built by NewFile.
type FileOption func(*File)

// WithMetaType sets the meta type (default enclosure).
func WithMetaType(t FileMetaType) FileOption {
	return func(f *File) { f.MetaType = t }
}

// WithDescription overrides the description (default: the file's base name).
func WithDescription(descr string) FileOption {
	return func(f *File) { f.Description = descr }
}

// WithGUID sets the file GUID instead of generating one.
func WithGUID(guid string) FileOption {
	return func(f *File) { f.GUID = guid }
}

// WithUpperGUID references the GUID of the file this one belongs to.
func WithUpperGUID(guid string) FileOption {
	return func(f *File) { f.UpperGUID = guid }
}

// NewFile reads the file at path and derives its attachment fields: base64
// content, MIME type, description and a generated GUID. An empty path
// yields a File with every field empty. A read failure is returned as
// *isdserr.ResourceError.
func NewFile(path string, opts ...FileOption) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &isdserr.ResourceError{Path: path, Err: err}
	}

	f := &File{
		MimeType:       DetectMimeType(path, data),
		MetaType:       FileEnclosure,
		Description:    filepath.Base(path),
		EncodedContent: base64.StdEncoding.EncodeToString(data),
		Path:           path,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.GUID == "" {
		f.GUID = uuid.NewString()
	}
	return f, nil
}

// HasContent reports whether the file carries content to send.
func (f *File) HasContent() bool {
	return f != nil && f.EncodedContent != ""
}

// DetectMimeType returns the MIME type registered for the extension of
// name, falling back to content sniffing.
func DetectMimeType(name string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		mediaType, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			return mediaType
		}
	}
	mediaType, _, err := mime.ParseMediaType(mimetype.Detect(data).String())
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}
