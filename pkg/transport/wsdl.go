// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package transport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// WSDL is the part of a service description the client checks against:
// its target namespace, declared operations and service address.
type WSDL struct {
	Path            string
	TargetNamespace string
	Address         string
	operations      map[string]struct{}
}

// LoadWSDL reads the WSDL document at path.
func LoadWSDL(path string) (*WSDL, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read WSDL %s: %w", path, err)
	}
	w, err := parseWSDL(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	w.Path = path
	return w, nil
}

// ParseWSDL parses a WSDL document from data.
func ParseWSDL(data []byte) (*WSDL, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse WSDL: %w", err)
	}
	return parseWSDL(doc)
}

func parseWSDL(doc *etree.Document) (*WSDL, error) {
	root := doc.Root()
	if root == nil || root.Tag != "definitions" {
		return nil, fmt.Errorf("not a WSDL document")
	}

	w := &WSDL{
		TargetNamespace: root.SelectAttrValue("targetNamespace", ""),
		operations:      make(map[string]struct{}),
	}

	for _, portType := range root.SelectElements("portType") {
		for _, op := range portType.SelectElements("operation") {
			if name := op.SelectAttrValue("name", ""); name != "" {
				w.operations[name] = struct{}{}
			}
		}
	}
	for _, binding := range root.SelectElements("binding") {
		for _, op := range binding.SelectElements("operation") {
			if name := op.SelectAttrValue("name", ""); name != "" {
				w.operations[name] = struct{}{}
			}
		}
	}
	if len(w.operations) == 0 {
		return nil, fmt.Errorf("WSDL declares no operations")
	}

	if addr := root.FindElement("./service/port/address"); addr != nil {
		w.Address = addr.SelectAttrValue("location", "")
	}

	return w, nil
}

// HasOperation reports whether the WSDL declares operation name.
func (w *WSDL) HasOperation(name string) bool {
	_, ok := w.operations[name]
	return ok
}

// Operations returns the declared operation names, sorted.
func (w *WSDL) Operations() []string {
	names := make([]string, 0, len(w.operations))
	for name := range w.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require fails if any of names is not declared.
func (w *WSDL) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !w.HasOperation(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("operations not declared by WSDL: %s", strings.Join(missing, ", "))
	}
	return nil
}
