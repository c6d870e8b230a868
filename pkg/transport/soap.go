// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
)

// XML namespaces
const (
	NamespaceSOAP11 = "http://schemas.xmlsoap.org/soap/envelope/"
	NamespaceISDS   = "http://isds.czechpoint.cz/v20"
	NamespaceXSI    = "http://www.w3.org/2001/XMLSchema-instance"
)

// TimeLayout formats time.Time arguments.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SequenceKey is the wire key of anonymous sequence items and of the text
// of elements that also carry attributes.
const SequenceKey = "_value_1"

// DefaultSequenceContainers are the response elements whose children are
// exposed as an anonymous sequence.
var DefaultSequenceContainers = []string{"dmRecords", "dbResults"}

// Caller invokes a named remote operation with an ordered argument set and
// returns the deserialized response element.
type Caller interface {
	Call(ctx context.Context, operation string, args Args) (map[string]any, error)
}

// Arg is one named request argument. Value is a string, bool, integer,
// time.Time, []byte (sent base64 encoded), a pointer to one of those (nil
// is omitted), Args for a nested element, []Args or []string for repeated
// elements. Attr arguments are written as attributes of the parent element.
type Arg struct {
	Name  string
	Value any
	Attr  bool
}

// Args is an ordered argument set. Order matters because request elements
// are XSD sequences.
type Args []Arg

// Get returns the value of the first argument called name.
func (a Args) Get(name string) (any, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// Names returns the argument names in order.
func (a Args) Names() []string {
	names := make([]string, len(a))
	for i, arg := range a {
		names[i] = arg.Name
	}
	return names
}

// ServiceOption configures a SOAPService
type ServiceOption func(*SOAPService)

// WithWSDL binds the service to a loaded WSDL. Its target namespace
// replaces NamespaceISDS.
func WithWSDL(w *WSDL) ServiceOption {
	return func(s *SOAPService) {
		s.wsdl = w
		if w.TargetNamespace != "" {
			s.namespace = w.TargetNamespace
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *SOAPService) { s.logger = logger }
}

// WithDebug logs every raw exchange at debug level.
func WithDebug(debug bool) ServiceOption {
	return func(s *SOAPService) { s.debug = debug }
}

// WithHistory records exchanges into h.
func WithHistory(h *History) ServiceOption {
	return func(s *SOAPService) { s.history = h }
}

// WithSequenceContainers replaces DefaultSequenceContainers.
func WithSequenceContainers(names ...string) ServiceOption {
	return func(s *SOAPService) {
		s.sequences = make(map[string]bool, len(names))
		for _, n := range names {
			s.sequences[n] = true
		}
	}
}

// SOAPService is a Caller speaking SOAP 1.1 to one endpoint.
type SOAPService struct {
	name      string
	endpoint  string
	namespace string
	client    *HTTPSClient
	wsdl      *WSDL
	sequences map[string]bool
	history   *History
	logger    *slog.Logger
	debug     bool
}

// NewSOAPService creates the service called name posting to endpoint. An
// unusable endpoint is a *isdserr.ConfigError.
func NewSOAPService(name, endpoint string, client *HTTPSClient, opts ...ServiceOption) (*SOAPService, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &isdserr.ConfigError{Service: name, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, &isdserr.ConfigError{Service: name, Err: fmt.Errorf("invalid endpoint %q", endpoint)}
	}
	if client == nil {
		client = NewHTTPSClient(nil)
	}

	s := &SOAPService{
		name:      name,
		endpoint:  endpoint,
		namespace: NamespaceISDS,
		client:    client,
		logger:    slog.Default(),
	}
	WithSequenceContainers(DefaultSequenceContainers...)(s)
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = NewHistory(DefaultHistorySize)
	}
	s.logger = s.logger.With(slog.String("service", name))

	return s, nil
}

// Name returns the service name.
func (s *SOAPService) Name() string { return s.name }

// Endpoint returns the service URL.
func (s *SOAPService) Endpoint() string { return s.endpoint }

// Namespace returns the namespace of request elements.
func (s *SOAPService) Namespace() string { return s.namespace }

// WSDL returns the bound WSDL, if any.
func (s *SOAPService) WSDL() *WSDL { return s.wsdl }

// History returns the exchange history.
func (s *SOAPService) History() *History { return s.history }

// Call implements Caller.
func (s *SOAPService) Call(ctx context.Context, operation string, args Args) (map[string]any, error) {
	request, err := s.BuildEnvelope(operation, args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, sendErr := s.client.Send(ctx, s.endpoint, request, ContentTypeSOAP11)

	var statusErr *StatusError
	errors.As(sendErr, &statusErr)

	exchange := Exchange{
		Operation: operation,
		Request:   request,
		Response:  response,
		Time:      start,
		Duration:  time.Since(start),
	}
	if statusErr != nil {
		exchange.Response = statusErr.Body
	}
	if sendErr != nil {
		exchange.Err = sendErr.Error()
	}
	s.history.Record(exchange)

	if s.debug {
		s.logger.Debug("SOAP exchange",
			slog.String("operation", operation),
			slog.String("request", string(exchange.Request)),
			slog.String("response", string(exchange.Response)))
	}

	if sendErr != nil {
		if statusErr != nil {
			if fault, ok := ParseFault(statusErr.Body); ok {
				fault.Operation = operation
				return nil, fault
			}
		}
		return nil, isdserr.Transport(operation, sendErr)
	}

	return s.decodeResponse(operation, response)
}

// BuildEnvelope encodes operation and args into a SOAP 1.1 request.
func (s *SOAPService) BuildEnvelope(operation string, args Args) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", NamespaceSOAP11)
	env.CreateAttr("xmlns:isds", s.namespace)
	env.CreateElement("soapenv:Header")
	body := env.CreateElement("soapenv:Body")

	op := body.CreateElement("isds:" + operation)
	if err := writeArgs(op, "", args); err != nil {
		return nil, err
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s request: %w", operation, err)
	}
	return out, nil
}

func writeArgs(parent *etree.Element, path string, args Args) error {
	for _, a := range args {
		argPath := a.Name
		if path != "" {
			argPath = path + "." + a.Name
		}

		if a.Attr {
			text, ok, err := formatLeaf(a.Value)
			if err != nil {
				return isdserr.Invalid(argPath, "%v", err)
			}
			if ok {
				parent.CreateAttr(a.Name, text)
			}
			continue
		}

		switch v := a.Value.(type) {
		case nil:
		case Args:
			if err := writeArgs(parent.CreateElement("isds:"+a.Name), argPath, v); err != nil {
				return err
			}
		case []Args:
			for _, item := range v {
				if err := writeArgs(parent.CreateElement("isds:"+a.Name), argPath, item); err != nil {
					return err
				}
			}
		case []string:
			for _, item := range v {
				parent.CreateElement("isds:" + a.Name).SetText(item)
			}
		default:
			text, ok, err := formatLeaf(v)
			if err != nil {
				return isdserr.Invalid(argPath, "%v", err)
			}
			if ok {
				parent.CreateElement("isds:" + a.Name).SetText(text)
			}
		}
	}
	return nil
}

func formatLeaf(v any) (string, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	case int:
		return strconv.Itoa(val), true, nil
	case int64:
		return strconv.FormatInt(val, 10), true, nil
	case uint64:
		return strconv.FormatUint(val, 10), true, nil
	case time.Time:
		return val.Format(TimeLayout), true, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(val), true, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false, nil
		}
		return formatLeaf(rv.Elem().Interface())
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	}
	return "", false, fmt.Errorf("unsupported argument type %T", v)
}

func (s *SOAPService) decodeResponse(operation string, data []byte) (map[string]any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &isdserr.SchemaError{Reason: "malformed SOAP response", Err: err}
	}

	content := bodyContent(doc)
	if content == nil {
		return nil, isdserr.Invalid("", "SOAP response of %s has no body content", operation)
	}
	if content.Tag == "Fault" {
		fault := faultFrom(content)
		fault.Operation = operation
		return nil, fault
	}

	if m, ok := elementToWire(content, s.sequences).(map[string]any); ok {
		return m, nil
	}
	return map[string]any{}, nil
}

// bodyContent returns the first element of the SOAP Body.
func bodyContent(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil
	}
	body := root.SelectElement("Body")
	if body == nil {
		return nil
	}
	children := body.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// ParseFault extracts a SOAP 1.1 or 1.2 fault from a response body.
func ParseFault(data []byte) (*isdserr.RemoteFault, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, false
	}
	content := bodyContent(doc)
	if content == nil || content.Tag != "Fault" {
		return nil, false
	}
	return faultFrom(content), true
}

func faultFrom(el *etree.Element) *isdserr.RemoteFault {
	fault := &isdserr.RemoteFault{}

	// SOAP 1.1
	if code := el.SelectElement("faultcode"); code != nil {
		fault.Code = strings.TrimSpace(code.Text())
	}
	if msg := el.SelectElement("faultstring"); msg != nil {
		fault.Message = strings.TrimSpace(msg.Text())
	}

	// SOAP 1.2
	if code := el.FindElement("./Code/Value"); code != nil && fault.Code == "" {
		fault.Code = strings.TrimSpace(code.Text())
	}
	if msg := el.FindElement("./Reason/Text"); msg != nil && fault.Message == "" {
		fault.Message = strings.TrimSpace(msg.Text())
	}

	return fault
}

// elementToWire converts el to its wire form: a string for a plain leaf,
// otherwise a map of attributes and children. Repeated children become
// []any; children of sequence containers are wrapped as
// {SequenceKey: [{tag: value}, ...]}.
func elementToWire(el *etree.Element, sequences map[string]bool) any {
	if isNil(el) {
		return nil
	}

	m := make(map[string]any)
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") || isXSI(a) {
			continue
		}
		m[a.Key] = a.Value
	}

	children := el.ChildElements()
	if sequences[el.Tag] {
		items := make([]any, 0, len(children))
		for _, c := range children {
			items = append(items, map[string]any{c.Tag: elementToWire(c, sequences)})
		}
		m[SequenceKey] = items
		return m
	}

	if len(children) == 0 {
		text := strings.TrimSpace(el.Text())
		if len(m) == 0 {
			return text
		}
		if text != "" {
			m[SequenceKey] = text
		}
		return m
	}

	for _, c := range children {
		v := elementToWire(c, sequences)
		prev, seen := m[c.Tag]
		if !seen {
			m[c.Tag] = v
			continue
		}
		if list, ok := prev.([]any); ok {
			m[c.Tag] = append(list, v)
		} else {
			m[c.Tag] = []any{prev, v}
		}
	}
	return m
}

func isXSI(a etree.Attr) bool {
	return a.Space == "xsi" || a.NamespaceURI() == NamespaceXSI
}

func isNil(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key == "nil" && isXSI(a) {
			return a.Value == "true" || a.Value == "1"
		}
	}
	return false
}
