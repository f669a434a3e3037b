package broxml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/connector"
)

// Kind is the request envelope a sourcedocument is wrapped in
type Kind string

const (
	// KindRegistration registers a new object or event
	KindRegistration Kind = "registration"
	// KindReplace replaces a previously registered sourcedocument
	KindReplace Kind = "replace"
	// KindMove moves a sourcedocument to another date
	KindMove Kind = "move"
	// KindDelete removes a previously registered sourcedocument
	KindDelete Kind = "delete"
	// KindInsert inserts a sourcedocument into an existing history
	KindInsert Kind = "insert"
)

// Element returns the local name of the request root, e.g. registrationRequest
func (k Kind) Element() string {
	return string(k) + "Request"
}

// ParseKind parses a request kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRegistration, KindReplace, KindMove, KindDelete, KindInsert:
		return k, nil
	default:
		return "", fmt.Errorf("unknown request kind %q", s)
	}
}

var (
	// ErrSourceDocNotAllowed is returned when a request kind does not accept a sourcedocument type
	ErrSourceDocNotAllowed = errors.New("sourcedocument type not allowed")
	// ErrBroIDNotAllowed is returned when a broId is given for a sourcedocument that creates a new object
	ErrBroIDNotAllowed = errors.New("request argument 'broId' not allowed in combination with given sourcedocument")
	// ErrBroIDRequired is returned when a sourcedocument refers to an existing object without a broId
	ErrBroIDRequired = errors.New("request argument 'broId' required in combination with given sourcedocument")
	// ErrAlreadyDelivered is returned when Deliver is called twice
	ErrAlreadyDelivered = errors.New("request has already been delivered")
	// ErrNotValidated is returned when Deliver is called before Validate
	ErrNotValidated = errors.New("request isn't validated")
	// ErrNotValid is returned when Deliver is called on a request the portal rejected
	ErrNotValid = errors.New("request isn't valid")
)

// Metadata holds the request arguments written before the sourcedocument
type Metadata struct {
	RequestReference         string `yaml:"requestReference"`
	DeliveryAccountableParty string `yaml:"deliveryAccountableParty,omitempty"`
	BroID                    string `yaml:"broId,omitempty"`
	QualityRegime            string `yaml:"qualityRegime"`
	UnderPrivilege           string `yaml:"underPrivilege,omitempty"`
	CorrectionReason         string `yaml:"correctionReason,omitempty"`
	DateToBeCorrected        string `yaml:"dateToBeCorrected,omitempty"`
}

// Check verifies the arguments kind needs are present
func (m *Metadata) Check(registry string, kind Kind) error {
	args := []Arg{
		Need("requestReference", m.RequestReference != ""),
		Maybe("deliveryAccountableParty", m.DeliveryAccountableParty != ""),
		Need("qualityRegime", m.QualityRegime != ""),
		Maybe("underPrivilege", m.UnderPrivilege != ""),
	}
	if kind != KindRegistration {
		args = append(args, Need("correctionReason", m.CorrectionReason != ""))
	}
	if kind == KindMove {
		args = append(args, Need("dateToBeCorrected", m.DateToBeCorrected != ""))
	}
	return CheckMissingArgs(fmt.Sprintf("%s_%s with method initialize", registry, kind), args...)
}

// CheckBroID applies the broId rule for a sourcedocument. A registration of a
// document that starts a new object must not carry a broId; everything else
// refers to an existing object and needs one.
func CheckBroID(kind Kind, docType, broID string, startsObject bool) error {
	if kind == KindRegistration && startsObject {
		if broID != "" {
			return fmt.Errorf("%w: %s", ErrBroIDNotAllowed, docType)
		}
		return nil
	}
	if broID == "" {
		return fmt.Errorf("%w: %s", ErrBroIDRequired, docType)
	}
	return nil
}

// CheckAllowed returns ErrSourceDocNotAllowed when docType is not in allowed
func CheckAllowed(kind Kind, docType string, allowed []string) error {
	for _, a := range allowed {
		if a == docType {
			return nil
		}
	}
	return fmt.Errorf("%w for %s: %s", ErrSourceDocNotAllowed, kind.Element(), docType)
}

// Portal is the part of the bronhouderportaal API a request needs
type Portal interface {
	Validate(ctx context.Context, payload []byte) (*connector.ValidationResult, error)
	Deliver(ctx context.Context, docs ...connector.Document) (*connector.Delivery, error)
}

// Request is a generated request document plus its validation and delivery state
type Request struct {
	reference  string
	doc        *etree.Document
	validation *connector.ValidationResult
	delivery   *connector.Delivery
}

// NewRequest wraps root in an XML document
func NewRequest(reference string, root *etree.Element) *Request {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	return &Request{reference: reference, doc: doc}
}

// ParseRequest reads a request document, e.g. one written earlier by WriteFile.
// The reference is taken from its requestReference element.
func ParseRequest(data []byte) (*Request, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("failed to parse request: document has no root element")
	}

	reference := ""
	if el := root.SelectElement("requestReference"); el != nil {
		reference = strings.TrimSpace(el.Text())
	}
	return &Request{reference: reference, doc: doc}, nil
}

// Reference returns the request reference
func (r *Request) Reference() string {
	return r.reference
}

// Document returns the underlying XML document
func (r *Request) Document() *etree.Document {
	return r.doc
}

// Root returns the request root element
func (r *Request) Root() *etree.Element {
	return r.doc.Root()
}

// Bytes returns the request serialized with two-space indentation
func (r *Request) Bytes() ([]byte, error) {
	doc := r.doc.Copy()
	doc.Indent(2)
	return doc.WriteToBytes()
}

// WriteTo writes the serialized request to w
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	data, err := r.Bytes()
	if err != nil {
		return 0, err
	}
	return bytes.NewReader(data).WriteTo(w)
}

// Filename is the default file name of the request: <reference>.xml
func (r *Request) Filename() string {
	if r.reference == "" {
		return "request.xml"
	}
	return r.reference + ".xml"
}

// WriteFile writes the request into dir and returns the path written.
// An empty name writes Filename().
func (r *Request) WriteFile(dir, name string) (string, error) {
	if name == "" {
		name = r.Filename()
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := r.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize request: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write request: %w", err)
	}
	return path, nil
}

// Validate sends the request to the portal validation endpoint and keeps the outcome
func (r *Request) Validate(ctx context.Context, p Portal) (*connector.ValidationResult, error) {
	data, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	result, err := p.Validate(ctx, data)
	if err != nil {
		return nil, err
	}
	r.validation = result

	slog.DebugContext(ctx, "Request validated",
		"reference", r.reference,
		"status", result.Status,
	)
	return result, nil
}

// ValidationStatus returns the status of the last validation, or "" when not validated
func (r *Request) ValidationStatus() string {
	if r.validation == nil {
		return ""
	}
	return r.validation.Status
}

// Validation returns the last validation result
func (r *Request) Validation() *connector.ValidationResult {
	return r.validation
}

// Deliver delivers a validated request. A request is delivered at most once.
func (r *Request) Deliver(ctx context.Context, p Portal) (*connector.Delivery, error) {
	switch {
	case r.delivery != nil:
		return nil, ErrAlreadyDelivered
	case r.validation == nil:
		return nil, ErrNotValidated
	case !r.validation.Valid():
		return nil, fmt.Errorf("%w: status %s", ErrNotValid, r.validation.Status)
	}

	data, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	delivery, err := p.Deliver(ctx, connector.Document{Filename: r.Filename(), Payload: data})
	if err != nil {
		return nil, err
	}
	r.delivery = delivery

	slog.InfoContext(ctx, "Request delivered",
		"reference", r.reference,
		"delivery_id", delivery.Identifier,
	)
	return delivery, nil
}

// DeliveryID returns the identifier of the delivery, or "" when not delivered
func (r *Request) DeliveryID() string {
	if r.delivery == nil {
		return ""
	}
	return r.delivery.Identifier
}

// Delivery returns the delivery result
func (r *Request) Delivery() *connector.Delivery {
	return r.delivery
}

// WriteMetadata appends requestReference, deliveryAccountableParty, broId,
// qualityRegime and underPrivilege to req, each qualified with prefix.
// Empty optional fields are left out.
func WriteMetadata(req *etree.Element, prefix string, m *Metadata) {
	Add(req, prefix+":requestReference", m.RequestReference)
	AddIf(req, prefix+":deliveryAccountableParty", m.DeliveryAccountableParty)
	AddIf(req, prefix+":broId", m.BroID)
	Add(req, prefix+":qualityRegime", m.QualityRegime)
	AddIf(req, prefix+":underPrivilege", m.UnderPrivilege)
}
