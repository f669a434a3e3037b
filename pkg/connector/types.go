package connector

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// APIVersion selects the bronhouderportaal API generation
type APIVersion string

const (
	// APIv1 is the project-less API under /api
	APIv1 APIVersion = "v1"
	// APIv2 is the project-scoped API under /api/v2/<project>
	APIv2 APIVersion = "v2"
)

const (
	// ProductionURL is the bronhouderportaal production host
	ProductionURL = "https://www.bronhouderportaal-bro.nl"
	// DemoURL is the acceptance (demo) host
	DemoURL = "https://acc.bronhouderportaal-bro.nl"
)

const (
	// StatusValid is the validation status of a request that passed validation
	StatusValid = "VALIDE"
	// StatusInvalid is the validation status of a rejected request
	StatusInvalid = "NIET_VALIDE"
)

var (
	// ErrNoCredentials is returned when no user or password is configured
	ErrNoCredentials = errors.New("no user / password supplied for authentication")
	// ErrInvalidAPI is returned for an API version other than v1 or v2
	ErrInvalidAPI = errors.New("selected api not valid")
	// ErrProjectIDRequired is returned when API v2 is selected without a project id
	ErrProjectIDRequired = errors.New("a project id must be supplied for using the selected api version")
	// ErrNoLocation is returned when the portal does not say where a created upload or delivery lives
	ErrNoLocation = errors.New("response has no Location header")
	// ErrNoDocuments is returned when a delivery is attempted without sourcedocuments
	ErrNoDocuments = errors.New("no sourcedocuments to deliver")
)

// BaseURL returns the API root for the given version and environment
func BaseURL(api APIVersion, demo bool) (string, error) {
	host := ProductionURL
	if demo {
		host = DemoURL
	}

	switch api {
	case APIv1:
		return host + "/api", nil
	case APIv2:
		return host + "/api/v2", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAPI, api)
	}
}

// Document is a named XML payload added to an upload
type Document struct {
	Filename string
	Payload  []byte
}

// ValidationResult is the outcome of POST /validatie
type ValidationResult struct {
	Status string
	Type   string
	Errors []string
	Raw    []byte
}

// Valid reports whether the request passed validation
func (v *ValidationResult) Valid() bool {
	return v != nil && v.Status == StatusValid
}

// SourceDocumentInfo describes one sourcedocument known to the portal
type SourceDocumentInfo struct {
	Identifier string
	Filename   string
	Status     string
	BroID      string
	Errors     []string
	Raw        []byte
}

// Delivery describes a levering and the sourcedocuments it contains
type Delivery struct {
	Identifier  string
	Status      string
	LastChanged string
	Documents   []SourceDocumentInfo
	Raw         []byte
}

func parseValidation(body []byte) *ValidationResult {
	res := gjson.ParseBytes(body)
	return &ValidationResult{
		Status: res.Get("status").String(),
		Type:   res.Get("type").String(),
		Errors: messages(res.Get("errors")),
		Raw:    body,
	}
}

func parseDelivery(body []byte) *Delivery {
	res := gjson.ParseBytes(body)
	d := &Delivery{
		Identifier:  res.Get("identifier").String(),
		Status:      res.Get("status").String(),
		LastChanged: res.Get("lastChanged").String(),
		Raw:         body,
	}
	res.Get("brondocuments").ForEach(func(_, doc gjson.Result) bool {
		d.Documents = append(d.Documents, sourceDocumentInfo(doc))
		return true
	})
	return d
}

func parseSourceDocument(body []byte) *SourceDocumentInfo {
	info := sourceDocumentInfo(gjson.ParseBytes(body))
	info.Raw = body
	return &info
}

func sourceDocumentInfo(doc gjson.Result) SourceDocumentInfo {
	return SourceDocumentInfo{
		Identifier: doc.Get("identifier").String(),
		Filename:   doc.Get("fileName").String(),
		Status:     doc.Get("status").String(),
		BroID:      doc.Get("broId").String(),
		Errors:     messages(doc.Get("errors")),
	}
}

// messages flattens an errors array whose items are either strings or
// objects carrying a message field.
func messages(list gjson.Result) []string {
	var out []string
	list.ForEach(func(_, item gjson.Result) bool {
		if msg := item.Get("message"); item.IsObject() && msg.Exists() {
			out = append(out, msg.String())
		} else {
			out = append(out, item.String())
		}
		return true
	})
	return out
}
