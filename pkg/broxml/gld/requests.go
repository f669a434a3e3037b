package gld

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

const registry = "gld"

// Registration defaults applied when the metadata leaves them empty
const (
	DefaultDeliveryAccountableParty = "Unknown"
	DefaultQualityRegime            = "IMBRO/A"
)

var allowedTypes = map[broxml.Kind][]string{
	broxml.KindRegistration: {TypeStartRegistration, TypeAddition},
	broxml.KindReplace:      {TypeStartRegistration, TypeAddition},
}

// AllowedTypes returns the sourcedocument types kind accepts
func AllowedTypes(kind broxml.Kind) []string {
	return append([]string{}, allowedTypes[kind]...)
}

// NewRequest builds a GLD registration or replace request around doc.
// Registration fills in DefaultDeliveryAccountableParty and DefaultQualityRegime.
func NewRequest(kind broxml.Kind, meta *broxml.Metadata, doc SourceDocument) (*broxml.Request, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no sourcedocument given", broxml.ErrSourceDocNotAllowed)
	}
	if meta == nil {
		return nil, &broxml.MissingArgsError{
			Method:  fmt.Sprintf("%s_%s with method initialize", registry, kind),
			Missing: []string{"metadata"},
		}
	}
	allowed, ok := allowedTypes[kind]
	if !ok {
		return nil, fmt.Errorf("gld does not support %s, use Delete for deleteRequest", kind.Element())
	}
	if err := broxml.CheckAllowed(kind, doc.DocType(), allowed); err != nil {
		return nil, err
	}

	m := *meta
	namespaces := doc.namespaces()
	if kind == broxml.KindRegistration {
		if m.DeliveryAccountableParty == "" {
			m.DeliveryAccountableParty = DefaultDeliveryAccountableParty
		}
		if m.QualityRegime == "" {
			m.QualityRegime = DefaultQualityRegime
		}
	} else {
		namespaces = ObservationNamespaces
	}
	if err := m.Check(registry, kind); err != nil {
		return nil, err
	}
	if err := broxml.CheckBroID(kind, doc.DocType(), m.BroID, doc.DocType() == TypeStartRegistration); err != nil {
		return nil, err
	}

	root := etree.NewElement(kind.Element())
	broxml.Declare(root, namespaces...)
	broxml.SchemaLocation(root, SchemaLocation)
	broxml.WriteMetadata(root, "brocom", &m)
	if kind == broxml.KindReplace {
		broxml.Add(root, "correctionReason", m.CorrectionReason, broxml.CodeSpace(CodeSpaceCorrectionReason))
	}

	sd := root.CreateElement("sourceDocument")
	if err := doc.build(sd); err != nil {
		return nil, err
	}
	return broxml.NewRequest(m.RequestReference, root), nil
}

// ErrNotAnAddition is returned by Delete for a document without a GLD_Addition
var ErrNotAnAddition = errors.New("document to delete holds no GLD_Addition")

// Delete turns a previously delivered addition request into a deleteRequest.
// The root is renamed and correctionReason is set, inserted right after
// qualityRegime when the document has none yet.
func Delete(existing []byte, correctionReason string) (*broxml.Request, error) {
	if err := broxml.CheckMissingArgs("gld_delete with method initialize",
		broxml.Need("correctionReason", correctionReason != ""),
	); err != nil {
		return nil, err
	}

	req, err := broxml.ParseRequest(existing)
	if err != nil {
		return nil, err
	}
	root := req.Root()
	if req.Document().FindElement("//"+TypeAddition) == nil {
		return nil, ErrNotAnAddition
	}

	root.Tag = broxml.KindDelete.Element()

	if cr := root.SelectElement("correctionReason"); cr != nil {
		cr.SetText(correctionReason)
	} else {
		qr := root.SelectElement("qualityRegime")
		if qr == nil {
			return nil, &broxml.MissingArgsError{Method: "gld_delete", Missing: []string{"qualityRegime"}}
		}
		cr := etree.NewElement("correctionReason")
		cr.CreateAttr("codeSpace", CodeSpaceCorrectionReason)
		cr.SetText(correctionReason)
		root.InsertChildAt(qr.Index()+1, cr)
	}

	slog.Debug("Converted addition into delete request", "reference", req.Reference())
	return req, nil
}
