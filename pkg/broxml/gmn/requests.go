package gmn

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

const registry = "gmn"

var allowedTypes = map[broxml.Kind][]string{
	broxml.KindRegistration: {TypeStartRegistration, TypeMeasuringPoint, TypeMeasuringPointEndDate, TypeClosure},
	broxml.KindReplace:      {TypeStartRegistration, TypeMeasuringPoint},
}

// AllowedTypes returns the sourcedocument types kind accepts
func AllowedTypes(kind broxml.Kind) []string {
	return append([]string{}, allowedTypes[kind]...)
}

// NewRequest builds a GMN registration or replace request around doc
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
		return nil, fmt.Errorf("gmn does not support %s", kind.Element())
	}
	if err := broxml.CheckAllowed(kind, doc.DocType(), allowed); err != nil {
		return nil, err
	}
	if err := meta.Check(registry, kind); err != nil {
		return nil, err
	}
	if err := broxml.CheckBroID(kind, doc.DocType(), meta.BroID, doc.DocType() == TypeStartRegistration); err != nil {
		return nil, err
	}

	root := etree.NewElement(kind.Element())
	broxml.Declare(root, Namespaces...)
	broxml.SchemaLocation(root, SchemaLocation)
	broxml.WriteMetadata(root, "brocom", meta)
	if kind == broxml.KindReplace {
		broxml.Add(root, "correctionReason", meta.CorrectionReason, broxml.CodeSpace(CodeSpaceCorrectionReason))
	}

	sd := root.CreateElement("sourceDocument")
	if err := doc.build(sd); err != nil {
		return nil, err
	}
	return broxml.NewRequest(meta.RequestReference, root), nil
}
