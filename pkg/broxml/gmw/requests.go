package gmw

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

const registry = "gmw"

var (
	allTypes = []string{
		TypeConstruction, TypeWellHeadProtector, TypeLengthening, TypeGroundLevel,
		TypeOwner, TypeShortening, TypePositions, TypeElectrodeStatus, TypeMaintainer,
		TypeTubeStatus, TypeInsertion, TypeShift, TypeRemoval, TypeGroundLevelMeasuring,
		TypePositionsMeasuring, TypeConstructionWithHistory,
	}

	replaceTypes = without(allTypes, TypeRemoval, TypeConstructionWithHistory)

	// allowedTypes lists the sourcedocuments each request kind accepts
	allowedTypes = map[broxml.Kind][]string{
		broxml.KindRegistration: allTypes,
		broxml.KindReplace:      replaceTypes,
		broxml.KindMove:         append(append([]string{}, replaceTypes...), TypeRemoval),
		broxml.KindDelete:       without(allTypes, TypeConstruction, TypeConstructionWithHistory),
		broxml.KindInsert:       without(allTypes, TypeConstruction, TypeRemoval, TypeConstructionWithHistory),
	}
)

func without(types []string, drop ...string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		keep := true
		for _, d := range drop {
			if t == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

// AllowedTypes returns the sourcedocument types kind accepts
func AllowedTypes(kind broxml.Kind) []string {
	return append([]string{}, allowedTypes[kind]...)
}

// startsObject reports whether doc registers a new well
func startsObject(docType string) bool {
	return docType == TypeConstruction || docType == TypeConstructionWithHistory
}

// NewRequest builds a GMW request of kind around doc
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
		return nil, fmt.Errorf("unknown request kind %q", kind)
	}
	if err := broxml.CheckAllowed(kind, doc.DocType(), allowed); err != nil {
		return nil, err
	}
	if err := meta.Check(registry, kind); err != nil {
		return nil, err
	}
	if err := broxml.CheckBroID(kind, doc.DocType(), meta.BroID, startsObject(doc.DocType())); err != nil {
		return nil, err
	}

	root := etree.NewElement("ns:" + kind.Element())
	broxml.Declare(root, Namespaces...)
	broxml.WriteMetadata(root, "ns1", meta)
	if kind != broxml.KindRegistration {
		broxml.Add(root, "ns:correctionReason", meta.CorrectionReason, CodeSpace("correctionReason"))
	}

	sd := root.CreateElement("ns:sourceDocument")
	if err := doc.build(sd, doc.DocType()); err != nil {
		return nil, err
	}

	if kind == broxml.KindMove {
		addDate(root, "dateToBeCorrected", meta.DateToBeCorrected)
	}
	return broxml.NewRequest(meta.RequestReference, root), nil
}
