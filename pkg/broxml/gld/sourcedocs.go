package gld

import (
	"errors"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Sourcedocument types
const (
	TypeStartRegistration = "GLD_StartRegistration"
	TypeAddition          = "GLD_Addition"
)

// ErrMonitoringPointCount is returned unless a start registration has exactly one monitoring point
var ErrMonitoringPointCount = errors.New("one monitoringpoint should be provided, no more or no less")

// SourceDocument is one GLD sourcedocument
type SourceDocument interface {
	// DocType returns the sourcedocument type, e.g. GLD_Addition
	DocType() string

	// namespaces returns the declarations a request holding the document needs
	namespaces() []broxml.Namespace

	build(parent *etree.Element) error
}

// NewSourceDocument returns an empty sourcedocument of docType, ready to be decoded into
func NewSourceDocument(docType string) (SourceDocument, error) {
	switch docType {
	case TypeStartRegistration:
		return &StartRegistration{}, nil
	case TypeAddition:
		return &Addition{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", broxml.ErrSourceDocNotAllowed, docType)
	}
}

// BuildSourceDocument returns the sourceDocument element holding doc
func BuildSourceDocument(doc SourceDocument) (*etree.Element, error) {
	sd := etree.NewElement("sourceDocument")
	if err := doc.build(sd); err != nil {
		return nil, err
	}
	return sd, nil
}

// StartRegistration opens a groundwater level dossier for one monitoring tube
type StartRegistration struct {
	ObjectIDAccountableParty  string            `yaml:"objectIdAccountableParty,omitempty"`
	GroundwaterMonitoringNets []MonitoringNet   `yaml:"groundwaterMonitoringNets,omitempty"`
	MonitoringPoints          []MonitoringPoint `yaml:"monitoringPoints"`
}

// DocType implements SourceDocument
func (*StartRegistration) DocType() string { return TypeStartRegistration }

func (*StartRegistration) namespaces() []broxml.Namespace { return StartNamespaces }

func (s *StartRegistration) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_gld_startregistration",
		broxml.Maybe("objectIdAccountableParty", s.ObjectIDAccountableParty != ""),
		broxml.Maybe("groundwaterMonitoringNets", len(s.GroundwaterMonitoringNets) > 0),
		broxml.Need("monitoringPoints", s.MonitoringPoints != nil),
	); err != nil {
		return err
	}
	if len(s.MonitoringPoints) != 1 {
		return fmt.Errorf("%w: got %d", ErrMonitoringPointCount, len(s.MonitoringPoints))
	}

	ids := broxml.NewIDSequence(2)
	el := broxml.Add(parent, TypeStartRegistration, "", broxml.ID("gml", "id_0001"))
	broxml.AddIf(el, "objectIdAccountableParty", s.ObjectIDAccountableParty)
	for i := range s.GroundwaterMonitoringNets {
		if err := addMonitoringNet(el, &s.GroundwaterMonitoringNets[i], i, ids); err != nil {
			return err
		}
	}
	return addMonitoringPoint(el, &s.MonitoringPoints[0], 0, ids)
}

// Addition adds one observation timeseries to a dossier.
// The phenomenon time is derived from the first and last point.
type Addition struct {
	Metadata   ObservationMetadata `yaml:"metadata"`
	ResultTime string              `yaml:"resultTime"`
	Procedure  Procedure           `yaml:"procedure"`
	Result     []Point             `yaml:"result"`

	// Now is used for the default metadata date stamp. Nil means time.Now.
	Now func() time.Time `yaml:"-"`
}

// DocType implements SourceDocument
func (*Addition) DocType() string { return TypeAddition }

func (*Addition) namespaces() []broxml.Namespace { return ObservationNamespaces }

func (a *Addition) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_gld_addition",
		broxml.Need("metadata", a.Metadata.Parameters.ObservationType != ""),
		broxml.Need("resultTime", a.ResultTime != ""),
		broxml.Need("procedure", !a.Procedure.IsZero()),
		broxml.Need("result", len(a.Result) > 0),
	); err != nil {
		return err
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	ids := broxml.NewIDSequence(2)
	el := broxml.Add(parent, TypeAddition, "", broxml.ID("gml", "id_0001"))
	obs := broxml.Add(el.CreateElement("observation"), "om:OM_Observation", "",
		broxml.ID("gml", broxml.NewUUIDID("_")))
	broxml.Add(obs, "om:type", "", broxml.Href(ObservationTypeTimeseries))

	if err := addObservationMetadata(obs, &a.Metadata, now()); err != nil {
		return err
	}
	if err := addPhenomenonTime(obs, a.Result, ids); err != nil {
		return err
	}
	addResultTime(obs, a.ResultTime, ids)
	addProcedure(obs, &a.Procedure)
	obs.CreateElement("om:observedProperty")
	obs.CreateElement("om:featureOfInterest")
	return addResult(obs, a.Result)
}
