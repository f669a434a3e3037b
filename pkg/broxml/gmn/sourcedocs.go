package gmn

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Sourcedocument types
const (
	TypeStartRegistration     = "GMN_StartRegistration"
	TypeMeasuringPoint        = "GMN_MeasuringPoint"
	TypeMeasuringPointEndDate = "GMN_MeasuringPointEndDate"
	TypeClosure               = "GMN_Closure"
)

// sourceDocumentID is the gml:id of every GMN sourcedocument
const sourceDocumentID = "id_0001"

// ErrNoMeasuringPoints is returned for a start registration without measuring points
var ErrNoMeasuringPoints = errors.New("no measuringPoints provided in input, at least 1 measuringPoint should be provided")

// SourceDocument is one GMN sourcedocument
type SourceDocument interface {
	// DocType returns the sourcedocument type, e.g. GMN_Closure
	DocType() string

	build(parent *etree.Element) error
}

// NewSourceDocument returns an empty sourcedocument of docType, ready to be decoded into
func NewSourceDocument(docType string) (SourceDocument, error) {
	switch docType {
	case TypeStartRegistration:
		return &StartRegistration{}, nil
	case TypeMeasuringPoint:
		return &MeasuringPointAddition{}, nil
	case TypeMeasuringPointEndDate:
		return &MeasuringPointEndDate{}, nil
	case TypeClosure:
		return &Closure{}, nil
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

func newDocElement(parent *etree.Element, docType string) *etree.Element {
	return broxml.Add(parent, docType, "", broxml.ID("gml", sourceDocumentID))
}

// StartRegistration registers a new monitoring network
type StartRegistration struct {
	ObjectIDAccountableParty string           `yaml:"objectIdAccountableParty"`
	Name                     string           `yaml:"name"`
	DeliveryContext          string           `yaml:"deliveryContext"`
	MonitoringPurpose        string           `yaml:"monitoringPurpose"`
	GroundwaterAspect        string           `yaml:"groundwaterAspect"`
	StartDateMonitoring      Date             `yaml:"startDateMonitoring"`
	MeasuringPoints          []MeasuringPoint `yaml:"measuringPoints"`
}

// DocType implements SourceDocument
func (*StartRegistration) DocType() string { return TypeStartRegistration }

func (s *StartRegistration) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_gmn_startregistration",
		broxml.Need("objectIdAccountableParty", s.ObjectIDAccountableParty != ""),
		broxml.Need("name", s.Name != ""),
		broxml.Need("deliveryContext", s.DeliveryContext != ""),
		broxml.Need("monitoringPurpose", s.MonitoringPurpose != ""),
		broxml.Need("groundwaterAspect", s.GroundwaterAspect != ""),
		broxml.Need("startDateMonitoring", !s.StartDateMonitoring.IsZero()),
		broxml.Need("measuringPoints", s.MeasuringPoints != nil),
	); err != nil {
		return err
	}
	if len(s.MeasuringPoints) < 1 {
		return ErrNoMeasuringPoints
	}

	el := newDocElement(parent, TypeStartRegistration)
	broxml.Add(el, "objectIdAccountableParty", s.ObjectIDAccountableParty)
	broxml.Add(el, "name", s.Name)
	broxml.Add(el, "deliveryContext", s.DeliveryContext, broxml.CodeSpace(CodeSpaceDeliveryContext))
	broxml.Add(el, "monitoringPurpose", s.MonitoringPurpose, broxml.CodeSpace(CodeSpaceMonitoringPurpose))
	broxml.Add(el, "groundwaterAspect", s.GroundwaterAspect, broxml.CodeSpace(CodeSpaceGroundwaterAspect))
	if err := addDate(el, "startDateMonitoring", s.StartDateMonitoring); err != nil {
		return err
	}
	for i := range s.MeasuringPoints {
		if err := addMeasuringPoint(el, &s.MeasuringPoints[i], i); err != nil {
			return err
		}
	}
	return nil
}

// MeasuringPointAddition adds a measuring point to a registered network
type MeasuringPointAddition struct {
	EventDate      Date            `yaml:"eventDate"`
	MeasuringPoint *MeasuringPoint `yaml:"measuringPoint"`
}

// DocType implements SourceDocument
func (*MeasuringPointAddition) DocType() string { return TypeMeasuringPoint }

func (m *MeasuringPointAddition) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_gmn_measuringpoint",
		broxml.Need("eventDate", !m.EventDate.IsZero()),
		broxml.Need("measuringPoint", m.MeasuringPoint != nil),
	); err != nil {
		return err
	}

	el := newDocElement(parent, TypeMeasuringPoint)
	if err := addDate(el, "eventDate", m.EventDate); err != nil {
		return err
	}
	return addMeasuringPoint(el, m.MeasuringPoint, 0)
}

// MeasuringPointEndDate ends the use of a measuring point
type MeasuringPointEndDate struct {
	EventDate          Date   `yaml:"eventDate"`
	MeasuringPointCode string `yaml:"measuringPointCode"`
}

// DocType implements SourceDocument
func (*MeasuringPointEndDate) DocType() string { return TypeMeasuringPointEndDate }

func (m *MeasuringPointEndDate) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_gmn_measuringpoint_enddate",
		broxml.Need("eventDate", !m.EventDate.IsZero()),
		broxml.Need("measuringPointCode", m.MeasuringPointCode != ""),
	); err != nil {
		return err
	}

	el := newDocElement(parent, TypeMeasuringPointEndDate)
	if err := addDate(el, "eventDate", m.EventDate); err != nil {
		return err
	}
	broxml.Add(el, "measuringPointCode", m.MeasuringPointCode)
	return nil
}

// Closure ends the monitoring of a network
type Closure struct {
	EndDateMonitoring Date `yaml:"endDateMonitoring"`
}

// DocType implements SourceDocument
func (*Closure) DocType() string { return TypeClosure }

func (c *Closure) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_gmn_closure",
		broxml.Need("endDateMonitoring", !c.EndDateMonitoring.IsZero()),
	); err != nil {
		return err
	}

	el := newDocElement(parent, TypeClosure)
	return addDate(el, "endDateMonitoring", c.EndDateMonitoring)
}
