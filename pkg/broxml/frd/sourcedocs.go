package frd

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Sourcedocument types
const (
	TypeStartRegistration        = "FRD_StartRegistration"
	TypeMeasurementConfiguration = "FRD_GEM_MeasurementConfiguration"
	TypeMeasurement              = "FRD_GEM_Measurement"
	TypeClosure                  = "FRD_Closure"
)

var (
	// ErrNoConfigurations is returned for a configuration document without configurations
	ErrNoConfigurations = errors.New("at least 1 measurementConfiguration should be provided")
	// ErrDuplicateConfiguration is returned when two configurations share a name
	ErrDuplicateConfiguration = errors.New("measurementConfiguration names must be unique")
	// ErrNoMeasures is returned for a measurement without measures
	ErrNoMeasures = errors.New("at least 1 measure should be provided")
)

// SourceDocument is one FRD sourcedocument
type SourceDocument interface {
	// DocType returns the sourcedocument type, e.g. FRD_Closure
	DocType() string

	namespaces() []broxml.Namespace

	build(parent *etree.Element) error
}

// NewSourceDocument returns an empty sourcedocument of docType, ready to be decoded into
func NewSourceDocument(docType string) (SourceDocument, error) {
	switch docType {
	case TypeStartRegistration:
		return &StartRegistration{}, nil
	case TypeMeasurementConfiguration:
		return &MeasurementConfigurations{}, nil
	case TypeMeasurement:
		return &Measurement{}, nil
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

// StartRegistration opens a formation resistance dossier on a monitoring tube
type StartRegistration struct {
	ObjectIDAccountableParty string         `yaml:"objectIdAccountableParty"`
	GroundwaterMonitoringNet string         `yaml:"groundwaterMonitoringNet,omitempty"`
	MonitoringTube           MonitoringTube `yaml:"monitoringTube"`
}

// DocType implements SourceDocument
func (*StartRegistration) DocType() string { return TypeStartRegistration }

func (*StartRegistration) namespaces() []broxml.Namespace { return Namespaces }

func (s *StartRegistration) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_frd_startregistration",
		broxml.Need("objectIdAccountableParty", s.ObjectIDAccountableParty != ""),
		broxml.Maybe("groundwaterMonitoringNet", s.GroundwaterMonitoringNet != ""),
		broxml.Need("monitoringTube.broId", s.MonitoringTube.BroID != ""),
		broxml.Need("monitoringTube.tubeNumber", s.MonitoringTube.TubeNumber != ""),
	); err != nil {
		return err
	}

	ids := broxml.NewIDSequence(1)
	el := broxml.Add(parent, TypeStartRegistration, "", broxml.ID("gml", ids.Next()))
	broxml.Add(el, "objectIdAccountableParty", s.ObjectIDAccountableParty)

	if s.GroundwaterMonitoringNet != "" {
		gmn := broxml.Add(el.CreateElement("groundwaterMonitoringNet"), "frdcom:GroundwaterMonitoringNet", "",
			broxml.ID("gml", ids.Next()))
		broxml.Add(gmn, "frdcom:broId", s.GroundwaterMonitoringNet)
	}

	tube := broxml.Add(el.CreateElement("groundwaterMonitoringTube"), "frdcom:MonitoringTube", "",
		broxml.ID("gml", ids.Next()))
	broxml.Add(tube, "frdcom:broId", s.MonitoringTube.BroID)
	broxml.Add(tube, "frdcom:tubeNumber", s.MonitoringTube.TubeNumber)
	return nil
}

// MeasurementConfigurations registers the electrode configurations later
// measurements refer to
type MeasurementConfigurations struct {
	Configurations []MeasurementConfiguration `yaml:"measurementConfigurations"`
}

// DocType implements SourceDocument
func (*MeasurementConfigurations) DocType() string { return TypeMeasurementConfiguration }

func (*MeasurementConfigurations) namespaces() []broxml.Namespace { return Namespaces }

func (m *MeasurementConfigurations) build(parent *etree.Element) error {
	if len(m.Configurations) == 0 {
		return ErrNoConfigurations
	}
	seen := make(map[string]bool, len(m.Configurations))
	for _, c := range m.Configurations {
		if seen[c.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateConfiguration, c.Name)
		}
		seen[c.Name] = true
	}

	el := broxml.Add(parent, TypeMeasurementConfiguration, "", broxml.ID("gml", "id_0001"))
	for i := range m.Configurations {
		if err := addMeasurementConfiguration(el, &m.Configurations[i], i); err != nil {
			return err
		}
	}
	return nil
}

// Measurement is one geo-electric measurement run
type Measurement struct {
	MeasurementDate        string    `yaml:"measurementDate"`
	MeasurementOperator    string    `yaml:"measurementOperator"`
	DeterminationProcedure string    `yaml:"determinationProcedure"`
	EvaluationProcedure    string    `yaml:"evaluationProcedure"`
	Measures               []Measure `yaml:"measures"`
}

// DocType implements SourceDocument
func (*Measurement) DocType() string { return TypeMeasurement }

func (*Measurement) namespaces() []broxml.Namespace { return MeasurementNamespaces }

func (m *Measurement) build(parent *etree.Element) error {
	if err := broxml.CheckMissingArgs("gen_frd_gem_measurement",
		broxml.Need("measurementDate", m.MeasurementDate != ""),
		broxml.Need("measurementOperator", m.MeasurementOperator != ""),
		broxml.Need("determinationProcedure", m.DeterminationProcedure != ""),
		broxml.Need("evaluationProcedure", m.EvaluationProcedure != ""),
	); err != nil {
		return err
	}
	if len(m.Measures) == 0 {
		return ErrNoMeasures
	}

	el := broxml.Add(parent, TypeMeasurement, "", broxml.ID("gml", "id_0001"))
	broxml.Add(el.CreateElement("measurementDate"), "brocom:date", m.MeasurementDate)
	broxml.Add(el.CreateElement("measurementOperator"), "brocom:chamberOfCommerceNumber", m.MeasurementOperator)
	broxml.Add(el, "determinationProcedure", m.DeterminationProcedure,
		broxml.CodeSpace(CodeSpaceDeterminationProcedure))
	broxml.Add(el, "evaluationProcedure", m.EvaluationProcedure,
		broxml.CodeSpace(CodeSpaceEvaluationProcedure))
	for i := range m.Measures {
		if err := addMeasure(el, &m.Measures[i], i); err != nil {
			return err
		}
	}
	return nil
}

// Closure closes a dossier
type Closure struct{}

// DocType implements SourceDocument
func (*Closure) DocType() string { return TypeClosure }

func (*Closure) namespaces() []broxml.Namespace { return MeasurementNamespaces }

func (*Closure) build(parent *etree.Element) error {
	broxml.Add(parent, TypeClosure, "", broxml.ID("gml", "id_0001"))
	return nil
}
