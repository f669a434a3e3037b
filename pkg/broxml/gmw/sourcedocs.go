package gmw

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Sourcedocument types
const (
	TypeConstruction            = "GMW_Construction"
	TypeWellHeadProtector       = "GMW_WellHeadProtector"
	TypeLengthening             = "GMW_Lengthening"
	TypeShortening              = "GMW_Shortening"
	TypeGroundLevel             = "GMW_GroundLevel"
	TypeOwner                   = "GMW_Owner"
	TypePositions               = "GMW_Positions"
	TypeElectrodeStatus         = "GMW_ElectrodeStatus"
	TypeMaintainer              = "GMW_Maintainer"
	TypeTubeStatus              = "GMW_TubeStatus"
	TypeInsertion               = "GMW_Insertion"
	TypeShift                   = "GMW_Shift"
	TypeRemoval                 = "GMW_Removal"
	TypeGroundLevelMeasuring    = "GMW_GroundLevelMeasuring"
	TypePositionsMeasuring      = "GMW_PositionsMeasuring"
	TypeConstructionWithHistory = "GMW_ConstructionWithHistory"
)

// SourceDocument is one GMW sourcedocument
type SourceDocument interface {
	// DocType returns the sourcedocument type, e.g. GMW_Owner
	DocType() string

	// build appends the document to parent as an element named tag
	build(parent *etree.Element, tag string) error
}

// NewSourceDocument returns an empty sourcedocument of docType, ready to be
// decoded into.
func NewSourceDocument(docType string) (SourceDocument, error) {
	switch docType {
	case TypeConstruction:
		return &Construction{}, nil
	case TypeWellHeadProtector:
		return &WellHeadProtector{}, nil
	case TypeLengthening:
		return &Lengthening{}, nil
	case TypeShortening:
		return &Shortening{}, nil
	case TypeGroundLevel:
		return &GroundLevel{}, nil
	case TypeOwner:
		return &Owner{}, nil
	case TypePositions:
		return &Positions{}, nil
	case TypeElectrodeStatus:
		return &ElectrodeStatus{}, nil
	case TypeMaintainer:
		return &Maintainer{}, nil
	case TypeTubeStatus:
		return &TubeStatus{}, nil
	case TypeInsertion:
		return &Insertion{}, nil
	case TypeShift:
		return &Shift{}, nil
	case TypeRemoval:
		return &Removal{}, nil
	case TypeGroundLevelMeasuring:
		return &GroundLevelMeasuring{}, nil
	case TypePositionsMeasuring:
		return &PositionsMeasuring{}, nil
	case TypeConstructionWithHistory:
		return &ConstructionWithHistory{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", broxml.ErrSourceDocNotAllowed, docType)
	}
}

// BuildSourceDocument returns the ns:sourceDocument element holding doc
func BuildSourceDocument(doc SourceDocument) (*etree.Element, error) {
	sd := etree.NewElement("ns:sourceDocument")
	if err := doc.build(sd, doc.DocType()); err != nil {
		return nil, err
	}
	return sd, nil
}

// Construction registers a new well
type Construction struct {
	ObjectIDAccountableParty    string            `yaml:"objectIdAccountableParty"`
	DeliveryContext             string            `yaml:"deliveryContext"`
	ConstructionStandard        string            `yaml:"constructionStandard"`
	InitialFunction             string            `yaml:"initialFunction"`
	NumberOfMonitoringTubes     int               `yaml:"numberOfMonitoringTubes"`
	GroundLevelStable           string            `yaml:"groundLevelStable"`
	WellStability               string            `yaml:"wellStability,omitempty"`
	NitgCode                    string            `yaml:"nitgCode,omitempty"`
	Owner                       string            `yaml:"owner"`
	MaintenanceResponsibleParty string            `yaml:"maintenanceResponsibleParty,omitempty"`
	WellHeadProtector           string            `yaml:"wellHeadProtector"`
	WellConstructionDate        string            `yaml:"wellConstructionDate"`
	DeliveredLocation           *Location         `yaml:"deliveredLocation"`
	DeliveredVerticalPosition   *VerticalPosition `yaml:"deliveredVerticalPosition"`
	MonitoringTubes             []MonitoringTube  `yaml:"monitoringTubes"`
}

// DocType implements SourceDocument
func (*Construction) DocType() string { return TypeConstruction }

func (c *Construction) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_construction",
		broxml.Need("objectIdAccountableParty", c.ObjectIDAccountableParty != ""),
		broxml.Need("deliveryContext", c.DeliveryContext != ""),
		broxml.Need("constructionStandard", c.ConstructionStandard != ""),
		broxml.Need("initialFunction", c.InitialFunction != ""),
		broxml.Need("numberOfMonitoringTubes", c.NumberOfMonitoringTubes > 0),
		broxml.Need("groundLevelStable", c.GroundLevelStable != ""),
		broxml.Maybe("wellStability", c.WellStability != ""),
		broxml.Maybe("nitgCode", c.NitgCode != ""),
		broxml.Need("owner", c.Owner != ""),
		broxml.Maybe("maintenanceResponsibleParty", c.MaintenanceResponsibleParty != ""),
		broxml.Need("wellHeadProtector", c.WellHeadProtector != ""),
		broxml.Need("wellConstructionDate", c.WellConstructionDate != ""),
		broxml.Need("deliveredLocation", c.DeliveredLocation != nil),
		broxml.Need("deliveredVerticalPosition", c.DeliveredVerticalPosition != nil),
		broxml.Need("monitoringTubes", c.MonitoringTubes != nil),
	); err != nil {
		return err
	}
	if len(c.MonitoringTubes) < 1 {
		return ErrNoMonitoringTubes
	}

	el := parent.CreateElement("ns:" + tag)
	broxml.Add(el, "ns:objectIdAccountableParty", c.ObjectIDAccountableParty)
	broxml.Add(el, "ns:deliveryContext", c.DeliveryContext, CodeSpace("deliveryContext"))
	broxml.Add(el, "ns:constructionStandard", c.ConstructionStandard, CodeSpace("constructionStandard"))
	broxml.Add(el, "ns:initialFunction", c.InitialFunction, CodeSpace("initialFunction"))
	broxml.Add(el, "ns:numberOfMonitoringTubes", strconv.Itoa(c.NumberOfMonitoringTubes))
	broxml.Add(el, "ns:groundLevelStable", c.GroundLevelStable)
	broxml.AddIf(el, "ns:wellStability", c.WellStability, CodeSpace("wellStability"))
	broxml.AddIf(el, "ns:nitgCode", c.NitgCode)
	broxml.Add(el, "ns:owner", c.Owner)
	broxml.AddIf(el, "ns:maintenanceResponsibleParty", c.MaintenanceResponsibleParty)
	broxml.Add(el, "ns:wellHeadProtector", c.WellHeadProtector, CodeSpace("wellHeadProtector"))
	addDate(el, "wellConstructionDate", c.WellConstructionDate)

	if err := addLocation(el, c.DeliveredLocation); err != nil {
		return err
	}
	if err := addVerticalPosition(el, c.DeliveredVerticalPosition); err != nil {
		return err
	}
	return addMonitoringTubes(el, c.MonitoringTubes, 0, tubeConstruction)
}

// WellHeadProtector changes the well head protector
type WellHeadProtector struct {
	EventDate         string `yaml:"eventDate"`
	WellHeadProtector string `yaml:"wellHeadProtector"`
}

// DocType implements SourceDocument
func (*WellHeadProtector) DocType() string { return TypeWellHeadProtector }

func (w *WellHeadProtector) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_wellheadprotector",
		broxml.Need("eventDate", w.EventDate != ""),
		broxml.Need("wellHeadProtector", w.WellHeadProtector != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", w.EventDate)
	broxml.Add(el, "ns:wellHeadProtector", w.WellHeadProtector, CodeSpace("wellHeadProtector"))
	return nil
}

// Lengthening lengthens one or more tubes
type Lengthening struct {
	EventDate               string           `yaml:"eventDate"`
	WellHeadProtector       string           `yaml:"wellHeadProtector,omitempty"`
	NumberOfTubesLengthened int              `yaml:"numberOfTubesLengthened"`
	MonitoringTubes         []MonitoringTube `yaml:"monitoringTubes"`
}

// DocType implements SourceDocument
func (*Lengthening) DocType() string { return TypeLengthening }

func (l *Lengthening) build(parent *etree.Element, tag string) error {
	return buildTubeLengthChange(parent, tag, "numberOfTubesLengthened",
		l.EventDate, l.WellHeadProtector, l.NumberOfTubesLengthened, l.MonitoringTubes, tubeLengthening)
}

// Shortening shortens one or more tubes
type Shortening struct {
	EventDate              string           `yaml:"eventDate"`
	WellHeadProtector      string           `yaml:"wellHeadProtector,omitempty"`
	NumberOfTubesShortened int              `yaml:"numberOfTubesShortened"`
	MonitoringTubes        []MonitoringTube `yaml:"monitoringTubes"`
}

// DocType implements SourceDocument
func (*Shortening) DocType() string { return TypeShortening }

func (s *Shortening) build(parent *etree.Element, tag string) error {
	return buildTubeLengthChange(parent, tag, "numberOfTubesShortened",
		s.EventDate, s.WellHeadProtector, s.NumberOfTubesShortened, s.MonitoringTubes, tubeShortening)
}

func buildTubeLengthChange(
	parent *etree.Element,
	tag, countName, eventDate, wellHeadProtector string,
	count int,
	tubes []MonitoringTube,
	form tubeForm,
) error {
	if err := broxml.CheckMissingArgs("gen_gmw_lengthening_shortening",
		broxml.Need("eventDate", eventDate != ""),
		broxml.Maybe("wellHeadProtector", wellHeadProtector != ""),
		broxml.Need(countName, count > 0),
		broxml.Need("monitoringTubes", tubes != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", eventDate)
	broxml.AddIf(el, "ns:wellHeadProtector", wellHeadProtector, CodeSpace("wellHeadProtector"))
	broxml.Add(el, "ns:"+countName, strconv.Itoa(count))
	return addMonitoringTubes(el, tubes, count, form)
}

// GroundLevel changes the ground level of a well
type GroundLevel struct {
	EventDate                 string            `yaml:"eventDate"`
	WellStability             string            `yaml:"wellStability"`
	GroundLevelStable         string            `yaml:"groundLevelStable"`
	DeliveredVerticalPosition *VerticalPosition `yaml:"deliveredVerticalPosition"`
}

// DocType implements SourceDocument
func (*GroundLevel) DocType() string { return TypeGroundLevel }

func (g *GroundLevel) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_groundlevel",
		broxml.Need("eventDate", g.EventDate != ""),
		broxml.Need("wellStability", g.WellStability != ""),
		broxml.Need("groundLevelStable", g.GroundLevelStable != ""),
		broxml.Need("deliveredVerticalPosition", g.DeliveredVerticalPosition != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", g.EventDate)
	broxml.Add(el, "ns:wellStability", g.WellStability, CodeSpace("wellStability"))
	broxml.Add(el, "ns:groundLevelStable", g.GroundLevelStable)
	addGroundLevel(el, g.DeliveredVerticalPosition)
	return nil
}

// Owner changes the owner of a well
type Owner struct {
	EventDate string `yaml:"eventDate"`
	Owner     string `yaml:"owner"`
}

// DocType implements SourceDocument
func (*Owner) DocType() string { return TypeOwner }

func (o *Owner) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_owner",
		broxml.Need("eventDate", o.EventDate != ""),
		broxml.Need("owner", o.Owner != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", o.EventDate)
	broxml.Add(el, "ns:owner", o.Owner)
	return nil
}

// Positions corrects ground level and tube top positions
type Positions struct {
	EventDate                 string            `yaml:"eventDate"`
	WellStability             string            `yaml:"wellStability"`
	GroundLevelStable         string            `yaml:"groundLevelStable"`
	NumberOfMonitoringTubes   int               `yaml:"numberOfMonitoringTubes"`
	DeliveredVerticalPosition *VerticalPosition `yaml:"deliveredVerticalPosition"`
	MonitoringTubes           []MonitoringTube  `yaml:"monitoringTubes"`
}

// DocType implements SourceDocument
func (*Positions) DocType() string { return TypePositions }

func (p *Positions) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_positions",
		broxml.Need("eventDate", p.EventDate != ""),
		broxml.Need("wellStability", p.WellStability != ""),
		broxml.Need("groundLevelStable", p.GroundLevelStable != ""),
		broxml.Need("numberOfMonitoringTubes", p.NumberOfMonitoringTubes > 0),
		broxml.Need("deliveredVerticalPosition", p.DeliveredVerticalPosition != nil),
		broxml.Need("monitoringTubes", p.MonitoringTubes != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", p.EventDate)
	broxml.Add(el, "ns:wellStability", p.WellStability, CodeSpace("wellStability"))
	broxml.Add(el, "ns:groundLevelStable", p.GroundLevelStable)
	broxml.Add(el, "ns:numberOfMonitoringTubes", strconv.Itoa(p.NumberOfMonitoringTubes))
	addGroundLevel(el, p.DeliveredVerticalPosition)
	return addMonitoringTubes(el, p.MonitoringTubes, p.NumberOfMonitoringTubes, tubePositions)
}

// ElectrodeStatus changes the status of electrodes
type ElectrodeStatus struct {
	EventDate                 string            `yaml:"eventDate"`
	NumberOfElectrodesChanged int               `yaml:"numberOfElectrodesChanged"`
	Electrodes                []ElectrodeChange `yaml:"electrodes"`
}

// DocType implements SourceDocument
func (*ElectrodeStatus) DocType() string { return TypeElectrodeStatus }

func (e *ElectrodeStatus) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_electrodestatus",
		broxml.Need("eventDate", e.EventDate != ""),
		broxml.Need("numberOfElectrodesChanged", e.NumberOfElectrodesChanged > 0),
		broxml.Need("electrodes", e.Electrodes != nil),
	); err != nil {
		return err
	}
	if len(e.Electrodes) < e.NumberOfElectrodesChanged {
		return fmt.Errorf("%w: %d electrodes given, %d declared",
			ErrCountMismatch, len(e.Electrodes), e.NumberOfElectrodesChanged)
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", e.EventDate)
	broxml.Add(el, "ns:numberOfElectrodesChanged", strconv.Itoa(e.NumberOfElectrodesChanged))
	for i := range e.Electrodes {
		if err := addElectrodeChange(el, &e.Electrodes[i], i); err != nil {
			return err
		}
	}
	return nil
}

// Maintainer changes the party responsible for maintenance
type Maintainer struct {
	EventDate                   string `yaml:"eventDate"`
	MaintenanceResponsibleParty string `yaml:"maintenanceResponsibleParty"`
}

// DocType implements SourceDocument
func (*Maintainer) DocType() string { return TypeMaintainer }

func (m *Maintainer) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_maintainer",
		broxml.Need("eventDate", m.EventDate != ""),
		broxml.Need("maintenanceResponsibleParty", m.MaintenanceResponsibleParty != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", m.EventDate)
	broxml.Add(el, "ns:maintenanceResponsibleParty", m.MaintenanceResponsibleParty)
	return nil
}

// TubeStatus changes the status of tubes
type TubeStatus struct {
	EventDate            string           `yaml:"eventDate"`
	NumberOfTubesChanged int              `yaml:"numberOfTubesChanged"`
	MonitoringTubes      []MonitoringTube `yaml:"monitoringTubes"`
}

// DocType implements SourceDocument
func (*TubeStatus) DocType() string { return TypeTubeStatus }

func (s *TubeStatus) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_tubestatus",
		broxml.Need("eventDate", s.EventDate != ""),
		broxml.Need("numberOfTubesChanged", s.NumberOfTubesChanged > 0),
		broxml.Need("monitoringTubes", s.MonitoringTubes != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", s.EventDate)
	broxml.Add(el, "ns:numberOfTubesChanged", strconv.Itoa(s.NumberOfTubesChanged))
	return addMonitoringTubes(el, s.MonitoringTubes, s.NumberOfTubesChanged, tubeStatusChange)
}

// Insertion registers a part inserted into a tube
type Insertion struct {
	TubeNumber               string `yaml:"tubeNumber"`
	EventDate                string `yaml:"eventDate"`
	TubeTopPosition          string `yaml:"tubeTopPosition"`
	TubeTopPositioningMethod string `yaml:"tubeTopPositioningMethod"`
	InsertedPartLength       string `yaml:"insertedPartLength"`
	InsertedPartDiameter     string `yaml:"insertedPartDiameter"`
	InsertedPartMaterial     string `yaml:"insertedPartMaterial"`
}

// DocType implements SourceDocument
func (*Insertion) DocType() string { return TypeInsertion }

func (in *Insertion) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_insertion",
		broxml.Need("tubeNumber", in.TubeNumber != ""),
		broxml.Need("eventDate", in.EventDate != ""),
		broxml.Need("tubeTopPosition", in.TubeTopPosition != ""),
		broxml.Need("tubeTopPositioningMethod", in.TubeTopPositioningMethod != ""),
		broxml.Need("insertedPartLength", in.InsertedPartLength != ""),
		broxml.Need("insertedPartDiameter", in.InsertedPartDiameter != ""),
		broxml.Need("insertedPartMaterial", in.InsertedPartMaterial != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	broxml.Add(el, "ns:tubeNumber", in.TubeNumber)
	addDate(el, "eventDate", in.EventDate)
	broxml.Add(el, "ns:tubeTopPosition", in.TubeTopPosition, broxml.UOM("m"))
	broxml.Add(el, "ns:tubeTopPositioningMethod", in.TubeTopPositioningMethod, CodeSpace("tubeTopPositioningMethod"))
	broxml.Add(el, "ns:insertedPartLength", in.InsertedPartLength, broxml.UOM("m"))
	broxml.Add(el, "ns:insertedPartDiameter", in.InsertedPartDiameter, broxml.UOM("mm"))
	broxml.Add(el, "ns:insertedPartMaterial", in.InsertedPartMaterial, CodeSpace("tubeMaterial"))
	return nil
}

// Shift registers a shifted ground level
type Shift struct {
	EventDate                 string            `yaml:"eventDate"`
	DeliveredVerticalPosition *VerticalPosition `yaml:"deliveredVerticalPosition"`
}

// DocType implements SourceDocument
func (*Shift) DocType() string { return TypeShift }

func (s *Shift) build(parent *etree.Element, tag string) error {
	return buildGroundLevelEvent(parent, tag, "gen_gmw_shift", s.EventDate, s.DeliveredVerticalPosition)
}

// GroundLevelMeasuring registers a new ground level measurement
type GroundLevelMeasuring struct {
	EventDate                 string            `yaml:"eventDate"`
	DeliveredVerticalPosition *VerticalPosition `yaml:"deliveredVerticalPosition"`
}

// DocType implements SourceDocument
func (*GroundLevelMeasuring) DocType() string { return TypeGroundLevelMeasuring }

func (g *GroundLevelMeasuring) build(parent *etree.Element, tag string) error {
	return buildGroundLevelEvent(parent, tag, "gen_gmw_groundlevelmeasuring", g.EventDate, g.DeliveredVerticalPosition)
}

func buildGroundLevelEvent(parent *etree.Element, tag, method, eventDate string, vp *VerticalPosition) error {
	if err := broxml.CheckMissingArgs(method,
		broxml.Need("eventDate", eventDate != ""),
		broxml.Need("deliveredVerticalPosition", vp != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", eventDate)
	addGroundLevel(el, vp)
	return nil
}

// Removal registers the removal of a well
type Removal struct {
	WellRemovalDate string `yaml:"wellRemovalDate"`
}

// DocType implements SourceDocument
func (*Removal) DocType() string { return TypeRemoval }

func (r *Removal) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_removal",
		broxml.Need("wellRemovalDate", r.WellRemovalDate != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "wellRemovalDate", r.WellRemovalDate)
	return nil
}

// PositionsMeasuring registers newly measured positions
type PositionsMeasuring struct {
	EventDate                 string            `yaml:"eventDate"`
	NumberOfMonitoringTubes   int               `yaml:"numberOfMonitoringTubes"`
	DeliveredVerticalPosition *VerticalPosition `yaml:"deliveredVerticalPosition"`
	MonitoringTubes           []MonitoringTube  `yaml:"monitoringTubes"`
}

// DocType implements SourceDocument
func (*PositionsMeasuring) DocType() string { return TypePositionsMeasuring }

func (p *PositionsMeasuring) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_positionsmeasuring",
		broxml.Need("eventDate", p.EventDate != ""),
		broxml.Need("numberOfMonitoringTubes", p.NumberOfMonitoringTubes > 0),
		broxml.Need("deliveredVerticalPosition", p.DeliveredVerticalPosition != nil),
		broxml.Need("monitoringTubes", p.MonitoringTubes != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	addDate(el, "eventDate", p.EventDate)
	broxml.Add(el, "ns:numberOfMonitoringTubes", strconv.Itoa(p.NumberOfMonitoringTubes))
	addGroundLevel(el, p.DeliveredVerticalPosition)
	return addMonitoringTubes(el, p.MonitoringTubes, p.NumberOfMonitoringTubes, tubePositions)
}
