package gld

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // Europe/Amsterdam must resolve on hosts without a zoneinfo database

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// ObservationTypeControl is the observation type that must not carry a status
const ObservationTypeControl = "controlemeting"

var (
	// ErrStatusNotAllowed is returned when a control measurement carries a status
	ErrStatusNotAllowed = errors.New("argument 'status' in observation metadata while 'controlemeting' as observationType: controlemeting should not have status")
	// ErrStatusRequired is returned when a non-control measurement has no status
	ErrStatusRequired = errors.New("argument 'status' obligated in observation metadata if not 'controlemeting' as observationType")
	// ErrPhenomenonTime is returned when the timeseries has no usable first and last timestamp
	ErrPhenomenonTime = errors.New("phenomenonTime cannot be derived from timeseries")
	// ErrPointMetadata is returned for a point without StatusQualityControl or interpolationType
	ErrPointMetadata = errors.New("point metadata needs StatusQualityControl and interpolationType")
)

// amsterdam is the zone phenomenon end dates are expressed in
var amsterdam = mustLoadLocation("Europe/Amsterdam")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("gld: failed to load time zone %s: %v", name, err))
	}
	return loc
}

// MonitoringNet refers to a registered GMN
type MonitoringNet struct {
	BroID string `yaml:"broId"`
}

// MonitoringPoint refers to a registered GMW tube
type MonitoringPoint struct {
	BroID      string `yaml:"broId"`
	TubeNumber string `yaml:"tubeNumber"`
}

func addMonitoringNet(parent *etree.Element, net *MonitoringNet, index int, ids *broxml.IDSequence) error {
	if err := broxml.CheckMissingArgs(fmt.Sprintf("gen_groundwatermonitoringnet, net with index %d", index),
		broxml.Need("broId", net.BroID != ""),
	); err != nil {
		return err
	}

	wrapper := parent.CreateElement("groundwaterMonitoringNet")
	gmn := broxml.Add(wrapper, "gldcom:GroundwaterMonitoringNet", "", broxml.ID("gml", ids.Next()))
	broxml.Add(gmn, "gldcom:broId", net.BroID)
	return nil
}

func addMonitoringPoint(parent *etree.Element, mp *MonitoringPoint, index int, ids *broxml.IDSequence) error {
	if err := broxml.CheckMissingArgs(fmt.Sprintf("gen_monitoringpoint, point with index %d", index),
		broxml.Need("broId", mp.BroID != ""),
		broxml.Need("tubeNumber", mp.TubeNumber != ""),
	); err != nil {
		return err
	}

	wrapper := parent.CreateElement("monitoringPoint")
	tube := broxml.Add(wrapper, "gldcom:GroundwaterMonitoringTube", "", broxml.ID("gml", ids.Next()))
	broxml.Add(tube, "gldcom:broId", mp.BroID)
	broxml.Add(tube, "gldcom:tubeNumber", mp.TubeNumber)
	return nil
}

// PrincipalInvestigator identifies the organisation responsible for an observation.
// In YAML a plain scalar is read as a chamber of commerce number.
type PrincipalInvestigator struct {
	ChamberOfCommerceNumber           string `yaml:"chamberOfCommerceNumber,omitempty"`
	EuropeanCompanyRegistrationNumber string `yaml:"europeanCompanyRegistrationNumber,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler
func (p *PrincipalInvestigator) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = PrincipalInvestigator{ChamberOfCommerceNumber: value.Value}
		return nil
	}
	type plain PrincipalInvestigator
	return value.Decode((*plain)(p))
}

// MetadataParameters are the named values of the observation metadata
type MetadataParameters struct {
	PrincipalInvestigator *PrincipalInvestigator `yaml:"principalInvestigator,omitempty"`
	ObservationType       string                 `yaml:"observationType"`
}

// ObservationMetadata describes an observation.
// Contact defaults to principalInvestigator, DateStamp to today and
// IdentificationInfo to the nil reason unknown.
type ObservationMetadata struct {
	Contact            string             `yaml:"contact,omitempty"`
	DateStamp          string             `yaml:"dateStamp,omitempty"`
	IdentificationInfo string             `yaml:"identificationInfo,omitempty"`
	Status             string             `yaml:"status,omitempty"`
	Parameters         MetadataParameters `yaml:"parameters"`
}

func addNamedValue(parent *etree.Element, name string) *etree.Element {
	nv := parent.CreateElement("wml2:parameter").CreateElement("om:NamedValue")
	broxml.Add(nv, "om:name", "", broxml.Href(name))
	return nv
}

func addCodeValue(nv *etree.Element, codeSpace, value string) {
	broxml.Add(nv, "om:value", value,
		broxml.Attr{Key: "xsi:type", Value: "gml:CodeWithAuthorityType"},
		broxml.CodeSpace(codeSpace),
	)
}

func addObservationMetadata(parent *etree.Element, m *ObservationMetadata, today time.Time) error {
	if err := broxml.CheckMissingArgs("gen_metadata_parameters",
		broxml.Maybe("principalInvestigator", m.Parameters.PrincipalInvestigator != nil),
		broxml.Need("observationType", m.Parameters.ObservationType != ""),
	); err != nil {
		return err
	}
	control := m.Parameters.ObservationType == ObservationTypeControl
	switch {
	case m.Status != "" && control:
		return ErrStatusNotAllowed
	case m.Status == "" && !control:
		return ErrStatusRequired
	}

	md := parent.CreateElement("om:metadata").CreateElement("wml2:ObservationMetadata")

	party := md.CreateElement("gmd:contact").CreateElement("gmd:CI_ResponsibleParty")
	party.CreateElement("gmd:organisationName").CreateElement("gco:CharacterString")
	role := m.Contact
	if role == "" {
		role = "principalInvestigator"
	}
	broxml.Add(party.CreateElement("gmd:role"), "gmd:CI_RoleCode", role,
		broxml.Attr{Key: "codeList", Value: CodeListRoleCode},
		broxml.Attr{Key: "codeListValue", Value: role},
	)

	stamp := m.DateStamp
	if stamp == "" {
		stamp = today.Format(time.DateOnly)
	}
	broxml.Add(md.CreateElement("gmd:dateStamp"), "gco:Date", stamp)

	nilReason := m.IdentificationInfo
	if nilReason == "" {
		nilReason = "unknown"
	}
	broxml.Add(md, "gmd:identificationInfo", "", broxml.Attr{Key: "gco:nilReason", Value: nilReason})

	if m.Status != "" {
		broxml.Add(md, "wml2:status", "", broxml.Href(CodeSpaceStatusCode+":"+m.Status))
	}

	pi := addNamedValue(md, DefPrincipalInvestigator)
	value := broxml.Add(pi, "om:value", "", broxml.Attr{Key: "xsi:type", Value: "gldcom:OrganizationType"})
	if p := m.Parameters.PrincipalInvestigator; p != nil {
		switch {
		case p.ChamberOfCommerceNumber != "":
			broxml.Add(value, "gldcom:chamberOfCommerceNumber", p.ChamberOfCommerceNumber)
		case p.EuropeanCompanyRegistrationNumber != "":
			broxml.Add(value, "gldcom:europeanCompanyRegistrationNumber", p.EuropeanCompanyRegistrationNumber)
		}
	}

	addCodeValue(addNamedValue(md, DefObservationType), CodeSpaceObservationType, m.Parameters.ObservationType)
	return nil
}

// parseTimestamp accepts RFC 3339 and offsets without a colon, e.g. 2021-01-01T12:00:00+0100
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05-0700", s)
}

// phenomenonPeriod returns the first date of points as given and the last
// timestamp converted to a date in Europe/Amsterdam.
func phenomenonPeriod(points []Point) (begin, end string, err error) {
	if len(points) == 0 || len(points[0].Time) < len(time.DateOnly) {
		return "", "", ErrPhenomenonTime
	}
	last, err := parseTimestamp(points[len(points)-1].Time)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrPhenomenonTime, err)
	}
	return points[0].Time[:len(time.DateOnly)], last.In(amsterdam).Format(time.DateOnly), nil
}

func addPhenomenonTime(parent *etree.Element, points []Point, ids *broxml.IDSequence) error {
	begin, end, err := phenomenonPeriod(points)
	if err != nil {
		return err
	}
	period := broxml.Add(parent.CreateElement("om:phenomenonTime"), "gml:TimePeriod", "",
		broxml.ID("gml", ids.Next()))
	broxml.Add(period, "gml:beginPosition", begin)
	broxml.Add(period, "gml:endPosition", end)
	return nil
}

func addResultTime(parent *etree.Element, resultTime string, ids *broxml.IDSequence) {
	instant := broxml.Add(parent.CreateElement("om:resultTime"), "gml:TimeInstant", "",
		broxml.ID("gml", ids.Next()))
	broxml.Add(instant, "gml:timePosition", resultTime)
}

// ProcessParameters are the optional named values of an observation process
type ProcessParameters struct {
	AirPressureCompensationType string `yaml:"airPressureCompensationType,omitempty"`
	EvaluationProcedure         string `yaml:"evaluationProcedure,omitempty"`
	MeasurementInstrumentType   string `yaml:"measurementInstrumentType,omitempty"`
}

// ObservationProcess is an inline procedure definition
type ObservationProcess struct {
	ProcessType      string             `yaml:"processType,omitempty"`
	ProcessReference string             `yaml:"processReference,omitempty"`
	Parameters       *ProcessParameters `yaml:"parameters,omitempty"`
}

// Procedure is either a reference to an existing observation process or a
// new one. In YAML a plain scalar is read as the reference.
type Procedure struct {
	Href    string
	Process *ObservationProcess
}

// UnmarshalYAML implements yaml.Unmarshaler
func (p *Procedure) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = Procedure{Href: value.Value}
		return nil
	}
	var process ObservationProcess
	if err := value.Decode(&process); err != nil {
		return err
	}
	*p = Procedure{Process: &process}
	return nil
}

// MarshalYAML writes the procedure in the shape UnmarshalYAML reads
func (p Procedure) MarshalYAML() (any, error) {
	if p.Process != nil {
		return p.Process, nil
	}
	return p.Href, nil
}

// IsZero reports whether neither a reference nor a process is set
func (p Procedure) IsZero() bool {
	return p.Href == "" && p.Process == nil
}

func addProcedure(parent *etree.Element, p *Procedure) {
	if p.Process == nil {
		broxml.Add(parent, "om:procedure", "", broxml.Href(p.Href))
		return
	}

	process := broxml.Add(parent.CreateElement("om:procedure"), "wml2:ObservationProcess", "",
		broxml.ID("gml", broxml.NewUUIDID("_")))

	processType := p.Process.ProcessType
	if processType == "" {
		processType = DefaultProcessType
	}
	broxml.Add(process, "wml2:processType", "", broxml.Href(processType))

	reference := p.Process.ProcessReference
	if reference == "" {
		reference = DefaultProcessReference
	}
	broxml.Add(process, "wml2:processReference", "", broxml.Href(CodeSpaceProcessReference+":"+reference))

	params := p.Process.Parameters
	if params == nil {
		return
	}
	if params.AirPressureCompensationType != "" {
		addCodeValue(addNamedValue(process, DefAirPressureCompensationType),
			CodeSpaceAirPressureCompensationType, params.AirPressureCompensationType)
	}
	if params.EvaluationProcedure != "" {
		addCodeValue(addNamedValue(process, DefEvaluationProcedure),
			CodeSpaceEvaluationProcedure, params.EvaluationProcedure)
	}
	if params.MeasurementInstrumentType != "" {
		addCodeValue(addNamedValue(process, DefMeasurementInstrumentType),
			CodeSpaceMeasurementInstrumentType, params.MeasurementInstrumentType)
	}
}

// PointMetadata qualifies a single measurement
type PointMetadata struct {
	StatusQualityControl string `yaml:"StatusQualityControl"`
	CensoringLimitValue  string `yaml:"censoringLimitvalue,omitempty"`
	InterpolationType    string `yaml:"interpolationType"`
	CensoredReason       string `yaml:"censoredReason,omitempty"`
}

// Point is one time-value pair. A nil Value is written as xsi:nil.
type Point struct {
	Time     string        `yaml:"time"`
	Value    *string       `yaml:"value"`
	Metadata PointMetadata `yaml:"metadata"`
}

func addPoint(parent *etree.Element, p *Point, index int) error {
	if p.Metadata.StatusQualityControl == "" || p.Metadata.InterpolationType == "" {
		return fmt.Errorf("point with index %d: %w", index, ErrPointMetadata)
	}

	tvp := parent.CreateElement("wml2:point").CreateElement("wml2:MeasurementTVP")
	broxml.Add(tvp, "wml2:time", p.Time)
	if p.Value != nil {
		broxml.Add(tvp, "wml2:value", *p.Value, broxml.UOM("m"))
	} else {
		broxml.Add(tvp, "wml2:value", "", broxml.Nil())
	}

	md := tvp.CreateElement("wml2:metadata").CreateElement("wml2:TVPMeasurementMetadata")

	category := md.CreateElement("wml2:qualifier").CreateElement("swe:Category")
	broxml.Add(category, "swe:codeSpace", "", broxml.Href(CodeSpaceStatusQualityControl))
	broxml.Add(category, "swe:value", p.Metadata.StatusQualityControl)

	if p.Metadata.CensoringLimitValue != "" {
		quantity := broxml.Add(md.CreateElement("wml2:qualifier"), "swe:Quantity", "",
			broxml.Attr{Key: "definition", Value: DefCensoringLimitValue})
		broxml.Add(quantity, "swe:uom", "", broxml.Attr{Key: "code", Value: "m"})
		broxml.Add(quantity, "swe:value", p.Metadata.CensoringLimitValue)
	}

	broxml.Add(md, "wml2:interpolationType", "", broxml.Href(interpolationTypeBase+p.Metadata.InterpolationType))
	if p.Metadata.CensoredReason != "" {
		broxml.Add(md, "wml2:censoredReason", "", broxml.Href(censoredReasonBase+p.Metadata.CensoredReason))
	}
	return nil
}

func addResult(parent *etree.Element, points []Point) error {
	series := broxml.Add(parent.CreateElement("om:result"), "wml2:MeasurementTimeseries", "",
		broxml.ID("gml", broxml.NewUUIDID("_")))
	for i := range points {
		if err := addPoint(series, &points[i], i); err != nil {
			return err
		}
	}
	return nil
}
