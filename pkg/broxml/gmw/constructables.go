package gmw

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

var (
	// ErrNoMonitoringTubes is returned for a construction without monitoring tubes
	ErrNoMonitoringTubes = errors.New("no monitoring tubes provided in input, at least 1 monitoringtube should be provided")
	// ErrNotEnoughElectrodes is returned for a geo-ohm cable with fewer than 2 electrodes
	ErrNotEnoughElectrodes = errors.New("not enough electrodes provided for geoOhmCable, at least 2 electrodes should be provided")
	// ErrCountMismatch is returned when a list does not hold its declared number of items
	ErrCountMismatch = errors.New("number of items is less than the declared amount")
)

// Location is a point in RD New (EPSG:28992)
type Location struct {
	X                           string `yaml:"X"`
	Y                           string `yaml:"Y"`
	HorizontalPositioningMethod string `yaml:"horizontalPositioningMethod"`
}

// VerticalPosition describes the vertical reference of a well
type VerticalPosition struct {
	LocalVerticalReferencePoint  string `yaml:"localVerticalReferencePoint"`
	Offset                       string `yaml:"offset"`
	VerticalDatum                string `yaml:"verticalDatum"`
	GroundLevelPosition          string `yaml:"groundLevelPosition"`
	GroundLevelPositioningMethod string `yaml:"groundLevelPositioningMethod"`
}

// MaterialUsed lists the materials of a monitoring tube
type MaterialUsed struct {
	TubePackingMaterial string `yaml:"tubePackingMaterial,omitempty"`
	TubeMaterial        string `yaml:"tubeMaterial,omitempty"`
	Glue                string `yaml:"glue,omitempty"`
}

// Screen is the filter part of a monitoring tube
type Screen struct {
	ScreenLength string `yaml:"screenLength"`
	SockMaterial string `yaml:"sockMaterial"`
}

// PlainTubePart is the unfiltered part of a monitoring tube
type PlainTubePart struct {
	PlainTubePartLength string `yaml:"plainTubePartLength"`
}

// SedimentSump is the closed part below the screen
type SedimentSump struct {
	SedimentSumpLength string `yaml:"sedimentSumpLength"`
}

// Electrode is an electrode on a geo-ohm cable
type Electrode struct {
	ElectrodeNumber          string `yaml:"electrodeNumber"`
	ElectrodePackingMaterial string `yaml:"electrodePackingMaterial"`
	ElectrodeStatus          string `yaml:"electrodeStatus"`
	ElectrodePosition        string `yaml:"electrodePosition"`
}

// GeoOhmCable is a cable of electrodes along a monitoring tube.
// Its cableNumber is its position in the tube's list, starting at 1.
type GeoOhmCable struct {
	Electrodes []Electrode `yaml:"electrodes"`
}

// ElectrodeChange is a new status for one electrode
type ElectrodeChange struct {
	TubeNumber      string `yaml:"tubeNumber"`
	CableNumber     string `yaml:"cableNumber"`
	ElectrodeNumber string `yaml:"electrodeNumber"`
	ElectrodeStatus string `yaml:"electrodeStatus"`
}

// MonitoringTube holds the tube data of every sourcedocument that lists tubes.
// Which fields are used depends on the sourcedocument.
type MonitoringTube struct {
	TubeNumber               string         `yaml:"tubeNumber"`
	TubeType                 string         `yaml:"tubeType,omitempty"`
	ArtesianWellCapPresent   string         `yaml:"artesianWellCapPresent,omitempty"`
	SedimentSumpPresent      string         `yaml:"sedimentSumpPresent,omitempty"`
	NumberOfGeoOhmCables     int            `yaml:"numberOfGeoOhmCables,omitempty"` // 0 counts GeoOhmCables
	TubeTopDiameter          *string        `yaml:"tubeTopDiameter,omitempty"`
	VariableDiameter         string         `yaml:"variableDiameter,omitempty"`
	TubeStatus               string         `yaml:"tubeStatus,omitempty"`
	TubeTopPosition          string         `yaml:"tubeTopPosition,omitempty"`
	TubeTopPositioningMethod string         `yaml:"tubeTopPositioningMethod,omitempty"`
	MaterialUsed             *MaterialUsed  `yaml:"materialUsed,omitempty"`
	Screen                   *Screen        `yaml:"screen,omitempty"`
	PlainTubePart            *PlainTubePart `yaml:"plainTubePart,omitempty"`
	SedimentSump             *SedimentSump  `yaml:"sedimentSump,omitempty"`
	GeoOhmCables             []GeoOhmCable  `yaml:"geoOhmCables,omitempty"`
}

// tubeForm selects the monitoringTube layout of a sourcedocument
type tubeForm int

const (
	tubeConstruction tubeForm = iota
	tubeLengthening
	tubeShortening
	tubePositions
	tubeStatusChange
)

func addDate(parent *etree.Element, tag, date string) *etree.Element {
	el := parent.CreateElement("ns:" + tag)
	broxml.Add(el, "ns1:date", date)
	return el
}

func addLocation(parent *etree.Element, loc *Location) error {
	if err := broxml.CheckMissingArgs("deliveredLocation",
		broxml.Need("X", loc.X != ""),
		broxml.Need("Y", loc.Y != ""),
		broxml.Need("horizontalPositioningMethod", loc.HorizontalPositioningMethod != ""),
	); err != nil {
		return err
	}

	delivered := parent.CreateElement("ns:deliveredLocation")
	location := broxml.Add(delivered, "ns2:location", "",
		broxml.ID("ns3", broxml.NewUUIDID("id-")),
		broxml.Attr{Key: "srsName", Value: SRSName},
	)
	broxml.Add(location, "ns3:pos", loc.X+" "+loc.Y)
	broxml.Add(delivered, "ns2:horizontalPositioningMethod", loc.HorizontalPositioningMethod,
		CodeSpace("horizontalPositioningMethod"))
	return nil
}

func addVerticalPosition(parent *etree.Element, vp *VerticalPosition) error {
	if err := broxml.CheckMissingArgs("deliveredVerticalPosition",
		broxml.Need("localVerticalReferencePoint", vp.LocalVerticalReferencePoint != ""),
		broxml.Need("offset", vp.Offset != ""),
		broxml.Need("verticalDatum", vp.VerticalDatum != ""),
		broxml.Need("groundLevelPosition", vp.GroundLevelPosition != ""),
		broxml.Need("groundLevelPositioningMethod", vp.GroundLevelPositioningMethod != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:deliveredVerticalPosition")
	broxml.Add(el, "ns2:localVerticalReferencePoint", vp.LocalVerticalReferencePoint,
		CodeSpace("localVerticalReferencePoint"))
	broxml.Add(el, "ns2:offset", vp.Offset, broxml.UOM("m"))
	broxml.Add(el, "ns2:verticalDatum", vp.VerticalDatum, CodeSpace("verticalDatum"))
	broxml.Add(el, "ns2:groundLevelPosition", vp.GroundLevelPosition, broxml.UOM("m"))
	broxml.Add(el, "ns2:groundLevelPositioningMethod", vp.GroundLevelPositioningMethod,
		CodeSpace("groundLevelPositioningMethod"))
	return nil
}

// addGroundLevel writes the ground level of vp inline, as event documents carry it
func addGroundLevel(parent *etree.Element, vp *VerticalPosition) {
	if vp == nil {
		return
	}
	broxml.AddIf(parent, "ns:groundLevelPosition", vp.GroundLevelPosition, broxml.UOM("m"))
	broxml.AddIf(parent, "ns:groundLevelPositioningMethod", vp.GroundLevelPositioningMethod,
		CodeSpace("groundLevelPositioningMethod"))
}

func addMaterialUsed(parent *etree.Element, m *MaterialUsed, method string) error {
	if err := broxml.CheckMissingArgs(method+", materialUsed",
		broxml.Need("tubePackingMaterial", m.TubePackingMaterial != ""),
		broxml.Need("tubeMaterial", m.TubeMaterial != ""),
		broxml.Need("glue", m.Glue != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:materialUsed")
	broxml.Add(el, "ns2:tubePackingMaterial", m.TubePackingMaterial, CodeSpace("tubePackingMaterial"))
	broxml.Add(el, "ns2:tubeMaterial", m.TubeMaterial, CodeSpace("tubeMaterial"))
	broxml.Add(el, "ns2:glue", m.Glue, CodeSpace("glue"))
	return nil
}

func addScreen(parent *etree.Element, s *Screen, method string) error {
	if err := broxml.CheckMissingArgs(method+", screen",
		broxml.Need("screenLength", s.ScreenLength != ""),
		broxml.Need("sockMaterial", s.SockMaterial != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:screen")
	broxml.Add(el, "ns:screenLength", s.ScreenLength, broxml.UOM("m"))
	broxml.Add(el, "ns:sockMaterial", s.SockMaterial, CodeSpace("sockMaterial"))
	return nil
}

func addPlainTubePart(parent *etree.Element, p *PlainTubePart, method string) error {
	if err := broxml.CheckMissingArgs(method+", plainTubePart",
		broxml.Need("plainTubePartLength", p.PlainTubePartLength != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:plainTubePart")
	broxml.Add(el, "ns2:plainTubePartLength", p.PlainTubePartLength, broxml.UOM("m"))
	return nil
}

func addSedimentSump(parent *etree.Element, s *SedimentSump, method string) error {
	if err := broxml.CheckMissingArgs(method+", sedimentSump",
		broxml.Need("sedimentSumpLength", s.SedimentSumpLength != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:sedimentSump")
	broxml.Add(el, "ns2:sedimentSumpLength", s.SedimentSumpLength, broxml.UOM("m"))
	return nil
}

func addElectrode(parent *etree.Element, e *Electrode, method string) error {
	if err := broxml.CheckMissingArgs(method,
		broxml.Need("electrodeNumber", e.ElectrodeNumber != ""),
		broxml.Need("electrodePackingMaterial", e.ElectrodePackingMaterial != ""),
		broxml.Need("electrodeStatus", e.ElectrodeStatus != ""),
		broxml.Need("electrodePosition", e.ElectrodePosition != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:electrode")
	broxml.Add(el, "ns2:electrodeNumber", e.ElectrodeNumber)
	broxml.Add(el, "ns2:electrodePackingMaterial", e.ElectrodePackingMaterial, CodeSpace("electrodePackingMaterial"))
	broxml.Add(el, "ns2:electrodeStatus", e.ElectrodeStatus, CodeSpace("electrodeStatus"))
	broxml.Add(el, "ns2:electrodePosition", e.ElectrodePosition, broxml.UOM("m"))
	return nil
}

func addElectrodeChange(parent *etree.Element, e *ElectrodeChange, index int) error {
	if err := broxml.CheckMissingArgs(fmt.Sprintf("electrodeStatus, electrode with index %d", index),
		broxml.Need("tubeNumber", e.TubeNumber != ""),
		broxml.Need("cableNumber", e.CableNumber != ""),
		broxml.Need("electrodeNumber", e.ElectrodeNumber != ""),
		broxml.Need("electrodeStatus", e.ElectrodeStatus != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:electrode")
	broxml.Add(el, "ns:tubeNumber", e.TubeNumber)
	broxml.Add(el, "ns:cableNumber", e.CableNumber)
	broxml.Add(el, "ns:electrodeNumber", e.ElectrodeNumber)
	broxml.Add(el, "ns:electrodeStatus", e.ElectrodeStatus, CodeSpace("electrodeStatus"))
	return nil
}

func addGeoOhmCable(parent *etree.Element, c *GeoOhmCable, index int, method string) error {
	method = fmt.Sprintf("%s, geoOhmCable with index %d", method, index)
	if len(c.Electrodes) < 2 {
		return fmt.Errorf("%s: %w", method, ErrNotEnoughElectrodes)
	}

	el := parent.CreateElement("ns:geoOhmCable")
	broxml.Add(el, "ns:cableNumber", strconv.Itoa(index+1))
	for i := range c.Electrodes {
		if err := addElectrode(el, &c.Electrodes[i], fmt.Sprintf("%s, electrode with index %d", method, i)); err != nil {
			return err
		}
	}
	return nil
}

func tubeArgs(t *MonitoringTube, form tubeForm) []broxml.Arg {
	switch form {
	case tubeConstruction:
		return []broxml.Arg{
			broxml.Need("tubeNumber", t.TubeNumber != ""),
			broxml.Need("tubeType", t.TubeType != ""),
			broxml.Need("artesianWellCapPresent", t.ArtesianWellCapPresent != ""),
			broxml.Need("sedimentSumpPresent", t.SedimentSumpPresent != ""),
			broxml.Need("variableDiameter", t.VariableDiameter != ""),
			broxml.Need("tubeStatus", t.TubeStatus != ""),
			broxml.Need("tubeTopPosition", t.TubeTopPosition != ""),
			broxml.Need("tubeTopPositioningMethod", t.TubeTopPositioningMethod != ""),
			broxml.Need("materialUsed", t.MaterialUsed != nil),
			broxml.Need("screen", t.Screen != nil),
			broxml.Need("plainTubePart", t.PlainTubePart != nil),
			broxml.Maybe("sedimentSump", t.SedimentSump != nil),
			broxml.Maybe("geoOhmCables", len(t.GeoOhmCables) > 0),
		}
	case tubeLengthening, tubeShortening:
		return []broxml.Arg{
			broxml.Need("tubeNumber", t.TubeNumber != ""),
			broxml.Need("tubeTopPosition", t.TubeTopPosition != ""),
			broxml.Need("tubeTopPositioningMethod", t.TubeTopPositioningMethod != ""),
			broxml.Need("plainTubePart", t.PlainTubePart != nil),
		}
	case tubePositions:
		return []broxml.Arg{
			broxml.Need("tubeNumber", t.TubeNumber != ""),
			broxml.Need("tubeTopPosition", t.TubeTopPosition != ""),
			broxml.Need("tubeTopPositioningMethod", t.TubeTopPositioningMethod != ""),
		}
	default:
		return []broxml.Arg{
			broxml.Need("tubeNumber", t.TubeNumber != ""),
			broxml.Need("tubeStatus", t.TubeStatus != ""),
		}
	}
}

func addMonitoringTube(parent *etree.Element, t *MonitoringTube, index int, form tubeForm) error {
	method := fmt.Sprintf("monitoringTube with index %d", index)
	if err := broxml.CheckMissingArgs(method, tubeArgs(t, form)...); err != nil {
		return err
	}

	el := parent.CreateElement("ns:monitoringTube")
	broxml.Add(el, "ns:tubeNumber", t.TubeNumber)

	switch form {
	case tubeConstruction:
		return buildConstructionTube(el, t, method)

	case tubeLengthening, tubeShortening:
		if form == tubeLengthening {
			broxml.AddIf(el, "ns:variableDiameter", t.VariableDiameter)
			broxml.AddIf(el, "ns:tubeStatus", t.TubeStatus, CodeSpace("tubeStatus"))
		}
		broxml.Add(el, "ns:tubeTopPosition", t.TubeTopPosition, broxml.UOM("m"))
		broxml.Add(el, "ns:tubeTopPositioningMethod", t.TubeTopPositioningMethod, CodeSpace("tubeTopPositioningMethod"))
		if form == tubeLengthening && t.MaterialUsed != nil {
			broxml.AddIf(el, "ns:tubeMaterial", t.MaterialUsed.TubeMaterial, CodeSpace("tubeMaterial"))
			broxml.AddIf(el, "ns:glue", t.MaterialUsed.Glue, CodeSpace("glue"))
		}
		broxml.AddIf(el, "ns:plainTubePartLength", t.PlainTubePart.PlainTubePartLength, broxml.UOM("m"))

	case tubePositions:
		broxml.Add(el, "ns:tubeTopPosition", t.TubeTopPosition, broxml.UOM("m"))
		broxml.Add(el, "ns:tubeTopPositioningMethod", t.TubeTopPositioningMethod, CodeSpace("tubeTopPositioningMethod"))

	case tubeStatusChange:
		broxml.Add(el, "ns:tubeStatus", t.TubeStatus, CodeSpace("tubeStatus"))
	}
	return nil
}

func buildConstructionTube(el *etree.Element, t *MonitoringTube, method string) error {
	broxml.Add(el, "ns:tubeType", t.TubeType, CodeSpace("tubeType"))
	broxml.Add(el, "ns:artesianWellCapPresent", t.ArtesianWellCapPresent)
	broxml.Add(el, "ns:sedimentSumpPresent", t.SedimentSumpPresent)
	cables := t.NumberOfGeoOhmCables
	if cables == 0 {
		cables = len(t.GeoOhmCables)
	}
	if len(t.GeoOhmCables) > 0 && len(t.GeoOhmCables) != cables {
		return fmt.Errorf("%w: %s declares %d geoOhmCables but lists %d",
			ErrCountMismatch, method, cables, len(t.GeoOhmCables))
	}
	broxml.Add(el, "ns:numberOfGeoOhmCables", strconv.Itoa(cables))
	if t.TubeTopDiameter != nil {
		broxml.Add(el, "ns:tubeTopDiameter", *t.TubeTopDiameter, broxml.UOM("mm"))
	} else {
		broxml.Add(el, "ns:tubeTopDiameter", "", broxml.UOM("mm"), broxml.Nil())
	}
	broxml.Add(el, "ns:variableDiameter", t.VariableDiameter)
	broxml.Add(el, "ns:tubeStatus", t.TubeStatus, CodeSpace("tubeStatus"))
	broxml.Add(el, "ns:tubeTopPosition", t.TubeTopPosition, broxml.UOM("m"))
	broxml.Add(el, "ns:tubeTopPositioningMethod", t.TubeTopPositioningMethod, CodeSpace("tubeTopPositioningMethod"))

	if err := addMaterialUsed(el, t.MaterialUsed, method); err != nil {
		return err
	}
	if err := addScreen(el, t.Screen, method); err != nil {
		return err
	}
	if err := addPlainTubePart(el, t.PlainTubePart, method); err != nil {
		return err
	}
	if t.SedimentSump != nil {
		if err := addSedimentSump(el, t.SedimentSump, method); err != nil {
			return err
		}
	}
	for i := range t.GeoOhmCables {
		if err := addGeoOhmCable(el, &t.GeoOhmCables[i], i, method); err != nil {
			return err
		}
	}
	return nil
}

// addMonitoringTubes writes tubes after checking the list holds at least want entries
func addMonitoringTubes(parent *etree.Element, tubes []MonitoringTube, want int, form tubeForm) error {
	if len(tubes) < want {
		return fmt.Errorf("%w: %d monitoring tubes given, %d declared", ErrCountMismatch, len(tubes), want)
	}
	for i := range tubes {
		if err := addMonitoringTube(parent, &tubes[i], i, form); err != nil {
			return err
		}
	}
	return nil
}
