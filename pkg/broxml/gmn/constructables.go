package gmn

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Date precisions
const (
	PrecisionDate      = "date"
	PrecisionYear      = "year"
	PrecisionYearMonth = "yearMonth"
)

var (
	// ErrInvalidPrecision is returned for a date precision other than date, year or yearMonth
	ErrInvalidPrecision = errors.New("invalid date precision")
	// ErrEmptyDate is returned for a date without value and without void reason
	ErrEmptyDate = errors.New("date needs a value or a void reason")
)

// Date is a date that may be known to the day, month or year, or not at all.
// An empty Value writes VoidReason instead.
type Date struct {
	Value      string `yaml:"value,omitempty"`
	Precision  string `yaml:"precision,omitempty"`
	VoidReason string `yaml:"voidReason,omitempty"`
}

// UnmarshalYAML also accepts a plain scalar, e.g. startDateMonitoring: "2020-01-01"
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*d = Date{Value: value.Value}
		return nil
	}
	type plain Date
	return value.Decode((*plain)(d))
}

// IsZero reports whether no date information is set
func (d Date) IsZero() bool {
	return d.Value == "" && d.VoidReason == ""
}

func addDate(parent *etree.Element, tag string, d Date) error {
	el := etree.NewElement(tag)
	switch {
	case d.Value == "" && d.VoidReason == "":
		return fmt.Errorf("%s: %w", tag, ErrEmptyDate)
	case d.Value == "":
		broxml.Add(el, "brocom:voidReason", d.VoidReason)
	case d.Precision == "" || d.Precision == PrecisionDate:
		broxml.Add(el, "brocom:date", d.Value)
	case d.Precision == PrecisionYear:
		broxml.Add(el, "brocom:year", d.Value)
	case d.Precision == PrecisionYearMonth:
		broxml.Add(el, "brocom:yearMonth", d.Value)
	default:
		return fmt.Errorf("%s: %w: %q", tag, ErrInvalidPrecision, d.Precision)
	}
	parent.AddChild(el)
	return nil
}

// MonitoringTube refers to a registered GMW tube
type MonitoringTube struct {
	BroID      string `yaml:"broId"`
	TubeNumber string `yaml:"tubeNumber"`
}

// MeasuringPoint is a GMW tube that is part of the network
type MeasuringPoint struct {
	MeasuringPointCode string          `yaml:"measuringPointCode"`
	MonitoringTube     *MonitoringTube `yaml:"monitoringTube"`
}

func addMeasuringPoint(parent *etree.Element, mp *MeasuringPoint, index int) error {
	if err := broxml.CheckMissingArgs(fmt.Sprintf("gen_measuringpoint, point with index %d", index),
		broxml.Need("measuringPointCode", mp.MeasuringPointCode != ""),
		broxml.Need("monitoringTube", mp.MonitoringTube != nil),
	); err != nil {
		return err
	}
	if err := broxml.CheckMissingArgs(fmt.Sprintf("gen_measuringpoint, monitoringTube with index %d", index),
		broxml.Need("broId", mp.MonitoringTube.BroID != ""),
		broxml.Need("tubeNumber", mp.MonitoringTube.TubeNumber != ""),
	); err != nil {
		return err
	}

	suffix := strconv.Itoa(index)
	wrapper := parent.CreateElement("measuringPoint")
	point := broxml.Add(wrapper, "MeasuringPoint", "", broxml.ID("gml", "id_mp"+suffix))
	broxml.Add(point, "measuringPointCode", mp.MeasuringPointCode)
	tube := broxml.Add(point.CreateElement("monitoringTube"), "GroundwaterMonitoringTube", "",
		broxml.ID("gml", "id_mpgwmt"+suffix))
	broxml.Add(tube, "broId", mp.MonitoringTube.BroID)
	broxml.Add(tube, "tubeNumber", mp.MonitoringTube.TubeNumber)
	return nil
}
