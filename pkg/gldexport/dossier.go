// Package gldexport reads groundwater level dossiers from the public BRO
// dispatch service.
package gldexport

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

var (
	// ErrUnexpectedResponse is returned when the body is not a dispatchDataResponse
	ErrUnexpectedResponse = errors.New("response is not a dispatchDataResponse")
	// ErrNoDossier is returned when the response holds no GLD_O, e.g. for an unknown broId
	ErrNoDossier = errors.New("dispatch response holds no groundwater level dossier")
)

// Point is one measurement of an observation. Value is nil for a missing measurement.
type Point struct {
	Time   time.Time
	Value  *float64
	Status string
}

// Observation is one OM_Observation timeseries of a dossier
type Observation struct {
	ID        string
	Procedure string
	Points    []Point
}

// Dossier is a groundwater level dossier as dispatched by the BRO
type Dossier struct {
	BroID                    string
	DeliveryAccountableParty string
	QualityRegime            string
	DispatchTime             string
	Observations             []Observation
}

// Measurement is a point together with the observation it belongs to
type Measurement struct {
	Point
	ObservationID string
	Procedure     string
}

// Measurements returns the points of all observations sorted by time
func (d *Dossier) Measurements() []Measurement {
	var ms []Measurement
	for _, obs := range d.Observations {
		for _, p := range obs.Points {
			ms = append(ms, Measurement{Point: p, ObservationID: obs.ID, Procedure: obs.Procedure})
		}
	}
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Time.Before(ms[j].Time)
	})
	return ms
}

// Filter returns the measurements with begin <= time < end, keeping their order
func Filter(ms []Measurement, begin, end time.Time) []Measurement {
	var out []Measurement
	for _, m := range ms {
		if !m.Time.Before(begin) && m.Time.Before(end) {
			out = append(out, m)
		}
	}
	return out
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// ParseDispatch reads a dispatchDataResponse document
func ParseDispatch(data []byte) (*Dossier, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse dispatch response: %w", err)
	}
	resp := doc.SelectElement("dispatchDataResponse")
	if resp == nil {
		return nil, ErrUnexpectedResponse
	}
	gld := resp.FindElement("./dispatchDocument/GLD_O")
	if gld == nil {
		return nil, ErrNoDossier
	}

	d := &Dossier{
		BroID:                    childText(gld, "broId"),
		DeliveryAccountableParty: childText(gld, "deliveryAccountableParty"),
		QualityRegime:            childText(gld, "qualityRegime"),
		DispatchTime:             childText(resp, "dispatchTime"),
	}

	for _, obsEl := range gld.FindElements("./observation/OM_Observation") {
		obs := Observation{ID: obsEl.SelectAttrValue("gml:id", "")}
		if proc := obsEl.SelectElement("procedure"); proc != nil {
			obs.Procedure = proc.SelectAttrValue("xlink:href", "")
		}
		for i, tvp := range obsEl.FindElements("./result/MeasurementTimeseries/point/MeasurementTVP") {
			p, err := parsePoint(tvp)
			if err != nil {
				return nil, fmt.Errorf("observation %s, point %d: %w", obs.ID, i, err)
			}
			obs.Points = append(obs.Points, p)
		}
		d.Observations = append(d.Observations, obs)
	}
	return d, nil
}

func parsePoint(tvp *etree.Element) (Point, error) {
	var p Point

	t, err := time.Parse(time.RFC3339, childText(tvp, "time"))
	if err != nil {
		return p, fmt.Errorf("failed to parse time: %w", err)
	}
	p.Time = t

	if v := tvp.SelectElement("value"); v != nil && v.SelectAttrValue("xsi:nil", "") != "true" {
		if text := strings.TrimSpace(v.Text()); text != "" {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return p, fmt.Errorf("failed to parse value: %w", err)
			}
			p.Value = &f
		}
	}

	if status := tvp.FindElement("./metadata/TVPMeasurementMetadata/qualifier/Category/value"); status != nil {
		p.Status = strings.TrimSpace(status.Text())
	}
	return p, nil
}
