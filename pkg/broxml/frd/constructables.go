package frd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// configurationIDPrefix prefixes the name of a measurement configuration to form its gml:id
const configurationIDPrefix = "mc_"

// ErrInvalidElectrode is returned for an electrode without a positive cable or electrode number
var ErrInvalidElectrode = errors.New("electrode needs a positive cableNumber and electrodeNumber")

// MonitoringTube refers to a registered GMW tube
type MonitoringTube struct {
	BroID      string `yaml:"broId"`
	TubeNumber string `yaml:"tubeNumber"`
}

// Electrode addresses one electrode of a geo-ohm cable
type Electrode struct {
	CableNumber     int `yaml:"cableNumber"`
	ElectrodeNumber int `yaml:"electrodeNumber"`
}

// ElectrodePair is the pair of electrodes used to measure or to feed current
type ElectrodePair struct {
	Electrode1 Electrode `yaml:"electrode1"`
	Electrode2 Electrode `yaml:"electrode2"`
}

// MeasurementConfiguration combines a measurement pair with a flow current pair.
// Its gml:id and measurementConfigurationID are mc_<Name>.
type MeasurementConfiguration struct {
	Name            string        `yaml:"name"`
	MeasurementPair ElectrodePair `yaml:"measurementPair"`
	FlowCurrentPair ElectrodePair `yaml:"flowCurrentPair"`
}

// ID returns the gml:id the configuration is written with
func (c *MeasurementConfiguration) ID() string {
	return configurationIDPrefix + c.Name
}

// Measure is one resistance reading. Configuration is written as the
// xlink:href of the related measurement configuration.
type Measure struct {
	Configuration string `yaml:"configuration"`
	Resistance    string `yaml:"resistance"`
}

func addElectrode(parent *etree.Element, e *Electrode, number int) error {
	if e.CableNumber < 1 || e.ElectrodeNumber < 1 {
		return fmt.Errorf("electrode%d: %w", number, ErrInvalidElectrode)
	}
	el := parent.CreateElement(fmt.Sprintf("frdcom:electrode%d", number))
	broxml.Add(el, "frdcom:cableNumber", strconv.Itoa(e.CableNumber))
	broxml.Add(el, "frdcom:electrodeNumber", strconv.Itoa(e.ElectrodeNumber))
	return nil
}

func addElectrodePair(parent *etree.Element, tag string, pair *ElectrodePair) error {
	el := parent.CreateElement(tag)
	if err := addElectrode(el, &pair.Electrode1, 1); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	if err := addElectrode(el, &pair.Electrode2, 2); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	return nil
}

func addMeasurementConfiguration(parent *etree.Element, mc *MeasurementConfiguration, index int) error {
	if err := broxml.CheckMissingArgs(fmt.Sprintf("gen_measurement_configuration, configuration with index %d", index),
		broxml.Need("name", mc.Name != ""),
	); err != nil {
		return err
	}

	wrapper := parent.CreateElement("measurementConfiguration")
	el := broxml.Add(wrapper, "frdcom:MeasurementConfiguration", "", broxml.ID("gml", mc.ID()))
	broxml.Add(el, "frdcom:measurementConfigurationID", mc.ID())
	if err := addElectrodePair(el, "frdcom:measurementPair", &mc.MeasurementPair); err != nil {
		return fmt.Errorf("configuration %s: %w", mc.Name, err)
	}
	if err := addElectrodePair(el, "frdcom:currentPair", &mc.FlowCurrentPair); err != nil {
		return fmt.Errorf("configuration %s: %w", mc.Name, err)
	}
	return nil
}

func addMeasure(parent *etree.Element, m *Measure, index int) error {
	if err := broxml.CheckMissingArgs(fmt.Sprintf("gen_measure, measure with index %d", index),
		broxml.Need("configuration", m.Configuration != ""),
		broxml.Need("resistance", m.Resistance != ""),
	); err != nil {
		return err
	}

	el := parent.CreateElement("frdcom:measure")
	broxml.Add(el, "frdcom:resistance", m.Resistance, broxml.UOM("Ohm"))
	broxml.Add(el, "frdcom:relatedMeasurementConfiguration", "", broxml.Href(m.Configuration))
	return nil
}
