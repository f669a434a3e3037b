package gmw

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// ErrNoEvents is returned when a construction with history has no events list
var ErrNoEvents = errors.New("construction with history needs an events list")

// eventTags maps the sourcedocuments allowed as intermediate events to their element name
var eventTags = map[string]string{
	TypeOwner:                "owner",
	TypeWellHeadProtector:    "wellHeadProtector",
	TypeLengthening:          "lengthening",
	TypeShortening:           "shortening",
	TypeGroundLevel:          "groundLevel",
	TypePositions:            "positions",
	TypeElectrodeStatus:      "electrodeStatus",
	TypeMaintainer:           "maintainer",
	TypeTubeStatus:           "tubeStatus",
	TypeInsertion:            "insertion",
	TypeShift:                "shift",
	TypeGroundLevelMeasuring: "groundLevelMeasuring",
	TypePositionsMeasuring:   "positionsMeasuring",
}

// Event is one intermediate event in a well history
type Event struct {
	Doc SourceDocument
}

type eventNode struct {
	SrcDoc    string    `yaml:"srcdoc"`
	EventData yaml.Node `yaml:"eventdata"`
}

// UnmarshalYAML decodes {srcdoc: GMW_Owner, eventdata: {...}} into the matching sourcedocument
func (e *Event) UnmarshalYAML(value *yaml.Node) error {
	var n eventNode
	if err := value.Decode(&n); err != nil {
		return err
	}
	if _, ok := eventTags[n.SrcDoc]; !ok {
		return fmt.Errorf("%w as intermediate event: %q", broxml.ErrSourceDocNotAllowed, n.SrcDoc)
	}

	doc, err := NewSourceDocument(n.SrcDoc)
	if err != nil {
		return err
	}
	if n.EventData.Kind != 0 {
		if err := n.EventData.Decode(doc); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", n.SrcDoc, err)
		}
	}
	e.Doc = doc
	return nil
}

// MarshalYAML writes the event in the same shape UnmarshalYAML reads
func (e Event) MarshalYAML() (any, error) {
	if e.Doc == nil {
		return nil, errors.New("event has no sourcedocument")
	}
	return struct {
		SrcDoc    string         `yaml:"srcdoc"`
		EventData SourceDocument `yaml:"eventdata"`
	}{e.Doc.DocType(), e.Doc}, nil
}

// ConstructionWithHistory registers a well together with everything that
// happened to it since construction, in chronological order.
type ConstructionWithHistory struct {
	Construction *Construction `yaml:"construction"`
	Events       []Event       `yaml:"events"`
	Removal      *Removal      `yaml:"removal,omitempty"`
}

// DocType implements SourceDocument
func (*ConstructionWithHistory) DocType() string { return TypeConstructionWithHistory }

func (h *ConstructionWithHistory) build(parent *etree.Element, tag string) error {
	if err := broxml.CheckMissingArgs("gen_gmw_constructionwithhistory",
		broxml.Need("construction", h.Construction != nil),
		broxml.Need("events", h.Events != nil),
		broxml.Maybe("removal", h.Removal != nil),
	); err != nil {
		return err
	}

	el := parent.CreateElement("ns:" + tag)
	if err := h.Construction.build(el, "construction"); err != nil {
		return fmt.Errorf("construction: %w", err)
	}

	for i, ev := range h.Events {
		if ev.Doc == nil {
			return fmt.Errorf("event %d: %w", i, ErrNoEvents)
		}
		eventTag, ok := eventTags[ev.Doc.DocType()]
		if !ok {
			return fmt.Errorf("event %d: %w as intermediate event: %s",
				i, broxml.ErrSourceDocNotAllowed, ev.Doc.DocType())
		}
		intermediate := el.CreateElement("ns:intermediateEvent")
		if err := ev.Doc.build(intermediate, eventTag); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Doc.DocType(), err)
		}
	}

	if h.Removal != nil {
		if err := h.Removal.build(el, "removal"); err != nil {
			return fmt.Errorf("removal: %w", err)
		}
	}
	return nil
}
