package gmw_test

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
	"github.com/bro-exchange/bro-exchange/pkg/broxml/gmw"
)

func ptr[T any](v T) *T { return &v }

func sampleVerticalPosition() *gmw.VerticalPosition {
	return &gmw.VerticalPosition{
		LocalVerticalReferencePoint:  "NAP",
		Offset:                       "0.000",
		VerticalDatum:                "NAP",
		GroundLevelPosition:          "1.250",
		GroundLevelPositioningMethod: "RTKGPS0tot4cm",
	}
}

func sampleTube(number string) gmw.MonitoringTube {
	return gmw.MonitoringTube{
		TubeNumber:               number,
		TubeType:                 "standaardbuis",
		ArtesianWellCapPresent:   "nee",
		SedimentSumpPresent:      "ja",
		NumberOfGeoOhmCables:     0,
		TubeTopDiameter:          ptr("32"),
		VariableDiameter:         "nee",
		TubeStatus:               "gebruiksklaar",
		TubeTopPosition:          "1.100",
		TubeTopPositioningMethod: "RTKGPS0tot4cm",
		MaterialUsed: &gmw.MaterialUsed{
			TubePackingMaterial: "bentoniet",
			TubeMaterial:        "pvc",
			Glue:                "geen",
		},
		Screen:        &gmw.Screen{ScreenLength: "1.000", SockMaterial: "geen"},
		PlainTubePart: &gmw.PlainTubePart{PlainTubePartLength: "5.000"},
		SedimentSump:  &gmw.SedimentSump{SedimentSumpLength: "0.500"},
	}
}

func sampleConstruction() *gmw.Construction {
	return &gmw.Construction{
		ObjectIDAccountableParty:  "put-1",
		DeliveryContext:           "publiekeTaak",
		ConstructionStandard:      "NEN5766",
		InitialFunction:           "stand",
		NumberOfMonitoringTubes:   1,
		GroundLevelStable:         "ja",
		Owner:                     "12345678",
		WellHeadProtector:         "koker",
		WellConstructionDate:      "2021-05-01",
		DeliveredLocation:         &gmw.Location{X: "155000", Y: "463000", HorizontalPositioningMethod: "RTKGPS0tot2cm"},
		DeliveredVerticalPosition: sampleVerticalPosition(),
		MonitoringTubes:           []gmw.MonitoringTube{sampleTube("1")},
	}
}

func childTags(el *etree.Element) []string {
	var tags []string
	for _, c := range el.ChildElements() {
		tags = append(tags, c.FullTag())
	}
	return tags
}

func TestConstruction(t *testing.T) {
	t.Parallel()

	sd, err := gmw.BuildSourceDocument(sampleConstruction())
	require.NoError(t, err)

	doc := sd.SelectElement("GMW_Construction")
	require.NotNil(t, doc)
	assert.Equal(t, "ns:GMW_Construction", doc.FullTag())
	assert.Equal(t, []string{
		"ns:objectIdAccountableParty",
		"ns:deliveryContext",
		"ns:constructionStandard",
		"ns:initialFunction",
		"ns:numberOfMonitoringTubes",
		"ns:groundLevelStable",
		"ns:owner",
		"ns:wellHeadProtector",
		"ns:wellConstructionDate",
		"ns:deliveredLocation",
		"ns:deliveredVerticalPosition",
		"ns:monitoringTube",
	}, childTags(doc))

	assert.Equal(t, "urn:bro:gmw:DeliveryContext",
		doc.SelectElement("deliveryContext").SelectAttrValue("codeSpace", ""))
	assert.Equal(t, "2021-05-01", doc.FindElement("./ns:wellConstructionDate/ns1:date").Text())

	pos := doc.FindElement("./ns:deliveredLocation/ns2:location/ns3:pos")
	require.NotNil(t, pos)
	assert.Equal(t, "155000 463000", pos.Text())
	loc := doc.FindElement("./ns:deliveredLocation/ns2:location")
	assert.Equal(t, gmw.SRSName, loc.SelectAttrValue("srsName", ""))
	assert.Regexp(t, `^id-[0-9a-f-]{36}$`, loc.SelectAttrValue("ns3:id", ""))

	tube := doc.SelectElement("monitoringTube")
	assert.Equal(t, "32", tube.SelectElement("tubeTopDiameter").Text())
	assert.Equal(t, "mm", tube.SelectElement("tubeTopDiameter").SelectAttrValue("uom", ""))
	assert.NotNil(t, tube.SelectElement("sedimentSump"))
	assert.Nil(t, tube.SelectElement("geoOhmCable"))
}

func TestConstruction_OptionalFields(t *testing.T) {
	t.Parallel()

	c := sampleConstruction()
	c.WellStability = "stabielNAP"
	c.NitgCode = "B31H0001"
	c.MaintenanceResponsibleParty = "87654321"
	c.MonitoringTubes[0].TubeTopDiameter = nil
	c.MonitoringTubes[0].SedimentSump = nil
	c.MonitoringTubes[0].NumberOfGeoOhmCables = 1
	c.MonitoringTubes[0].GeoOhmCables = []gmw.GeoOhmCable{{
		Electrodes: []gmw.Electrode{
			{ElectrodeNumber: "1", ElectrodePackingMaterial: "zand", ElectrodeStatus: "gebruiksklaar", ElectrodePosition: "-3.0"},
			{ElectrodeNumber: "2", ElectrodePackingMaterial: "zand", ElectrodeStatus: "gebruiksklaar", ElectrodePosition: "-4.0"},
		},
	}}

	sd, err := gmw.BuildSourceDocument(c)
	require.NoError(t, err)
	doc := sd.SelectElement("GMW_Construction")

	tags := childTags(doc)
	assert.Equal(t, "ns:wellStability", tags[6])
	assert.Equal(t, "ns:nitgCode", tags[7])
	assert.Equal(t, "ns:maintenanceResponsibleParty", tags[9])

	tube := doc.SelectElement("monitoringTube")
	diameter := tube.SelectElement("tubeTopDiameter")
	assert.Equal(t, "true", diameter.SelectAttrValue("xsi:nil", ""))
	assert.Empty(t, diameter.Text())
	assert.Nil(t, tube.SelectElement("sedimentSump"))

	cable := tube.SelectElement("geoOhmCable")
	require.NotNil(t, cable)
	assert.Equal(t, "1", cable.SelectElement("cableNumber").Text())
	assert.Len(t, cable.SelectElements("electrode"), 2)
}

func TestConstruction_NumberOfGeoOhmCables(t *testing.T) {
	t.Parallel()

	cable := gmw.GeoOhmCable{Electrodes: []gmw.Electrode{
		{ElectrodeNumber: "1", ElectrodePackingMaterial: "zand", ElectrodeStatus: "gebruiksklaar", ElectrodePosition: "-3.0"},
		{ElectrodeNumber: "2", ElectrodePackingMaterial: "zand", ElectrodeStatus: "gebruiksklaar", ElectrodePosition: "-4.0"},
	}}

	tests := []struct {
		name     string
		declared int
		cables   []gmw.GeoOhmCable
		want     string
		wantErr  error
	}{
		{name: "no cables", want: "0"},
		{name: "counted from cables", cables: []gmw.GeoOhmCable{cable, cable}, want: "2"},
		{name: "declared without cables", declared: 3, want: "3"},
		{name: "declared matches cables", declared: 1, cables: []gmw.GeoOhmCable{cable}, want: "1"},
		{name: "declared differs from cables", declared: 2, cables: []gmw.GeoOhmCable{cable}, wantErr: gmw.ErrCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := sampleConstruction()
			c.MonitoringTubes[0].NumberOfGeoOhmCables = tt.declared
			c.MonitoringTubes[0].GeoOhmCables = tt.cables

			sd, err := gmw.BuildSourceDocument(c)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "monitoringTube with index 0")
				return
			}
			require.NoError(t, err)

			tube := sd.SelectElement("GMW_Construction").SelectElement("monitoringTube")
			assert.Equal(t, tt.want, tube.SelectElement("numberOfGeoOhmCables").Text())
			assert.Len(t, tube.SelectElements("geoOhmCable"), len(tt.cables))
		})
	}
}

func TestConstruction_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *gmw.Construction)
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing owner and date",
			mutate:  func(c *gmw.Construction) { c.Owner = ""; c.WellConstructionDate = "" },
			wantErr: broxml.ErrMissingArgs,
			wantMsg: "owner wellConstructionDate",
		},
		{
			name:    "empty tube list",
			mutate:  func(c *gmw.Construction) { c.MonitoringTubes = []gmw.MonitoringTube{} },
			wantErr: gmw.ErrNoMonitoringTubes,
		},
		{
			name:    "tube without screen",
			mutate:  func(c *gmw.Construction) { c.MonitoringTubes[0].Screen = nil },
			wantErr: broxml.ErrMissingArgs,
			wantMsg: "monitoringTube with index 0",
		},
		{
			name: "geo-ohm cable with one electrode",
			mutate: func(c *gmw.Construction) {
				c.MonitoringTubes[0].GeoOhmCables = []gmw.GeoOhmCable{{Electrodes: []gmw.Electrode{{ElectrodeNumber: "1"}}}}
			},
			wantErr: gmw.ErrNotEnoughElectrodes,
		},
		{
			name:    "location without method",
			mutate:  func(c *gmw.Construction) { c.DeliveredLocation.HorizontalPositioningMethod = "" },
			wantErr: broxml.ErrMissingArgs,
			wantMsg: "horizontalPositioningMethod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := sampleConstruction()
			tt.mutate(c)
			_, err := gmw.BuildSourceDocument(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestEventDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      gmw.SourceDocument
		wantTags []string
	}{
		{
			name:     "owner",
			doc:      &gmw.Owner{EventDate: "2022-01-01", Owner: "12345678"},
			wantTags: []string{"ns:eventDate", "ns:owner"},
		},
		{
			name:     "well head protector",
			doc:      &gmw.WellHeadProtector{EventDate: "2022-01-01", WellHeadProtector: "pot"},
			wantTags: []string{"ns:eventDate", "ns:wellHeadProtector"},
		},
		{
			name:     "maintainer",
			doc:      &gmw.Maintainer{EventDate: "2022-01-01", MaintenanceResponsibleParty: "87654321"},
			wantTags: []string{"ns:eventDate", "ns:maintenanceResponsibleParty"},
		},
		{
			name: "ground level",
			doc: &gmw.GroundLevel{
				EventDate: "2022-01-01", WellStability: "stabielNAP", GroundLevelStable: "nee",
				DeliveredVerticalPosition: sampleVerticalPosition(),
			},
			wantTags: []string{
				"ns:eventDate", "ns:wellStability", "ns:groundLevelStable",
				"ns:groundLevelPosition", "ns:groundLevelPositioningMethod",
			},
		},
		{
			name:     "shift",
			doc:      &gmw.Shift{EventDate: "2022-01-01", DeliveredVerticalPosition: sampleVerticalPosition()},
			wantTags: []string{"ns:eventDate", "ns:groundLevelPosition", "ns:groundLevelPositioningMethod"},
		},
		{
			name: "ground level measuring without method",
			doc: &gmw.GroundLevelMeasuring{
				EventDate:                 "2022-01-01",
				DeliveredVerticalPosition: &gmw.VerticalPosition{GroundLevelPosition: "1.1"},
			},
			wantTags: []string{"ns:eventDate", "ns:groundLevelPosition"},
		},
		{
			name:     "removal",
			doc:      &gmw.Removal{WellRemovalDate: "2023-03-03"},
			wantTags: []string{"ns:wellRemovalDate"},
		},
		{
			name: "insertion",
			doc: &gmw.Insertion{
				TubeNumber: "1", EventDate: "2022-01-01", TubeTopPosition: "1.0",
				TubeTopPositioningMethod: "RTKGPS0tot4cm", InsertedPartLength: "2.0",
				InsertedPartDiameter: "20", InsertedPartMaterial: "pvc",
			},
			wantTags: []string{
				"ns:tubeNumber", "ns:eventDate", "ns:tubeTopPosition", "ns:tubeTopPositioningMethod",
				"ns:insertedPartLength", "ns:insertedPartDiameter", "ns:insertedPartMaterial",
			},
		},
		{
			name: "tube status",
			doc: &gmw.TubeStatus{
				EventDate: "2022-01-01", NumberOfTubesChanged: 1,
				MonitoringTubes: []gmw.MonitoringTube{{TubeNumber: "1", TubeStatus: "beschadigd"}},
			},
			wantTags: []string{"ns:eventDate", "ns:numberOfTubesChanged", "ns:monitoringTube"},
		},
		{
			name: "electrode status",
			doc: &gmw.ElectrodeStatus{
				EventDate: "2022-01-01", NumberOfElectrodesChanged: 1,
				Electrodes: []gmw.ElectrodeChange{{TubeNumber: "1", CableNumber: "1", ElectrodeNumber: "2", ElectrodeStatus: "onbruikbaar"}},
			},
			wantTags: []string{"ns:eventDate", "ns:numberOfElectrodesChanged", "ns:electrode"},
		},
		{
			name: "positions measuring",
			doc: &gmw.PositionsMeasuring{
				EventDate: "2022-01-01", NumberOfMonitoringTubes: 1,
				DeliveredVerticalPosition: sampleVerticalPosition(),
				MonitoringTubes: []gmw.MonitoringTube{{
					TubeNumber: "1", TubeTopPosition: "1.0", TubeTopPositioningMethod: "RTKGPS0tot4cm",
				}},
			},
			wantTags: []string{
				"ns:eventDate", "ns:numberOfMonitoringTubes", "ns:groundLevelPosition",
				"ns:groundLevelPositioningMethod", "ns:monitoringTube",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sd, err := gmw.BuildSourceDocument(tt.doc)
			require.NoError(t, err)
			require.Len(t, sd.ChildElements(), 1)

			doc := sd.ChildElements()[0]
			assert.Equal(t, "ns:"+tt.doc.DocType(), doc.FullTag())
			assert.Equal(t, tt.wantTags, childTags(doc))
		})
	}
}

func TestLengthening(t *testing.T) {
	t.Parallel()

	doc := &gmw.Lengthening{
		EventDate:               "2022-02-02",
		WellHeadProtector:       "koker",
		NumberOfTubesLengthened: 1,
		MonitoringTubes: []gmw.MonitoringTube{{
			TubeNumber:               "1",
			VariableDiameter:         "nee",
			TubeTopPosition:          "1.5",
			TubeTopPositioningMethod: "RTKGPS0tot4cm",
			MaterialUsed:             &gmw.MaterialUsed{TubeMaterial: "pvc"},
			PlainTubePart:            &gmw.PlainTubePart{PlainTubePartLength: "5.5"},
		}},
	}

	sd, err := gmw.BuildSourceDocument(doc)
	require.NoError(t, err)

	el := sd.SelectElement("GMW_Lengthening")
	assert.Equal(t, []string{
		"ns:eventDate", "ns:wellHeadProtector", "ns:numberOfTubesLengthened", "ns:monitoringTube",
	}, childTags(el))
	assert.Equal(t, []string{
		"ns:tubeNumber", "ns:variableDiameter", "ns:tubeTopPosition",
		"ns:tubeTopPositioningMethod", "ns:tubeMaterial", "ns:plainTubePartLength",
	}, childTags(el.SelectElement("monitoringTube")))

	doc.NumberOfTubesLengthened = 2
	_, err = gmw.BuildSourceDocument(doc)
	require.ErrorIs(t, err, gmw.ErrCountMismatch)
}

func TestShortening_NoProtector(t *testing.T) {
	t.Parallel()

	doc := &gmw.Shortening{
		EventDate:              "2022-02-02",
		NumberOfTubesShortened: 1,
		MonitoringTubes: []gmw.MonitoringTube{{
			TubeNumber:               "1",
			VariableDiameter:         "nee",
			TubeTopPosition:          "0.9",
			TubeTopPositioningMethod: "RTKGPS0tot4cm",
			PlainTubePart:            &gmw.PlainTubePart{PlainTubePartLength: "4.8"},
		}},
	}

	sd, err := gmw.BuildSourceDocument(doc)
	require.NoError(t, err)

	el := sd.SelectElement("GMW_Shortening")
	assert.Nil(t, el.SelectElement("wellHeadProtector"))
	assert.Equal(t, []string{
		"ns:tubeNumber", "ns:tubeTopPosition", "ns:tubeTopPositioningMethod", "ns:plainTubePartLength",
	}, childTags(el.SelectElement("monitoringTube")))
}

func TestElectrodeStatus_CountMismatch(t *testing.T) {
	t.Parallel()

	_, err := gmw.BuildSourceDocument(&gmw.ElectrodeStatus{
		EventDate:                 "2022-01-01",
		NumberOfElectrodesChanged: 2,
		Electrodes:                []gmw.ElectrodeChange{{TubeNumber: "1", CableNumber: "1", ElectrodeNumber: "1", ElectrodeStatus: "onbruikbaar"}},
	})
	require.ErrorIs(t, err, gmw.ErrCountMismatch)
}

func TestNewSourceDocument(t *testing.T) {
	t.Parallel()

	for _, docType := range gmw.AllowedTypes(broxml.KindRegistration) {
		doc, err := gmw.NewSourceDocument(docType)
		require.NoError(t, err)
		assert.Equal(t, docType, doc.DocType())
	}

	_, err := gmw.NewSourceDocument("GMW_Unknown")
	require.ErrorIs(t, err, broxml.ErrSourceDocNotAllowed)
}
