// Package gmw builds isgmw/1.1 requests for groundwater monitoring wells.
//
// Elements are qualified with fixed prefixes: ns (isgmw), ns1 (brocommon),
// ns2 (gmwcommon), ns3 (gml) and xsi.
package gmw

import (
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Namespace URIs specific to GMW
const (
	NSMessages = "http://www.broservices.nl/xsd/isgmw/1.1"
	NSCommon   = "http://www.broservices.nl/xsd/gmwcommon/1.1"
)

// Namespaces are declared on every GMW request root
var Namespaces = []broxml.Namespace{
	{Prefix: "ns", URI: NSMessages},
	{Prefix: "ns1", URI: broxml.NSBroCommon},
	{Prefix: "ns2", URI: NSCommon},
	{Prefix: "ns3", URI: broxml.NSGML},
	{Prefix: "xsi", URI: broxml.NSXSI},
}

// codeSpaces maps element names to their BRO code list
var codeSpaces = map[string]string{
	"deliveryContext":              "urn:bro:gmw:DeliveryContext",
	"constructionStandard":         "urn:bro:gmw:ConstructionStandard",
	"initialFunction":              "urn:bro:gmw:InitialFunction",
	"wellHeadProtector":            "urn:bro:gmw:WellHeadProtector",
	"horizontalPositioningMethod":  "urn:bro:gmw:HorizontalPositioningMethod",
	"groundLevelPositioningMethod": "urn:bro:gmw:GroundLevelPositioningMethod",
	"tubeType":                     "urn:bro:gmw:TubeType",
	"tubeStatus":                   "urn:bro:gmw:TubeStatus",
	"tubeTopPositioningMethod":     "urn:bro:gmw:TubeTopPositioningMethod",
	"tubePackingMaterial":          "urn:bro:gmw:TubePackingMaterial",
	"tubeMaterial":                 "urn:bro:gmw:TubeMaterial",
	"glue":                         "urn:bro:gmw:Glue",
	"sockMaterial":                 "urn:bro:gmw:SockMaterial",
	"electrodePackingMaterial":     "urn:bro:gmw:ElectrodePackingMaterial",
	"electrodeStatus":              "urn:bro:gmw:ElectrodeStatus",
	"localVerticalReferencePoint":  "urn:bro:gmw:LocalVerticalReferencePoint",
	"wellStability":                "urn:bro:gmw:WellStability",
	"correctionReason":             "urn:bro:gmw:CorrectionReason",
	"verticalDatum":                "urn:bro:gmw:VerticalDatum",
}

// CodeSpace returns the codeSpace attribute for a GMW element name.
// It panics on names without a code list.
func CodeSpace(name string) broxml.Attr {
	cs, ok := codeSpaces[name]
	if !ok {
		panic("gmw: no codespace for " + name)
	}
	return broxml.CodeSpace(cs)
}

// SRSName is the only coordinate reference system GMW locations are delivered in
const SRSName = "urn:ogc:def:crs:EPSG::28992"
