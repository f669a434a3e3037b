// Package frd builds isfrd/1.0 requests for formation resistance dossiers.
//
// A dossier is opened with an FRD_StartRegistration. Geo-electric measurement
// configurations and measurements are added with their own sourcedocuments
// until the dossier is closed with an FRD_Closure.
package frd

import (
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Namespace URIs specific to FRD
const (
	NSMessages = "http://www.broservices.nl/xsd/isfrd/1.0"
	NSCommon   = "http://www.broservices.nl/xsd/frdcommon/1.0"
)

// SchemaLocation is written as xsi:schemaLocation on the request root
const SchemaLocation = NSMessages + " ../../XSD/isfrd-messages.xsd"

var (
	// Namespaces are declared on requests holding a start registration or configuration
	Namespaces = []broxml.Namespace{
		{URI: NSMessages},
		{Prefix: "frdcom", URI: NSCommon},
		{Prefix: "brocom", URI: broxml.NSBroCommon},
		{Prefix: "gml", URI: broxml.NSGML},
		{Prefix: "xsi", URI: broxml.NSXSI},
	}

	// MeasurementNamespaces are declared on requests holding a measurement or closure
	MeasurementNamespaces = []broxml.Namespace{
		{URI: NSMessages},
		{Prefix: "frdcom", URI: NSCommon},
		{Prefix: "brocom", URI: broxml.NSBroCommon},
		{Prefix: "swe", URI: broxml.NSSWE},
		{Prefix: "gml", URI: broxml.NSGML},
		{Prefix: "xlink", URI: broxml.NSXLink},
		{Prefix: "xsi", URI: broxml.NSXSI},
	}
)

// Code lists
const (
	CodeSpaceCorrectionReason       = "urn:bro:frd:CorrectionReason"
	CodeSpaceDeterminationProcedure = "urn:bro:frd:DeterminationProcedure"
	CodeSpaceEvaluationProcedure    = "urn:bro:frd:EvaluationProcedure"
)
