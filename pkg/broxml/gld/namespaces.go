// Package gld builds isgld/1.0 requests for groundwater level dossiers.
//
// A dossier is opened with a GLD_StartRegistration and filled with
// GLD_Addition documents, each carrying one OM_Observation timeseries.
package gld

import (
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// Namespace URIs specific to GLD
const (
	NSMessages = "http://www.broservices.nl/xsd/isgld/1.0"
	NSCommon   = "http://www.broservices.nl/xsd/gldcommon/1.0"
)

// SchemaLocation is written as xsi:schemaLocation on the request root
const SchemaLocation = NSMessages + " https://schema.broservices.nl/xsd/isgld/1.0/isgld-messages.xsd"

var (
	// StartNamespaces are declared on requests holding a start registration
	StartNamespaces = []broxml.Namespace{
		{URI: NSMessages},
		{Prefix: "brocom", URI: broxml.NSBroCommon},
		{Prefix: "gldcom", URI: NSCommon},
		{Prefix: "gml", URI: broxml.NSGML},
		{Prefix: "xsi", URI: broxml.NSXSI},
	}

	// ObservationNamespaces are declared on requests holding an observation
	ObservationNamespaces = []broxml.Namespace{
		{URI: NSMessages},
		{Prefix: "wml2", URI: broxml.NSWaterML},
		{Prefix: "gmd", URI: broxml.NSGMD},
		{Prefix: "gco", URI: broxml.NSGCO},
		{Prefix: "om", URI: broxml.NSOM},
		{Prefix: "swe", URI: broxml.NSSWE},
		{Prefix: "xlink", URI: broxml.NSXLink},
		{Prefix: "brocom", URI: broxml.NSBroCommon},
		{Prefix: "gldcom", URI: NSCommon},
		{Prefix: "gml", URI: broxml.NSGML},
		{Prefix: "xsi", URI: broxml.NSXSI},
	}
)

// Code lists and definitions
const (
	CodeListRoleCode                     = "urn:ISO:19115:CI_RoleCode"
	DefPrincipalInvestigator             = "urn:bro:gld:ObservationMetadata:principalInvestigator"
	DefObservationType                   = "urn:bro:gld:ObservationMetadata:observationType"
	CodeSpaceObservationType             = "urn:bro:gld:ObservationType"
	CodeSpaceStatusCode                  = "urn:bro:gld:StatusCode"
	DefAirPressureCompensationType       = "urn:bro:gld:ObservationProcess:airPressureCompensationType"
	CodeSpaceAirPressureCompensationType = "urn:bro:gld:AirPressureCompensationType"
	DefEvaluationProcedure               = "urn:bro:gld:ObservationProcess:evaluationProcedure"
	CodeSpaceEvaluationProcedure         = "urn:bro:gld:EvaluationProcedure"
	DefMeasurementInstrumentType         = "urn:bro:gld:ObservationProcess:measurementInstrumentType"
	CodeSpaceMeasurementInstrumentType   = "urn:bro:gld:MeasurementInstrumentType"
	CodeSpaceProcessReference            = "urn:bro:gld:ProcessReference"
	CodeSpaceStatusQualityControl        = "urn:bro:gld:StatusQualityControl"
	DefCensoringLimitValue               = "urn:bro:gld:PointMetadata:censoringLimitvalue"
	CodeSpaceCorrectionReason            = "urn:bro:gld:CorrectionReason"
)

// Fixed WaterML references
const (
	ObservationTypeTimeseries = "http://www.opengis.net/def/observationType/waterml/2.0/MeasurementTimeseriesTVPObservation"
	DefaultProcessType        = "http://www.opengis.net/def/waterml/2.0/processType/Algorithm"
	DefaultProcessReference   = "NEN5120v1991"
	interpolationTypeBase     = "http://www.opengis.net/def/waterml/2.0/interpolationType/"
	censoredReasonBase        = "http://www.opengis.net/def/nil/OGC/0/"
)
