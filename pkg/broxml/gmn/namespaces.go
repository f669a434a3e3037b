// Package gmn builds isgmn/1.0 requests for groundwater monitoring networks.
//
// GMN elements are unqualified in the default namespace. Only the shared
// request metadata and dates use the brocom prefix.
package gmn

import (
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

// NSMessages is the default namespace of GMN requests
const NSMessages = "http://www.broservices.nl/xsd/isgmn/1.0"

// Namespaces are declared on every GMN request root
var Namespaces = []broxml.Namespace{
	{URI: NSMessages},
	{Prefix: "brocom", URI: broxml.NSBroCommon},
	{Prefix: "gml", URI: broxml.NSGML},
	{Prefix: "xsi", URI: broxml.NSXSI},
}

// SchemaLocation is written as xsi:schemaLocation on the request root
const SchemaLocation = NSMessages + " https://schema.broservices.nl/xsd/isgmn/1.0/isgmn-messages.xsd"

// Code lists
const (
	CodeSpaceDeliveryContext   = "urn:bro:gmn:DeliveryContext"
	CodeSpaceMonitoringPurpose = "urn:bro:gmn:MonitoringPurpose"
	CodeSpaceGroundwaterAspect = "urn:bro:gmn:GroundwaterAspect"
	CodeSpaceCorrectionReason  = "urn:bro:gmn:CorrectionReason"
)
