package broxml

import "github.com/beevik/etree"

// Namespace URIs shared by more than one registry.
const (
	NSBroCommon = "http://www.broservices.nl/xsd/brocommon/3.0"
	NSGML       = "http://www.opengis.net/gml/3.2"
	NSXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	NSXLink     = "http://www.w3.org/1999/xlink"
	NSSWE       = "http://www.opengis.net/swe/2.0"
	NSOM        = "http://www.opengis.net/om/2.0"
	NSWaterML   = "http://www.opengis.net/waterml/2.0"
	NSGMD       = "http://www.isotc211.org/2005/gmd"
	NSGCO       = "http://www.isotc211.org/2005/gco"
)

// Namespace binds a prefix to a URI. An empty Prefix is the default namespace.
type Namespace struct {
	Prefix string
	URI    string
}

// Declare writes the xmlns declarations for namespaces onto el, in order.
func Declare(el *etree.Element, namespaces ...Namespace) {
	for _, ns := range namespaces {
		if ns.Prefix == "" {
			el.CreateAttr("xmlns", ns.URI)
			continue
		}
		el.CreateAttr("xmlns:"+ns.Prefix, ns.URI)
	}
}

// SchemaLocation sets xsi:schemaLocation on el
func SchemaLocation(el *etree.Element, location string) {
	el.CreateAttr("xsi:schemaLocation", location)
}
