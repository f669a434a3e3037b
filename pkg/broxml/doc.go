// Package broxml holds the building blocks shared by the BRO sourcedocument
// builders: namespace tables, element helpers, gml:id generation, the
// obligated-argument check and the request lifecycle (serialize, validate,
// deliver). The per-registry builders live in the gmw, gmn, gld and frd
// subpackages.
package broxml
