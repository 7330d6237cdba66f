// Package relay registers the Relay global identification and cursor
// pagination types: the Node interface, the PageInfo object, and a
// declaration helper for connection types.
package relay

import "github.com/gqlforge/gqlforge/pkg/gqlt"

// Node is the global object identification interface.
var Node = gqlt.BaseInterface("Node",
	&gqlt.Field{Name: "id", Type: gqlt.NonNull(gqlt.ID)},
)

// PageInfo carries the cursor pagination state of a connection.
var PageInfo = gqlt.BaseObject("PageInfo",
	&gqlt.Field{Name: "endCursor", Type: gqlt.String},
	&gqlt.Field{Name: "hasNextPage", Type: gqlt.NonNull(gqlt.Boolean)},
	&gqlt.Field{Name: "hasPreviousPage", Type: gqlt.NonNull(gqlt.Boolean)},
	&gqlt.Field{Name: "startCursor", Type: gqlt.String},
)

// Connection declares an object that follows the connection convention.
// The flag it sets only marks the declaration; fields come from parts
// like any other object.
func Connection(s *gqlt.Schema, name string, parts ...gqlt.ObjectPart) *gqlt.Type {
	t := s.Object(name, parts...)
	t.Connection = true
	return t
}
