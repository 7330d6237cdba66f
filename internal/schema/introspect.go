package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gqlforge/gqlforge/internal/graphql"
)

// introspectionQuery is the standard introspection operation. The
// TypeRef fragment requests seven wrapper levels, deep enough for any
// practical list/non-null nesting.
const introspectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name
      description
      locations
      args { ...InputValue }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args { ...InputValue }
    type { ...TypeRef }
    isDeprecated
    deprecationReason
  }
  inputFields { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes { ...TypeRef }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

// Introspect runs the standard introspection query against endpoint and
// returns the result in query-envelope form (indented, ready to write to
// a file) alongside the loaded Document.
func Introspect(ctx context.Context, client *graphql.Client, endpoint string, headers map[string]string) ([]byte, *Document, error) {
	resp, err := client.Do(ctx, endpoint, graphql.Request{Query: introspectionQuery}, headers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to introspect %s: %w", endpoint, err)
	}

	doc, err := LoadBytes(resp.Data)
	if err != nil {
		return nil, nil, err
	}

	var envelope bytes.Buffer
	envelope.WriteString(`{"data":`)
	envelope.Write(resp.Data)
	envelope.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, envelope.Bytes(), "", "  "); err != nil {
		return nil, nil, fmt.Errorf("failed to format introspection result: %w", err)
	}
	return out.Bytes(), doc, nil
}
