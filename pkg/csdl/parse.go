// Copyright 2025 ChainCodec Authors
//
// Parse drives the YAML-to-Schema conversion: splitting a CSDL source
// text into documents, decoding each document's node tree into a
// rawDoc, and handing off to convert for type resolution and
// validation.
package csdl

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chaincodec/chaincodec/pkg/schema"
)

// rawField is the as-parsed shape of one entry under a document's
// fields: mapping, before its type token has been resolved.
type rawField struct {
	name        string
	typeToken   string
	indexed     bool
	description string
}

// rawDoc is the as-parsed shape of one CSDL document, before field
// types are resolved and before Schema.Validate runs.
type rawDoc struct {
	name           string
	version        int
	chains         []string
	event          string
	fingerprint    string
	fields         []rawField
	description    string
	address        string
	supersedes     int
	supersededBy   int
	deprecated     bool
	meta           schema.SchemaMeta
}

// Parse splits src into CSDL documents and converts each into a
// validated schema.Schema. It returns every ParseError found rather
// than stopping at the first, so a bad schema file can be fixed in one
// pass.
func Parse(src string) ([]schema.Schema, []error) {
	docs := splitDocuments(src)
	var schemas []schema.Schema
	var errs []error

	for i, docText := range docs {
		s, err := parseDocument(i, docText)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		schemas = append(schemas, s)
	}
	return schemas, errs
}

func parseDocument(idx int, docText string) (schema.Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(docText), &root); err != nil {
		return schema.Schema{}, parseErrorf(idx, "invalid YAML: %v", err)
	}
	if len(root.Content) == 0 {
		return schema.Schema{}, parseErrorf(idx, "empty document")
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode || len(mapping.Content) != 2 {
		return schema.Schema{}, parseErrorf(idx, "document must be a single-key mapping (got %d keys)", len(mapping.Content)/2)
	}

	topKey := mapping.Content[0].Value
	body := mapping.Content[1]

	name, err := topLevelName(topKey)
	if err != nil {
		return schema.Schema{}, parseErrorf(idx, "%v", err)
	}

	raw := rawDoc{name: name}
	if err := decodeBody(idx, body, &raw); err != nil {
		return schema.Schema{}, err
	}

	return convert(idx, raw)
}

// topLevelName extracts "Name" from a top-level key literally written
// "schema Name": a scalar key containing a space, which is why the
// document body has to be reached through a yaml.Node rather than an
// ordinary map[string]T key lookup.
func topLevelName(key string) (string, error) {
	parts := strings.Fields(key)
	if len(parts) != 2 || parts[0] != "schema" {
		return "", fmt.Errorf(`top-level key must read "schema <Name>", got %q`, key)
	}
	return parts[1], nil
}

func decodeBody(idx int, body *yaml.Node, raw *rawDoc) error {
	if body.Kind != yaml.MappingNode {
		return parseErrorf(idx, "schema body must be a mapping")
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		val := body.Content[i+1]
		var err error
		switch key {
		case "version":
			err = val.Decode(&raw.version)
		case "chains":
			err = val.Decode(&raw.chains)
		case "event":
			err = val.Decode(&raw.event)
		case "fingerprint":
			err = val.Decode(&raw.fingerprint)
		case "description":
			err = val.Decode(&raw.description)
		case "address":
			err = val.Decode(&raw.address)
		case "supersedes":
			err = val.Decode(&raw.supersedes)
		case "superseded_by":
			err = val.Decode(&raw.supersededBy)
		case "deprecated":
			err = val.Decode(&raw.deprecated)
		case "meta":
			err = decodeMeta(val, &raw.meta)
		case "fields":
			raw.fields, err = decodeFields(idx, val)
		default:
			// unknown keys are ignored rather than rejected, so schema
			// files can add forward-compatible metadata.
		}
		if err != nil {
			return parseErrorf(idx, "key %q: %v", key, err)
		}
	}
	return nil
}

func decodeMeta(n *yaml.Node, m *schema.SchemaMeta) error {
	type metaShape struct {
		Protocol    string   `yaml:"protocol"`
		Category    string   `yaml:"category"`
		Verified    bool     `yaml:"verified"`
		TrustLevel  string   `yaml:"trust_level"`
		Tags        []string `yaml:"tags"`
		SourceURL   string   `yaml:"source_url"`
		AuditedBy   []string `yaml:"audited_by"`
	}
	var shape metaShape
	if err := n.Decode(&shape); err != nil {
		return err
	}
	m.Protocol = shape.Protocol
	m.Category = shape.Category
	m.Verified = shape.Verified
	m.TrustLevel = schema.TrustLevel(shape.TrustLevel)
	m.Tags = shape.Tags
	m.SourceURL = shape.SourceURL
	m.AuditedBy = shape.AuditedBy
	return nil
}

// decodeFields walks the fields mapping's Content array in (key, value)
// pairs, which is the only way gopkg.in/yaml.v3 exposes source order.
// Decoding straight into a map[string]T would lose it.
func decodeFields(idx int, n *yaml.Node) ([]rawField, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("fields must be a mapping")
	}
	out := make([]rawField, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fieldName := n.Content[i].Value
		fieldNode := n.Content[i+1]

		type fieldShape struct {
			Type        string `yaml:"type"`
			Indexed     bool   `yaml:"indexed"`
			Description string `yaml:"description"`
		}
		var shape fieldShape
		if err := fieldNode.Decode(&shape); err != nil {
			return nil, fmt.Errorf("field %q: %v", fieldName, err)
		}
		out = append(out, rawField{
			name:        fieldName,
			typeToken:   shape.Type,
			indexed:     shape.Indexed,
			description: shape.Description,
		})
	}
	return out, nil
}
