package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const gitSchemaYAML = `
schema:
  kind: struct
  fields:
    - name: subcommand
      doc: What to do
      schema:
        kind: enum
        variants:
          - name: Commit
            payload:
              kind: struct
              fields:
                - name: message
                  schema:
                    kind: optional
                    inner:
                      kind: string
          - name: Clone
            payload:
              kind: struct
              fields:
                - name: address
                  schema:
                    kind: sequence
                    item:
                      kind: string
    - name: arg
      schema:
        kind: string
`

func TestParseYAML(t *testing.T) {
	node, err := ParseYAML([]byte(gitSchemaYAML))
	require.NoError(t, err)

	require.Equal(t, Struct, node.Kind)
	require.Len(t, node.Fields, 2)
	require.Equal(t, "subcommand", node.Fields[0].Name)
	require.Equal(t, "What to do", node.Fields[0].Doc)

	sub := node.Fields[0].Schema
	require.Equal(t, Enum, sub.Kind)
	require.Len(t, sub.Variants, 2)
	require.Equal(t, "Commit", sub.Variants[0].Name)

	clone := sub.Variants[1].Payload
	require.Equal(t, Struct, clone.Kind)
	require.Equal(t, Sequence, clone.Fields[0].Schema.Kind)
	require.Equal(t, String, clone.Fields[0].Schema.Item.Kind)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"schema": {
			"kind": "sequence",
			"minItems": 1,
			"item": {"kind": "integer"}
		}
	}`)
	node, err := ParseJSON(data)
	require.NoError(t, err)
	require.Equal(t, Sequence, node.Kind)
	require.Equal(t, 1, node.MinItems)
	require.Equal(t, Integer, node.Item.Kind)
}

func TestResolveDefinitions(t *testing.T) {
	data := []byte(`
definitions:
  Address:
    kind: struct
    fields:
      - name: host
        schema: {kind: string}
      - name: port
        schema: {kind: integer}
  Endpoint:
    kind: struct
    fields:
      - name: address
        schema: {kind: ref, ref: Address}
      - name: secure
        schema: {kind: bool}
schema:
  kind: struct
  fields:
    - name: primary
      schema: {kind: ref, ref: Endpoint}
    - name: fallbacks
      schema:
        kind: sequence
        item: {kind: ref, ref: Endpoint}
`)
	node, err := ParseYAML(data)
	require.NoError(t, err)

	primary := node.Fields[0].Schema
	require.Equal(t, Struct, primary.Kind)
	require.Equal(t, "address", primary.Fields[0].Name)
	require.Equal(t, Struct, primary.Fields[0].Schema.Kind)
	require.Equal(t, "host", primary.Fields[0].Schema.Fields[0].Name)

	// Each use of a definition gets its own copy: mutating one resolved
	// subtree must not show through elsewhere.
	fallback := node.Fields[1].Schema.Item
	require.Equal(t, primary, fallback)
	fallback.Fields[0].Schema.Fields[0].Name = "mutated"
	require.Equal(t, "host", primary.Fields[0].Schema.Fields[0].Name)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing schema",
			doc:     `definitions: {}`,
			wantErr: "document has no schema",
		},
		{
			name: "unknown reference",
			doc: `
schema: {kind: ref, ref: Nowhere}
`,
			wantErr: `unknown definition "Nowhere"`,
		},
		{
			name: "direct cycle",
			doc: `
definitions:
  Loop:
    kind: optional
    inner: {kind: ref, ref: Loop}
schema: {kind: ref, ref: Loop}
`,
			wantErr: `cyclic reference "Loop"`,
		},
		{
			name: "mutual cycle",
			doc: `
definitions:
  A:
    kind: optional
    inner: {kind: ref, ref: B}
  B:
    kind: sequence
    item: {kind: ref, ref: A}
schema: {kind: ref, ref: A}
`,
			wantErr: "cyclic reference",
		},
		{
			name: "resolved tree still validated",
			doc: `
definitions:
  Bad: {kind: optional}
schema: {kind: ref, ref: Bad}
`,
			wantErr: "optional node has no inner schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "git.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(gitSchemaYAML), 0o644))
	node, err := LoadFile(yamlPath)
	require.NoError(t, err)
	require.Equal(t, Struct, node.Kind)

	jsonPath := filepath.Join(dir, "num.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"schema": {"kind": "number"}}`), 0o644))
	node, err = LoadFile(jsonPath)
	require.NoError(t, err)
	require.Equal(t, Number, node.Kind)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	tomlPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("x = 1"), 0o644))
	_, err = LoadFile(tomlPath)
	require.ErrorContains(t, err, "unsupported schema file extension")
}
