package schema

// Kind identifies the shape of a Node.
type Kind string

const (
	Null     Kind = "null"
	Bool     Kind = "bool"
	Integer  Kind = "integer"
	Number   Kind = "number"
	String   Kind = "string"
	Optional Kind = "optional"
	Sequence Kind = "sequence"
	Enum     Kind = "enum"
	Struct   Kind = "struct"

	// Ref names an entry in a Document's definitions. Refs only exist in
	// schema documents on disk; the loader resolves them before a Node
	// reaches the walker.
	Ref Kind = "ref"
)

// Node describes the shape of one value to collect. A Node is a tagged
// union: Kind selects which of the remaining fields are meaningful. Nodes
// are immutable once constructed; a parse session only reads them.
type Node struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Description is shown as help text beside the prompt for this node.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Inner is the wrapped schema of an Optional node.
	Inner *Node `json:"inner,omitempty" yaml:"inner,omitempty"`

	// Item is the element schema of a Sequence node. MinItems elements are
	// collected without asking; MaxItems of zero means unbounded.
	Item     *Node `json:"item,omitempty" yaml:"item,omitempty"`
	MinItems int   `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems int   `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// Variants are the choices of an Enum node, in declaration order.
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Fields are the members of a Struct node, in declaration order.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Match is an optional glob pattern a String answer must satisfy.
	Match string `json:"match,omitempty" yaml:"match,omitempty"`

	// Ref is the definition name referenced by a Ref node.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Variant is one choice of an Enum node. A nil Payload (or an empty Struct
// payload) makes it a unit variant: selecting it produces the variant name
// with no further prompts.
type Variant struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Payload     *Node  `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Field is one member of a Struct node. Doc is shown as help text when the
// field is prompted for.
type Field struct {
	Name   string `json:"name" yaml:"name"`
	Doc    string `json:"doc,omitempty" yaml:"doc,omitempty"`
	Schema *Node  `json:"schema" yaml:"schema"`
}

// IsUnit reports whether a variant payload carries no data to collect.
func (v Variant) IsUnit() bool {
	return v.Payload == nil || (v.Payload.Kind == Struct && len(v.Payload.Fields) == 0)
}

// clone returns a deep copy of the node. The loader uses it to keep resolved
// documents tree-shaped even when several refs share a definition.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Inner = n.Inner.clone()
	out.Item = n.Item.clone()
	if n.Variants != nil {
		out.Variants = make([]Variant, len(n.Variants))
		for i, v := range n.Variants {
			v.Payload = v.Payload.clone()
			out.Variants[i] = v
		}
	}
	if n.Fields != nil {
		out.Fields = make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			f.Schema = f.Schema.clone()
			out.Fields[i] = f
		}
	}
	return &out
}
