package intake

import "github.com/deepnoodle-ai/intake/schema"

// partial is the in-progress value of one container node. The walker needs
// exactly two mutations, both here: fold a produced child in, and shed the
// newest child when the user backtracks over it. Keeping them together
// means each node handler owns its undo behavior without a shared mode
// table.
type partial struct {
	kind   schema.Kind
	keys   []string
	object map[string]any
	list   []any
}

func newPartial(kind schema.Kind) *partial {
	p := &partial{kind: kind}
	switch kind {
	case schema.Struct, schema.Enum:
		p.object = make(map[string]any)
	case schema.Sequence:
		p.list = make([]any, 0)
	}
	return p
}

func (p *partial) len() int {
	if p.object != nil {
		return len(p.keys)
	}
	return len(p.list)
}

// add folds one child answer in. For keyed containers the name is the
// struct field or enum variant; sequences ignore it.
func (p *partial) add(name string, v any) {
	if p.object != nil {
		p.keys = append(p.keys, name)
		p.object[name] = v
		return
	}
	p.list = append(p.list, v)
}

// dropLast discards the newest child, the backtrack counterpart of add.
func (p *partial) dropLast() {
	if p.object != nil {
		if n := len(p.keys); n > 0 {
			delete(p.object, p.keys[n-1])
			p.keys = p.keys[:n-1]
		}
		return
	}
	if n := len(p.list); n > 0 {
		p.list = p.list[:n-1]
	}
}

// value returns the assembled container.
func (p *partial) value() any {
	if p.object != nil {
		return p.object
	}
	return p.list
}
