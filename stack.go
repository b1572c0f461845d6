package intake

import "github.com/deepnoodle-ai/intake/schema"

// Frame is one navigation-stack entry: a decision point the walker is
// currently inside, plus enough state to redraw its prompt on re-entry.
// Which fields matter depends on Kind: Field is the struct field being
// collected, Items the sequence elements gathered so far, and Variant the
// enum choice whose payload is in flight (-1 while the choice is pending).
type Frame struct {
	Kind    schema.Kind
	Label   string
	Field   int
	Items   int
	Variant int
}

// Stack records the walker's in-flight decision points. It is plain LIFO
// storage: pushes and pops are strictly nested with the walk recursion, and
// what a backtrack means at any given frame is decided by the walker
// handler that owns it, never by the stack.
type Stack struct {
	frames []Frame
}

// Push adds a frame. The walker calls it once on entering a node, before
// any prompt for that node is shown.
func (s *Stack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes and returns the newest frame. It must pair with a preceding
// Push; the walker's entry/exit discipline guarantees that.
func (s *Stack) Pop() Frame {
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Top returns the newest frame for in-place updates, or nil when empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Depth reports how many decision points are in flight. It equals the
// walk's recursion depth: zero exactly when no node is being resolved.
func (s *Stack) Depth() int {
	return len(s.frames)
}
