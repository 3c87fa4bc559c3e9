package compiler

// maxLocalSlot is the highest slot reachable by the one byte operand of the
// load and store instructions.
const maxLocalSlot = 255

// Variable is a local variable slot.
type Variable struct {
	Name     string
	Type     DataType
	Slot     int
	Final    bool
	Assigned bool
}

type layer struct {
	vars   []*Variable
	parent *layer
}

func (l *layer) find(name string) *Variable {
	for _, v := range l.vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Stack allocates local variable slots for one method. Layers bracket nested
// scopes; slots are never reused, so a variable keeps its slot for the whole
// method.
type Stack struct {
	top  *layer
	next int
}

// NewStack returns a stack with a single root layer, where parameters go.
func NewStack() *Stack {
	return &Stack{top: &layer{}}
}

func (s *Stack) NewLayer() {
	s.top = &layer{parent: s.top}
}

// DropLayer discards the innermost layer. The root layer is never dropped.
func (s *Stack) DropLayer() {
	if s.top.parent == nil {
		panic("compiler: DropLayer on the root layer")
	}
	s.top = s.top.parent
}

// Reserve skips n slots without naming them.
func (s *Stack) Reserve(n int) {
	s.next += n
}

// Push declares name in the innermost layer and allocates its slots.
func (s *Stack) Push(name string, t DataType) (*Variable, error) {
	if s.top.find(name) != nil {
		return nil, &DuplicateVariableError{Name: name}
	}
	slot := s.next
	if last := slot + t.Slots() - 1; last > maxLocalSlot {
		return nil, &TooManyLocalsError{Name: name, Slot: last}
	}
	v := &Variable{Name: name, Type: t, Slot: slot}
	s.top.vars = append(s.top.vars, v)
	s.next += t.Slots()
	log.Debugf("slot %d: %s %s", slot, t, name)
	return v, nil
}

// Get finds name, searching the innermost layer first.
func (s *Stack) Get(name string) (*Variable, bool) {
	for l := s.top; l != nil; l = l.parent {
		if v := l.find(name); v != nil {
			return v, true
		}
	}
	return nil, false
}

func (s *Stack) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// MaxLocals is the number of slots allocated so far.
func (s *Stack) MaxLocals() int {
	return s.next
}
