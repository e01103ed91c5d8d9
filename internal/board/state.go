package board

import "fmt"

// State is the full container distribution of one board.
//
// State is not safe for concurrent use. The engine serializes access.
type State struct {
	variant    Variant
	containers []*Container // display order
	nextID     TokenID
}

// NewState creates an empty board for the given variant.
func NewState(v Variant) *State {
	s := &State{variant: v}
	s.containers = append(s.containers, newContainer(RedStack, Stack, Red))
	switch v {
	case VariantTwoArea:
		s.containers = append(s.containers,
			newContainer(RedArea, SingleColorArea, Red),
			newContainer(BlueArea, SingleColorArea, Blue),
		)
	default:
		s.variant = VariantBalance
		s.containers = append(s.containers, newContainer(BalanceZone, BalanceArea, 0))
	}
	s.containers = append(s.containers, newContainer(BlueStack, Stack, Blue))
	return s
}

// Default creates a board with stackSize tokens in each stack and empty areas.
//
// Tokens are created red first, then blue.
func Default(v Variant, stackSize int) *State {
	s := NewState(v)
	s.Populate(RedStack, Red, stackSize)
	s.Populate(BlueStack, Blue, stackSize)
	return s
}

// Variant returns the board variant.
func (s *State) Variant() Variant {
	return s.variant
}

// Containers returns the containers in display order.
// The returned containers are live; callers must not mutate the board
// except through the engine.
func (s *State) Containers() []*Container {
	out := make([]*Container, len(s.containers))
	copy(out, s.containers)
	return out
}

// Container looks up a container by tag.
func (s *State) Container(id ContainerID) (*Container, bool) {
	for _, c := range s.containers {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Has reports whether the board has a container with the given tag.
func (s *State) Has(id ContainerID) bool {
	_, ok := s.Container(id)
	return ok
}

// Locate finds the container currently holding token id.
func (s *State) Locate(id TokenID) (*Container, Token, bool) {
	for _, c := range s.containers {
		if i := c.indexOf(id); i >= 0 {
			return c, c.members[i], true
		}
	}
	return nil, Token{}, false
}

// Populate synthesizes n fresh tokens of color col in container id.
// Non-positive n is a no-op.
func (s *State) Populate(id ContainerID, col Color, n int) {
	c, ok := s.Container(id)
	if !ok {
		panic(fmt.Sprintf("board: populate unknown container %q in %s board", id, s.variant))
	}
	for i := 0; i < n; i++ {
		s.nextID++
		c.push(Token{ID: s.nextID, Color: col})
	}
}

// Move takes token id out of its current container and appends it to the
// target. No acceptance rules are applied here.
func (s *State) Move(id TokenID, to ContainerID) bool {
	target, ok := s.Container(to)
	if !ok {
		return false
	}
	from, _, ok := s.Locate(id)
	if !ok {
		return false
	}
	t := from.removeAt(from.indexOf(id))
	target.push(t)
	return true
}

// ReturnOldest removes the least recently added token of color col from
// container id and appends it to the stack of that color.
func (s *State) ReturnOldest(id ContainerID, col Color) (Token, bool) {
	c, ok := s.Container(id)
	if !ok {
		return Token{}, false
	}
	stack, ok := s.Container(StackFor(col))
	if !ok {
		return Token{}, false
	}
	i := c.oldest(col)
	if i < 0 {
		return Token{}, false
	}
	t := c.removeAt(i)
	stack.push(t)
	return t, true
}

// Totals returns the number of tokens of each color across all containers.
func (s *State) Totals() map[Color]int {
	out := map[Color]int{Red: 0, Blue: 0}
	for _, c := range s.containers {
		for _, col := range Colors {
			out[col] += c.Count(col)
		}
	}
	return out
}

// Size returns the number of tokens in container id, or 0 if the board has
// no such container.
func (s *State) Size(id ContainerID) int {
	c, ok := s.Container(id)
	if !ok {
		return 0
	}
	return c.Len()
}

// Clone returns a deep copy of the board.
func (s *State) Clone() *State {
	cp := &State{variant: s.variant, nextID: s.nextID}
	cp.containers = make([]*Container, len(s.containers))
	for i, c := range s.containers {
		cp.containers[i] = c.clone()
	}
	return cp
}
