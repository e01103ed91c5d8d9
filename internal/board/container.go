package board

// Container is a named, ordered holder of tokens.
//
// Members are kept in insertion order; the last member is the top.
type Container struct {
	ID   ContainerID
	Kind Kind

	// Accepts is the only color a Stack or SingleColorArea holds.
	// It is ignored for a BalanceArea.
	Accepts Color

	members []Token
}

func newContainer(id ContainerID, kind Kind, accepts Color) *Container {
	return &Container{ID: id, Kind: kind, Accepts: accepts}
}

// Len returns the number of tokens in the container.
func (c *Container) Len() int {
	return len(c.members)
}

// Count returns the number of tokens of color col.
func (c *Container) Count(col Color) int {
	n := 0
	for _, t := range c.members {
		if t.Color == col {
			n++
		}
	}
	return n
}

// Members returns a copy of the members in insertion order.
func (c *Container) Members() []Token {
	out := make([]Token, len(c.members))
	copy(out, c.members)
	return out
}

// Top returns the most recently added token.
func (c *Container) Top() (Token, bool) {
	if len(c.members) == 0 {
		return Token{}, false
	}
	return c.members[len(c.members)-1], true
}

// Color returns the color currently held by the container.
// For an empty container ok is false. For a balance area observed outside
// the engine there is never more than one color.
func (c *Container) Color() (col Color, ok bool) {
	if len(c.members) == 0 {
		return 0, false
	}
	return c.members[0].Color, true
}

// AcceptsColor reports whether a token of color col may rest here.
func (c *Container) AcceptsColor(col Color) bool {
	if c.Kind == BalanceArea {
		return col.Valid()
	}
	return c.Accepts == col
}

func (c *Container) indexOf(id TokenID) int {
	for i, t := range c.members {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *Container) push(t Token) {
	c.members = append(c.members, t)
}

// removeAt removes and returns the member at index i.
func (c *Container) removeAt(i int) Token {
	t := c.members[i]
	c.members = append(c.members[:i], c.members[i+1:]...)
	return t
}

// oldest returns the index of the least recently added token of color col.
func (c *Container) oldest(col Color) int {
	for i, t := range c.members {
		if t.Color == col {
			return i
		}
	}
	return -1
}

func (c *Container) clone() *Container {
	cp := *c
	if c.members != nil {
		cp.members = c.Members()
	}
	return &cp
}
