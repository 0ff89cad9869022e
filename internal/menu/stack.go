package menu

import "errors"

// ErrEmptyLevel is returned when pushing a level without items.
var ErrEmptyLevel = errors.New("menu level has no items")

// Level is one screen of the menu hierarchy. Selected is -1 for an empty
// level.
type Level struct {
	ID       string
	Title    string
	Items    []Item
	Selected int
}

// NewLevel returns a level with the first item selected.
func NewLevel(id, title string, items []Item) Level {
	l := Level{ID: id, Title: title, Items: items}
	l.clamp()
	return l
}

func (l *Level) clamp() {
	switch {
	case len(l.Items) == 0:
		l.Selected = -1
	case l.Selected < 0:
		l.Selected = 0
	case l.Selected >= len(l.Items):
		l.Selected = len(l.Items) - 1
	}
}

// Window returns the [start, end) range of items to draw in height rows so
// that the selection stays visible.
func (l Level) Window(height int) (start, end int) {
	n := len(l.Items)
	if height <= 0 || n == 0 {
		return 0, 0
	}
	if n <= height {
		return 0, n
	}
	sel := l.Selected
	if sel < 0 {
		sel = 0
	}
	start = sel - height/2
	if start < 0 {
		start = 0
	}
	if start > n-height {
		start = n - height
	}
	return start, start + height
}

// Stack is the navigation stack. The bottom level is the root and can not
// be popped. A Stack is not safe for concurrent use.
type Stack struct {
	levels []Level
}

// NewStack returns a stack holding root.
func NewStack(root Level) *Stack {
	s := &Stack{}
	s.Reset(root)
	return s
}

// Reset discards every level and makes root the only one.
func (s *Stack) Reset(root Level) {
	root.clamp()
	s.levels = []Level{root}
}

// Push enters a new level with its first item selected. Empty levels are
// refused. The parent keeps its selection for when the level is popped.
func (s *Stack) Push(l Level) error {
	if len(l.Items) == 0 {
		return ErrEmptyLevel
	}
	l.Selected = 0
	s.levels = append(s.levels, l)
	return nil
}

// Pop returns to the parent level. It reports false at the root.
func (s *Stack) Pop() bool {
	if len(s.levels) <= 1 {
		return false
	}
	s.levels = s.levels[:len(s.levels)-1]
	return true
}

// Depth returns the number of levels, 1 at the root.
func (s *Stack) Depth() int {
	return len(s.levels)
}

// Current returns a copy of the top level.
func (s *Stack) Current() Level {
	if len(s.levels) == 0 {
		return Level{Selected: -1}
	}
	l := s.levels[len(s.levels)-1]
	l.Items = append([]Item(nil), l.Items...)
	return l
}

func (s *Stack) top() *Level {
	if len(s.levels) == 0 {
		return nil
	}
	return &s.levels[len(s.levels)-1]
}

// Selected returns the selected index of the top level, or -1.
func (s *Stack) Selected() int {
	if top := s.top(); top != nil {
		return top.Selected
	}
	return -1
}

// SelectedItem returns the selected item of the top level.
func (s *Stack) SelectedItem() (Item, bool) {
	top := s.top()
	if top == nil || top.Selected < 0 || top.Selected >= len(top.Items) {
		return Item{}, false
	}
	return top.Items[top.Selected], true
}

// Next moves the selection down one item.
func (s *Stack) Next() bool { return s.MoveBy(1) }

// Prev moves the selection up one item.
func (s *Stack) Prev() bool { return s.MoveBy(-1) }

// MoveBy moves the selection by n items, stopping at either end. It
// reports whether the selection changed.
func (s *Stack) MoveBy(n int) bool {
	top := s.top()
	if top == nil || len(top.Items) == 0 {
		return false
	}
	return s.SetSelected(top.Selected + n)
}

// SetSelected selects item i, clamped to the level. It reports whether the
// selection changed.
func (s *Stack) SetSelected(i int) bool {
	top := s.top()
	if top == nil || len(top.Items) == 0 {
		return false
	}
	before := top.Selected
	top.Selected = i
	top.clamp()
	return top.Selected != before
}

// Replace swaps the items of every level with the given id, keeping each
// selection within range. It reports whether any level matched.
func (s *Stack) Replace(id string, items []Item) bool {
	found := false
	for i := range s.levels {
		if s.levels[i].ID != id {
			continue
		}
		s.levels[i].Items = items
		s.levels[i].clamp()
		found = true
	}
	return found
}
