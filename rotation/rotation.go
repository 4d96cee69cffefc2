// Package rotation tracks the ordered list of connected players and which of
// them is the current denner (the per-round host). Not safe for concurrent
// use; callers serialize access through the owning room.
package rotation

// Rotation advances cyclically through player ids in join order.
type Rotation struct {
	order   []string
	current int
}

func New() *Rotation {
	return &Rotation{current: -1}
}

// Add appends a player id to the rotation order. The first player added
// becomes the current denner.
func (r *Rotation) Add(id string) {
	r.order = append(r.order, id)
	if r.current < 0 {
		r.current = 0
	}
}

// Remove drops an id from the rotation. If the removed id was the current
// denner, the denner moves to the next id in order; Remove reports whether
// the current denner changed.
func (r *Rotation) Remove(id string) bool {
	idx := -1
	for i, v := range r.order {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	wasCurrent := idx == r.current
	r.order = append(r.order[:idx], r.order[idx+1:]...)

	if len(r.order) == 0 {
		r.current = -1
		return wasCurrent
	}

	if idx < r.current {
		r.current--
	} else if wasCurrent && r.current >= len(r.order) {
		r.current = 0
	}
	return wasCurrent
}

// Current returns the active denner id, or "" when the rotation is empty.
func (r *Rotation) Current() string {
	if r.current < 0 || r.current >= len(r.order) {
		return ""
	}
	return r.order[r.current]
}

// Advance moves the denner to the next id in order and returns it.
func (r *Rotation) Advance() string {
	if len(r.order) == 0 {
		return ""
	}
	r.current = (r.current + 1) % len(r.order)
	return r.order[r.current]
}

func (r *Rotation) Len() int {
	return len(r.order)
}

// Order returns a copy of the rotation order.
func (r *Rotation) Order() []string {
	return append([]string(nil), r.order...)
}

// Contains reports whether the id is part of the rotation.
func (r *Rotation) Contains(id string) bool {
	for _, v := range r.order {
		if v == id {
			return true
		}
	}
	return false
}
