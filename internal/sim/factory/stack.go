package factory

// MaxStack is the largest count a single slot may hold.
const MaxStack = 64

type Stack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// takeOne removes a unit from *slot, clearing it when it empties.
func takeOne(slot **Stack) {
	s := *slot
	if s == nil {
		return
	}
	s.Count--
	if s.Count <= 0 {
		*slot = nil
	}
}

// putOne adds a unit of item to *slot. It fails if the slot holds a different
// item or is full.
func putOne(slot **Stack, item string) bool {
	s := *slot
	if s == nil {
		*slot = &Stack{Item: item, Count: 1}
		return true
	}
	if s.Item != item || s.Count >= MaxStack {
		return false
	}
	s.Count++
	return true
}
