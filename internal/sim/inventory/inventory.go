// Package inventory holds the player's item slots: a hotbar followed by the
// main inventory.
package inventory

import (
	"sort"

	"idlecraft.ai/internal/sim/factory"
)

type Slot struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type Inventory struct {
	hotbar []*Slot
	main   []*Slot
}

func New(hotbarSlots, mainSlots int) *Inventory {
	return &Inventory{
		hotbar: make([]*Slot, hotbarSlots),
		main:   make([]*Slot, mainSlots),
	}
}

// Add stores up to n units: existing stacks first (hotbar, then main), then
// empty slots in the same order. It returns how many units were stored.
func (inv *Inventory) Add(item string, n int) int {
	if item == "" || n <= 0 {
		return 0
	}
	left := n
	for _, area := range [][]*Slot{inv.hotbar, inv.main} {
		for _, s := range area {
			if left == 0 {
				return n
			}
			if s != nil && s.Item == item && s.Count < factory.MaxStack {
				k := min(left, factory.MaxStack-s.Count)
				s.Count += k
				left -= k
			}
		}
	}
	for _, area := range [][]*Slot{inv.hotbar, inv.main} {
		for i, s := range area {
			if left == 0 {
				return n
			}
			if s == nil {
				k := min(left, factory.MaxStack)
				area[i] = &Slot{Item: item, Count: k}
				left -= k
			}
		}
	}
	return n - left
}

// Remove takes n units or nothing. Main inventory drains before the hotbar,
// each from its last slot backwards.
func (inv *Inventory) Remove(item string, n int) bool {
	if n <= 0 || inv.Count(item) < n {
		return false
	}
	left := n
	for _, area := range [][]*Slot{inv.main, inv.hotbar} {
		for i := len(area) - 1; i >= 0 && left > 0; i-- {
			s := area[i]
			if s == nil || s.Item != item {
				continue
			}
			k := min(left, s.Count)
			s.Count -= k
			left -= k
			if s.Count == 0 {
				area[i] = nil
			}
		}
	}
	return true
}

func (inv *Inventory) Count(item string) int {
	n := 0
	for _, area := range [][]*Slot{inv.hotbar, inv.main} {
		for _, s := range area {
			if s != nil && s.Item == item {
				n += s.Count
			}
		}
	}
	return n
}

// CanAdd reports whether every stack would fit without overflow.
func (inv *Inventory) CanAdd(stacks []factory.Stack) bool {
	dry := inv.clone()
	for _, s := range stacks {
		if dry.Add(s.Item, s.Count) != s.Count {
			return false
		}
	}
	return true
}

func (inv *Inventory) clone() *Inventory {
	c := New(len(inv.hotbar), len(inv.main))
	for i, s := range inv.hotbar {
		if s != nil {
			cp := *s
			c.hotbar[i] = &cp
		}
	}
	for i, s := range inv.main {
		if s != nil {
			cp := *s
			c.main[i] = &cp
		}
	}
	return c
}

// Slots returns a copy of all slots, hotbar first. Empty slots are nil.
func (inv *Inventory) Slots() []*Slot {
	out := make([]*Slot, 0, len(inv.hotbar)+len(inv.main))
	for _, area := range [][]*Slot{inv.hotbar, inv.main} {
		for _, s := range area {
			if s == nil {
				out = append(out, nil)
				continue
			}
			cp := *s
			out = append(out, &cp)
		}
	}
	return out
}

// Seed fills the inventory from a starter map in sorted item order.
func (inv *Inventory) Seed(items map[string]int) {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		inv.Add(k, items[k])
	}
}
