package factory

// Deposit stores amount units of item. Partial same-item stacks are topped up
// first, in slot order, then empty slots are used. The deposit is
// all-or-nothing: when the chest cannot absorb the full amount nothing moves.
func (c *Chest) Deposit(item string, amount int) bool {
	if item == "" || amount <= 0 {
		return false
	}
	room := 0
	for _, s := range c.Slots {
		switch {
		case s == nil:
			room += MaxStack
		case s.Item == item && s.Count < MaxStack:
			room += MaxStack - s.Count
		}
	}
	if room < amount {
		return false
	}

	left := amount
	for _, s := range c.Slots {
		if left == 0 {
			break
		}
		if s != nil && s.Item == item && s.Count < MaxStack {
			n := min(left, MaxStack-s.Count)
			s.Count += n
			left -= n
		}
	}
	for i, s := range c.Slots {
		if left == 0 {
			break
		}
		if s == nil {
			n := min(left, MaxStack)
			c.Slots[i] = &Stack{Item: item, Count: n}
			left -= n
		}
	}
	return true
}

// Withdraw takes amount units of item from the first slot holding at least
// that many. Quantities spread across several slots are not pooled.
func (c *Chest) Withdraw(item string, amount int) bool {
	if item == "" || amount <= 0 {
		return false
	}
	for i, s := range c.Slots {
		if s == nil || s.Item != item || s.Count < amount {
			continue
		}
		s.Count -= amount
		if s.Count == 0 {
			c.Slots[i] = nil
		}
		return true
	}
	return false
}

// Total counts every unit of item across all slots.
func (c *Chest) Total(item string) int {
	n := 0
	for _, s := range c.Slots {
		if s != nil && s.Item == item {
			n += s.Count
		}
	}
	return n
}
