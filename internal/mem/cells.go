package mem

// DefaultCellsPageSize provides a default for Cells.PageSize.
const DefaultCellsPageSize = 256

// Cells implements a sparse, integer-valued paged memory that remembers which
// addresses have been written. Reading a never written address reports it as
// unset rather than inventing a value.
type Cells struct {
	PagedCore
	pages [][]cell
	count int
}

type cell struct {
	val int
	set bool
}

// Size returns an address one position higher than the last position in the
// last page allocated so far.
func (m *Cells) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Len returns how many distinct addresses have been written.
func (m *Cells) Len() int { return m.count }

// Load returns the value at addr, and whether it was ever written.
// Returns an error if addr exceeds any Limit.
func (m *Cells) Load(addr uint) (val int, set bool, err error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, false, err
	}
	if len(m.pages) == 0 {
		return 0, false, nil
	}
	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if i := int(addr) - int(base); 0 <= i && i < len(page) {
		c := page[i]
		return c.val, c.set, nil
	}
	return 0, false, nil
}

// Stor stores any values at addr, allocating pages if necessary.
// Returns an error if Limit would be exceeded; no partial store is done.
func (m *Cells) Stor(addr uint, values ...int) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(end-1, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultCellsPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			page = page[skip:]
		}
		n := len(values)
		if n > len(page) {
			n = len(page)
		}
		for i, val := range values[:n] {
			if !page[i].set {
				m.count++
			}
			page[i] = cell{val, true}
		}
		values = values[n:]
		addr += uint(n)
	}

	return nil
}

// Each calls f with every written address, in ascending order, until f
// returns false.
func (m *Cells) Each(f func(addr uint, val int) bool) {
	for pageID, page := range m.pages {
		base := m.bases[pageID]
		for i, c := range page {
			if c.set && !f(base+uint(i), c.val) {
				return
			}
		}
	}
}

func (m *Cells) allocPage(pageID int, addr uint) (base, size uint, page []cell) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]cell, size)
		if pageID == len(m.pages) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
