package mem

// CellsDump provides data for testing.
type CellsDump struct {
	Bases []uint
	Sizes []uint
	Count int
}

// Dump memory layout for testing.
func (m *Cells) Dump() (d CellsDump) {
	d.Bases = m.bases
	d.Sizes = m.sizes
	d.Count = m.count
	return d
}
