package main

// buildLabels records the index of every mark instruction, so that jumps and
// calls resolve whether their target comes before or after them.
func buildLabels(prog Program) (map[Label]int, error) {
	labels := make(map[Label]int)
	for i, inst := range prog {
		if inst.Op != OpMark {
			continue
		}
		if first, defined := labels[inst.Label]; defined {
			return nil, &LabelError{Label: inst.Label, First: first, Second: i}
		}
		labels[inst.Label] = i
	}
	return labels, nil
}
