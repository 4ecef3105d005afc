package outputset

// EnumerateLayers returns every non-empty layer on the given channel count:
// all matchings of comparator pairs (a, b) with a < b over disjoint
// channels. The enumeration order is deterministic. The count is the
// telephone number T(n) minus one (2619 for n = 9).
func EnumerateLayers(channels int) []Layer {
	if channels < 1 || channels > MaxChannels {
		panic("outputset: channel count out of range")
	}
	var layers []Layer
	var current Layer
	var walk func(used uint16)
	walk = func(used uint16) {
		// Lowest unused channel either stays untouched or pairs with any
		// higher unused channel; recursing on the lowest first keeps the
		// enumeration canonical.
		a := -1
		for c := 0; c < channels; c++ {
			if used&(1<<c) == 0 {
				a = c
				break
			}
		}
		if a == -1 || channels-a < 2 {
			if len(current) > 0 {
				layers = append(layers, append(Layer(nil), current...))
			}
			return
		}
		// Leave channel a unpaired.
		walk(used | 1<<a)
		for b := a + 1; b < channels; b++ {
			if used&(1<<b) != 0 {
				continue
			}
			current = append(current, Comparator{A: a, B: b})
			walk(used | 1<<a | 1<<b)
			current = current[:len(current)-1]
		}
	}
	walk(0)
	return layers
}
