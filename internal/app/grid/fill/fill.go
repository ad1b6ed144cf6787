// Package fill computes which day columns a fill-handle drag writes to.
//
// The handle is only offered on a single selected cell with data; while
// it is dragged, the source cell's value is re-decoded and written into
// every day column between the source and the hovered cell.
package fill

// Span returns the day columns to overwrite when the fill handle is
// dragged from source to target, inclusive of the target and in either
// direction. The source column itself is excluded (it already holds the
// value), so dragging back to the source yields nothing.
func Span(source, target int) []int {
	if source == target {
		return nil
	}
	step := 1
	if target < source {
		step = -1
	}
	out := make([]int, 0, abs(target-source))
	for c := source + step; ; c += step {
		out = append(out, c)
		if c == target {
			break
		}
	}
	return out
}

// Targets is Span guarded by the source value: an empty source cell
// propagates nothing no matter how far the handle travels.
func Targets(sourceValue string, source, target int) []int {
	if sourceValue == "" {
		return nil
	}
	return Span(source, target)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
