// Package builder provides label schemes for generated targets.
package builder

import (
	"fmt"
	"strconv"
)

// LabelFn generates a target label from its zero-based index.
// It must be pure: the same idx always yields the same label.
type LabelFn func(idx int) string

// NumberedLabel returns "T1", "T2", … for idx 0, 1, ….
func NumberedLabel(idx int) string {
	return "T" + strconv.Itoa(idx+1)
}

// ExcelColumnLabel returns the Excel-style column name for idx, e.g. 0→"A", 25→"Z", 26→"AA".
// Panics if idx < 0.
func ExcelColumnLabel(idx int) string {
	if idx < 0 {
		panic(fmt.Sprintf("ExcelColumnLabel: idx must be ≥ 0, got %d", idx))
	}
	var runes []rune
	for i := idx; i >= 0; i = i/26 - 1 {
		runes = append(runes, rune('A'+(i%26)))
	}
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return string(runes)
}
