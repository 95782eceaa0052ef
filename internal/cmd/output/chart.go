package output

import (
	"fmt"
	"io"
	"strings"
)

// chartWidth is the width of the longest bar in characters.
const chartWidth = 40

// BarChart renders a horizontal bar comparison of per-snapshot totals, one
// bar per label. Bars are scaled to the largest absolute value; negative
// totals render with a minus marker.
func BarChart(w io.Writer, title string, labels []string, values []int64) {
	if len(labels) == 0 || len(labels) != len(values) {
		return
	}

	max := int64(0)
	labelWidth := 0
	for i, v := range values {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
		if len(labels[i]) > labelWidth {
			labelWidth = len(labels[i])
		}
	}

	fmt.Fprintln(w, title)
	for i, v := range values {
		bar := ""
		if max > 0 {
			abs := v
			if abs < 0 {
				abs = -abs
			}
			n := int(abs * chartWidth / max)
			if abs > 0 && n == 0 {
				n = 1
			}
			bar = strings.Repeat("█", n)
		}
		marker := ""
		if v < 0 {
			marker = "-"
		}
		fmt.Fprintf(w, "  %-*s  %s%s %d\n", labelWidth, labels[i], marker, bar, v)
	}
}
