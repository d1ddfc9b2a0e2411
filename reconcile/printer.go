package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"config-reconciler/plain"
)

// indent is the prefix added per nesting level.
const indent = "    "

// Render returns the indented, order-preserving text form of m: one
// "key: value" line per leaf, and a "key:" header line above each nested map.
func Render(m *plain.Map) string {
	var b strings.Builder
	_ = Fprint(&b, m)

	return b.String()
}

// Fprint writes the Render form of m to w.
func Fprint(w io.Writer, m *plain.Map) error {
	bw := bufio.NewWriter(w)
	printLevel(bw, m, 0)

	return bw.Flush()
}

func printLevel(w *bufio.Writer, m *plain.Map, depth int) {
	prefix := strings.Repeat(indent, depth)

	m.Range(func(key string, value any) bool {
		if sub, ok := asMapping(value); ok {
			fmt.Fprintf(w, "%s%s:\n", prefix, key)
			printLevel(w, sub, depth+1)

			return true
		}

		fmt.Fprintf(w, "%s%s: %v\n", prefix, key, value)

		return true
	})
}
