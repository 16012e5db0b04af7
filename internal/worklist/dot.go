package worklist

import (
	"fmt"
	"io"
)

// PrintDot renders g in GraphViz dot format, in the style of the
// teacher's CFG visualizer: one "from" -> "to" line per edge, signed
// edges annotated with [true]/[false].
func (g *Graph) PrintDot(w io.Writer) {
	fmt.Fprintln(w, "digraph impcheck_cfg {")
	fmt.Fprintln(w, `	mode="heir";`)
	fmt.Fprintln(w, `	splines="ortho";`)
	fmt.Fprintln(w)
	for _, n := range g.nodes {
		for _, e := range g.succs[n] {
			if e.Sign == nil {
				fmt.Fprintf(w, "\t%q -> %q\n", n.Label, e.To.Label)
				continue
			}
			tag := "false"
			if *e.Sign {
				tag = "true"
			}
			fmt.Fprintf(w, "\t%q -> %q [label=%q]\n", n.Label, e.To.Label, tag)
		}
	}
	fmt.Fprintln(w, "}")
}
