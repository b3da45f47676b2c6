package docschema

import (
	"log/slog"
	"slices"
)

// Order places every class without reference members before every class
// with one, otherwise keeping corpus order.
//
// This is a one-level ordering, not a topological sort. A dependent class
// referring to another dependent class is logged as a warning.
func Order(c *Corpus, logger *slog.Logger) []*Class {
	if logger == nil {
		logger = slog.Default()
	}

	out := slices.Clone(c.Classes)
	slices.SortStableFunc(out, func(a, b *Class) int {
		return dependRank(a) - dependRank(b)
	})

	dependent := make(map[string]bool)
	for _, cls := range out {
		if cls.HasReferences() {
			dependent[cls.Name] = true
		}
	}
	for _, cls := range out {
		for _, target := range cls.ReferencedClasses() {
			if dependent[target] && target != cls.Name {
				logger.Warn("dependent class references another dependent class", "file", cls.File, "class", cls.Name, "target", target)
			}
		}
	}
	return out
}

func dependRank(c *Class) int {
	if c.HasReferences() {
		return 1
	}
	return 0
}
