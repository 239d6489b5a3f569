// Package catalog holds the static, declarative field pattern catalog (C2):
// one LogicalField per canonical semantic slot, loaded once per process and
// never mutated afterwards.
package catalog

import (
	"log"
	"sort"
	"sync"

	"github.com/formsender/core/internal/models"
)

// Catalog is the process-wide, read-only set of LogicalField entries.
type Catalog struct {
	byName  map[string]models.LogicalField
	ordered []models.LogicalField // sorted by Weight descending, built once
}

var (
	once    sync.Once
	shared  *Catalog
)

// Default returns the process-wide catalog, building it on first use.
func Default() *Catalog {
	once.Do(func() {
		shared = build(rawFields())
	})
	return shared
}

// Fields returns the catalog entries ordered by descending weight, the
// iteration order the field mapper (C7) consumes.
func (c *Catalog) Fields() []models.LogicalField {
	return c.ordered
}

// Lookup returns a single entry by canonical name.
func (c *Catalog) Lookup(name string) (models.LogicalField, bool) {
	f, ok := c.byName[name]
	return f, ok
}

func build(fields []models.LogicalField) *Catalog {
	byName := make(map[string]models.LogicalField, len(fields))
	for _, f := range fields {
		if existing, dup := byName[f.Name]; dup {
			// Resolved open question (SPEC_FULL.md §9): two catalog entries
			// collide under this name; keep the larger weight, log once.
			if f.Weight > existing.Weight {
				log.Printf("📋 catalog: duplicate field %q (weights %d, %d) — keeping larger weight %d", f.Name, existing.Weight, f.Weight, f.Weight)
				byName[f.Name] = f
			} else {
				log.Printf("📋 catalog: duplicate field %q (weights %d, %d) — keeping larger weight %d", f.Name, existing.Weight, f.Weight, existing.Weight)
			}
			continue
		}
		byName[f.Name] = f
	}

	ordered := make([]models.LogicalField, 0, len(byName))
	for _, f := range byName {
		ordered = append(ordered, f)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Weight != ordered[j].Weight {
			return ordered[i].Weight > ordered[j].Weight
		}
		return ordered[i].Name < ordered[j].Name // stable tiebreak
	})

	return &Catalog{byName: byName, ordered: ordered}
}
