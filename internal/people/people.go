// Package people resolves the names printed on statements to configured household members.
package people

import (
	"strings"

	"github.com/ledgerlift/statex/internal/config"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// Directory provides in-memory lookup over the configured people.
type Directory struct {
	people []config.Person
	byID   map[string]config.Person
	byName map[string]config.Person
}

// NewDirectory indexes people by ID and by every name and alias, case-insensitively.
func NewDirectory(people []config.Person) *Directory {
	d := &Directory{
		people: people,
		byID:   make(map[string]config.Person, len(people)),
		byName: make(map[string]config.Person, len(people)),
	}
	for _, p := range people {
		d.byID[p.ID] = p
		d.byName[key(p.Name)] = p
		for _, a := range p.Aliases {
			d.byName[key(a)] = p
		}
	}
	return d
}

// All returns all people.
func (d *Directory) All() []config.Person {
	return d.people
}

// Get returns a person by ID.
func (d *Directory) Get(id string) (config.Person, bool) {
	p, ok := d.byID[id]
	return p, ok
}

// Exists reports whether a person ID exists.
func (d *Directory) Exists(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// Resolve maps a raw statement name to the configured display name. Unknown
// names come back title-cased.
func (d *Directory) Resolve(raw string) string {
	raw = textnorm.Collapse(raw)
	if raw == "" {
		return ""
	}
	if p, ok := d.byName[key(raw)]; ok {
		return p.Name
	}
	return textnorm.TitleCase(raw)
}

func key(s string) string {
	return strings.ToLower(textnorm.Collapse(s))
}
