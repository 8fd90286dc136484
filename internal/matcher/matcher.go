// Package matcher resolves attendance names to registered people and work
// codes to registered work patterns.
package matcher

import (
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/normalize"
	"github.com/ishiyama1989/koutuhi/internal/registry"
)

type Status string

const (
	StatusOK           Status = "OK"
	StatusNoCar        Status = "自家用車なし"
	StatusUnregistered Status = "未登録"
)

// FindPerson tries, in order: the trimmed raw name against registered raw
// names, the normalized name against registered raw names, then the
// normalized name against normalized registered names. Registry entries stored
// with inconsistent spacing are still found.
func FindPerson(snap registry.Snapshot, raw string) *registry.Person {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for i := range snap.People {
		if snap.People[i].Name == trimmed {
			return &snap.People[i]
		}
	}

	norm := normalize.Name(raw)
	for i := range snap.People {
		if snap.People[i].Name == norm {
			return &snap.People[i]
		}
	}
	for i := range snap.People {
		if normalize.Name(snap.People[i].Name) == norm {
			return &snap.People[i]
		}
	}
	return nil
}

// StatusOf is a display tag. A person without a car can still have a cost
// through the nearest-station rules.
func StatusOf(p *registry.Person) Status {
	switch {
	case p == nil:
		return StatusUnregistered
	case p.HasPrivateCar:
		return StatusOK
	default:
		return StatusNoCar
	}
}

// FindWorkPattern returns the first pattern whose name equals or contains the
// work code, or is contained in it, and then falls back to the first pattern
// registered for workLocation. Ties resolve to registration order.
func FindWorkPattern(snap registry.Snapshot, workLocation, code string) *registry.WorkPattern {
	code = strings.TrimSpace(code)
	if code != "" {
		for i := range snap.Patterns {
			name := strings.TrimSpace(snap.Patterns[i].Name)
			if name != "" && (strings.Contains(code, name) || strings.Contains(name, code)) {
				return &snap.Patterns[i]
			}
		}
	}

	if workLocation == "" {
		return nil
	}
	for i := range snap.Patterns {
		if snap.Patterns[i].WorkLocation == workLocation {
			return &snap.Patterns[i]
		}
	}
	return nil
}
