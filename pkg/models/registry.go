// Package models holds the static model catalog served on GET /v1/models.
//
// The upstream bot API has no model discovery endpoint, so the catalog is
// configuration. The registry is immutable after construction; requests
// naming a model outside the catalog still pass through to the upstream,
// which is the authority on what exists.
package models

import (
	"time"

	"github.com/umleit-dev/umleit/pkg/api"
)

// Descriptor is one configured model entry.
type Descriptor struct {
	ID      string
	OwnedBy string
}

// Registry is an immutable set of model descriptors with a fixed creation
// timestamp, so repeated listings are byte-for-byte identical.
type Registry struct {
	entries []api.Model
}

// NewRegistry builds a registry from descriptors, preserving their order.
// Entries with an empty ID are skipped; an empty OwnedBy defaults to
// "poe". The created timestamp is fixed at construction time.
func NewRegistry(descriptors []Descriptor) *Registry {
	created := time.Now().Unix()
	r := &Registry{}
	for _, d := range descriptors {
		if d.ID == "" {
			continue
		}
		ownedBy := d.OwnedBy
		if ownedBy == "" {
			ownedBy = "poe"
		}
		r.entries = append(r.entries, api.Model{
			ID:      d.ID,
			Object:  api.ObjectModel,
			Created: created,
			OwnedBy: ownedBy,
		})
	}
	return r
}

// List returns the catalog as a Chat Completions model list. The returned
// slice is a copy; callers may not mutate registry state through it.
func (r *Registry) List() api.ModelList {
	data := make([]api.Model, len(r.entries))
	copy(data, r.entries)
	return api.ModelList{
		Object: api.ObjectList,
		Data:   data,
	}
}

// Empty reports whether the registry has no configured models.
func (r *Registry) Empty() bool {
	return len(r.entries) == 0
}
