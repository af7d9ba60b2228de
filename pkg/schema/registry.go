// Copyright 2025 ChainCodec Authors
//
// Registry is the in-memory schema store: fingerprint, name+version,
// and chain indexes over the same set of Schema records, plus the
// version-lineage bookkeeping (Deprecated/SupersededBy) that keeps a
// schema's upgrade history queryable.
package schema

import (
	"sort"
	"sync"

	"github.com/chaincodec/chaincodec/pkg/value"
)

type nameVersionKey struct {
	name    string
	version int
}

// Registry is the shared, thread-safe, in-memory schema store, guarded
// by a plain sync.RWMutex: many concurrent readers, or a single writer
// at a time. A writer waits for in-flight readers to finish, and new
// readers wait while a writer holds the lock.
type Registry struct {
	mu sync.RWMutex

	byFingerprint map[value.EventFingerprint]*Schema
	byNameVer     map[nameVersionKey]*Schema
	byName        map[string]map[int]*Schema
	byChain       map[string]map[nameVersionKey]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byFingerprint: make(map[value.EventFingerprint]*Schema),
		byNameVer:     make(map[nameVersionKey]*Schema),
		byName:        make(map[string]map[int]*Schema),
		byChain:       make(map[string]map[nameVersionKey]*Schema),
	}
}

func cloneSchema(s Schema) *Schema {
	cp := s
	cp.Chains = append([]string(nil), s.Chains...)
	cp.Fields = append([]FieldDef(nil), s.Fields...)
	cp.Meta.Tags = append([]string(nil), s.Meta.Tags...)
	cp.Meta.AuditedBy = append([]string(nil), s.Meta.AuditedBy...)
	return &cp
}

// Add inserts a new schema. It fails if either the fingerprint or the
// (name, version) key already exists.
func (r *Registry) Add(s Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nameVersionKey{s.Name, s.Version}
	if _, exists := r.byNameVer[key]; exists {
		return &RegistryConflictError{Kind: ConflictDuplicateNameVersion, Name: s.Name, Version: s.Version}
	}
	if _, exists := r.byFingerprint[s.Fingerprint]; exists {
		return &RegistryConflictError{Kind: ConflictDuplicateFingerprint, Name: s.Name, Version: s.Version}
	}

	r.insertLocked(cloneSchema(s))
	r.linkLineageLocked(s.Name, s.Version)
	return nil
}

// Upsert replaces a schema by (name, version). It still fails if the
// new record would make a *different* name share a fingerprint with an
// existing record.
func (r *Registry) Upsert(s Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nameVersionKey{s.Name, s.Version}
	if existingFP, exists := r.byFingerprint[s.Fingerprint]; exists && existingFP.Name != s.Name {
		return &RegistryConflictError{Kind: ConflictDuplicateFingerprint, Name: s.Name, Version: s.Version}
	}

	if old, exists := r.byNameVer[key]; exists {
		delete(r.byFingerprint, old.Fingerprint)
		for _, c := range old.Chains {
			delete(r.byChain[c], key)
		}
	}
	r.insertLocked(cloneSchema(s))
	r.linkLineageLocked(s.Name, s.Version)
	return nil
}

func (r *Registry) insertLocked(s *Schema) {
	key := nameVersionKey{s.Name, s.Version}
	r.byFingerprint[s.Fingerprint] = s
	r.byNameVer[key] = s
	if r.byName[s.Name] == nil {
		r.byName[s.Name] = make(map[int]*Schema)
	}
	r.byName[s.Name][s.Version] = s
	for _, c := range s.Chains {
		if r.byChain[c] == nil {
			r.byChain[c] = make(map[nameVersionKey]*Schema)
		}
		r.byChain[c][key] = s
	}
}

// linkLineageLocked flips Deprecated/SupersededBy on the schema named in
// Supersedes, and sets this schema's own SupersededBy backlink when a
// newer version already names it in Supersedes. Only the registry
// writes these back-links.
func (r *Registry) linkLineageLocked(name string, version int) {
	cur := r.byName[name][version]
	if cur.Meta.Supersedes > 0 {
		if prev, ok := r.byName[name][cur.Meta.Supersedes]; ok {
			prev.Meta.Deprecated = true
			prev.Meta.SupersededBy = version
		}
	}
	for v, other := range r.byName[name] {
		if v != version && other.Meta.Supersedes == version {
			cur.Meta.Deprecated = true
			cur.Meta.SupersededBy = other.Version
		}
	}
}

// ByFingerprint is the O(1) hot-path lookup.
func (r *Registry) ByFingerprint(fp value.EventFingerprint) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byFingerprint[fp]
	if !ok {
		return Schema{}, false
	}
	return *s, true
}

// ByName returns the schema for name at the given version, or, if
// version is nil, the highest non-deprecated version.
func (r *Registry) ByName(name string, version *int) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.byName[name]
	if len(versions) == 0 {
		return Schema{}, false
	}
	if version != nil {
		s, ok := versions[*version]
		if !ok {
			return Schema{}, false
		}
		return *s, true
	}

	best := -1
	for v, s := range versions {
		if s.Meta.Deprecated {
			continue
		}
		if v > best {
			best = v
		}
	}
	if best == -1 {
		return Schema{}, false
	}
	return *versions[best], true
}

// ByChain returns all schemas whose Chains list includes slug.
func (r *Registry) ByChain(slug string) []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byChain[slug]
	out := make([]Schema, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version < out[j].Version
	})
	return out
}

// History returns every version of name, ordered by version.
func (r *Registry) History(name string) []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.byName[name]
	out := make([]Schema, 0, len(versions))
	for _, s := range versions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// All returns one latest-non-deprecated schema per name, sorted by name.
func (r *Registry) All() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]Schema, 0, len(names))
	for _, n := range names {
		best := -1
		for v, s := range r.byName[n] {
			if s.Meta.Deprecated {
				continue
			}
			if v > best {
				best = v
			}
		}
		if best != -1 {
			out = append(out, *r.byName[n][best])
		}
	}
	return out
}

// Deprecate flips the deprecated flag on a stored record without
// removing it.
func (r *Registry) Deprecate(name string, version int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byName[name][version]
	if !ok {
		return false
	}
	s.Meta.Deprecated = true
	return true
}
