package tweak

import "sync/atomic"

// Panel owns the displayed Schema. Replace swaps in a whole new schema under a
// fresh version; value updates swap in a copy that keeps the version. Readers
// always see a complete schema, never a half-replaced one.
type Panel struct {
	cur atomic.Pointer[Schema]
	seq atomic.Uint64
}

// Current returns the displayed schema, or nil before the first Replace.
func (p *Panel) Current() *Schema {
	return p.cur.Load()
}

// Version returns the displayed schema version, 0 before the first Replace.
func (p *Panel) Version() uint64 {
	if s := p.cur.Load(); s != nil {
		return s.Version
	}
	return 0
}

// Replace displays s under a new version and returns the stamped schema.
// s itself is not modified.
func (p *Panel) Replace(s *Schema) *Schema {
	next := *s
	next.Version = p.seq.Add(1)
	p.cur.Store(&next)
	return &next
}

// ApplyValues overwrites control values on the displayed schema if it is
// still at version. It returns the applied names and false when the schema
// has since been replaced.
func (p *Panel) ApplyValues(version uint64, values map[string]string) ([]string, bool) {
	for {
		cur := p.cur.Load()
		if cur == nil || cur.Version != version {
			return nil, false
		}
		next, applied := cur.WithValues(values)
		if p.cur.CompareAndSwap(cur, next) {
			return applied, true
		}
	}
}
