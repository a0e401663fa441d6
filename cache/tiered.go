package cache

// Tiered chains the in-memory tier in front of the persistent tier. Reads
// consult memory first and promote disk hits into memory; writes go to
// both tiers, each enforcing its own capacity limit.
type Tiered struct {
	mem  ReadWriter
	disk ReadWriter
}

// NewTiered builds a two-tier cache. Either tier may be nil, in which case
// the other serves alone; both nil turns every read into a miss.
func NewTiered(mem, disk ReadWriter) *Tiered {
	return &Tiered{mem: mem, disk: disk}
}

// Read implements Reader interface
func (t *Tiered) Read(key string) (*Entry, bool) {
	if t.mem != nil {
		if entry, ok := t.mem.Read(key); ok {
			return entry, true
		}
	}
	if t.disk != nil {
		if entry, ok := t.disk.Read(key); ok {
			if t.mem != nil {
				_ = t.mem.Write(key, entry)
			}
			return entry, true
		}
	}
	return nil, false
}

// Write implements Writer interface. The entry is offered to both tiers;
// a failure in one does not keep it out of the other.
func (t *Tiered) Write(key string, entry *Entry) error {
	var firstErr error
	if t.mem != nil {
		if err := t.mem.Write(key, entry); err != nil {
			firstErr = err
		}
	}
	if t.disk != nil {
		if err := t.disk.Write(key, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
