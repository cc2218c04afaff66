package cargo

import "fmt"

// Role distinguishes how an entry is carried on the wire: an XML
// attribute, an XML/JSON element, or a repeating array of elements.
type Role int

const (
	RoleElement Role = iota
	RoleAttribute
	RoleArray
)

func (r Role) String() string {
	switch r {
	case RoleElement:
		return "element"
	case RoleAttribute:
		return "attribute"
	case RoleArray:
		return "array"
	default:
		return "unknown"
	}
}

// Identity labels a Cargo at its point of emission or reception.
type Identity struct {
	Name  string
	Group string // namespace/prefix; XML only, ignored by JSON unless requested
	Role  Role
}

// Stage is the parser state: whether a bare value, a name, or a
// delimiter/terminator is expected next.
type Stage int

const (
	StageRoot Stage = iota
	StageArray
	StageObject
	StageComplete
)

// Entry is one slot in an Inventory.
type Entry struct {
	Identity  Identity
	Index     int
	OwnerType string
	Required  bool
	Maximum   int
	Available int
}

// IsRepeating reports whether the entry accepts more than one instance.
func (e *Entry) IsRepeating() bool { return e.Maximum > 1 }

// Inventory is the ordered schema a Package publishes at runtime.
type Inventory struct {
	Entries []Entry
}

// Reset clears Available on every entry and, if everyRequired is true,
// marks every entry Required. Called at the start of each receive pass.
func (inv *Inventory) Reset(everyRequired bool) {
	for i := range inv.Entries {
		inv.Entries[i].Available = 0
		if everyRequired {
			inv.Entries[i].Required = true
		}
	}
}

// Find looks up the entry matching name (and group, when group != "")
// honoring the requested role. Role RoleArray entries also match a
// RoleElement lookup, since an array is carried as repeated elements on
// the wire.
func (inv *Inventory) Find(name, group string, role Role) (*Entry, bool) {
	for i := range inv.Entries {
		e := &inv.Entries[i]
		if e.Identity.Name != name {
			continue
		}
		if group != "" && e.Identity.Group != "" && e.Identity.Group != group {
			continue
		}
		if e.Identity.Role == role {
			return e, true
		}
		if role == RoleElement && e.Identity.Role == RoleArray {
			return e, true
		}
	}
	return nil, false
}

// IsArray reports whether inv describes an array: a single-entry
// inventory whose sole entry has Maximum > 1.
func (inv *Inventory) IsArray() bool {
	return len(inv.Entries) == 1 && inv.Entries[0].IsRepeating()
}

// IsWrapper reports whether inv describes a wrapper: any inventory of
// size > 1, or a size-1 inventory whose sole entry has a name different
// from outerName.
func (inv *Inventory) IsWrapper(outerName string) bool {
	if len(inv.Entries) > 1 {
		return true
	}
	if len(inv.Entries) == 1 {
		return inv.Entries[0].Identity.Name != outerName
	}
	return false
}

// AllConsumed reports whether every still-Required entry has been
// satisfied (Available > 0), used by Validate-adjacent callers that
// want to surface instanceMissing before calling Package.Validate.
func (inv *Inventory) AllConsumed() (missing []string) {
	for _, e := range inv.Entries {
		if e.Required && e.Available == 0 {
			missing = append(missing, e.Identity.Name)
		}
	}
	return missing
}

// Bump increments entry.Available, failing with inventoryBoundsExceeded
// if doing so would exceed Maximum.
func (e *Entry) Bump() error {
	if e.Maximum > 0 && e.Available+1 > e.Maximum {
		return fmt.Errorf("cargo: inventoryBoundsExceeded: %q already has %d of %d", e.Identity.Name, e.Available, e.Maximum)
	}
	e.Available++
	e.Required = false
	return nil
}
