// Package cargo implements the inventory/cargo protocol: the
// polymorphic contract by which a value advertises its serializable
// structure (an Inventory of Entry slots) and produces or accepts the
// children that fill it.
//
// A Cargo is one of three shapes: an Item (a leaf value), a Package (an
// aggregate that publishes an Inventory), or Null (the explicit absent
// value, distinct from a missing optional slot). JSON and XML transports
// both drive Package values through the same Inventory bookkeeping; see
// Driver in driver.go.
package cargo

// Kind distinguishes the three Cargo shapes.
type Kind int

const (
	KindItem Kind = iota
	KindPackage
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindPackage:
		return "package"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Cargo is the runtime handle for a value during send/receive.
type Cargo interface {
	CargoKind() Kind
}

// Null is the single explicit-absent-value instance.
var Null Cargo = nullCargo{}

type nullCargo struct{}

func (nullCargo) CargoKind() Kind { return KindNull }

// Item is a leaf Cargo convertible to/from one primitive Value.
type Item interface {
	Cargo
	ReadValue(Value) error
	WriteValue() Value
}

// Package is an aggregate Cargo that publishes an Inventory and
// dispatches to child Cargo by entry index.
type Package interface {
	Cargo

	// FillInventory populates inv with this package's entries (appending
	// base-class entries before derived-class entries, in iteration
	// order). Returns false to fail the operation.
	FillInventory(inv *Inventory) bool

	// GetCargo produces the child at position entry.Available for
	// output, or a fresh sink for the next input instance.
	GetCargo(entry *Entry) (Cargo, error)

	// SetDefault resets the package to its zero/default state before
	// populating from input.
	SetDefault()

	// Insert accepts a parsed child for a repeating entry. A false
	// return fails the parse with invalidObject.
	Insert(child Cargo, entry *Entry) bool

	// Validate performs the whole-object post-condition check. A false
	// return fails the parse with invalidObject.
	Validate() bool

	// IsAttributeFirst declares that attribute-role entries must be
	// read before element-role entries, used by polymorphic wrappers
	// that need a type discriminator up front.
	IsAttributeFirst() bool

	// FinaliseAttributes is called once attribute-role entries have all
	// been read, before element-role entries are processed. Packages
	// that are not attribute-first may implement it as a no-op.
	FinaliseAttributes() error
}

// Allocator is an optional Package hook for packages whose schema is
// dynamic: given an unrecognized name, it allocates a slot/child Cargo
// for it (e.g. DOM-like nodes accepting any tag).
type Allocator interface {
	Allocate(name string) (Cargo, bool)
}

// ArrayAllocator is an optional Package hook that promotes a singular
// slot to an array on its second occurrence.
type ArrayAllocator interface {
	AllocateArray(name string) (Cargo, bool)
}

// Allocate consults pkg's optional Allocator hook for a name missing
// from its inventory. ok is false when pkg has no hook or declined the
// name.
func Allocate(pkg Package, name string) (Cargo, bool) {
	if a, hasHook := pkg.(Allocator); hasHook {
		return a.Allocate(name)
	}
	return nil, false
}

// AllocateArray consults pkg's optional ArrayAllocator hook when a
// singular slot sees a second occurrence on the wire.
func AllocateArray(pkg Package, name string) (Cargo, bool) {
	if a, hasHook := pkg.(ArrayAllocator); hasHook {
		return a.AllocateArray(name)
	}
	return nil, false
}
