package cargo

// Unknown is a sink Package that silently absorbs any structure fed to
// it, used to skip unwanted subtrees during lenient parsing and during
// the attribute-first restore-point pass.
type Unknown struct{}

func (*Unknown) CargoKind() Kind { return KindPackage }

func (*Unknown) FillInventory(inv *Inventory) bool {
	// An empty inventory with no children means the transport's driver
	// must fall back to treating this as an opaque leaf/subtree sink;
	// transports special-case *Unknown rather than reading an inventory
	// from it.
	return true
}

func (*Unknown) GetCargo(entry *Entry) (Cargo, error) { return &Unknown{}, nil }
func (*Unknown) SetDefault()                          {}
func (*Unknown) Insert(child Cargo, entry *Entry) bool { return true }
func (*Unknown) Validate() bool                        { return true }
func (*Unknown) IsAttributeFirst() bool                { return false }
func (*Unknown) FinaliseAttributes() error             { return nil }

// IsUnknown reports whether p is the Unknown sink, which transports use
// to decide whether to bother reconciling scalar content against an
// Item (Unknown has none).
func IsUnknown(p Package) bool {
	_, ok := p.(*Unknown)
	return ok
}
