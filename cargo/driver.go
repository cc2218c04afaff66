package cargo

// Driver holds the inventory bookkeeping shared by every wire transport:
// publishing and resetting the Inventory, resolving a wire name to its
// Entry, bumping Available/Required, and running the finishing
// Validate/instanceMissing check. Each transport's own recursive-descent
// loop owns token-level grammar and calls into a Driver rather than
// re-deriving this bookkeeping.
type Driver struct {
	Package Package
	Inv     *Inventory
}

// NewDriver publishes pkg's inventory, resets it per everyRequired, and
// puts pkg into its default state, ready to receive children.
func NewDriver(pkg Package, everyRequired bool) (*Driver, error) {
	inv := &Inventory{}
	if !pkg.FillInventory(inv) {
		return nil, NewFault(MissingInventory, 0, 0, "package declined to publish an inventory")
	}
	inv.Reset(everyRequired)
	pkg.SetDefault()
	return &Driver{Package: pkg, Inv: inv}, nil
}

// Resolve looks up name/group against the driver's inventory for the
// given role and, if found, bumps its Available count.
func (d *Driver) Resolve(name, group string, role Role) (*Entry, bool, error) {
	entry, ok := d.Inv.Find(name, group, role)
	if !ok {
		return nil, false, nil
	}
	if err := entry.Bump(); err != nil {
		return nil, true, err
	}
	return entry, true, nil
}

// ArrayEntry returns the sole entry of an array-shaped inventory.
// Available holds the 0-based index of the element about to be parsed;
// callers fetch the child at that position before calling BumpArray to
// record it as consumed.
func (d *Driver) ArrayEntry() *Entry {
	return &d.Inv.Entries[0]
}

// BumpArray records one more element consumed against entry, the value
// previously returned by ArrayEntry.
func (d *Driver) BumpArray(entry *Entry) error {
	return entry.Bump()
}

// Finish runs the whole-object post-conditions: instanceMissing (when
// missingEntryFailed is set) followed by Package.Validate.
func (d *Driver) Finish(missingEntryFailed bool) error {
	if missingEntryFailed {
		if missing := d.Inv.AllConsumed(); len(missing) > 0 {
			return NewFault(InstanceMissing, 0, 0, "required entries missing: %v", missing)
		}
	}
	if !d.Package.Validate() {
		return NewFault(InvalidObject, 0, 0, "package failed validation")
	}
	return nil
}
