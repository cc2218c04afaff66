package models

import (
	"time"

	"github.com/google/uuid"

	"weave/cargo"
)

// BarA is one concrete subtype reachable through Content's attribute-
// first dispatch. It owns a free-text body and a creation timestamp.
type BarA struct {
	ID        uuid.UUID
	Text      string
	CreatedAt time.Time
}

func (b *BarA) CargoKind() cargo.Kind { return cargo.KindPackage }

func (b *BarA) FillInventory(inv *cargo.Inventory) bool {
	inv.Entries = []cargo.Entry{
		{Identity: cargo.Identity{Name: "text"}, Maximum: 1, Required: true},
		{Identity: cargo.Identity{Name: "createdAt"}, Maximum: 1},
	}
	return true
}

func (b *BarA) GetCargo(entry *cargo.Entry) (cargo.Cargo, error) {
	switch entry.Identity.Name {
	case "text":
		return &stringItem{&b.Text}, nil
	case "createdAt":
		return &timeItem{&b.CreatedAt}, nil
	}
	return nil, nil
}

func (b *BarA) SetDefault() {
	b.Text = ""
	b.CreatedAt = time.Time{}
}
func (b *BarA) Insert(cargo.Cargo, *cargo.Entry) bool { return true }
func (b *BarA) Validate() bool                        { return b.Text != "" }
func (b *BarA) IsAttributeFirst() bool                { return false }
func (b *BarA) FinaliseAttributes() error              { return nil }

// BarB is Content's other concrete subtype: a counted, labeled value
// rather than BarA's free text.
type BarB struct {
	ID    uuid.UUID
	Count int64
	Label string
}

func (b *BarB) CargoKind() cargo.Kind { return cargo.KindPackage }

func (b *BarB) FillInventory(inv *cargo.Inventory) bool {
	inv.Entries = []cargo.Entry{
		{Identity: cargo.Identity{Name: "count"}, Maximum: 1, Required: true},
		{Identity: cargo.Identity{Name: "label"}, Maximum: 1},
	}
	return true
}

func (b *BarB) GetCargo(entry *cargo.Entry) (cargo.Cargo, error) {
	switch entry.Identity.Name {
	case "count":
		return &int64Item{&b.Count}, nil
	case "label":
		return &stringItem{&b.Label}, nil
	}
	return nil, nil
}

func (b *BarB) SetDefault() {
	b.Count = 0
	b.Label = ""
}
func (b *BarB) Insert(cargo.Cargo, *cargo.Entry) bool { return true }
func (b *BarB) Validate() bool                        { return b.Count >= 0 }
func (b *BarB) IsAttributeFirst() bool                { return false }
func (b *BarB) FinaliseAttributes() error              { return nil }

// Content is an attribute-first wrapping package: it owns the "type"
// discriminator and "id" GUID as its own attribute entries, then swaps
// in the right concrete body during FinaliseAttributes and re-exposes
// the body's own entries for the element-role pass that follows.
type Content struct {
	types *cargo.TypeTable
	Type  string
	ID    uuid.UUID
	Body  cargo.Package
}

// NewContent returns a Content wrapper with BarA and BarB registered
// under the discriminator names a transport's "type" attribute carries.
func NewContent() *Content {
	tt := cargo.NewTypeTable()
	tt.Register("BarA", func() cargo.Package { return &BarA{} })
	tt.Register("BarB", func() cargo.Package { return &BarB{} })
	return &Content{types: tt}
}

func (c *Content) CargoKind() cargo.Kind { return cargo.KindPackage }

// FillInventory always publishes the type/id attribute entries
// alongside Body's own entries once Body exists, so a writer (which
// calls FillInventory exactly once, unlike the reader's two passes)
// still emits type and id. This is safe for reading too: pass 2 looks
// names up with the element role only, so type/id reappearing alongside
// Body's entries are never dispatched again (wirejson/reader.go's
// objectBody skips a key naming an attribute entry; wirexml reads
// attributes before elements and looks elements up by element role). The one thing that must change is Required: once Body
// is set, type's entry here is a fresh struct distinct from the one
// pass 1 bumped, so leaving it Required would make the post-parse
// instanceMissing check see it as never consumed.
func (c *Content) FillInventory(inv *cargo.Inventory) bool {
	entries := []cargo.Entry{
		{Identity: cargo.Identity{Name: "type", Role: cargo.RoleAttribute}, Maximum: 1, Required: c.Body == nil},
		{Identity: cargo.Identity{Name: "id", Role: cargo.RoleAttribute}, Maximum: 1},
	}
	if c.Body != nil {
		var bodyInv cargo.Inventory
		c.Body.FillInventory(&bodyInv)
		entries = append(entries, bodyInv.Entries...)
	}
	inv.Entries = entries
	return true
}

func (c *Content) GetCargo(entry *cargo.Entry) (cargo.Cargo, error) {
	switch entry.Identity.Name {
	case "type":
		return &stringItem{&c.Type}, nil
	case "id":
		return &guidItem{&c.ID}, nil
	}
	if c.Body != nil {
		return c.Body.GetCargo(entry)
	}
	return nil, nil
}

func (c *Content) SetDefault() {
	c.Type, c.ID, c.Body = "", uuid.UUID{}, nil
}

func (c *Content) Insert(child cargo.Cargo, entry *cargo.Entry) bool {
	if c.Body != nil {
		return c.Body.Insert(child, entry)
	}
	return true
}

func (c *Content) Validate() bool {
	return c.Body != nil && c.Body.Validate()
}

func (c *Content) IsAttributeFirst() bool { return true }

// FinaliseAttributes constructs the concrete body named by Type and
// re-homes the id attribute onto it where BarA/BarB carry their own ID
// field, completing the two-pass dispatch protocol: the caller must
// re-fetch the inventory after this returns.
func (c *Content) FinaliseAttributes() error {
	pkg, err := c.types.New(c.Type)
	if err != nil {
		return err
	}
	pkg.SetDefault()
	switch body := pkg.(type) {
	case *BarA:
		body.ID = c.ID
	case *BarB:
		body.ID = c.ID
	}
	c.Body = pkg
	return nil
}
