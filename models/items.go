// Package models provides a small worked example of the inventory/cargo
// protocol: BarA and BarB, two concrete subtypes selected through
// attribute-first polymorphic dispatch, exercising github.com/google/uuid
// for the GUID leaf kind.
package models

import (
	"time"

	"github.com/google/uuid"

	"weave/cargo"
)

// stringItem adapts a *string field to cargo.Item.
type stringItem struct{ v *string }

func (s *stringItem) CargoKind() cargo.Kind { return cargo.KindItem }
func (s *stringItem) ReadValue(v cargo.Value) error {
	*s.v = v.AsString()
	return nil
}
func (s *stringItem) WriteValue() cargo.Value {
	return cargo.Value{Kind: cargo.ValueString, String: *s.v}
}

// guidItem adapts a *uuid.UUID field to cargo.Item.
type guidItem struct{ v *uuid.UUID }

func (g *guidItem) CargoKind() cargo.Kind { return cargo.KindItem }
func (g *guidItem) ReadValue(v cargo.Value) error {
	switch v.Kind {
	case cargo.ValueGUID:
		*g.v = v.GUID
		return nil
	case cargo.ValueString:
		parsed, err := uuid.Parse(v.String)
		if err != nil {
			return cargo.NewFault(cargo.BadValue, 0, 0, "malformed GUID %q: %v", v.String, err)
		}
		*g.v = parsed
		return nil
	default:
		return cargo.NewFault(cargo.BadValue, 0, 0, "expected a GUID")
	}
}
func (g *guidItem) WriteValue() cargo.Value {
	return cargo.Value{Kind: cargo.ValueGUID, GUID: *g.v}
}

// int64Item adapts a *int64 field to cargo.Item.
type int64Item struct{ v *int64 }

func (n *int64Item) CargoKind() cargo.Kind { return cargo.KindItem }
func (n *int64Item) ReadValue(v cargo.Value) error {
	switch v.Kind {
	case cargo.ValueInt64:
		*n.v = v.Int64
	case cargo.ValueDouble:
		*n.v = int64(v.Double)
	default:
		return cargo.NewFault(cargo.BadValue, 0, 0, "expected an integer")
	}
	return nil
}
func (n *int64Item) WriteValue() cargo.Value {
	return cargo.Value{Kind: cargo.ValueInt64, Int64: *n.v}
}

// timeItem adapts a *time.Time field to cargo.Item, honoring
// cargo.TimeLayout for its string form.
type timeItem struct{ v *time.Time }

func (t *timeItem) CargoKind() cargo.Kind { return cargo.KindItem }
func (t *timeItem) ReadValue(v cargo.Value) error {
	switch v.Kind {
	case cargo.ValueTime:
		*t.v = v.Time
		return nil
	case cargo.ValueString:
		parsed, err := time.Parse(cargo.TimeLayout, v.String)
		if err != nil {
			return cargo.NewFault(cargo.BadValue, 0, 0, "malformed timestamp %q: %v", v.String, err)
		}
		*t.v = parsed
		return nil
	default:
		return cargo.NewFault(cargo.BadValue, 0, 0, "expected a timestamp")
	}
}
func (t *timeItem) WriteValue() cargo.Value {
	return cargo.Value{Kind: cargo.ValueTime, Time: *t.v}
}
