package wirexml

import (
	"strings"

	"weave/buffer"
	"weave/cargo"
)

// Send serializes target, identified by id, to an XML document written
// to sb, honoring policy's formatting and prolog options. Unlike
// wirejson, a repeating entry has no bracketing syntax of its own:
// each instance is emitted as its own same-named element, directly
// beneath its parent.
func Send(sb *strings.Builder, target cargo.Cargo, id cargo.Identity, policy cargo.Policy) error {
	w := &writer{sb: sb, policy: policy}
	if policy.Prolog {
		sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
		w.newline(0)
	}
	return w.element(target, id, 0)
}

// SendTo serializes target through out, encoding the document in out's
// data format (with its BOM, when the format carries one) and deriving
// the prolog's encoding name from that format rather than assuming
// UTF-8.
func SendTo(out *buffer.BufferOut, target cargo.Cargo, id cargo.Identity, policy cargo.Policy) error {
	var sb strings.Builder
	w := &writer{sb: &sb, policy: policy}
	if policy.Prolog {
		sb.WriteString(`<?xml version="1.0" encoding="` + out.Format().Encoding.String() + `"?>`)
		w.newline(0)
	}
	if err := w.element(target, id, 0); err != nil {
		return err
	}
	if err := out.WriteString(sb.String()); err != nil {
		return err
	}
	return out.Flush()
}

// Marshal is a convenience wrapper around Send for callers that just
// want the resulting document as a string.
func Marshal(target cargo.Cargo, id cargo.Identity, policy cargo.Policy) (string, error) {
	var sb strings.Builder
	if err := Send(&sb, target, id, policy); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type writer struct {
	sb     *strings.Builder
	policy cargo.Policy
}

func (w *writer) newline(depth int) {
	if !w.policy.NormalizedLineFeeds() {
		return
	}
	w.sb.WriteByte('\n')
	if w.policy.Tabbed {
		for i := 0; i < depth; i++ {
			w.sb.WriteByte('\t')
		}
	}
}

// tagName renders id as a wire name, colon-joining the namespace prefix
// when the Namespaces option is set and id carries a Group.
func (w *writer) tagName(id cargo.Identity) string {
	if w.policy.Namespaces && id.Group != "" {
		return id.Group + ":" + id.Name
	}
	return id.Name
}

func (w *writer) element(target cargo.Cargo, id cargo.Identity, depth int) error {
	switch v := target.(type) {
	case cargo.Package:
		if cargo.IsUnknown(v) {
			w.emptyTag(id)
			return nil
		}
		return w.pkg(v, id, depth)
	case cargo.Item:
		w.scalarElement(v.WriteValue(), id)
		return nil
	default:
		w.emptyTag(id)
		return nil
	}
}

func (w *writer) emptyTag(id cargo.Identity) {
	name := w.tagName(id)
	w.sb.WriteByte('<')
	w.sb.WriteString(name)
	w.sb.WriteString("/>")
}

func (w *writer) scalarElement(v cargo.Value, id cargo.Identity) {
	name := w.tagName(id)
	if v.Kind == cargo.ValueNull {
		w.emptyTag(id)
		return
	}
	w.sb.WriteByte('<')
	w.sb.WriteString(name)
	w.sb.WriteByte('>')
	w.sb.WriteString(escapeEntities(v.AsString()))
	w.sb.WriteString("</")
	w.sb.WriteString(name)
	w.sb.WriteByte('>')
}

// pkg writes target's start tag (with attribute-role entries as
// `key="value"` pairs, so attributes always precede elements on the
// wire), then its element-role children, then the matching end tag, or
// a self-closing empty tag when there is no element content.
func (w *writer) pkg(pkg cargo.Package, id cargo.Identity, depth int) error {
	inv := &cargo.Inventory{}
	if !pkg.FillInventory(inv) {
		return cargo.NewFault(cargo.MissingInventory, 0, 0, "package declined to publish an inventory for %q", id.Name)
	}

	var attrs, elems []cargo.Entry
	for _, e := range inv.Entries {
		if e.Identity.Role == cargo.RoleAttribute {
			attrs = append(attrs, e)
		} else {
			elems = append(elems, e)
		}
	}

	name := w.tagName(id)
	w.sb.WriteByte('<')
	w.sb.WriteString(name)
	for _, e := range attrs {
		snapshot := e
		snapshot.Available = 0
		child, err := pkg.GetCargo(&snapshot)
		if err != nil {
			return err
		}
		item, ok := child.(cargo.Item)
		if !ok {
			continue
		}
		w.sb.WriteByte(' ')
		w.sb.WriteString(w.tagName(e.Identity))
		w.sb.WriteString(`="`)
		w.sb.WriteString(escapeEntities(item.WriteValue().AsString()))
		w.sb.WriteByte('"')
	}

	hasContent := false
	for _, e := range elems {
		if e.IsRepeating() && e.Available == 0 {
			continue
		}
		hasContent = true
		break
	}
	if !hasContent {
		w.sb.WriteString("/>")
		return nil
	}

	w.sb.WriteByte('>')
	for _, e := range elems {
		if e.IsRepeating() {
			for n := 0; n < e.Available; n++ {
				snapshot := e
				snapshot.Available = n
				child, err := pkg.GetCargo(&snapshot)
				if err != nil {
					return err
				}
				w.newline(depth + 1)
				if err := w.element(child, e.Identity, depth+1); err != nil {
					return err
				}
			}
			continue
		}
		snapshot := e
		snapshot.Available = 0
		child, err := pkg.GetCargo(&snapshot)
		if err != nil {
			return err
		}
		w.newline(depth + 1)
		if err := w.element(child, e.Identity, depth+1); err != nil {
			return err
		}
	}
	w.newline(depth)
	w.sb.WriteString("</")
	w.sb.WriteString(name)
	w.sb.WriteByte('>')
	return nil
}
