// Package wirexml implements the XML transport: a recursive-descent
// parser and writer over the same cargo Inventory/Package contract
// wirejson drives, plus XML-specific concerns (processing
// instructions, CDATA, comments, namespaced names, entity escaping).
package wirexml

import (
	"fmt"
	"strconv"
	"strings"

	"weave/buffer"
	"weave/cargo"
	"weave/charset"
)

// Receive parses an XML document from src into target, following its
// identity id. Unlike wirejson, the root element's tag name is checked
// against id, since in XML the root element name carries the
// instance's Identity on the wire.
func Receive(src any, target cargo.Cargo, id cargo.Identity, policy cargo.Policy) error {
	in, err := openSource(src)
	if err != nil {
		return err
	}
	r := &reader{in: in, policy: policy}
	if err := r.skipProlog(); err != nil {
		return err
	}
	name, group, attrs, selfClosing, err := r.openTagFull()
	if err != nil {
		return err
	}
	if name != id.Name {
		return r.fault(cargo.UnknownTag, "expected root element %q, found %q", id.Name, name)
	}
	return r.dispatchElement(target, name, group, attrs, selfClosing)
}

func openSource(src any) (*buffer.BufferIn, error) {
	switch v := src.(type) {
	case string:
		return buffer.NewFromString(v, nil)
	case []byte:
		return buffer.NewFromBytes(v, nil)
	case *buffer.BufferIn:
		return v, nil
	default:
		return nil, fmt.Errorf("wirexml: unsupported source type %T", src)
	}
}

type reader struct {
	in     *buffer.BufferIn
	policy cargo.Policy
}

func (r *reader) fault(kind cargo.FaultKind, format string, args ...any) error {
	return cargo.NewFault(kind, r.in.Row(), r.in.Column(), format, args...)
}

func (r *reader) skipSpace() {
	r.in.FindFirstNotOf(func(c rune) bool { return c < 128 && charset.IsBlank(byte(c)) }, 0)
}

func (r *reader) peek() (rune, bool) {
	c, w := r.in.Peek()
	return c, w > 0
}

// skipProlog discards an optional `<?xml ...?>` declaration and any
// comments/blank space preceding the root element. Only the xml
// instruction is interpreted; the buffer has already made the
// character stream encoding-correct via BOM/content sniffing, so its
// encoding attribute requires no further action here. Any other
// instruction is skipped or rejected per policy.
func (r *reader) skipProlog() error {
	for {
		r.skipSpace()
		mark := r.in.Offset()
		if r.matchLiteral("<?") {
			piName, _, err := r.readQName()
			if err != nil {
				return err
			}
			if piName != "xml" && !r.policy.UnknownInstructionSkipped {
				return r.fault(cargo.UnknownInstruction, "unknown processing instruction %q", piName)
			}
			r.in.FindString("?>", nil, true)
			continue
		}
		if r.matchLiteral("<!--") {
			r.in.FindString("-->", nil, true)
			continue
		}
		r.in.Seek(mark)
		return nil
	}
}

func (r *reader) matchLiteral(lit string) bool {
	mark := r.in.Offset()
	for _, want := range lit {
		c, w := r.in.Peek()
		if w == 0 || c != want {
			r.in.Seek(mark)
			return false
		}
		r.in.Get()
	}
	return true
}

type attr struct {
	group, name, value string
}

// openTagFull parses `<prefix:local` plus its attribute list and returns
// the local name, prefix (group), attributes, and whether the tag was
// self-closing (`/>`). The cursor is left just past `>`.
func (r *reader) openTagFull() (name, group string, attrs []attr, selfClosing bool, err error) {
	if err = r.expectRune('<'); err != nil {
		return
	}
	name, group, err = r.readQName()
	if err != nil {
		return
	}
	for {
		r.skipSpace()
		c, ok := r.peek()
		if !ok {
			err = r.fault(cargo.ClosingTagMissing, "unterminated start tag for %q", name)
			return
		}
		if c == '/' {
			r.in.Get()
			if err = r.expectRune('>'); err != nil {
				return
			}
			selfClosing = true
			return
		}
		if c == '>' {
			r.in.Get()
			return
		}
		var a attr
		a.name, a.group, err = r.readQName()
		if err != nil {
			return
		}
		r.skipSpace()
		if err = r.expectRune('='); err != nil {
			err = cargo.NewFault(cargo.AttributeEqualMissing, r.in.Row(), r.in.Column(), "attribute %q missing '='", a.name)
			return
		}
		r.skipSpace()
		a.value, err = r.quotedAttrValue()
		if err != nil {
			return
		}
		attrs = append(attrs, a)
	}
}

func (r *reader) expectRune(ch rune) error {
	c, ok := r.peek()
	if !ok {
		return r.fault(cargo.ParsingError, "unexpected end of input, wanted %q", ch)
	}
	if c != ch {
		return r.fault(cargo.BadDelimiter, "wanted %q, found %q", ch, c)
	}
	r.in.Get()
	return nil
}

// readQName parses an XML 1.0 name, optionally split on its first
// colon into prefix (group) and local name.
func (r *reader) readQName() (local, group string, err error) {
	c, ok := r.peek()
	if !ok || !charset.IsNameStart(c) {
		return "", "", r.fault(cargo.MissingTagName, "expected a name")
	}
	var sb strings.Builder
	for {
		c, ok := r.peek()
		if !ok || !charset.IsNameChar(c) {
			break
		}
		sb.WriteRune(c)
		r.in.Get()
	}
	full := sb.String()
	if i := strings.IndexByte(full, ':'); i >= 0 {
		return full[i+1:], full[:i], nil
	}
	return full, "", nil
}

func (r *reader) quotedAttrValue() (string, error) {
	c, ok := r.peek()
	if !ok || (c != '"' && c != '\'') {
		return "", cargo.NewFault(cargo.AttributeQuoteMissing, r.in.Row(), r.in.Column(), "attribute value must be quoted")
	}
	quote := c
	r.in.Get()
	var sb strings.Builder
	for {
		c, ok := r.peek()
		if !ok {
			return "", cargo.NewFault(cargo.AttributeQuoteMissing, r.in.Row(), r.in.Column(), "unterminated attribute value")
		}
		if c == quote {
			r.in.Get()
			val, err := unescapeEntities(sb.String())
			if err != nil {
				return "", r.repositionFault(err)
			}
			return val, nil
		}
		sb.WriteRune(c)
		r.in.Get()
	}
}

// dispatchElement assumes the opening tag
// `<name ...` up to its attributes has just been parsed by the caller
// (attrs, selfClosing already known) and drives target against it. name
// and group identify the element being closed, so the matching end tag
// can be checked.
func (r *reader) dispatchElement(target cargo.Cargo, name, group string, attrs []attr, selfClosing bool) error {
	switch v := target.(type) {
	case cargo.Package:
		if cargo.IsUnknown(v) {
			return r.skipElement(name, group, selfClosing)
		}
		return r.packageElement(v, name, group, attrs, selfClosing)
	case cargo.Item:
		if len(attrs) > 0 {
			return r.fault(cargo.MissingAttributes, "scalar element does not accept attributes")
		}
		if selfClosing {
			return v.ReadValue(cargo.Value{Kind: cargo.ValueNull})
		}
		text, err := r.readText(name, group)
		if err != nil {
			return err
		}
		return v.ReadValue(inferValue(text))
	default:
		return r.fault(cargo.BadDestination, "no destination for element content")
	}
}

// readEndTag parses `</qname>` and fails with closingTagMissing unless
// qname matches name/group exactly: a mismatched end tag such as
// `</shap>` for `<shape>` is rejected, not silently accepted.
func (r *reader) readEndTag(name, group string) error {
	if err := r.expectRune('<'); err != nil {
		return err
	}
	if err := r.expectRune('/'); err != nil {
		return err
	}
	return r.finishEndTag(name, group)
}

// finishEndTag parses `qname>` assuming the caller already consumed the
// preceding `</`, and fails with closingTagMissing unless qname matches
// name/group exactly.
func (r *reader) finishEndTag(name, group string) error {
	gotName, gotGroup, err := r.readQName()
	if err != nil {
		return err
	}
	r.skipSpace()
	if err := r.expectRune('>'); err != nil {
		return err
	}
	if gotName != name || gotGroup != group {
		return r.fault(cargo.ClosingTagMissing, "expected closing tag for %q, found %q", name, gotName)
	}
	return nil
}

func inferValue(text string) cargo.Value {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return cargo.Value{Kind: cargo.ValueInt64, Int64: n}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return cargo.Value{Kind: cargo.ValueDouble, Double: f}
	}
	if text == "true" || text == "false" {
		return cargo.Value{Kind: cargo.ValueBool, Bool: text == "true"}
	}
	return cargo.Value{Kind: cargo.ValueString, String: text}
}

// readText collects character data and CDATA sections up to (and
// consuming) the matching end tag for name/group, unescaping entities in
// character data but not in CDATA.
func (r *reader) readText(name, group string) (string, error) {
	var sb strings.Builder
	for {
		c, ok := r.peek()
		if !ok {
			return "", r.fault(cargo.ClosingTagMissing, "unterminated element")
		}
		if c == '<' {
			if r.matchLiteral("<![CDATA[") {
				var raw []byte
				if !r.in.FindString("]]>", &raw, true) {
					return "", r.fault(cargo.ClosingTagMissing, "unterminated CDATA section")
				}
				sb.Write(raw)
				continue
			}
			if r.matchLiteral("<!--") {
				r.in.FindString("-->", nil, true)
				continue
			}
			if err := r.readEndTag(name, group); err != nil {
				return "", err
			}
			val, err := unescapeEntities(sb.String())
			if err != nil {
				return "", r.repositionFault(err)
			}
			return val, nil
		}
		sb.WriteRune(c)
		r.in.Get()
	}
}

// packageElement drives a Package target through the inventory loop:
// attributes are reconciled first (the attribute-first dispatch
// protocol needs no restore point in XML, since attributes always
// precede child elements on the wire), then FinaliseAttributes runs,
// then child elements fill the remaining inventory.
func (r *reader) packageElement(pkg cargo.Package, name, group string, attrs []attr, selfClosing bool) error {
	d, err := cargo.NewDriver(pkg, r.policy.EveryEntryRequired)
	if err != nil {
		return r.repositionFault(err)
	}

	for _, a := range attrs {
		entry, ok := d.Inv.Find(a.name, a.group, cargo.RoleAttribute)
		if !ok {
			if r.policy.UnknownNameSkipped {
				continue
			}
			return r.fault(cargo.UnknownName, "unrecognized attribute %q", a.name)
		}
		if err := entry.Bump(); err != nil {
			return r.fault(cargo.InventoryBoundsExceeded, "%v", err)
		}
		child, err := pkg.GetCargo(entry)
		if err != nil {
			return r.fault(cargo.BadDestination, "%v", err)
		}
		item, ok := child.(cargo.Item)
		if !ok {
			return r.fault(cargo.BadDestination, "attribute %q has no scalar destination", a.name)
		}
		if err := item.ReadValue(inferValue(a.value)); err != nil {
			return r.fault(cargo.BadValue, "%v", err)
		}
	}

	if err := pkg.FinaliseAttributes(); err != nil {
		return r.fault(cargo.InvalidObject, "finalising attributes: %v", err)
	}

	if pkg.IsAttributeFirst() {
		// FinaliseAttributes may have swapped pkg's effective concrete
		// type; re-publish the inventory so element dispatch sees the
		// resolved type's entries.
		inv2 := &cargo.Inventory{}
		if !pkg.FillInventory(inv2) {
			return r.fault(cargo.MissingInventory, "package declined to publish an inventory after finalising attributes")
		}
		inv2.Reset(r.policy.EveryEntryRequired)
		d = &cargo.Driver{Package: pkg, Inv: inv2}
	}

	if selfClosing {
		return r.finish(d)
	}

	for {
		r.skipLeadingText()
		c, ok := r.peek()
		if !ok {
			return r.fault(cargo.ClosingTagMissing, "unterminated element")
		}
		if c != '<' {
			return r.fault(cargo.BadElement, "unexpected character data before closing tag")
		}
		if r.matchLiteral("<?") {
			if !r.policy.UnknownInstructionSkipped {
				return r.fault(cargo.UnknownInstruction, "processing instruction in element content")
			}
			r.in.FindString("?>", nil, true)
			continue
		}
		if r.matchLiteral("</") {
			if err := r.finishEndTag(name, group); err != nil {
				return err
			}
			break
		}
		childName, childGroup, childAttrs, childSelfClosing, err := r.openTagFull()
		if err != nil {
			return err
		}
		entry, ok := d.Inv.Find(childName, childGroup, cargo.RoleElement)
		if !ok {
			if child, allocated := cargo.Allocate(pkg, childName); allocated {
				// Dynamic-schema package: it accepts any tag.
				if err := r.dispatchElement(child, childName, childGroup, childAttrs, childSelfClosing); err != nil {
					return err
				}
				continue
			}
			if r.policy.UnknownNameSkipped {
				if err := r.skipElement(childName, childGroup, childSelfClosing); err != nil {
					return err
				}
				continue
			}
			return r.fault(cargo.UnknownTag, "unrecognized element %q", childName)
		}
		if entry.IsRepeating() {
			// entry.Available is the 0-based position of the instance about
			// to be parsed; it is bumped only after the instance lands.
			if err := r.dispatchArrayElement(pkg, entry, childName, childGroup, childAttrs, childSelfClosing); err != nil {
				return err
			}
			if err := entry.Bump(); err != nil {
				return r.fault(cargo.InventoryBoundsExceeded, "%v", err)
			}
			continue
		}
		if err := entry.Bump(); err != nil {
			// A second occurrence of a singular slot: the package may
			// promote it to an array through the AllocateArray hook.
			child, allocated := cargo.AllocateArray(pkg, childName)
			if !allocated {
				return r.fault(cargo.InventoryBoundsExceeded, "%v", err)
			}
			if err := r.dispatchElement(child, childName, childGroup, childAttrs, childSelfClosing); err != nil {
				return err
			}
			if !pkg.Insert(child, entry) {
				return r.fault(cargo.InvalidObject, "package rejected promoted child %q", childName)
			}
			continue
		}
		child, err := pkg.GetCargo(entry)
		if err != nil {
			return r.fault(cargo.BadDestination, "%v", err)
		}
		if err := r.dispatchElement(child, childName, childGroup, childAttrs, childSelfClosing); err != nil {
			return err
		}
	}

	return r.finish(d)
}

// dispatchArrayElement parses one element of a repeating entry. Unlike
// wirejson, XML has no bracketing array syntax: each repetition is its
// own `<name>` tag, so the repeated element itself (not a nested
// array-shaped Package) is what gets dispatched and inserted.
func (r *reader) dispatchArrayElement(pkg cargo.Package, entry *cargo.Entry, name, group string, attrs []attr, selfClosing bool) error {
	child, err := pkg.GetCargo(entry)
	if err != nil {
		return r.fault(cargo.BadDestination, "%v", err)
	}
	if err := r.dispatchElement(child, name, group, attrs, selfClosing); err != nil {
		return err
	}
	if !pkg.Insert(child, entry) {
		return r.fault(cargo.InvalidObject, "package rejected repeating child %q", name)
	}
	return nil
}

// skipElement consumes an element's entire subtree without a
// destination: character data, CDATA, comments, processing
// instructions, and nested elements down to the matching end tag.
// Used for Unknown sinks and lenient unknown-tag skipping.
func (r *reader) skipElement(name, group string, selfClosing bool) error {
	if selfClosing {
		return nil
	}
	for {
		c, ok := r.peek()
		if !ok {
			return r.fault(cargo.ClosingTagMissing, "unterminated element %q", name)
		}
		if c != '<' {
			r.in.Get()
			continue
		}
		if r.matchLiteral("<![CDATA[") {
			if !r.in.FindString("]]>", nil, true) {
				return r.fault(cargo.ClosingTagMissing, "unterminated CDATA section")
			}
			continue
		}
		if r.matchLiteral("<!--") {
			r.in.FindString("-->", nil, true)
			continue
		}
		if r.matchLiteral("<?") {
			r.in.FindString("?>", nil, true)
			continue
		}
		if r.matchLiteral("</") {
			return r.finishEndTag(name, group)
		}
		childName, childGroup, _, childSelfClosing, err := r.openTagFull()
		if err != nil {
			return err
		}
		if err := r.skipElement(childName, childGroup, childSelfClosing); err != nil {
			return err
		}
	}
}

// skipLeadingText discards whitespace-only character data and comments
// between sibling elements; any non-blank character data where an
// element is expected is left for the caller to flag as badElement.
func (r *reader) skipLeadingText() {
	for {
		r.skipSpace()
		mark := r.in.Offset()
		if r.matchLiteral("<!--") {
			r.in.FindString("-->", nil, true)
			continue
		}
		r.in.Seek(mark)
		return
	}
}

func (r *reader) finish(d *cargo.Driver) error {
	if err := d.Finish(r.policy.MissingEntryFailed); err != nil {
		return r.repositionFault(err)
	}
	return nil
}

func (r *reader) repositionFault(err error) error {
	f, ok := err.(*cargo.Fault)
	if !ok {
		return err
	}
	return r.fault(f.Kind, "%s", f.Message)
}
