// Package wirejson implements the JSON transport: a recursive-descent
// parser and writer that reconciles a token stream with an inventory
// published by a cargo.Package.
package wirejson

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"weave/buffer"
	"weave/cargo"
	"weave/charset"
)

// Receive parses a JSON document from src into target, following its
// identity id. src may be a string, []byte, io.Reader, or an already
// opened *buffer.BufferIn; a new source's encoding is discovered from its
// BOM or by content sniffing.
func Receive(src any, target cargo.Cargo, id cargo.Identity, policy cargo.Policy) error {
	in, err := openSource(src)
	if err != nil {
		return err
	}
	r := &reader{in: in, policy: policy}
	return r.value(target, id, cargo.StageRoot)
}

func openSource(src any) (*buffer.BufferIn, error) {
	switch v := src.(type) {
	case string:
		return buffer.NewFromString(v, nil)
	case []byte:
		return buffer.NewFromBytes(v, nil)
	case *buffer.BufferIn:
		return v, nil
	case io.Reader:
		return buffer.NewFromReader(v, nil)
	default:
		return nil, fmt.Errorf("wirejson: unsupported source type %T", src)
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

func (r *reader) expect(ch rune) error {
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

// value parses one JSON value into target at the given stage.
func (r *reader) value(target cargo.Cargo, id cargo.Identity, stage cargo.Stage) error {
	if p, ok := target.(cargo.Package); ok && cargo.IsUnknown(p) {
		return r.skipValue()
	}
	r.skipSpace()
	c, ok := r.peek()
	if !ok {
		return r.fault(cargo.ValueMissing, "value expected")
	}

	switch {
	case c == '{':
		pkg, isPkg := target.(cargo.Package)
		if !isPkg {
			return r.fault(cargo.BadDestination, "object found but target is not a package")
		}
		return r.object(pkg)
	case c == '[':
		return r.array(target)
	case c == '"':
		s, err := r.quotedString()
		if err != nil {
			return err
		}
		return r.assignItem(target, cargo.Value{Kind: cargo.ValueString, String: s})
	case c == 't' || c == 'f':
		return r.boolean(target)
	case c == 'n':
		return r.null(target)
	case c == '-' || (c >= '0' && c <= '9'):
		return r.number(target)
	default:
		return r.fault(cargo.BadValue, "unexpected character %q", c)
	}
}

func (r *reader) assignItem(target cargo.Cargo, v cargo.Value) error {
	if cargo.IsUnknown(asPackage(target)) {
		return nil
	}
	item, ok := target.(cargo.Item)
	if !ok {
		return r.fault(cargo.BadDestination, "scalar value found but target is not an item")
	}
	if err := item.ReadValue(v); err != nil {
		return r.fault(cargo.BadValue, "item rejected value: %v", err)
	}
	return nil
}

func asPackage(c cargo.Cargo) cargo.Package {
	p, _ := c.(cargo.Package)
	return p
}

func (r *reader) boolean(target cargo.Cargo) error {
	if r.matchLiteral("true") {
		return r.assignItem(target, cargo.Value{Kind: cargo.ValueBool, Bool: true})
	}
	if r.matchLiteral("false") {
		return r.assignItem(target, cargo.Value{Kind: cargo.ValueBool, Bool: false})
	}
	return r.fault(cargo.BadValue, "expected true or false")
}

func (r *reader) null(target cargo.Cargo) error {
	if !r.matchLiteral("null") {
		return r.fault(cargo.BadValue, "expected null")
	}
	return r.assignItem(target, cargo.Value{Kind: cargo.ValueNull})
}

// matchLiteral consumes lit from the current position if it is an exact
// prefix match, leaving the cursor untouched otherwise.
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

// number matches the integer grammar -?[0-9]+ first, falling back to
// the floating grammar -?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?.
func (r *reader) number(target cargo.Cargo) error {
	var sb strings.Builder
	isFloat := false

	if c, ok := r.peek(); ok && c == '-' {
		sb.WriteRune(c)
		r.in.Get()
	}
	digits := 0
	for {
		c, ok := r.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		sb.WriteRune(c)
		r.in.Get()
		digits++
	}
	if digits == 0 {
		return r.fault(cargo.BadValue, "expected digit")
	}
	if c, ok := r.peek(); ok && c == '.' {
		isFloat = true
		sb.WriteRune(c)
		r.in.Get()
		fraction := 0
		for {
			c, ok := r.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			sb.WriteRune(c)
			r.in.Get()
			fraction++
		}
		if fraction == 0 {
			return r.fault(cargo.BadValue, "expected digit after decimal point")
		}
	}
	if c, ok := r.peek(); ok && (c == 'e' || c == 'E') {
		isFloat = true
		sb.WriteRune(c)
		r.in.Get()
		if c, ok := r.peek(); ok && (c == '+' || c == '-') {
			sb.WriteRune(c)
			r.in.Get()
		}
		for {
			c, ok := r.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			sb.WriteRune(c)
			r.in.Get()
		}
	}

	text := sb.String()
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return r.fault(cargo.BadValue, "malformed number %q", text)
		}
		return r.assignItem(target, cargo.Value{Kind: cargo.ValueDouble, Double: f})
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return r.fault(cargo.BadValue, "malformed integer %q", text)
	}
	return r.assignItem(target, cargo.Value{Kind: cargo.ValueInt64, Int64: n})
}

// quotedString parses a JSON string literal (including the surrounding
// quotes) and returns its decoded contents.
func (r *reader) quotedString() (string, error) {
	if err := r.expect('"'); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		c, ok := r.peek()
		if !ok {
			return "", r.fault(cargo.ClosingQuoteMissing, "unterminated string")
		}
		if c == '"' {
			r.in.Get()
			return sb.String(), nil
		}
		if c == '\\' {
			r.in.Get()
			esc, ok := r.peek()
			if !ok {
				return "", r.fault(cargo.ClosingQuoteMissing, "unterminated escape")
			}
			switch esc {
			case '"', '\\', '/':
				sb.WriteRune(esc)
				r.in.Get()
			case 'b':
				sb.WriteRune('\b')
				r.in.Get()
			case 'f':
				sb.WriteRune('\f')
				r.in.Get()
			case 'n':
				sb.WriteRune('\n')
				r.in.Get()
			case 'r':
				sb.WriteRune('\r')
				r.in.Get()
			case 't':
				sb.WriteRune('\t')
				r.in.Get()
			case 'u':
				r.in.Get()
				unit, err := r.hex4()
				if err != nil {
					return "", err
				}
				// A \u escape decodes as a single UTF-16 code unit,
				// re-encoded to UTF-8 directly. Surrogate pairs are not
				// joined: a surrogate half becomes a standalone code
				// point. This matches the observed behaviour of the
				// reference parser rather than "fixing" it.
				sb.WriteRune(rune(unit))
			default:
				return "", r.fault(cargo.UnknownEscapeChar, "unknown escape \\%c", esc)
			}
			continue
		}
		sb.WriteRune(c)
		r.in.Get()
	}
}

// skipValue consumes one JSON value of any shape without a destination.
// Used wherever a subtree must be absorbed and discarded: Unknown
// sinks, lenient unknown-key skipping, and keys that belong to the
// other pass of the attribute-first protocol.
func (r *reader) skipValue() error {
	r.skipSpace()
	c, ok := r.peek()
	if !ok {
		return r.fault(cargo.ValueMissing, "value expected")
	}
	switch {
	case c == '{':
		r.in.Get()
		r.skipSpace()
		if c, ok := r.peek(); ok && c == '}' {
			r.in.Get()
			return nil
		}
		for {
			r.skipSpace()
			if _, err := r.quotedString(); err != nil {
				return err
			}
			r.skipSpace()
			if err := r.expect(':'); err != nil {
				return err
			}
			if err := r.skipValue(); err != nil {
				return err
			}
			r.skipSpace()
			c, ok := r.peek()
			if !ok {
				return r.fault(cargo.UnbalancedScope, "unterminated object")
			}
			if c == ',' {
				r.in.Get()
				continue
			}
			if c == '}' {
				r.in.Get()
				return nil
			}
			return r.fault(cargo.BadDelimiter, "expected ',' or '}', found %q", c)
		}
	case c == '[':
		r.in.Get()
		r.skipSpace()
		if c, ok := r.peek(); ok && c == ']' {
			r.in.Get()
			return nil
		}
		for {
			if err := r.skipValue(); err != nil {
				return err
			}
			r.skipSpace()
			c, ok := r.peek()
			if !ok {
				return r.fault(cargo.UnbalancedScope, "unterminated array")
			}
			if c == ',' {
				r.in.Get()
				continue
			}
			if c == ']' {
				r.in.Get()
				return nil
			}
			return r.fault(cargo.BadDelimiter, "expected ',' or ']', found %q", c)
		}
	case c == '"':
		_, err := r.quotedString()
		return err
	case c == 't':
		if !r.matchLiteral("true") {
			return r.fault(cargo.BadValue, "expected true")
		}
		return nil
	case c == 'f':
		if !r.matchLiteral("false") {
			return r.fault(cargo.BadValue, "expected false")
		}
		return nil
	case c == 'n':
		if !r.matchLiteral("null") {
			return r.fault(cargo.BadValue, "expected null")
		}
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		return r.number(&cargo.Unknown{})
	default:
		return r.fault(cargo.BadValue, "unexpected character %q", c)
	}
}

func (r *reader) hex4() (uint16, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		c, ok := r.peek()
		if !ok {
			return 0, r.fault(cargo.BadValue, "truncated \\u escape")
		}
		var n uint16
		switch {
		case c >= '0' && c <= '9':
			n = uint16(c - '0')
		case c >= 'a' && c <= 'f':
			n = uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			n = uint16(c-'A') + 10
		default:
			return 0, r.fault(cargo.BadValue, "invalid hex digit %q in \\u escape", c)
		}
		v = v<<4 | n
		r.in.Get()
	}
	return v, nil
}

func (r *reader) object(pkg cargo.Package) error {
	restorePoint := r.in.Offset()

	d, err := cargo.NewDriver(pkg, r.policy.EveryEntryRequired)
	if err != nil {
		return r.repositionFault(err)
	}

	if err := r.expect('{'); err != nil {
		return err
	}

	if pkg.IsAttributeFirst() {
		// Pass 1: consume attribute-role entries only; element-role keys
		// are parsed into a throwaway sink and revisited in pass 2, since
		// JSON gives no ordering guarantee between a type discriminator
		// and the fields it governs.
		attrRole := cargo.RoleAttribute
		if err := r.objectBody(pkg, d.Inv, &attrRole); err != nil {
			return err
		}
		if err := pkg.FinaliseAttributes(); err != nil {
			return r.fault(cargo.InvalidObject, "finalising attributes: %v", err)
		}

		if err := r.in.Seek(restorePoint); err != nil {
			return r.fault(cargo.ParsingError, "%v", err)
		}
		if err := r.expect('{'); err != nil {
			return err
		}

		// FinaliseAttributes may have swapped pkg's effective concrete
		// type; re-publish the inventory so pass 2 sees the resolved
		// type's element entries.
		inv2 := &cargo.Inventory{}
		if !pkg.FillInventory(inv2) {
			return r.fault(cargo.MissingInventory, "package declined to publish an inventory after finalising attributes")
		}
		inv2.Reset(r.policy.EveryEntryRequired)
		d2 := &cargo.Driver{Package: pkg, Inv: inv2}

		elemRole := cargo.RoleElement
		if err := r.objectBody(pkg, d2.Inv, &elemRole); err != nil {
			return err
		}
		return r.finish(d2)
	}

	if err := r.objectBody(pkg, d.Inv, nil); err != nil {
		return err
	}
	return r.finish(d)
}

// objectBody parses the comma-separated "name": value pairs of an
// already-opened JSON object against inv. If roleFilter is non-nil,
// only entries whose Role matches it are dispatched to pkg; a key that
// belongs to the other pass has its value consumed without a destination
// and without bumping Available, so that pass can process it for real
// (the attribute-first restore-point protocol).
func (r *reader) objectBody(pkg cargo.Package, inv *cargo.Inventory, roleFilter *cargo.Role) error {
	r.skipSpace()
	if c, ok := r.peek(); ok && c == '}' {
		r.in.Get()
		return nil
	}

	for {
		r.skipSpace()
		name, err := r.quotedString()
		if err != nil {
			return err
		}
		r.skipSpace()
		if err := r.expect(':'); err != nil {
			return err
		}
		r.skipSpace()

		lookupRole := cargo.RoleElement
		if roleFilter != nil {
			lookupRole = *roleFilter
		}
		// A "group:local" key (the Namespaces option) is only ever
		// produced by this package's own writer; split it back apart so a
		// round trip resolves against the same Entry it came from.
		group, local := "", name
		if idx := strings.IndexByte(name, ':'); idx >= 0 {
			group, local = name[:idx], name[idx+1:]
		}
		entry, found := inv.Find(local, group, lookupRole)

		if !found {
			// In pass 1 every non-attribute key is left to pass 2; in
			// pass 2 a key naming an attribute entry was read in pass 1.
			// Any other key falls through to the unknown-name handling.
			otherPass := roleFilter != nil && *roleFilter == cargo.RoleAttribute
			if roleFilter != nil && !otherPass {
				_, otherPass = inv.Find(local, group, cargo.RoleAttribute)
			}
			switch {
			case otherPass:
				if err := r.skipValue(); err != nil {
					return err
				}
			default:
				if child, allocated := cargo.Allocate(pkg, local); allocated {
					// Dynamic-schema package: it accepts any name.
					if err := r.value(child, cargo.Identity{Name: local, Group: group}, cargo.StageObject); err != nil {
						return err
					}
				} else if r.policy.UnknownNameSkipped {
					if err := r.skipValue(); err != nil {
						return err
					}
				} else {
					return r.fault(cargo.UnknownName, "unrecognized key %q", name)
				}
			}
		} else {
			if err := entry.Bump(); err != nil {
				// A second occurrence of a singular slot: the package may
				// promote it to an array through the AllocateArray hook.
				child, allocated := cargo.AllocateArray(pkg, local)
				if !allocated {
					return r.fault(cargo.InventoryBoundsExceeded, "%v", err)
				}
				if err := r.value(child, entry.Identity, cargo.StageObject); err != nil {
					return err
				}
				if !pkg.Insert(child, entry) {
					return r.fault(cargo.InvalidObject, "package rejected promoted child %q", local)
				}
			} else {
				// A repeating entry's child is itself an array-shaped
				// Package that owns its own element bookkeeping and
				// insertion; a scalar entry's child is mutated in place
				// by ReadValue.
				child, err := pkg.GetCargo(entry)
				if err != nil {
					return r.fault(cargo.BadDestination, "%v", err)
				}
				if err := r.value(child, entry.Identity, cargo.StageObject); err != nil {
					return err
				}
			}
		}

		r.skipSpace()
		c, ok := r.peek()
		if !ok {
			return r.fault(cargo.UnbalancedScope, "unterminated object")
		}
		if c == ',' {
			r.in.Get()
			continue
		}
		if c == '}' {
			r.in.Get()
			break
		}
		return r.fault(cargo.BadDelimiter, "expected ',' or '}', found %q", c)
	}

	return nil
}

// finish runs the driver's whole-object post-conditions and rewrites any
// resulting Fault with the reader's current row/column, since Driver has
// no notion of input position.
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

func (r *reader) array(target cargo.Cargo) error {
	pkg, isPkg := target.(cargo.Package)
	if !isPkg {
		return r.fault(cargo.BadDestination, "array found but target is not a package")
	}

	d, err := cargo.NewDriver(pkg, r.policy.EveryEntryRequired)
	if err != nil {
		return r.repositionFault(err)
	}
	if !d.Inv.IsArray() {
		return r.fault(cargo.BadDestination, "package is not array-shaped")
	}

	if err := r.expect('['); err != nil {
		return err
	}
	r.skipSpace()
	if c, ok := r.peek(); ok && c == ']' {
		r.in.Get()
		return r.finish(d)
	}

	for {
		entry := d.ArrayEntry()
		child, err := pkg.GetCargo(entry)
		if err != nil {
			return r.fault(cargo.BadDestination, "%v", err)
		}
		if err := r.value(child, entry.Identity, cargo.StageArray); err != nil {
			return err
		}
		if !pkg.Insert(child, entry) {
			return r.fault(cargo.InvalidObject, "package rejected array element")
		}
		if err := d.BumpArray(entry); err != nil {
			return r.fault(cargo.InventoryBoundsExceeded, "%v", err)
		}

		r.skipSpace()
		c, ok := r.peek()
		if !ok {
			return r.fault(cargo.UnbalancedScope, "unterminated array")
		}
		if c == ',' {
			r.in.Get()
			r.skipSpace()
			continue
		}
		if c == ']' {
			r.in.Get()
			break
		}
		return r.fault(cargo.BadDelimiter, "expected ',' or ']', found %q", c)
	}

	return r.finish(d)
}
