package wirejson

import (
	"fmt"
	"strconv"
	"strings"

	"weave/buffer"
	"weave/cargo"
)

// Send serializes target, identified by id, to a JSON document written
// to sb, honoring policy's formatting flags.
func Send(sb *strings.Builder, target cargo.Cargo, id cargo.Identity, policy cargo.Policy) error {
	w := &writer{sb: sb, policy: policy}
	w.value(target, 0)
	return nil
}

// SendTo serializes target through out, encoding the document in out's
// data format (with its BOM, when the format carries one). The Prolog
// option is accepted for API uniformity with wirexml but emits nothing
// for JSON.
func SendTo(out *buffer.BufferOut, target cargo.Cargo, id cargo.Identity, policy cargo.Policy) error {
	var sb strings.Builder
	if err := Send(&sb, target, id, policy); err != nil {
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

func (w *writer) value(c cargo.Cargo, depth int) {
	switch v := c.(type) {
	case nil:
		w.sb.WriteString("null")
	case cargo.Item:
		w.scalar(v.WriteValue())
	case cargo.Package:
		if cargo.IsUnknown(v) {
			w.sb.WriteString("null")
			return
		}
		w.pkg(v, depth)
	default:
		if c == cargo.Null {
			w.sb.WriteString("null")
			return
		}
		w.sb.WriteString("null")
	}
}

func (w *writer) scalar(v cargo.Value) {
	switch v.Kind {
	case cargo.ValueNull:
		w.sb.WriteString("null")
	case cargo.ValueBool:
		if v.Bool {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case cargo.ValueInt64:
		w.sb.WriteString(strconv.FormatInt(v.Int64, 10))
	case cargo.ValueDouble:
		w.sb.WriteString(strconv.FormatFloat(v.Double, 'g', -1, 64))
	default:
		w.quoted(v.AsString())
	}
}

// keyName renders an entry's wire name, colon-joining the namespace
// prefix when the Namespaces option is set and the entry carries a
// Group.
func (w *writer) keyName(id cargo.Identity) string {
	if w.policy.Namespaces && id.Group != "" {
		return id.Group + ":" + id.Name
	}
	return id.Name
}

func (w *writer) quoted(s string) {
	w.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			w.sb.WriteString(`\"`)
		case '\\':
			w.sb.WriteString(`\\`)
		case '\b':
			w.sb.WriteString(`\b`)
		case '\f':
			w.sb.WriteString(`\f`)
		case '\n':
			w.sb.WriteString(`\n`)
		case '\r':
			w.sb.WriteString(`\r`)
		case '\t':
			w.sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(w.sb, `\u%04x`, r)
			} else {
				w.sb.WriteRune(r)
			}
		}
	}
	w.sb.WriteByte('"')
}

func (w *writer) pkg(pkg cargo.Package, depth int) {
	inv := &cargo.Inventory{}
	pkg.FillInventory(inv)

	if inv.IsArray() {
		w.array(pkg, &inv.Entries[0], depth)
		return
	}

	w.sb.WriteByte('{')
	first := true
	for i := range inv.Entries {
		entry := &inv.Entries[i]
		if entry.IsRepeating() && entry.Available == 0 {
			continue // empty optional array: omit rather than emit "[]"
		}
		if !first {
			w.sb.WriteByte(',')
		}
		first = false
		w.newline(depth + 1)
		w.quoted(w.keyName(entry.Identity))
		w.sb.WriteByte(':')
		if w.policy.NormalizedLineFeeds() {
			w.sb.WriteByte(' ')
		}
		snapshot := *entry
		snapshot.Available = 0
		child, err := pkg.GetCargo(&snapshot)
		if err != nil {
			w.sb.WriteString("null")
			continue
		}
		w.value(child, depth+1)
	}
	if !first {
		w.newline(depth)
	}
	w.sb.WriteByte('}')
}

func (w *writer) array(pkg cargo.Package, entry *cargo.Entry, depth int) {
	w.sb.WriteByte('[')
	for n := 0; n < entry.Available; n++ {
		if n > 0 {
			w.sb.WriteByte(',')
		}
		w.newline(depth + 1)
		snapshot := *entry
		snapshot.Available = n
		child, err := pkg.GetCargo(&snapshot)
		if err != nil {
			w.sb.WriteString("null")
			continue
		}
		w.value(child, depth+1)
	}
	if entry.Available > 0 {
		w.newline(depth)
	}
	w.sb.WriteByte(']')
}
