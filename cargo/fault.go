package cargo

import "fmt"

// FaultKind enumerates the error taxonomy shared by both transports.
// XML-only kinds are included here too so that both wire formats raise
// from one vocabulary.
type FaultKind int

const (
	UnknownEscapeChar FaultKind = iota
	BadEncoding
	BadSource
	NameMissing
	IncompleteContext
	ParsingError
	ClosingQuoteMissing
	ValueMissing
	BadValue
	BadDestination
	MissingInventory
	UnbalancedScope
	BadDelimiter
	InventoryBoundsExceeded
	InvalidObject
	UnknownName
	InstanceMissing

	// XML-only
	UnboundedTag
	UnknownSection
	UnknownInstruction
	MissingTagName
	MissingAttributes
	AttributeEqualMissing
	AttributeQuoteMissing
	ClosingTagMissing
	BadName
	BadElement
	UnknownTag
)

var faultKindNames = map[FaultKind]string{
	UnknownEscapeChar:       "unknownEscapeChar",
	BadEncoding:             "badEncoding",
	BadSource:               "badSource",
	NameMissing:             "nameMissing",
	IncompleteContext:       "incompleteContext",
	ParsingError:            "parsingError",
	ClosingQuoteMissing:     "closingQuoteMissing",
	ValueMissing:            "valueMissing",
	BadValue:                "badValue",
	BadDestination:          "badDestination",
	MissingInventory:        "missingInventory",
	UnbalancedScope:         "unbalancedScope",
	BadDelimiter:            "badDelimiter",
	InventoryBoundsExceeded: "inventoryBoundsExceeded",
	InvalidObject:           "invalidObject",
	UnknownName:             "unknownName",
	InstanceMissing:         "instanceMissing",
	UnboundedTag:            "unboundedTag",
	UnknownSection:          "unknownSection",
	UnknownInstruction:      "unknownInstruction",
	MissingTagName:          "missingTagName",
	MissingAttributes:       "missingAttributes",
	AttributeEqualMissing:   "attributeEqualMissing",
	AttributeQuoteMissing:   "attributeQuoteMissing",
	ClosingTagMissing:       "closingTagMissing",
	BadName:                 "badName",
	BadElement:              "badElement",
	UnknownTag:              "unknownTag",
}

func (k FaultKind) String() string {
	if s, ok := faultKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Fault is the single typed failure kind both transports raise,
// accompanied by a human-readable message and the last row/column
// observed in the input.
type Fault struct {
	Kind    FaultKind
	Message string
	Row     int
	Column  int
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", f.Kind, f.Row, f.Column, f.Message)
}

// NewFault constructs a Fault at the given position.
func NewFault(kind FaultKind, row, col int, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...), Row: row, Column: col}
}
