package cargo

// Policy carries the transport options: formatting choices for the
// writer and leniency choices for the reader. JSON ignores
// UnknownInstructionSkipped and emits nothing for Prolog; both
// transports honor Namespaces the same way, writing a grouped name as
// "group:local" (in XML, a namespace prefix on the tag or attribute).
type Policy struct {
	// Writer formatting
	Tabbed     bool // implies LineFeeds
	LineFeeds  bool
	Namespaces bool
	Prolog     bool

	// Reader leniency
	UnknownNameSkipped        bool
	EveryEntryRequired        bool
	MissingEntryFailed        bool
	UnknownInstructionSkipped bool
}

// DefaultPolicy matches the conservative defaults: compact output,
// unknown names are NOT silently skipped, missing required entries fail
// the parse, and unknown processing instructions are skipped.
func DefaultPolicy() Policy {
	return Policy{
		MissingEntryFailed:        true,
		UnknownInstructionSkipped: true,
	}
}

func (p Policy) NormalizedLineFeeds() bool {
	return p.LineFeeds || p.Tabbed
}
