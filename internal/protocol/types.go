package protocol

// Wire types shared with the analysis server. Positions are 0-based
// line/character pairs; URIs are plain document identifier strings.

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// DocumentPosition is a cursor: a document plus a position inside it.
type DocumentPosition struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// Entry is one node of a hierarchy response. NumChildren is the server's
// authoritative child count; Children may arrive empty even when
// NumChildren > 0 (the levels request parameter is a hint, not a guarantee).
type Entry struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Location    *Location `json:"location,omitempty"`
	NumChildren int       `json:"numChildren"`
	Children    []Entry   `json:"children,omitempty"`

	// Variant fields, present per relation kind.
	Kind            int      `json:"kind,omitempty"`
	CallKind        CallKind `json:"callKind,omitempty"`
	FieldDescriptor string   `json:"fieldDescriptor,omitempty"`
}

// Direction selects which side of the inheritance relation to expand.
type Direction string

const (
	DirectionBase    Direction = "base"
	DirectionDerived Direction = "derived"
)

// CallDirection is the global callers/callees toggle of the call relation.
type CallDirection string

const (
	CallDirectionCallers CallDirection = "callers"
	CallDirectionCallees CallDirection = "callees"
)

// CallType is a bitmask of call-edge categories.
type CallType int

const (
	CallTypeNormal CallType = 1 << iota
	CallTypeBase
	CallTypeDerived
)

// CallTypeAll requests the union of all edge categories. Every call query
// issued by this client uses it.
const CallTypeAll = CallTypeNormal | CallTypeBase | CallTypeDerived

// CallKind classifies a single call edge in a response.
type CallKind string

const (
	CallKindNormal  CallKind = "normal"
	CallKindBase    CallKind = "base"
	CallKindDerived CallKind = "derived"
)

// Symbol kinds, matching the server's numbering.
const (
	SymbolKindFile        = 1
	SymbolKindModule      = 2
	SymbolKindNamespace   = 3
	SymbolKindPackage     = 4
	SymbolKindClass       = 5
	SymbolKindMethod      = 6
	SymbolKindProperty    = 7
	SymbolKindField       = 8
	SymbolKindConstructor = 9
	SymbolKindEnum        = 10
	SymbolKindInterface   = 11
	SymbolKindFunction    = 12
	SymbolKindVariable    = 13
	SymbolKindConstant    = 14
)
