package protocol

// Request methods.
const (
	MethodInitialize  = "initialize"
	MethodShutdown    = "shutdown"
	MethodExit        = "exit"
	MethodInheritance = "hierarchy/inheritance"
	MethodCall        = "hierarchy/call"
	MethodMember      = "hierarchy/member"
	MethodDataFlow    = "hierarchy/dataFlow"
)

// Server-to-client notification methods.
const (
	MethodProgress         = "status/progress"
	MethodPublishHighlight = "highlight/publish"
)

type InitializeParams struct {
	ProcessID             int            `json:"processId,omitempty"`
	RootURI               string         `json:"rootUri,omitempty"`
	InitializationOptions map[string]any `json:"initializationOptions,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

type ServerCapabilities struct {
	InheritanceProvider bool `json:"inheritanceProvider,omitempty"`
	CallProvider        bool `json:"callProvider,omitempty"`
	MemberProvider      bool `json:"memberProvider,omitempty"`
	DataFlowProvider    bool `json:"dataFlowProvider,omitempty"`
}

// InheritanceParams addresses a symbol either by cursor (TextDocument +
// Position) or by a previously returned id + kind.
type InheritanceParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument,omitempty"`
	Position     *Position               `json:"position,omitempty"`
	ID           string                  `json:"id,omitempty"`
	Kind         int                     `json:"kind,omitempty"`

	Direction Direction `json:"direction"`
	Levels    int       `json:"levels"`
	Qualified bool      `json:"qualified"`
}

type CallParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument,omitempty"`
	Position     *Position               `json:"position,omitempty"`
	ID           string                  `json:"id,omitempty"`

	Direction CallDirection `json:"direction"`
	CallType  CallType      `json:"callType"`
	Levels    int           `json:"levels"`
	Qualified bool          `json:"qualified"`
}

type MemberParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument,omitempty"`
	Position     *Position               `json:"position,omitempty"`
	ID           string                  `json:"id,omitempty"`

	Kind      int  `json:"kind"`
	Levels    int  `json:"levels"`
	Qualified bool `json:"qualified"`
}

type DataFlowParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument,omitempty"`
	Position     *Position               `json:"position,omitempty"`
	ID           string                  `json:"id,omitempty"`
}

type ProgressParams struct {
	Jobs int `json:"jobs"`
}

type HighlightSymbol struct {
	StableID int     `json:"stableId"`
	Kind     int     `json:"kind"`
	Ranges   []Range `json:"ranges"`
}

type PublishHighlightParams struct {
	URI     string            `json:"uri"`
	Symbols []HighlightSymbol `json:"symbols"`
}
