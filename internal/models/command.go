package models

// SupportedLanguages are the recognition languages offered to the client
var SupportedLanguages = []Language{
	{Tag: "en-IN", Label: "English (India)"},
	{Tag: "en-US", Label: "English (US)"},
	{Tag: "hi-IN", Label: "हिंदी (Hindi)"},
	{Tag: "mr-IN", Label: "मराठी (Marathi)"},
	{Tag: "bn-IN", Label: "বাংলা (Bengali)"},
	{Tag: "ta-IN", Label: "தமிழ் (Tamil)"},
}

// Language is a speech recognition language option
type Language struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// IsSupportedLanguage reports whether tag is one of SupportedLanguages.
func IsSupportedLanguage(tag string) bool {
	for _, l := range SupportedLanguages {
		if l.Tag == tag {
			return true
		}
	}
	return false
}

// Command is one final transcript to interpret against an owner's list
type Command struct {
	Owner      string
	Transcript string
	Lang       string
}

// CommandSource names the interpreter that produced the actions
type CommandSource string

const (
	SourcePriceFilter CommandSource = "price_filter"
	SourceNLU         CommandSource = "nlu"
	SourceFallback    CommandSource = "fallback"
)

// ActionOp is the list operation an interpreter performed
type ActionOp string

const (
	OpAdd       ActionOp = "add"
	OpRemove    ActionOp = "remove"
	OpDecrement ActionOp = "decrement"
	OpRename    ActionOp = "rename"
	OpSetQty    ActionOp = "set_qty"
	OpClear     ActionOp = "clear"
	OpSearch    ActionOp = "search"
	OpPropose   ActionOp = "propose"
	OpNoop      ActionOp = "noop"
)

// Action records one applied operation
type Action struct {
	Op     ActionOp `json:"op"`
	Item   string   `json:"item,omitempty"`
	Target string   `json:"target,omitempty"`
	Qty    int      `json:"qty,omitempty"`
}

// SubstituteProposal offers alternatives for an item without changing the list
type SubstituteProposal struct {
	Item         string   `json:"item"`
	Alternatives []string `json:"alternatives"`
}

// Status messages for search outcomes
const (
	SearchStatusOK        = "ok"
	SearchStatusNoResults = "No products found for that filter."
	SearchStatusFailed    = "Product search failed."
)

// SearchOutcome is the rendered result of a product search
type SearchOutcome struct {
	Query    PriceFilterQuery `json:"query"`
	Products []Product        `json:"products"`
	Status   string           `json:"status"`
}

// CommandResult is what one dispatch produced; it doubles as the re-render signal.
type CommandResult struct {
	ID         string               `json:"id"`
	Transcript string               `json:"transcript"`
	Lang       string               `json:"lang"`
	Source     CommandSource        `json:"source"`
	Actions    []Action             `json:"actions"`
	Proposals  []SubstituteProposal `json:"proposals,omitempty"`
	Search     *SearchOutcome       `json:"search,omitempty"`
	List       *GroupedList         `json:"list,omitempty"`
}

// Record appends an applied action.
func (r *CommandResult) Record(a Action) {
	r.Actions = append(r.Actions, a)
}

// Propose appends a substitute proposal when there are alternatives.
func (r *CommandResult) Propose(item string, alternatives []string) {
	if len(alternatives) == 0 {
		return
	}
	r.Proposals = append(r.Proposals, SubstituteProposal{Item: item, Alternatives: alternatives})
}

// CommandRequest is the request body for interpreting a transcript
type CommandRequest struct {
	Transcript string `json:"transcript"`
	Lang       string `json:"lang"`
}
