package llm

// Role is who said a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// SchemaType is a JSON schema primitive.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeString SchemaType = "string"
)

// Schema is the slice of JSON schema needed to describe an insight card.
// Each provider translates it into its own structured-output option.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Order fixes property order for providers that honour it.
	Order    []string
	Required []string
}

type CompletionRequest struct {
	// Model overrides the provider's configured model when set.
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	// JSONMode asks for a bare JSON object. Schema, when set, implies it.
	JSONMode bool
	Schema   *Schema
}

func (r CompletionRequest) wantsJSON() bool {
	return r.JSONMode || r.Schema != nil
}

type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	// Model is the model that actually answered, as reported by the API.
	Model        string
	FinishReason string
}
