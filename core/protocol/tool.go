package protocol

// Tool defines a function the model may call during a turn.
// Parameters describes the function's input in JSON Schema format.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
