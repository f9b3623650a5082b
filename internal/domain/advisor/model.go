package advisor

// Alert flags weather that will affect the panels.
type Alert struct {
	IsActive    bool   `json:"isActive"`
	Description string `json:"description"`
}

// Advisory is the structured panel-management guidance derived from weather
// data. Produced transiently per request, never persisted.
type Advisory struct {
	Alert        Alert    `json:"alert"`
	Instructions []string `json:"instructions"`
}

// Config wires runtime settings for the advisor domain.
type Config struct {
	Model           string
	Temperature     float32
	Prompt          string
	MaxInstructions int
	RetryOnBadParse bool
}
