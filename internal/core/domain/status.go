package domain

// StatusRunning is the status reported by a healthy service.
const StatusRunning = "running"

// Status describes the running system.
type Status struct {
	Status         string `json:"status"`
	DocumentsCount int    `json:"documents_count"`
	EmbeddingModel string `json:"embedding_model"`
	LLMModel       string `json:"llm_model"`
	IndexBackend   string `json:"index_backend"`
	Dimensions     int    `json:"dimensions"`
}
