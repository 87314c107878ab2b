package model

import "time"

type KnowledgeSource string

const (
	KnowledgeSourceManual KnowledgeSource = "manual"
	KnowledgeSourcePDF    KnowledgeSource = "pdf"
	KnowledgeSourceURL    KnowledgeSource = "url"
	KnowledgeSourceImport KnowledgeSource = "import"
)

// KnowledgeEntry is a trainable content unit fed to the backend's AI reply
// pipeline. The client only shuttles it; ingestion and training happen
// server-side.
type KnowledgeEntry struct {
	Id              string                 `json:"_id"`
	Organization    string                 `json:"organization"`
	Source          KnowledgeSource        `json:"source"`
	Type            string                 `json:"type,omitempty"`
	Category        string                 `json:"category"`
	Title           string                 `json:"title"`
	Content         string                 `json:"content"`
	Tags            []string               `json:"tags,omitempty"`
	Keywords        []string               `json:"keywords,omitempty"`
	Priority        int                    `json:"priority"`
	IsTrainingData  bool                   `json:"isTrainingData"`
	TrainingContext string                 `json:"trainingContext,omitempty"`
	TrainingWeight  float64                `json:"trainingWeight"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	UsageCount      int                    `json:"usageCount"`
	LastUsedAt      *time.Time             `json:"lastUsedAt,omitempty"`
	IsActive        bool                   `json:"isActive"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}
