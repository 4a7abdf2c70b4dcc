package models

// PlantScan stores the result of one AI identification so the client can
// show a history of analyzed plants.
type PlantScan struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	Slug           string `gorm:"index" json:"slug"` // slug of the scientific name

	Name           string   `json:"name"` // Bengali common name (English in brackets)
	ScientificName string   `json:"scientific_name"`
	Water          string   `json:"water"`
	Sunlight       string   `json:"sunlight"`
	Soil           string   `json:"soil"`
	Care           string   `json:"care"`
	Disease        string   `json:"disease"`
	Tips           []string `json:"tips" gorm:"serializer:json"`

	Verdict  string `gorm:"type:varchar(16);default:'ok'" json:"verdict"` // ok | offline
	PhotoURL string `json:"photo_url,omitempty"`

	Timestamps
}
