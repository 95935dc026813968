package models

import "time"

// ConfigurationType describes how a configuration value is encoded.
type ConfigurationType string

const (
	ConfigurationTypeString ConfigurationType = "string"
	ConfigurationTypeNumber ConfigurationType = "number"
	ConfigurationTypeBool   ConfigurationType = "boolean"
)

// Configuration is a key/value row in the configurations table.
type Configuration struct {
	Key         string            `db:"key" json:"key"`
	Value       string            `db:"value" json:"value"`
	Type        ConfigurationType `db:"type" json:"type"`
	Description *string           `db:"description" json:"description,omitempty"`
	UpdatedBy   *string           `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}
