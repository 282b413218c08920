package guardrail

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefinitionJSON stores a complete replacement definition as a jsonb column.
type DefinitionJSON Guardrail

func (d DefinitionJSON) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DefinitionJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, d)
}

// Override is a per-function replacement for a guardrail definition. It is
// created on the first edit of a function's rule and deleted by an explicit
// reset-to-defaults; the default definition itself is never touched.
type Override struct {
	FunctionID  string         `json:"function_id" gorm:"primaryKey;size:128"`
	GuardrailID string         `json:"guardrail_id" gorm:"primaryKey;size:128"`
	Definition  DefinitionJSON `json:"definition" gorm:"type:jsonb;not null"`
	Enabled     bool           `json:"enabled" gorm:"default:true"`
	UpdatedAt   time.Time      `json:"last_updated"`
}

func (o *Override) Validate() error {
	if o.FunctionID == "" {
		return fmt.Errorf("function_id is required")
	}
	if o.GuardrailID == "" {
		return fmt.Errorf("guardrail_id is required")
	}
	if o.Definition.ID == "" {
		return fmt.Errorf("definition is required")
	}
	if o.Definition.ID != o.GuardrailID {
		return fmt.Errorf("definition id %q does not match guardrail id %q", o.Definition.ID, o.GuardrailID)
	}
	def := Guardrail(o.Definition)
	return def.Validate()
}

func (o *Override) BeforeSave(tx *gorm.DB) error {
	o.UpdatedAt = time.Now()
	// The row-level flag is authoritative; keep the payload in step so a
	// resolved entry reports the same state either way.
	o.Definition.Enabled = o.Enabled
	return o.Validate()
}

func (o *Override) TableName() string {
	return "guardrail_overrides"
}

// Resolved returns the replacement definition as a plain Guardrail.
func (o *Override) Resolved() Guardrail {
	def := Guardrail(o.Definition)
	def.Enabled = o.Enabled
	return def
}
