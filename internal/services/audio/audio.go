// Package audio holds the message shapes shared by every VoiSpark capability:
// generated audio task results, model catalogs and provider config decoding.
package audio

import (
    "bytes"
    "encoding/json"
    "fmt"
    "strings"

    "voispark-mcp/internal/validate"
)

type Format struct {
    Container  string `json:"container" validate:"required"`
    Encoding   string `json:"encoding" validate:"required"`
    SampleRate int    `json:"sample_rate"`
    Channel    int    `json:"channel"`
}

func (f *Format) UnmarshalJSON(b []byte) error {
    type plain Format
    if err := RequireKeys(b, "container", "encoding", "sample_rate", "channel"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(f))
}

type TaskDetails struct {
    URL    string `json:"url" validate:"required"`
    Format Format `json:"format"`
}

func (d *TaskDetails) UnmarshalJSON(b []byte) error {
    type plain TaskDetails
    if err := RequireKeys(b, "url", "format"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(d))
}

type TaskStatus string

const (
    TaskSuccess TaskStatus = "success"
    TaskFailed  TaskStatus = "failed"
)

// TaskResponse is the result of a synchronous generation request. Details is
// expected on success and Error on failure, but neither is guaranteed.
type TaskResponse struct {
    TaskID  string       `json:"task_id" validate:"required"`
    Status  TaskStatus   `json:"status" validate:"required,oneof=success failed"`
    Details *TaskDetails `json:"details,omitempty"`
    Error   *string      `json:"error,omitempty"`
}

type ParamType string

const (
    ParamSelect  ParamType = "select"
    ParamFloat   ParamType = "float"
    ParamInt     ParamType = "int"
    ParamBoolean ParamType = "boolean"
    ParamString  ParamType = "string"
    ParamAudio   ParamType = "audio"
)

// Param describes one tunable parameter of a provider. The capabilities use
// slightly different optional fields; absent optional fields are omitted.
type Param struct {
    ParamName        string    `json:"param_name" validate:"required"`
    ParamDisplayName string    `json:"param_display_name,omitempty"`
    ParamType        ParamType `json:"param_type" validate:"required,oneof=select float int boolean string audio"`
    DefaultValue     any       `json:"default_value" validate:"omitempty,scalar"`
    Description      string    `json:"description"`
    MinValue         *float64  `json:"min_value,omitempty"`
    MaxValue         *float64  `json:"max_value,omitempty"`
    Step             *float64  `json:"step,omitempty"`
    Options          []string  `json:"options,omitempty"`
    TextPrompt       *string   `json:"text_prompt,omitempty"`
    Text             *string   `json:"text,omitempty"`
    Require          bool      `json:"require,omitempty"`
    IsRequired       bool      `json:"is_required,omitempty"`
}

type SubModel struct {
    ModelName          string   `json:"model_name" validate:"required"`
    Credit             int      `json:"credit"`
    SupportedLanguages []string `json:"supported_languages,omitempty"`
}

func (m *SubModel) UnmarshalJSON(b []byte) error {
    type plain SubModel
    if err := RequireKeys(b, "model_name", "credit"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(m))
}

// ModelID is the identifier to send as model_id; the API uses the model name.
func (m SubModel) ModelID() string { return m.ModelName }

type ProviderModels struct {
    Provider    string     `json:"provider" validate:"required"`
    ModelList   []SubModel `json:"model_list" validate:"required,dive"`
    Name        string     `json:"name"`
    Description string     `json:"description"`
    Configs     []Param    `json:"configs" validate:"required,dive"`
}

func (p *ProviderModels) UnmarshalJSON(b []byte) error {
    type plain ProviderModels
    if err := RequireKeys(b, "provider", "model_list", "name", "description", "configs"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(p))
}

// Catalog is the models listing of tts, voice changer and voice clone.
type Catalog struct {
    Models []ProviderModels `json:"models" validate:"required,dive"`
}

// Find returns the provider entry whose key matches provider.
func (c *Catalog) Find(provider string) (*ProviderModels, bool) {
    key := ProviderKey(provider)
    for i := range c.Models {
        if ProviderKey(c.Models[i].Provider) == key {
            return &c.Models[i], true
        }
    }
    return nil, false
}

// ProviderKey normalizes a provider identifier for variant selection:
// "Fish-Audio", "fish_audio" and "fishaudio" all map to "fishaudio".
func ProviderKey(provider string) string {
    return strings.Map(func(r rune) rune {
        switch r {
        case '-', '_', ' ':
            return -1
        }
        return r
    }, strings.ToLower(strings.TrimSpace(provider)))
}

// IsNull reports whether raw is absent or the JSON null literal.
func IsNull(raw json.RawMessage) bool {
    t := bytes.TrimSpace(raw)
    return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// MissingFieldError reports a required key absent from a JSON object.
type MissingFieldError struct {
    Field string
}

func (e *MissingFieldError) Error() string {
    return fmt.Sprintf("missing required field %q", e.Field)
}

// RequireKeys fails unless b is a JSON object holding every key with a non-null
// value. Empty strings and zero numbers count as present.
func RequireKeys(b []byte, keys ...string) error {
    var obj map[string]json.RawMessage
    if err := json.Unmarshal(b, &obj); err != nil {
        return err
    }
    for _, k := range keys {
        if raw, ok := obj[k]; !ok || IsNull(raw) {
            return &MissingFieldError{Field: k}
        }
    }
    return nil
}

// DecodeVariant decodes raw on top of def so omitted fields keep their defaults,
// then validates the result.
func DecodeVariant[T any](raw json.RawMessage, def T) (T, error) {
    v := def
    if err := json.Unmarshal(raw, &v); err != nil {
        return def, err
    }
    if err := validate.Struct(&v); err != nil {
        return def, err
    }
    return v, nil
}

// ConfigMismatchError is returned when a request pairs a provider with a
// config variant of another provider.
type ConfigMismatchError struct {
    Family   string
    Provider string
    Config   any
}

func (e *ConfigMismatchError) Error() string {
    return fmt.Sprintf("%s provider %q does not take %T configs", e.Family, e.Provider, e.Config)
}

// UnknownProviderError is returned when configs are present for a provider
// that has no config variant in the family.
type UnknownProviderError struct {
    Family   string
    Provider string
}

func (e *UnknownProviderError) Error() string {
    return fmt.Sprintf("no %s config variant for provider %q", e.Family, e.Provider)
}
