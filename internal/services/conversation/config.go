package conversation

import (
    "encoding/json"
    "fmt"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/validate"
)

const (
    ProviderSesame   = "sesame"
    ProviderNariLabs = "narilabs"
    // dia is the NariLabs model name and is accepted as an alias.
    providerDia = "dia"
)

// Config is SesameConfig or NariLabsConfig.
type Config interface{ conversationConfig() }

type SesameConfig struct {
    Temperature float64 `json:"temperature"`
    TopK        int     `json:"topk"`
}

type NariLabsConfig struct {
    CFGScale      float64 `json:"cfg_scale"`
    Temperature   float64 `json:"temperature"`
    TopP          float64 `json:"top_p"`
    CFGFilterTopK int     `json:"cfg_filter_top_k"`
}

func (SesameConfig) conversationConfig()   {}
func (NariLabsConfig) conversationConfig() {}

func DefaultSesameConfig() SesameConfig {
    return SesameConfig{Temperature: 0.6, TopK: 50}
}

func DefaultNariLabsConfig() NariLabsConfig {
    return NariLabsConfig{CFGScale: 3.0, Temperature: 1.3, TopP: 0.95, CFGFilterTopK: 35}
}

func DecodeConfig(provider string, raw json.RawMessage) (Config, error) {
    if audio.IsNull(raw) {
        return nil, nil
    }
    switch audio.ProviderKey(provider) {
    case ProviderSesame:
        return variant(raw, DefaultSesameConfig())
    case ProviderNariLabs, providerDia:
        return variant(raw, DefaultNariLabsConfig())
    }
    return nil, &audio.UnknownProviderError{Family: "conversation", Provider: provider}
}

// CheckConfig fails unless cfg is nil or the variant DecodeConfig selects for provider.
func CheckConfig(provider string, cfg Config) error {
    if cfg == nil {
        return nil
    }
    var ok bool
    switch audio.ProviderKey(provider) {
    case ProviderSesame:
        _, ok = cfg.(SesameConfig)
    case ProviderNariLabs, providerDia:
        _, ok = cfg.(NariLabsConfig)
    default:
        return &audio.UnknownProviderError{Family: "conversation", Provider: provider}
    }
    if !ok {
        return &audio.ConfigMismatchError{Family: "conversation", Provider: provider, Config: cfg}
    }
    return nil
}

func variant[T Config](raw json.RawMessage, def T) (Config, error) {
    v, err := audio.DecodeVariant(raw, def)
    if err != nil {
        return nil, err
    }
    return v, nil
}

type SpeakerType string

const (
    SpeakerTypeID  SpeakerType = "speaker_id"
    SpeakerTypeRaw SpeakerType = "raw"
)

// Speaker is SpeakerID (an existing speaker) or SpeakerRaw (inline reference audio).
type Speaker interface{ speakerType() SpeakerType }

type SpeakerID struct {
    SpeakerID string `json:"speaker_id" validate:"required"`
}

type SpeakerRaw struct {
    SpeakerName string `json:"speaker_name" validate:"required"`
    Audio       string `json:"audio" validate:"required"` // base64
    AudioText   string `json:"audio_text" validate:"required"`
}

func (SpeakerID) speakerType() SpeakerType  { return SpeakerTypeID }
func (SpeakerRaw) speakerType() SpeakerType { return SpeakerTypeRaw }

// SpeakerConfig is one speaker slot of a conversation, tagged on the wire as
// {"type": "speaker_id"|"raw", "speaker": {...}}.
type SpeakerConfig struct {
    Speaker Speaker
}

func (s SpeakerConfig) Type() SpeakerType {
    if s.Speaker == nil {
        return ""
    }
    return s.Speaker.speakerType()
}

func (s SpeakerConfig) MarshalJSON() ([]byte, error) {
    if s.Speaker == nil {
        return nil, fmt.Errorf("speaker config without speaker")
    }
    return json.Marshal(struct {
        Type    SpeakerType `json:"type"`
        Speaker Speaker     `json:"speaker"`
    }{s.Speaker.speakerType(), s.Speaker})
}

func (s *SpeakerConfig) UnmarshalJSON(b []byte) error {
    var w struct {
        Type    SpeakerType     `json:"type"`
        Speaker json.RawMessage `json:"speaker"`
    }
    if err := json.Unmarshal(b, &w); err != nil {
        return err
    }
    if audio.IsNull(w.Speaker) {
        return fmt.Errorf("speaker is required")
    }
    switch w.Type {
    case SpeakerTypeID:
        return decodeSpeaker(w.Speaker, &SpeakerID{}, s)
    case SpeakerTypeRaw:
        return decodeSpeaker(w.Speaker, &SpeakerRaw{}, s)
    }
    return fmt.Errorf("unknown speaker type %q", w.Type)
}

func decodeSpeaker[T Speaker](raw json.RawMessage, v *T, dst *SpeakerConfig) error {
    if err := json.Unmarshal(raw, v); err != nil {
        return err
    }
    if err := validate.Struct(v); err != nil {
        return err
    }
    dst.Speaker = *v
    return nil
}
