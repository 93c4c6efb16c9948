package voicechanger

import (
    "encoding/json"

    "voispark-mcp/internal/services/audio"
)

const (
    ProviderCartesia   = "cartesia"
    ProviderElevenLabs = "elevenlabs"
)

// Config is CartesiaConfig or ElevenLabsConfig.
type Config interface{ voiceChangerConfig() }

// CartesiaConfig has no tunables; it serializes as {}.
type CartesiaConfig struct{}

type ElevenLabsConfig struct {
    Stability             float64 `json:"stability"`
    Similarity            float64 `json:"similarity"`
    StyleExaggeration     float64 `json:"style_exaggeration"`
    SpeakerBoost          bool    `json:"speaker_boost"`
    RemoveBackgroundNoise bool    `json:"remove_background_noise"`
}

func (CartesiaConfig) voiceChangerConfig()   {}
func (ElevenLabsConfig) voiceChangerConfig() {}

func DefaultElevenLabsConfig() ElevenLabsConfig {
    return ElevenLabsConfig{Stability: 0.5, Similarity: 0.75, SpeakerBoost: true}
}

func DecodeConfig(provider string, raw json.RawMessage) (Config, error) {
    if audio.IsNull(raw) {
        return nil, nil
    }
    switch audio.ProviderKey(provider) {
    case ProviderCartesia:
        return variant(raw, CartesiaConfig{})
    case ProviderElevenLabs:
        return variant(raw, DefaultElevenLabsConfig())
    }
    return nil, &audio.UnknownProviderError{Family: "voice changer", Provider: provider}
}

// CheckConfig fails unless cfg is nil or the variant DecodeConfig selects for provider.
func CheckConfig(provider string, cfg Config) error {
    if cfg == nil {
        return nil
    }
    var ok bool
    switch audio.ProviderKey(provider) {
    case ProviderCartesia:
        _, ok = cfg.(CartesiaConfig)
    case ProviderElevenLabs:
        _, ok = cfg.(ElevenLabsConfig)
    default:
        return &audio.UnknownProviderError{Family: "voice changer", Provider: provider}
    }
    if !ok {
        return &audio.ConfigMismatchError{Family: "voice changer", Provider: provider, Config: cfg}
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
