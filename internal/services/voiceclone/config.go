package voiceclone

import (
    "encoding/json"

    "voispark-mcp/internal/services/audio"
)

const (
    ProviderCartesia = "cartesia"
    ProviderMiniMax  = "minimax"
)

// Config is CartesiaConfig or MiniMaxConfig. Clone requests always carry one.
type Config interface{ voiceCloneConfig() }

type CartesiaConfig struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    // Mode trades similarity to the source clip against studio-like stability.
    Mode    string `json:"mode" validate:"oneof=similarity stability"`
    Enhance bool   `json:"enhance"`
    // Transcript is only used in similarity mode.
    Transcript string `json:"transcript"`
}

type MiniMaxConfig struct {
    Name                    string `json:"name"`
    Description             string `json:"description"`
    NeedNoiseReduction      bool   `json:"need_noise_reduction"`
    NeedVolumeNormalization bool   `json:"need_volume_normalization"`
}

func (CartesiaConfig) voiceCloneConfig() {}
func (MiniMaxConfig) voiceCloneConfig()  {}

func DefaultCartesiaConfig() CartesiaConfig {
    return CartesiaConfig{Mode: "stability"}
}

func DefaultMiniMaxConfig() MiniMaxConfig {
    return MiniMaxConfig{}
}

// DecodeConfig selects the variant by provider. Unlike the other families a
// missing block is an error.
func DecodeConfig(provider string, raw json.RawMessage) (Config, error) {
    if audio.IsNull(raw) {
        return nil, errMissingConfigs
    }
    switch audio.ProviderKey(provider) {
    case ProviderCartesia:
        return variant(raw, DefaultCartesiaConfig())
    case ProviderMiniMax:
        return variant(raw, DefaultMiniMaxConfig())
    }
    return nil, &audio.UnknownProviderError{Family: "voice clone", Provider: provider}
}

// CheckConfig fails unless cfg is the variant DecodeConfig selects for provider.
func CheckConfig(provider string, cfg Config) error {
    if cfg == nil {
        return errMissingConfigs
    }
    var ok bool
    switch audio.ProviderKey(provider) {
    case ProviderCartesia:
        _, ok = cfg.(CartesiaConfig)
    case ProviderMiniMax:
        _, ok = cfg.(MiniMaxConfig)
    default:
        return &audio.UnknownProviderError{Family: "voice clone", Provider: provider}
    }
    if !ok {
        return &audio.ConfigMismatchError{Family: "voice clone", Provider: provider, Config: cfg}
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
