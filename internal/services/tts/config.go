package tts

import (
    "encoding/json"

    "voispark-mcp/internal/services/audio"
)

// Provider keys, normalized with audio.ProviderKey.
const (
    ProviderCartesia   = "cartesia"
    ProviderElevenLabs = "elevenlabs"
    ProviderOpenAI     = "openai"
    ProviderFishAudio  = "fishaudio"
    ProviderOrpheus    = "orpheus"
    ProviderMinimax    = "minimax"
)

// Config is the provider specific block of a GenerateRequest. It is one of
// CartesiaConfig, ElevenLabsConfig, OpenAIConfig, FishAudioConfig, OrpheusConfig
// or MinimaxConfig.
type Config interface{ ttsConfig() }

type CartesiaConfig struct {
    Speed         string `json:"speed" validate:"oneof=slowest slow normal fast fastest"`
    EmotionPrefix string `json:"emotion_prefix" validate:"oneof=anger positivity surprise sadness curiosity normal"`
    EmotionSuffix string `json:"emotion_suffix" validate:"oneof=lowest low normal high highest"`
}

type ElevenLabsConfig struct {
    Stability       float64 `json:"stability"`
    SimilarityBoost float64 `json:"similarity_boost"`
    Style           float64 `json:"style"`
    UseSpeakerBoost bool    `json:"use_speaker_boost"`
    Speed           float64 `json:"speed"`
}

type OpenAIConfig struct {
    Instructions string  `json:"instructions"`
    Speed        float64 `json:"speed"`
}

type FishAudioConfig struct {
    Speed     float64 `json:"speed"`
    Volume    float64 `json:"volume"`
    Normalize bool    `json:"normalize"`
}

type OrpheusConfig struct {
    Temperature       float64 `json:"temperature"`
    TopP              float64 `json:"top_p"`
    RepetitionPenalty float64 `json:"repetition_penalty"`
}

type MinimaxConfig struct {
    Speed   float64 `json:"speed"`
    Vol     float64 `json:"vol"`
    Pitch   int     `json:"pitch"`
    Emotion string  `json:"emotion" validate:"oneof=happy sad angry fearful disgusted surprised neutral"`
}

func (CartesiaConfig) ttsConfig()   {}
func (ElevenLabsConfig) ttsConfig() {}
func (OpenAIConfig) ttsConfig()     {}
func (FishAudioConfig) ttsConfig()  {}
func (OrpheusConfig) ttsConfig()    {}
func (MinimaxConfig) ttsConfig()    {}

const DefaultOpenAIInstructions = `Personality/affect: a high-energy cheerleader helping with administrative tasks

Voice: Enthusiastic, and bubbly, with an uplifting and motivational quality.

Tone: Encouraging and playful, making even simple tasks feel exciting and fun.

Dialect: Casual and upbeat, using informal phrasing and pep talk-style expressions.

Pronunciation: Crisp and lively, with exaggerated emphasis on positive words to keep the energy high.

Features: Uses motivational phrases, cheerful exclamations, and an energetic rhythm to create a sense of excitement and engagement.`

func DefaultCartesiaConfig() CartesiaConfig {
    return CartesiaConfig{Speed: "normal", EmotionPrefix: "normal", EmotionSuffix: "normal"}
}

func DefaultElevenLabsConfig() ElevenLabsConfig {
    return ElevenLabsConfig{Stability: 0.5, SimilarityBoost: 0.75, UseSpeakerBoost: true, Speed: 1.0}
}

func DefaultOpenAIConfig() OpenAIConfig {
    return OpenAIConfig{Instructions: DefaultOpenAIInstructions, Speed: 1.0}
}

func DefaultFishAudioConfig() FishAudioConfig {
    return FishAudioConfig{Speed: 1.0, Normalize: true}
}

func DefaultOrpheusConfig() OrpheusConfig {
    return OrpheusConfig{Temperature: 0.6, TopP: 0.95, RepetitionPenalty: 1.1}
}

func DefaultMinimaxConfig() MinimaxConfig {
    return MinimaxConfig{Speed: 1.0, Vol: 1.0, Emotion: "neutral"}
}

// DecodeConfig selects the config variant for provider and decodes raw into it.
// A null or absent block yields a nil Config.
func DecodeConfig(provider string, raw json.RawMessage) (Config, error) {
    if audio.IsNull(raw) {
        return nil, nil
    }
    switch audio.ProviderKey(provider) {
    case ProviderCartesia:
        return variant(raw, DefaultCartesiaConfig())
    case ProviderElevenLabs:
        return variant(raw, DefaultElevenLabsConfig())
    case ProviderOpenAI:
        return variant(raw, DefaultOpenAIConfig())
    case ProviderFishAudio:
        return variant(raw, DefaultFishAudioConfig())
    case ProviderOrpheus:
        return variant(raw, DefaultOrpheusConfig())
    case ProviderMinimax:
        return variant(raw, DefaultMinimaxConfig())
    }
    return nil, &audio.UnknownProviderError{Family: "tts", Provider: provider}
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
    case ProviderOpenAI:
        _, ok = cfg.(OpenAIConfig)
    case ProviderFishAudio:
        _, ok = cfg.(FishAudioConfig)
    case ProviderOrpheus:
        _, ok = cfg.(OrpheusConfig)
    case ProviderMinimax:
        _, ok = cfg.(MinimaxConfig)
    default:
        return &audio.UnknownProviderError{Family: "tts", Provider: provider}
    }
    if !ok {
        return &audio.ConfigMismatchError{Family: "tts", Provider: provider, Config: cfg}
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
