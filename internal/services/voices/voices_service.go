package voices

import (
    "context"
    "net/url"

    "voispark-mcp/internal/transport"
)

type Ability string

const (
    AbilityTTS           Ability = "tts"
    AbilityVoiceChanger  Ability = "voice_changer"
    AbilityVoiceClone    Ability = "voice_clone"
    AbilityVoiceGenerate Ability = "voice_generate"
)

type Voice struct {
    ID          string `json:"id" validate:"required"`
    Name        string `json:"name" validate:"required"`
    Description string `json:"description"`
    Provider    string `json:"provider" validate:"required"`
    AvatarURL   string `json:"avatar_url"`
    PreviewURL  string `json:"preview_url"`
}

// ListResponse groups the voices a provider offers: platform defaults, the
// caller's own clones and licensed IP voices.
type ListResponse struct {
    DefaultVoices []Voice `json:"default_voices" validate:"required,dive"`
    UserVoices    []Voice `json:"user_voices" validate:"required,dive"`
    IPVoices      []Voice `json:"ip_voices" validate:"required,dive"`
}

type Provider struct {
    ID          string    `json:"id" validate:"required"`
    Name        string    `json:"name" validate:"required"`
    Description string    `json:"description"`
    Abilities   []Ability `json:"abilities" validate:"required,dive,oneof=tts voice_changer voice_clone voice_generate"`
}

// Supports reports whether the provider offers ability.
func (p Provider) Supports(ability Ability) bool {
    for _, a := range p.Abilities {
        if a == ability { return true }
    }
    return false
}

type ProvidersResponse struct {
    Providers []Provider `json:"providers" validate:"required,dive"`
}

type Service struct {
    api *transport.Client
}

func New(api *transport.Client) *Service {
    return &Service{api: api}
}

// List returns the voices of providerID usable for voiceType, one of the
// Ability values.
func (s *Service) List(ctx context.Context, providerID, voiceType string) (*ListResponse, error) {
    q := url.Values{"type": {voiceType}}
    return transport.GetData[ListResponse](ctx, s.api, "/api/voices/"+url.PathEscape(providerID)+"/list", q)
}

func (s *Service) Providers(ctx context.Context) (*ProvidersResponse, error) {
    return transport.GetData[ProvidersResponse](ctx, s.api, "/api/voices/providers", nil)
}
