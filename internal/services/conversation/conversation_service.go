package conversation

import (
    "context"
    "encoding/json"
    "fmt"
    "net/url"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/transport"
    "voispark-mcp/internal/validate"
)

// Turn is one line of a conversation, spoken by the speaker at SpeakerIndex.
type Turn struct {
    Text         string `json:"text" validate:"required"`
    SpeakerIndex int    `json:"speaker_index" validate:"min=0"`
}

// SavedSpeaker is a speaker stored on the platform, referenced by SpeakerID.
type SavedSpeaker struct {
    SpeakerID   string `json:"speaker_id" validate:"required"`
    SpeakerName string `json:"speaker_name"`
    AudioText   string `json:"audio_text"`
    S3Key       string `json:"s3_key"`
}

func (s *SavedSpeaker) UnmarshalJSON(b []byte) error {
    type plain SavedSpeaker
    if err := audio.RequireKeys(b, "speaker_id", "speaker_name", "audio_text", "s3_key"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(s))
}

type GenerateRequest struct {
    Provider     string          `json:"provider" validate:"required"`
    Conversation []Turn          `json:"conversation" validate:"required,min=1,dive"`
    Speaker      []SpeakerConfig `json:"speaker" validate:"required,min=1"`
    Configs      Config          `json:"configs"`
    Sync         bool            `json:"sync"`
}

func NewGenerateRequest(provider string, turns []Turn, speakers []SpeakerConfig, cfg Config) GenerateRequest {
    return GenerateRequest{Provider: provider, Conversation: turns, Speaker: speakers, Configs: cfg, Sync: true}
}

func (r GenerateRequest) MarshalJSON() ([]byte, error) {
    type plain GenerateRequest
    if err := CheckConfig(r.Provider, r.Configs); err != nil {
        return nil, err
    }
    return json.Marshal(plain(r))
}

func (r *GenerateRequest) UnmarshalJSON(b []byte) error {
    type plain GenerateRequest
    w := struct {
        plain
        Configs json.RawMessage `json:"configs"`
    }{plain: plain{Sync: true}}
    if err := json.Unmarshal(b, &w); err != nil {
        return err
    }
    cfg, err := DecodeConfig(w.Provider, w.Configs)
    if err != nil {
        return fmt.Errorf("configs: %w", err)
    }
    *r = GenerateRequest(w.plain)
    r.Configs = cfg
    return validate.Struct(r)
}

type GenerateResponse = audio.TaskResponse

type SpeakersResponse struct {
    Speakers []SavedSpeaker `json:"speakers" validate:"required,dive"`
}

type SpeakerDetailsResponse struct {
    Speaker      SavedSpeaker `json:"speaker"`
    PresignedURL string       `json:"presigned_url" validate:"required"`
}

type Model struct {
    Provider    string        `json:"provider" validate:"required"`
    Name        string        `json:"name"`
    Description string        `json:"description"`
    Configs     []audio.Param `json:"configs" validate:"required,dive"`
}

func (m *Model) UnmarshalJSON(b []byte) error {
    type plain Model
    if err := audio.RequireKeys(b, "provider", "name", "description", "configs"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(m))
}

type ModelsResponse struct {
    Models []Model `json:"models" validate:"required,dive"`
}

type Service struct {
    api *transport.Client
}

func New(api *transport.Client) *Service {
    return &Service{api: api}
}

func (s *Service) Models(ctx context.Context) (*ModelsResponse, error) {
    return transport.GetData[ModelsResponse](ctx, s.api, "/api/conversation/models", nil)
}

func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
    if err := CheckConfig(req.Provider, req.Configs); err != nil {
        return nil, err
    }
    return transport.PostData[GenerateResponse](ctx, s.api, "/api/conversation/generate", req)
}

func (s *Service) Speakers(ctx context.Context) (*SpeakersResponse, error) {
    return transport.GetData[SpeakersResponse](ctx, s.api, "/api/conversation/speakers", nil)
}

func (s *Service) SpeakerDetails(ctx context.Context, speakerID string) (*SpeakerDetailsResponse, error) {
    return transport.GetData[SpeakerDetailsResponse](ctx, s.api, "/api/conversation/speakers/"+url.PathEscape(speakerID), nil)
}
