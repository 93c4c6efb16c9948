package tts

import (
    "context"
    "encoding/json"
    "fmt"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/transport"
    "voispark-mcp/internal/validate"
)

type ModelsResponse = audio.Catalog

type GenerateResponse = audio.TaskResponse

type GenerateRequest struct {
    Text     string `json:"text" validate:"required"`
    Provider string `json:"provider" validate:"required"`
    ModelID  string `json:"model_id" validate:"required"`
    VoiceID  string `json:"voice_id" validate:"required"`
    Configs  Config `json:"configs"`
    // Sync must stay true when calling the API.
    Sync bool `json:"sync"`
}

func NewGenerateRequest(provider, text, modelID, voiceID string, cfg Config) GenerateRequest {
    return GenerateRequest{Text: text, Provider: provider, ModelID: modelID, VoiceID: voiceID, Configs: cfg, Sync: true}
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

type Service struct {
    api *transport.Client
}

func New(api *transport.Client) *Service {
    return &Service{api: api}
}

func (s *Service) Models(ctx context.Context) (*ModelsResponse, error) {
    return transport.GetData[ModelsResponse](ctx, s.api, "/api/tts/models", nil)
}

func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
    if err := CheckConfig(req.Provider, req.Configs); err != nil {
        return nil, err
    }
    return transport.PostData[GenerateResponse](ctx, s.api, "/api/tts/generate", req)
}
