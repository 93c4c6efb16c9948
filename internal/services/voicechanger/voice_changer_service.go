package voicechanger

import (
    "context"
    "encoding/json"
    "fmt"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/transport"
    "voispark-mcp/internal/validate"
)

type ModelsResponse = audio.Catalog

type ChangeVoiceResponse = audio.TaskResponse

type ChangeVoiceRequest struct {
    AudioData string `json:"audio_data" validate:"required"`
    Provider  string `json:"provider" validate:"required"`
    ModelID   string `json:"model_id" validate:"required"`
    VoiceID   string `json:"voice_id" validate:"required"`
    Configs   Config `json:"configs"`
    Sync      bool   `json:"sync"`
}

func NewChangeVoiceRequest(audioData, provider, modelID, voiceID string, cfg Config) ChangeVoiceRequest {
    return ChangeVoiceRequest{AudioData: audioData, Provider: provider, ModelID: modelID, VoiceID: voiceID, Configs: cfg, Sync: true}
}

func (r ChangeVoiceRequest) MarshalJSON() ([]byte, error) {
    type plain ChangeVoiceRequest
    if err := CheckConfig(r.Provider, r.Configs); err != nil {
        return nil, err
    }
    return json.Marshal(plain(r))
}

func (r *ChangeVoiceRequest) UnmarshalJSON(b []byte) error {
    type plain ChangeVoiceRequest
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
    *r = ChangeVoiceRequest(w.plain)
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
    return transport.GetData[ModelsResponse](ctx, s.api, "/api/voice_changer/models", nil)
}

func (s *Service) ChangeVoice(ctx context.Context, req ChangeVoiceRequest) (*ChangeVoiceResponse, error) {
    if err := CheckConfig(req.Provider, req.Configs); err != nil {
        return nil, err
    }
    return transport.PostData[ChangeVoiceResponse](ctx, s.api, "/api/voice_changer/change", req)
}
