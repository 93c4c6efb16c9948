package voiceclone

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/transport"
    "voispark-mcp/internal/validate"
)

var errMissingConfigs = errors.New("configs is required")

type ModelsResponse = audio.Catalog

type CloneVoiceRequest struct {
    AudioData string `json:"audio_data" validate:"required"`
    Provider  string `json:"provider" validate:"required"`
    ModelID   string `json:"model_id" validate:"required"`
    Configs   Config `json:"configs"`
}

type CloneVoiceResponse struct {
    ID          string `json:"id" validate:"required"`
    Name        string `json:"name"`
    Description string `json:"description"`
    Provider    string `json:"provider"`
    AvatarURL   string `json:"avatar_url"`
    PreviewURL  string `json:"preview_url"`
}

func (r CloneVoiceRequest) MarshalJSON() ([]byte, error) {
    type plain CloneVoiceRequest
    if err := CheckConfig(r.Provider, r.Configs); err != nil {
        return nil, err
    }
    return json.Marshal(plain(r))
}

func (r *CloneVoiceRequest) UnmarshalJSON(b []byte) error {
    type plain CloneVoiceRequest
    var w struct {
        plain
        Configs json.RawMessage `json:"configs"`
    }
    if err := json.Unmarshal(b, &w); err != nil {
        return err
    }
    cfg, err := DecodeConfig(w.Provider, w.Configs)
    if err != nil {
        return fmt.Errorf("configs: %w", err)
    }
    *r = CloneVoiceRequest(w.plain)
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
    return transport.GetData[ModelsResponse](ctx, s.api, "/api/voice_clone/models", nil)
}

func (s *Service) Clone(ctx context.Context, req CloneVoiceRequest) (*CloneVoiceResponse, error) {
    if err := CheckConfig(req.Provider, req.Configs); err != nil {
        return nil, err
    }
    return transport.PostData[CloneVoiceResponse](ctx, s.api, "/api/voice_clone/clone", req)
}
