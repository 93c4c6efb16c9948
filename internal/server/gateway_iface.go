package server

import (
    "context"

    "voispark-mcp/internal/gateway"
    "voispark-mcp/internal/services/conversation"
    "voispark-mcp/internal/services/tts"
    "voispark-mcp/internal/services/voicechanger"
    "voispark-mcp/internal/services/voiceclone"
)

// Gateway is implemented by *gateway.Gateway.
type Gateway interface {
    ConversationModels(ctx context.Context) gateway.Outcome
    GenerateConversation(ctx context.Context, req conversation.GenerateRequest) gateway.Outcome
    SpeakerDetails(ctx context.Context, speakerID string) gateway.Outcome
    Speakers(ctx context.Context) gateway.Outcome
    TTSModels(ctx context.Context) gateway.Outcome
    GenerateTTS(ctx context.Context, req tts.GenerateRequest) gateway.Outcome
    VoiceChangerModels(ctx context.Context) gateway.Outcome
    ChangeVoice(ctx context.Context, req voicechanger.ChangeVoiceRequest) gateway.Outcome
    VoiceCloneModels(ctx context.Context) gateway.Outcome
    CloneVoice(ctx context.Context, req voiceclone.CloneVoiceRequest) gateway.Outcome
    ListAllVoices(ctx context.Context, providerID, voiceType string) gateway.Outcome
    Providers(ctx context.Context) gateway.Outcome
    HistoryList(ctx context.Context, source string) gateway.Outcome
    History(ctx context.Context, historyID string) gateway.Outcome
}

var _ Gateway = (*gateway.Gateway)(nil)
