package server

import (
    "context"
    "encoding/json"
    "fmt"
    "net/url"
    "strings"

    "github.com/charmbracelet/log"
    "github.com/modelcontextprotocol/go-sdk/mcp"

    "voispark-mcp/internal/gateway"
    "voispark-mcp/internal/services/conversation"
    "voispark-mcp/internal/services/tts"
    "voispark-mcp/internal/services/voicechanger"
    "voispark-mcp/internal/services/voiceclone"
)

const (
    ServerName = "voispark-mcp"

    mimeJSON = "application/json"
    mimeText = "text/plain"
)

type MCPOptions struct {
    Version string
    Logger  *log.Logger
}

// NewMCPServer exposes every gateway operation as an MCP resource or tool.
func NewMCPServer(gw Gateway, o MCPOptions) *mcp.Server {
    if o.Version == "" { o.Version = "dev" }
    if o.Logger == nil { o.Logger = log.Default() }
    s := mcp.NewServer(&mcp.Implementation{Name: ServerName, Title: "VoiSpark", Version: o.Version}, nil)
    h := &handlers{gw: gw, log: o.Logger}
    h.addResources(s)
    h.addTools(s)
    return s
}

type handlers struct {
    gw  Gateway
    log *log.Logger
}

func (h *handlers) addResources(s *mcp.Server) {
    static := []struct {
        uri, name, desc string
        get             func(context.Context) gateway.Outcome
    }{
        {"conversation://models", "conversation_models", "Get all conversation models", h.gw.ConversationModels},
        {"conversation://speakers", "conversation_speakers", "Get all saved conversation speakers", h.gw.Speakers},
        {"textToSpeech://models", "tts_models", "Get all TTS models", h.gw.TTSModels},
        {"voiceChanger://models", "voice_changer_models", "Get all voice changer models", h.gw.VoiceChangerModels},
        {"voiceClone://models", "voice_clone_models", "Get all voice clone models", h.gw.VoiceCloneModels},
        {"voices://providers", "voice_providers", "Get all voice providers", h.gw.Providers},
        {"history://list", "history_list", "List tts history", func(ctx context.Context) gateway.Outcome { return h.gw.HistoryList(ctx, "") }},
    }
    for _, r := range static {
        get := r.get
        s.AddResource(&mcp.Resource{URI: r.uri, Name: r.name, Description: r.desc, MIMEType: mimeJSON},
            func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
                return resourceResult(req.Params.URI, get(ctx))
            })
    }

    s.AddResourceTemplate(&mcp.ResourceTemplate{
        URITemplate: "voices://{provider_id}/{voice_type}/list",
        Name:        "voices_list",
        Description: "List all voices of a provider usable for voice_type (tts, voice_changer, voice_clone, voice_generate)",
        MIMEType:    mimeJSON,
    }, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
        uri := req.Params.URI
        provider, voiceType, ok := parseVoicesURI(uri)
        if !ok { return nil, mcp.ResourceNotFoundError(uri) }
        return resourceResult(uri, h.gw.ListAllVoices(ctx, provider, voiceType))
    })

    s.AddResourceTemplate(&mcp.ResourceTemplate{
        URITemplate: "history://{history_id}",
        Name:        "history",
        Description: "Get one history record with its download URL",
        MIMEType:    mimeJSON,
    }, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
        uri := req.Params.URI
        id, ok := parseHistoryURI(uri)
        if !ok { return nil, mcp.ResourceNotFoundError(uri) }
        return resourceResult(uri, h.gw.History(ctx, id))
    })
}

func parseVoicesURI(uri string) (provider, voiceType string, ok bool) {
    rest, found := strings.CutPrefix(uri, "voices://")
    if !found { return "", "", false }
    parts := strings.Split(rest, "/")
    if len(parts) != 3 || parts[2] != "list" { return "", "", false }
    provider, err1 := url.PathUnescape(parts[0])
    voiceType, err2 := url.PathUnescape(parts[1])
    if err1 != nil || err2 != nil || provider == "" || voiceType == "" { return "", "", false }
    return provider, voiceType, true
}

func parseHistoryURI(uri string) (string, bool) {
    rest, found := strings.CutPrefix(uri, "history://")
    if !found || rest == "" || rest == "list" || strings.Contains(rest, "/") { return "", false }
    id, err := url.PathUnescape(rest)
    if err != nil { return "", false }
    return id, true
}

// resourceResult renders data as JSON text and a failure as the bare sentence.
func resourceResult(uri string, o gateway.Outcome) (*mcp.ReadResourceResult, error) {
    if !o.OK() {
        return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeText, Text: o.Failure}}}, nil
    }
    b, err := json.Marshal(o.Data)
    if err != nil { return nil, fmt.Errorf("encode %s: %w", uri, err) }
    return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeJSON, Text: string(b)}}}, nil
}

// toolResult mirrors resourceResult. Failures are ordinary text content, not
// tool errors, so callers detect them by the missing structured content.
func toolResult(o gateway.Outcome) (*mcp.CallToolResult, any, error) {
    if !o.OK() {
        return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: o.Failure}}}, nil, nil
    }
    b, err := json.Marshal(o.Data)
    if err != nil { return nil, nil, fmt.Errorf("encode result: %w", err) }
    return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, o.Data, nil
}

// decodeArgs converts loose tool arguments into a typed request through its
// JSON decoder, which selects and validates the provider config variant.
func decodeArgs[T any](args any, dst *T) error {
    b, err := json.Marshal(args)
    if err != nil { return err }
    return json.Unmarshal(b, dst)
}

type generateTTSArgs struct {
    Text     string         `json:"text" jsonschema:"the text to speak"`
    Provider string         `json:"provider" jsonschema:"provider key as listed by textToSpeech://models"`
    ModelID  string         `json:"model_id" jsonschema:"model_name of one of the provider models"`
    VoiceID  string         `json:"voice_id" jsonschema:"voice id from voices://{provider_id}/tts/list"`
    Configs  map[string]any `json:"configs,omitempty" jsonschema:"provider specific parameters as described by the provider configs"`
}

type changeVoiceArgs struct {
    AudioData string         `json:"audio_data" jsonschema:"base64 encoded source audio"`
    Provider  string         `json:"provider" jsonschema:"provider key as listed by voiceChanger://models"`
    ModelID   string         `json:"model_id" jsonschema:"model_name of one of the provider models"`
    VoiceID   string         `json:"voice_id" jsonschema:"target voice id from voices://{provider_id}/voice_changer/list"`
    Configs   map[string]any `json:"configs,omitempty" jsonschema:"provider specific parameters as described by the provider configs"`
}

type cloneVoiceArgs struct {
    AudioData string         `json:"audio_data" jsonschema:"base64 encoded reference audio"`
    Provider  string         `json:"provider" jsonschema:"provider key as listed by voiceClone://models"`
    ModelID   string         `json:"model_id" jsonschema:"model_name of one of the provider models"`
    Configs   map[string]any `json:"configs" jsonschema:"provider specific parameters such as the new voice name"`
}

type speakerArg struct {
    Type    string         `json:"type" jsonschema:"speaker_id to reuse a saved speaker or raw to pass reference audio"`
    Speaker map[string]any `json:"speaker" jsonschema:"{speaker_id} for speaker_id or {speaker_name, audio, audio_text} for raw"`
}

type generateConversationArgs struct {
    Provider     string              `json:"provider" jsonschema:"provider key as listed by conversation://models"`
    Conversation []conversation.Turn `json:"conversation" jsonschema:"ordered turns; speaker_index points into speaker"`
    Speaker      []speakerArg        `json:"speaker" jsonschema:"ordered speaker slots"`
    Configs      map[string]any      `json:"configs,omitempty" jsonschema:"provider specific parameters as described by the provider configs"`
}

type speakerDetailsArgs struct {
    SpeakerID string `json:"speaker_id" jsonschema:"id of a saved speaker"`
}

type historyListArgs struct {
    Source string `json:"source,omitempty" jsonschema:"one of tts, voice_changer or conversation; defaults to tts"`
}

func (h *handlers) addTools(s *mcp.Server) {
    mcp.AddTool(s, &mcp.Tool{
        Name:        "generate_tts",
        Description: "Generate speech from text with a provider, model and voice",
    }, func(ctx context.Context, _ *mcp.CallToolRequest, in generateTTSArgs) (*mcp.CallToolResult, any, error) {
        var req tts.GenerateRequest
        if err := decodeArgs(in, &req); err != nil {
            h.log.Warn("invalid arguments", "tool", "generate_tts", "err", err)
            return toolResult(gateway.Outcome{Failure: gateway.GenerateTTS.Failed})
        }
        return toolResult(h.gw.GenerateTTS(ctx, req))
    })

    mcp.AddTool(s, &mcp.Tool{
        Name:        "change_voice",
        Description: "Re-voice base64 audio with a target voice",
    }, func(ctx context.Context, _ *mcp.CallToolRequest, in changeVoiceArgs) (*mcp.CallToolResult, any, error) {
        var req voicechanger.ChangeVoiceRequest
        if err := decodeArgs(in, &req); err != nil {
            h.log.Warn("invalid arguments", "tool", "change_voice", "err", err)
            return toolResult(gateway.Outcome{Failure: gateway.ChangeVoice.Failed})
        }
        return toolResult(h.gw.ChangeVoice(ctx, req))
    })

    mcp.AddTool(s, &mcp.Tool{
        Name:        "clone_voice",
        Description: "Clone a new voice from base64 reference audio",
    }, func(ctx context.Context, _ *mcp.CallToolRequest, in cloneVoiceArgs) (*mcp.CallToolResult, any, error) {
        var req voiceclone.CloneVoiceRequest
        if err := decodeArgs(in, &req); err != nil {
            h.log.Warn("invalid arguments", "tool", "clone_voice", "err", err)
            return toolResult(gateway.Outcome{Failure: gateway.CloneVoice.Failed})
        }
        return toolResult(h.gw.CloneVoice(ctx, req))
    })

    mcp.AddTool(s, &mcp.Tool{
        Name:        "generate_conversation",
        Description: "Generate a multi-speaker conversation",
    }, func(ctx context.Context, _ *mcp.CallToolRequest, in generateConversationArgs) (*mcp.CallToolResult, any, error) {
        var req conversation.GenerateRequest
        if err := decodeArgs(in, &req); err != nil {
            h.log.Warn("invalid arguments", "tool", "generate_conversation", "err", err)
            return toolResult(gateway.Outcome{Failure: gateway.GenerateConversation.Failed})
        }
        return toolResult(h.gw.GenerateConversation(ctx, req))
    })

    mcp.AddTool(s, &mcp.Tool{
        Name:        "get_speaker_details",
        Description: "Get a saved conversation speaker with a download URL for its reference audio",
        Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
    }, func(ctx context.Context, _ *mcp.CallToolRequest, in speakerDetailsArgs) (*mcp.CallToolResult, any, error) {
        return toolResult(h.gw.SpeakerDetails(ctx, in.SpeakerID))
    })

    mcp.AddTool(s, &mcp.Tool{
        Name:        "get_history_list",
        Description: "List generation history of one source",
        Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
    }, func(ctx context.Context, _ *mcp.CallToolRequest, in historyListArgs) (*mcp.CallToolResult, any, error) {
        return toolResult(h.gw.HistoryList(ctx, in.Source))
    })
}
