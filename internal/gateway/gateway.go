// Package gateway maps every VoiSpark capability call onto a caller facing
// Outcome: a plain data map on success or a fixed sentence on failure.
package gateway

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"

    "github.com/charmbracelet/log"

    "voispark-mcp/internal/envelope"
    "voispark-mcp/internal/services/conversation"
    "voispark-mcp/internal/services/history"
    "voispark-mcp/internal/services/tts"
    "voispark-mcp/internal/services/voicechanger"
    "voispark-mcp/internal/services/voiceclone"
    "voispark-mcp/internal/services/voices"
    "voispark-mcp/internal/transport"
)

// Outcome is either Data or Failure, never both.
type Outcome struct {
    Data    map[string]any
    Failure string
}

func (o Outcome) OK() bool { return o.Failure == "" }

// Messages are the two sentences an operation reports instead of data.
type Messages struct {
    Failed string
    Empty  string
}

var (
    ConversationModels   = Messages{"Failed to get conversation models", "No conversation models found"}
    GenerateConversation = Messages{"Failed to generate conversation", "No task ID received"}
    SpeakerDetails       = Messages{"Failed to get speaker details", "No speaker details found"}
    Speakers             = Messages{"Failed to get speakers", "No speakers found"}
    TTSModels            = Messages{"Failed to get tts models", "No tts models found"}
    GenerateTTS          = Messages{"Failed to generate tts", "No task ID received"}
    VoiceChangerModels   = Messages{"Failed to get voice changer models", "No voice changer models found"}
    ChangeVoice          = Messages{"Failed to change voice", "No task ID received"}
    VoiceCloneModels     = Messages{"Failed to get voice clone models", "No voice clone models found"}
    CloneVoice           = Messages{"Failed to clone voice", "No cloned voice received"}
    ListAllVoices        = Messages{"Failed to list all voices", "No voices found"}
    Providers            = Messages{"Failed to get voice providers", "No voice providers found"}
    HistoryList          = Messages{"Failed to get history list", "No history list found"}
    History              = Messages{"Failed to get history", "No history found"}
)

// Gateway is safe for concurrent use.
type Gateway struct {
    log          *log.Logger
    tts          *tts.Service
    voiceChanger *voicechanger.Service
    voiceClone   *voiceclone.Service
    conversation *conversation.Service
    voices       *voices.Service
    history      *history.Service
}

func New(api *transport.Client, logger *log.Logger) *Gateway {
    if logger == nil {
        logger = log.Default()
    }
    return &Gateway{
        log:          logger,
        tts:          tts.New(api),
        voiceChanger: voicechanger.New(api),
        voiceClone:   voiceclone.New(api),
        conversation: conversation.New(api),
        voices:       voices.New(api),
        history:      history.New(api),
    }
}

func (g *Gateway) ConversationModels(ctx context.Context) Outcome {
    res, err := g.conversation.Models(ctx)
    return resolve(g.log, "conversation models", ConversationModels, res, err)
}

func (g *Gateway) GenerateConversation(ctx context.Context, req conversation.GenerateRequest) Outcome {
    res, err := g.conversation.Generate(ctx, req)
    return resolve(g.log, "generate conversation", GenerateConversation, res, err)
}

func (g *Gateway) SpeakerDetails(ctx context.Context, speakerID string) Outcome {
    res, err := g.conversation.SpeakerDetails(ctx, speakerID)
    return resolve(g.log, "speaker details", SpeakerDetails, res, err)
}

func (g *Gateway) Speakers(ctx context.Context) Outcome {
    res, err := g.conversation.Speakers(ctx)
    return resolve(g.log, "speakers", Speakers, res, err)
}

func (g *Gateway) TTSModels(ctx context.Context) Outcome {
    res, err := g.tts.Models(ctx)
    return resolve(g.log, "tts models", TTSModels, res, err)
}

func (g *Gateway) GenerateTTS(ctx context.Context, req tts.GenerateRequest) Outcome {
    res, err := g.tts.Generate(ctx, req)
    return resolve(g.log, "generate tts", GenerateTTS, res, err)
}

func (g *Gateway) VoiceChangerModels(ctx context.Context) Outcome {
    res, err := g.voiceChanger.Models(ctx)
    return resolve(g.log, "voice changer models", VoiceChangerModels, res, err)
}

func (g *Gateway) ChangeVoice(ctx context.Context, req voicechanger.ChangeVoiceRequest) Outcome {
    res, err := g.voiceChanger.ChangeVoice(ctx, req)
    return resolve(g.log, "change voice", ChangeVoice, res, err)
}

func (g *Gateway) VoiceCloneModels(ctx context.Context) Outcome {
    res, err := g.voiceClone.Models(ctx)
    return resolve(g.log, "voice clone models", VoiceCloneModels, res, err)
}

func (g *Gateway) CloneVoice(ctx context.Context, req voiceclone.CloneVoiceRequest) Outcome {
    res, err := g.voiceClone.Clone(ctx, req)
    return resolve(g.log, "clone voice", CloneVoice, res, err)
}

func (g *Gateway) ListAllVoices(ctx context.Context, providerID, voiceType string) Outcome {
    res, err := g.voices.List(ctx, providerID, voiceType)
    return resolve(g.log, "list voices", ListAllVoices, res, err)
}

func (g *Gateway) Providers(ctx context.Context) Outcome {
    res, err := g.voices.Providers(ctx)
    return resolve(g.log, "voice providers", Providers, res, err)
}

// HistoryList defaults an empty source to tts.
func (g *Gateway) HistoryList(ctx context.Context, source string) Outcome {
    res, err := g.history.List(ctx, source)
    return resolve(g.log, "history list", HistoryList, res, err)
}

func (g *Gateway) History(ctx context.Context, historyID string) Outcome {
    res, err := g.history.Get(ctx, historyID)
    return resolve(g.log, "history", History, res, err)
}

// resolve absorbs every error into the operation's fixed sentences. The
// underlying cause is only logged.
func resolve[T any](logger *log.Logger, op string, msgs Messages, data *T, err error) Outcome {
    if err == nil && data == nil {
        err = envelope.ErrNoData
    }
    var ce *envelope.CodeError
    switch {
    case err == nil:
    case errors.Is(err, envelope.ErrNoData):
        logger.Debug("empty response", "op", op)
        return Outcome{Failure: msgs.Empty}
    case errors.As(err, &ce):
        name := "UNKNOWN"
        if c, ok := ce.Known(); ok {
            name = c.Name()
        }
        logger.Warn("api error", "op", op, "code", ce.Code, "name", name, "message", ce.Message)
        return Outcome{Failure: msgs.Failed}
    default:
        logger.Warn("request failed", "op", op, "err", err)
        return Outcome{Failure: msgs.Failed}
    }
    m, err := flatten(data)
    if err != nil {
        logger.Error("flatten response", "op", op, "err", err)
        return Outcome{Failure: msgs.Failed}
    }
    return Outcome{Data: m}
}

// flatten turns a typed payload into plain maps, slices and json.Number values.
func flatten(v any) (map[string]any, error) {
    b, err := json.Marshal(v)
    if err != nil {
        return nil, err
    }
    dec := json.NewDecoder(bytes.NewReader(b))
    dec.UseNumber()
    var m map[string]any
    if err := dec.Decode(&m); err != nil {
        return nil, err
    }
    return m, nil
}
