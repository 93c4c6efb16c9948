package history

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/url"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/services/conversation"
    "voispark-mcp/internal/transport"
    "voispark-mcp/internal/validate"
)

const (
    SourceTTS          = "tts"
    SourceVoiceChanger = "voice_changer"
    SourceConversation = "conversation"
)

var ErrInvalidSource = errors.New("invalid history source")

// CheckSource returns the source to query, defaulting an empty one to tts.
func CheckSource(source string) (string, error) {
    switch source {
    case "":
        return SourceTTS, nil
    case SourceTTS, SourceVoiceChanger, SourceConversation:
        return source, nil
    }
    return "", fmt.Errorf("%w %q: want one of %s, %s, %s", ErrInvalidSource, source, SourceTTS, SourceVoiceChanger, SourceConversation)
}

// Entry is a Task or a Conversation record.
type Entry interface{ historyEntry() }

// Task is a single-turn record produced by tts ("tts") or voice changer ("vc").
type Task struct {
    HistoryID string         `json:"history_id" validate:"required"`
    UserID    string         `json:"user_id"`
    Source    string         `json:"source" validate:"oneof=vc tts"`
    ObjectKey string         `json:"object_key"`
    VoiceID   string         `json:"voice_id"`
    VoiceName string         `json:"voice_name"`
    Provider  string         `json:"provider"`
    ModelID   string         `json:"model_id"`
    ModelName string         `json:"model_name"`
    CreatedAt int64          `json:"created_at"`
    RefText   string         `json:"ref_text"`
    Configs   map[string]any `json:"configs" validate:"required"`
}

type Conversation struct {
    HistoryID    string                      `json:"history_id" validate:"required"`
    UserID       string                      `json:"user_id"`
    Provider     string                      `json:"provider"`
    Configs      map[string]any              `json:"configs"`
    Conversation []conversation.Turn         `json:"conversation" validate:"required,dive"`
    Speakers     []conversation.SavedSpeaker `json:"speakers" validate:"required,dive"`
    S3Key        string                      `json:"s3_key"`
    CreatedAt    int64                       `json:"created_at"`
}

var (
    taskKeys = []string{"history_id", "user_id", "source", "object_key", "voice_id", "voice_name",
        "provider", "model_id", "model_name", "created_at", "ref_text", "configs"}
    conversationKeys = []string{"history_id", "user_id", "provider", "configs", "conversation",
        "speakers", "s3_key", "created_at"}
)

func (t *Task) UnmarshalJSON(b []byte) error {
    type plain Task
    if err := audio.RequireKeys(b, taskKeys...); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(t))
}

func (c *Conversation) UnmarshalJSON(b []byte) error {
    type plain Conversation
    if err := audio.RequireKeys(b, conversationKeys...); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(c))
}

func (Task) historyEntry()         {}
func (Conversation) historyEntry() {}

// decodeEntry tries the Task shape first, then the Conversation shape.
func decodeEntry(raw json.RawMessage) (Entry, error) {
    var t Task
    terr := decodeAs(raw, &t)
    if terr == nil {
        return t, nil
    }
    var c Conversation
    cerr := decodeAs(raw, &c)
    if cerr == nil {
        return c, nil
    }
    return nil, fmt.Errorf("history entry matches neither shape: task: %v; conversation: %v", terr, cerr)
}

func decodeAs(raw json.RawMessage, v any) error {
    if err := json.Unmarshal(raw, v); err != nil {
        return err
    }
    return validate.Struct(v)
}

// Entries is a homogeneous history list: every element is a Task or every
// element is a Conversation.
type Entries []Entry

func (e *Entries) UnmarshalJSON(b []byte) error {
    var raws []json.RawMessage
    if err := json.Unmarshal(b, &raws); err != nil {
        return err
    }
    if raws == nil {
        *e = nil
        return nil
    }
    if tasks, err := decodeAll[Task](raws); err == nil {
        *e = tasks
        return nil
    }
    convs, err := decodeAll[Conversation](raws)
    if err != nil {
        return fmt.Errorf("history list is neither all task nor all conversation entries: %w", err)
    }
    *e = convs
    return nil
}

func decodeAll[T Entry](raws []json.RawMessage) (Entries, error) {
    out := make(Entries, 0, len(raws))
    for i, raw := range raws {
        var v T
        if err := decodeAs(raw, &v); err != nil {
            return nil, fmt.Errorf("history_list[%d]: %w", i, err)
        }
        out = append(out, v)
    }
    return out, nil
}

type ListResponse struct {
    HistoryList Entries `json:"history_list" validate:"required"`
    Total       int     `json:"total"`
}

func (r *ListResponse) UnmarshalJSON(b []byte) error {
    type plain ListResponse
    if err := audio.RequireKeys(b, "history_list", "total"); err != nil {
        return err
    }
    return json.Unmarshal(b, (*plain)(r))
}

type Response struct {
    History      Entry  `json:"history"`
    PresignedURL string `json:"presigned_url" validate:"required"`
}

func (r *Response) UnmarshalJSON(b []byte) error {
    var w struct {
        History      json.RawMessage `json:"history"`
        PresignedURL string          `json:"presigned_url"`
    }
    if err := json.Unmarshal(b, &w); err != nil {
        return err
    }
    if len(w.History) == 0 || string(w.History) == "null" {
        return errors.New("history is required")
    }
    entry, err := decodeEntry(w.History)
    if err != nil {
        return err
    }
    r.History = entry
    r.PresignedURL = w.PresignedURL
    return nil
}

type Service struct {
    api *transport.Client
}

func New(api *transport.Client) *Service {
    return &Service{api: api}
}

// List returns the history records of source. No request is made for an
// invalid source.
func (s *Service) List(ctx context.Context, source string) (*ListResponse, error) {
    src, err := CheckSource(source)
    if err != nil {
        return nil, err
    }
    return transport.GetData[ListResponse](ctx, s.api, "/api/history/list", url.Values{"source": {src}})
}

func (s *Service) Get(ctx context.Context, historyID string) (*Response, error) {
    return transport.GetData[Response](ctx, s.api, "/api/history/"+url.PathEscape(historyID), nil)
}
