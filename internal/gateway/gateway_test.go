package gateway

import (
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "reflect"
    "sync/atomic"
    "testing"

    "github.com/charmbracelet/log"

    "voispark-mcp/internal/services/tts"
    "voispark-mcp/internal/services/voiceclone"
    "voispark-mcp/internal/transport"
)

func newGateway(t *testing.T, h http.HandlerFunc) *Gateway {
    t.Helper()
    server := httptest.NewServer(h)
    t.Cleanup(server.Close)
    return New(transport.New(transport.Options{BaseURL: server.URL, APIKey: "k"}), log.New(io.Discard))
}

func reply(body string) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(body)) }
}

// normalize compares maps by JSON value so json.Number and float64 line up.
func normalize(t *testing.T, v any) any {
    t.Helper()
    b, err := json.Marshal(v)
    if err != nil {
        t.Fatalf("marshal: %v", err)
    }
    var out any
    if err := json.Unmarshal(b, &out); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    return out
}

// A successful tts generation flattens the task response.
func TestGenerateTTSSuccess(t *testing.T) {
    data := `{"task_id":"t1","status":"success","details":{"url":"https://cdn/a.mp3","format":{"container":"mp3","encoding":"mp3","sample_rate":44100,"channel":1}}}`
    g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/tts/generate" {
            t.Errorf("unexpected path %s", r.URL.Path)
        }
        w.Write([]byte(`{"code":0,"message":"Success","data":` + data + `}`))
    })
    out := g.GenerateTTS(context.Background(), tts.NewGenerateRequest("cartesia", "hello", "sonic-2", "v1", tts.DefaultCartesiaConfig()))
    if !out.OK() {
        t.Fatalf("unexpected failure %q", out.Failure)
    }
    var want any
    json.Unmarshal([]byte(data), &want)
    if got := normalize(t, out.Data); !reflect.DeepEqual(got, want) {
        t.Fatalf("got %v, want %v", got, want)
    }
    if _, ok := out.Data["task_id"].(string); !ok {
        t.Fatalf("task_id should be a string, got %T", out.Data["task_id"])
    }
    if _, ok := out.Data["details"].(map[string]any)["format"].(map[string]any)["sample_rate"].(json.Number); !ok {
        t.Fatalf("numbers should stay json.Number")
    }
}

func TestTTSModelsEmptyCatalog(t *testing.T) {
    g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet || r.URL.Path != "/api/tts/models" {
            t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
        }
        w.Write([]byte(`{"code":0,"message":"Success","data":{"models":[]}}`))
    })
    out := g.TTSModels(context.Background())
    if !out.OK() {
        t.Fatalf("unexpected failure %q", out.Failure)
    }
    want := map[string]any{"models": []any{}}
    if !reflect.DeepEqual(out.Data, want) {
        t.Fatalf("got %#v, want %#v", out.Data, want)
    }
}

func TestGenerateTTSForeignConfig(t *testing.T) {
    var hits int32
    g := newGateway(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&hits, 1) })
    out := g.GenerateTTS(context.Background(), tts.NewGenerateRequest("cartesia", "hello", "sonic-2", "v1", tts.DefaultMinimaxConfig()))
    if out.Failure != "Failed to generate tts" {
        t.Fatalf("unexpected outcome %#v", out)
    }
    if atomic.LoadInt32(&hits) != 0 {
        t.Fatalf("no request should be sent")
    }
}

// An error envelope yields the fixed failure sentence whatever the code.
func TestErrorCodeYieldsFailure(t *testing.T) {
    for _, body := range []string{
        `{"code":40003,"message":"Unauthorized"}`,
        `{"code":40004,"message":"API token not found"}`,
        `{"code":99999,"message":"mystery"}`,
    } {
        g := newGateway(t, reply(body))
        out := g.TTSModels(context.Background())
        if out.Failure != "Failed to get tts models" || out.Data != nil {
            t.Fatalf("%s: unexpected outcome %#v", body, out)
        }
    }
}

// Voices listing hits the provider path with the type query.
func TestListAllVoices(t *testing.T) {
    g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/voices/cartesia/list" || r.URL.Query().Get("type") != "tts" {
            t.Errorf("unexpected request %s", r.URL)
        }
        w.Write([]byte(`{"code":0,"message":"Success","data":{"default_voices":[],"user_voices":[],"ip_voices":[{"id":"ip1","name":"Star","description":"","provider":"cartesia","avatar_url":"a","preview_url":"p"}]}}`))
    })
    out := g.ListAllVoices(context.Background(), "cartesia", "tts")
    if !out.OK() {
        t.Fatalf("unexpected failure %q", out.Failure)
    }
    ip := out.Data["ip_voices"].([]any)
    if len(ip) != 1 || ip[0].(map[string]any)["preview_url"] != "p" {
        t.Fatalf("unexpected data %v", out.Data)
    }
}

func TestEmptyData(t *testing.T) {
    cases := []struct {
        name string
        call func(*Gateway) Outcome
        want string
    }{
        {"tts models", func(g *Gateway) Outcome { return g.TTSModels(context.Background()) }, "No tts models found"},
        {"speakers", func(g *Gateway) Outcome { return g.Speakers(context.Background()) }, "No speakers found"},
        {"providers", func(g *Gateway) Outcome { return g.Providers(context.Background()) }, "No voice providers found"},
        {"history", func(g *Gateway) Outcome { return g.History(context.Background(), "h1") }, "No history found"},
        {"generate tts", func(g *Gateway) Outcome {
            return g.GenerateTTS(context.Background(), tts.NewGenerateRequest("openai", "hi", "m", "v", nil))
        }, "No task ID received"},
        {"clone", func(g *Gateway) Outcome {
            return g.CloneVoice(context.Background(), voiceclone.CloneVoiceRequest{AudioData: "AA", Provider: "cartesia", ModelID: "m", Configs: voiceclone.DefaultCartesiaConfig()})
        }, "No cloned voice received"},
    }
    for _, c := range cases {
        g := newGateway(t, reply(`{"code":0,"message":"Success","data":null}`))
        if out := c.call(g); out.Failure != c.want {
            t.Fatalf("%s: got %q, want %q", c.name, out.Failure, c.want)
        }
    }
}

func TestUnparseableBody(t *testing.T) {
    for _, body := range []string{`<html>502</html>`, `{"message":"no code"}`, `{"code":0,"message":"Success","data":{"models":"nope"}}`} {
        g := newGateway(t, reply(body))
        if out := g.VoiceCloneModels(context.Background()); out.Failure != "Failed to get voice clone models" {
            t.Fatalf("%s: unexpected outcome %#v", body, out)
        }
    }
}

func TestTransportFailure(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
    base := server.URL
    server.Close()
    g := New(transport.New(transport.Options{BaseURL: base}), log.New(io.Discard))
    if out := g.ConversationModels(context.Background()); out.Failure != "Failed to get conversation models" {
        t.Fatalf("unexpected outcome %#v", out)
    }
}

func TestHistoryListInvalidSource(t *testing.T) {
    var hits int32
    g := newGateway(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&hits, 1) })
    if out := g.HistoryList(context.Background(), "podcasts"); out.Failure != "Failed to get history list" {
        t.Fatalf("unexpected outcome %#v", out)
    }
    if atomic.LoadInt32(&hits) != 0 {
        t.Fatalf("no request should be sent")
    }
}

func TestHistoryListDefaultSource(t *testing.T) {
    g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Query().Get("source") != "tts" {
            t.Errorf("expected default source tts, got %s", r.URL.RawQuery)
        }
        w.Write([]byte(`{"code":0,"message":"Success","data":{"history_list":[],"total":0}}`))
    })
    out := g.HistoryList(context.Background(), "")
    if !out.OK() || out.Data["total"] != json.Number("0") {
        t.Fatalf("unexpected outcome %#v", out)
    }
}
