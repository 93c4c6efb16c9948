package voicechanger

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"

    "voispark-mcp/internal/services/audio"
    "voispark-mcp/internal/transport"
)

func TestDecodeConfig(t *testing.T) {
    cfg, err := DecodeConfig("elevenlabs", json.RawMessage(`{"style_exaggeration":0.3}`))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    want := ElevenLabsConfig{Stability: 0.5, Similarity: 0.75, StyleExaggeration: 0.3, SpeakerBoost: true}
    if cfg != want {
        t.Fatalf("got %#v, want %#v", cfg, want)
    }
    cfg, err = DecodeConfig("cartesia", json.RawMessage(`{}`))
    if err != nil || cfg != (CartesiaConfig{}) {
        t.Fatalf("unexpected cartesia config %#v %v", cfg, err)
    }
    if _, err := DecodeConfig("openai", json.RawMessage(`{}`)); err == nil {
        t.Fatalf("expected unknown provider error")
    }
}

func TestChangeVoice(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/voice_changer/change" {
            t.Errorf("unexpected path %s", r.URL.Path)
        }
        var req ChangeVoiceRequest
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            t.Errorf("decode request: %v", err)
        }
        if _, ok := req.Configs.(ElevenLabsConfig); !ok || !req.Sync {
            t.Errorf("unexpected request %#v", req)
        }
        w.Write([]byte(`{"code":0,"message":"Success","data":{"task_id":"t2","status":"failed","error":"bad audio"}}`))
    }))
    defer server.Close()

    svc := New(transport.New(transport.Options{BaseURL: server.URL}))
    res, err := svc.ChangeVoice(context.Background(), NewChangeVoiceRequest("UklGRg==", "elevenlabs", "eleven_multilingual_sts_v2", "v1", DefaultElevenLabsConfig()))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Status != "failed" || res.Error == nil || *res.Error != "bad audio" {
        t.Fatalf("unexpected response %#v", res)
    }
}

func TestChangeVoiceRequestRoundTrip(t *testing.T) {
    for _, req := range []ChangeVoiceRequest{
        NewChangeVoiceRequest("UklGRg==", "cartesia", "sonic-2", "v1", CartesiaConfig{}),
        NewChangeVoiceRequest("UklGRg==", "elevenlabs", "eleven_multilingual_sts_v2", "v1", DefaultElevenLabsConfig()),
        NewChangeVoiceRequest("UklGRg==", "ElevenLabs", "eleven_multilingual_sts_v2", "v1", ElevenLabsConfig{Stability: 0.2, Similarity: 0.4, StyleExaggeration: 0.6, RemoveBackgroundNoise: true}),
        NewChangeVoiceRequest("UklGRg==", "cartesia", "sonic-2", "v1", nil),
    } {
        b, err := json.Marshal(req)
        if err != nil {
            t.Fatalf("%s: marshal: %v", req.Provider, err)
        }
        var back ChangeVoiceRequest
        if err := json.Unmarshal(b, &back); err != nil {
            t.Fatalf("%s: unmarshal %s: %v", req.Provider, b, err)
        }
        if back != req {
            t.Fatalf("round trip mismatch: %#v vs %#v", back, req)
        }
    }
}

func TestChangeVoiceRejectsForeignConfig(t *testing.T) {
    var hits int32
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&hits, 1)
    }))
    defer server.Close()

    req := NewChangeVoiceRequest("UklGRg==", "cartesia", "sonic-2", "v1", DefaultElevenLabsConfig())
    var mismatch *audio.ConfigMismatchError
    if _, err := json.Marshal(req); !errors.As(err, &mismatch) {
        t.Fatalf("expected ConfigMismatchError from marshal, got %v", err)
    }
    svc := New(transport.New(transport.Options{BaseURL: server.URL}))
    if _, err := svc.ChangeVoice(context.Background(), req); !errors.As(err, &mismatch) {
        t.Fatalf("expected ConfigMismatchError, got %v", err)
    }
    if atomic.LoadInt32(&hits) != 0 {
        t.Fatalf("no request should be sent")
    }
}
