package transport

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "net/url"
    "testing"

    "voispark-mcp/internal/envelope"
)

func TestHeadersAndQuery(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            t.Errorf("expected GET, got %s", r.Method)
        }
        if r.URL.Path != "/api/voices/cartesia/list" {
            t.Errorf("unexpected path: %s", r.URL.Path)
        }
        if got := r.URL.Query().Get("type"); got != "tts" {
            t.Errorf("expected type=tts, got %q", got)
        }
        if got := r.Header.Get("Authorization"); got != "Bearer secret" {
            t.Errorf("unexpected auth header %q", got)
        }
        if got := r.Header.Get("Content-Type"); got != "application/json" {
            t.Errorf("unexpected content type %q", got)
        }
        w.Write([]byte(`{"code":0,"message":"Success"}`))
    }))
    defer server.Close()

    c := New(Options{BaseURL: server.URL + "/", APIKey: "secret"})
    b, err := c.Get(context.Background(), "/api/voices/cartesia/list", url.Values{"type": {"tts"}})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if string(b) != `{"code":0,"message":"Success"}` {
        t.Fatalf("unexpected body %s", b)
    }
}

func TestEmptyTokenStillSent(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if _, ok := r.Header["Authorization"]; !ok {
            t.Errorf("authorization header missing")
        }
        w.WriteHeader(http.StatusUnauthorized)
        w.Write([]byte(`{"code":40003,"message":"Unauthorized"}`))
    }))
    defer server.Close()

    c := New(Options{BaseURL: server.URL})
    b, err := c.Delete(context.Background(), "/api/anything")
    if err != nil {
        t.Fatalf("non-2xx bodies must still be returned, got %v", err)
    }
    if string(b) != `{"code":40003,"message":"Unauthorized"}` {
        t.Fatalf("unexpected body %s", b)
    }
}

func TestPostBody(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            t.Errorf("expected POST, got %s", r.Method)
        }
        var in map[string]any
        if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
            t.Errorf("decode body: %v", err)
        }
        if in["text"] != "hello" {
            t.Errorf("unexpected body %v", in)
        }
        w.Write([]byte(`{"code":0,"message":"Success","data":{"id":"abc"}}`))
    }))
    defer server.Close()

    type out struct {
        ID string `json:"id" validate:"required"`
    }
    c := New(Options{BaseURL: server.URL, APIKey: "k"})
    got, err := PostData[out](context.Background(), c, "/api/echo", map[string]string{"text": "hello"})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if got.ID != "abc" {
        t.Fatalf("expected abc, got %s", got.ID)
    }
}

func TestTransportError(t *testing.T) {
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
    base := server.URL
    server.Close()

    c := New(Options{BaseURL: base})
    _, err := c.Get(context.Background(), "/api/tts/models", nil)
    if !errors.Is(err, envelope.ErrTransport) {
        t.Fatalf("expected ErrTransport, got %v", err)
    }
}
