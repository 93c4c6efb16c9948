package audio_test

import (
    "errors"
    "testing"

    "voispark-mcp/internal/envelope"
    "voispark-mcp/internal/services/audio"
)

const okPrefix = `{"code":0,"message":"Success","data":`

func TestTaskResponseRequiresFormatFields(t *testing.T) {
    full := `{"task_id":"t1","status":"success","details":{"url":"https://cdn/a.mp3","format":{"container":"mp3","encoding":"mp3","sample_rate":0,"channel":0}}}`
    env, err := envelope.Decode[audio.TaskResponse]([]byte(okPrefix + full + `}`))
    if err != nil {
        t.Fatalf("zero values are present values: %v", err)
    }
    if env.Data.Details.Format.Container != "mp3" {
        t.Fatalf("unexpected details %#v", env.Data.Details)
    }

    for _, data := range []string{
        `{"task_id":"t1","status":"success","details":{"url":"u","format":{"container":"mp3","encoding":"mp3"}}}`,
        `{"task_id":"t1","status":"success","details":{"url":"u","format":{"container":"mp3","encoding":"mp3","sample_rate":44100}}}`,
        `{"task_id":"t1","status":"success","details":{"url":"u","format":{"container":"mp3","encoding":"mp3","sample_rate":null,"channel":1}}}`,
        `{"task_id":"t1","status":"success","details":{"url":"u"}}`,
    } {
        if _, err := envelope.Decode[audio.TaskResponse]([]byte(okPrefix + data + `}`)); !errors.Is(err, envelope.ErrDecode) {
            t.Fatalf("%s: expected ErrDecode, got %v", data, err)
        }
    }
}

func TestCatalogRequiresModelFields(t *testing.T) {
    full := `{"models":[{"provider":"p","name":"","description":"","model_list":[{"model_name":"m","credit":0}],"configs":[]}]}`
    if _, err := envelope.Decode[audio.Catalog]([]byte(okPrefix + full + `}`)); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    for _, data := range []string{
        `{"models":[{"provider":"p","model_list":[{"model_name":"m"}],"configs":[]}]}`,
        `{"models":[{"provider":"p","name":"","description":"","model_list":[{"model_name":"m"}],"configs":[]}]}`,
        `{"models":[{"provider":"p","description":"","model_list":[{"model_name":"m","credit":1}],"configs":[]}]}`,
        `{"models":[{"provider":"p","name":"","model_list":[{"model_name":"m","credit":1}],"configs":[]}]}`,
    } {
        if _, err := envelope.Decode[audio.Catalog]([]byte(okPrefix + data + `}`)); !errors.Is(err, envelope.ErrDecode) {
            t.Fatalf("%s: expected ErrDecode, got %v", data, err)
        }
    }
}

func TestRequireKeys(t *testing.T) {
    if err := audio.RequireKeys([]byte(`{"a":"","b":0}`), "a", "b"); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    err := audio.RequireKeys([]byte(`{"a":""}`), "a", "b")
    var missing *audio.MissingFieldError
    if !errors.As(err, &missing) || missing.Field != "b" {
        t.Fatalf("expected missing b, got %v", err)
    }
    if err := audio.RequireKeys([]byte(`null`), "a"); err == nil {
        t.Fatalf("expected null object to fail")
    }
}

func TestProviderKey(t *testing.T) {
    for _, in := range []string{"Fish-Audio", "fish_audio", " fishaudio ", "Fish Audio"} {
        if got := audio.ProviderKey(in); got != "fishaudio" {
            t.Fatalf("%q: got %q", in, got)
        }
    }
}
