// Package envelope decodes and builds the {code, message, data} wrapper used by
// every VoiSpark API response.
package envelope

import (
    "encoding/json"
    "errors"
    "fmt"

    "voispark-mcp/internal/errcode"
    "voispark-mcp/internal/validate"
)

var (
    // ErrTransport marks a request that produced no usable response body.
    ErrTransport = errors.New("transport failure")
    // ErrDecode marks a body that is not a well-formed envelope of the expected payload.
    ErrDecode = errors.New("decode failure")
    // ErrNoData marks a success envelope without a payload.
    ErrNoData = errors.New("no data")
)

// CodeError is a well-formed envelope carrying a non-success code.
type CodeError struct {
    Code    int
    Message string
}

func (e *CodeError) Error() string {
    return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Known returns the registry entry for the error code, if any.
func (e *CodeError) Known() (errcode.Code, bool) { return errcode.Lookup(e.Code) }

type Envelope[T any] struct {
    Code    int    `json:"code"`
    Message string `json:"message"`
    Data    *T     `json:"data,omitempty"`
}

func (e *Envelope[T]) OK() bool { return e.Code == errcode.Success.Code() }

// Success builds a success envelope around data (which may be nil).
func Success[T any](data *T) Envelope[T] {
    return Envelope[T]{Code: errcode.Success.Code(), Message: errcode.Success.Message(), Data: data}
}

// Failure builds an error envelope from a registry entry. Passing a Code that is
// not a registry member panics.
func Failure[T any](code errcode.Code, data *T) Envelope[T] {
    if !code.Registered() {
        panic(fmt.Sprintf("envelope: %q is not a registered error code", code.Name()))
    }
    return Envelope[T]{Code: code.Code(), Message: code.Message(), Data: data}
}

type wire struct {
    Code    *int            `json:"code"`
    Message *string         `json:"message"`
    Data    json.RawMessage `json:"data"`
}

// Decode parses body as an Envelope whose data must conform to T. Unknown fields
// are ignored; missing code/message, type mismatches and failed validation are
// reported as ErrDecode. On a non-success code a non-conforming data payload is
// dropped instead.
func Decode[T any](body []byte) (*Envelope[T], error) {
    var w wire
    if err := json.Unmarshal(body, &w); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrDecode, err)
    }
    if w.Code == nil {
        return nil, fmt.Errorf("%w: missing code", ErrDecode)
    }
    if w.Message == nil {
        return nil, fmt.Errorf("%w: missing message", ErrDecode)
    }
    env := &Envelope[T]{Code: *w.Code, Message: *w.Message}
    if len(w.Data) == 0 || string(w.Data) == "null" {
        return env, nil
    }
    data, err := decodeData[T](w.Data)
    if err != nil {
        // error envelopes may carry detail of any shape
        if !env.OK() {
            return env, nil
        }
        return nil, err
    }
    env.Data = data
    return env, nil
}

func decodeData[T any](raw json.RawMessage) (*T, error) {
    var data T
    if err := json.Unmarshal(raw, &data); err != nil {
        return nil, fmt.Errorf("%w: data: %v", ErrDecode, err)
    }
    if err := validate.Struct(&data); err != nil {
        return nil, fmt.Errorf("%w: data: %v", ErrDecode, err)
    }
    return &data, nil
}

// Unwrap maps a decoded envelope onto its payload, turning a non-success code into
// a *CodeError and an empty success into ErrNoData.
func Unwrap[T any](env *Envelope[T]) (*T, error) {
    if !env.OK() {
        return nil, &CodeError{Code: env.Code, Message: env.Message}
    }
    if env.Data == nil {
        return nil, ErrNoData
    }
    return env.Data, nil
}

// Parse is Decode followed by Unwrap.
func Parse[T any](body []byte) (*T, error) {
    env, err := Decode[T](body)
    if err != nil {
        return nil, err
    }
    return Unwrap(env)
}
