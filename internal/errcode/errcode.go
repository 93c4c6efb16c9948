package errcode

import "fmt"

// Code is one entry of the VoiSpark API error registry.
type Code struct {
    name    string
    code    int
    message string
}

var (
    Success               = Code{"SUCCESS", 0, "Success"}
    Placeholder           = Code{"PLACEHOLDER", -1, "Placeholder"}
    CommonError           = Code{"COMMON_ERROR", 40000, "Common Error"}
    APITokenAlreadyExists = Code{"API_TOKEN_ALREADY_EXISTS", 40001, "Api Token Already Exists"}
    APITokenInvalidName   = Code{"API_TOKEN_INVALID_NAME", 40002, "Api Token Invalid Name"}
    Unauthorized          = Code{"UNAUTHORIZED", 40003, "Unauthorized"}
    APITokenNotFound      = Code{"API_TOKEN_NOT_FOUND", 40004, "Api Token Not Found"}
)

// registry order is declaration order; Placeholder is only an uninitialized sentinel.
var registry = []Code{
    Success,
    Placeholder,
    CommonError,
    APITokenAlreadyExists,
    APITokenInvalidName,
    Unauthorized,
    APITokenNotFound,
}

func (c Code) Name() string    { return c.name }
func (c Code) Code() int       { return c.code }
func (c Code) Message() string { return c.message }

func (c Code) IsSuccess() bool { return c == Success }

func (c Code) String() string {
    return fmt.Sprintf("%s(code=%d, message='%s')", c.name, c.code, c.message)
}

// Registered reports whether c is one of the registry members. The zero Code is not.
func (c Code) Registered() bool {
    for _, r := range registry {
        if r == c {
            return true
        }
    }
    return false
}

// Lookup returns the registry entry for a numeric code.
func Lookup(code int) (Code, bool) {
    for _, r := range registry {
        if r.code == code {
            return r, true
        }
    }
    return Code{}, false
}

// All returns a copy of the registry.
func All() []Code {
    out := make([]Code, len(registry))
    copy(out, registry)
    return out
}
