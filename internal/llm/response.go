package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the shape of a model reply.
type Kind int

const (
	KindText Kind = iota
	KindStructured
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStructured:
		return "structured"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Response is the tagged result of one model invocation.
type Response struct {
	Kind Kind
	// Raw is the reply exactly as returned by the model. Empty for KindError.
	Raw string
	// Fields holds the decoded object for KindStructured.
	Fields map[string]any
	Err    error
}

// Failed wraps a model error.
func Failed(err error) Response {
	return Response{Kind: KindError, Err: err}
}

// ParseResponse classifies a raw reply. A reply is structured only when, after
// removing an optional code fence, it decodes as a JSON object.
func ParseResponse(raw string) Response {
	body := stripCodeFence(strings.TrimSpace(raw))
	if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
		var fields map[string]any
		if err := json.Unmarshal([]byte(body), &fields); err == nil {
			return Response{Kind: KindStructured, Raw: raw, Fields: fields}
		}
	}
	return Response{Kind: KindText, Raw: raw}
}

// Text reduces the response to the plain text embedded downstream.
func (r Response) Text() string {
	switch r.Kind {
	case KindError:
		msg := "unknown error"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return "Error: " + msg
	case KindStructured:
		return structuredText(r.Fields, r.Raw)
	default:
		return strings.TrimSpace(r.Raw)
	}
}

// structuredText prefers a "response" string field, then a lone string field,
// then the whole object as indented JSON with sorted keys.
func structuredText(fields map[string]any, raw string) string {
	if s, ok := fields["response"].(string); ok {
		return strings.TrimSpace(s)
	}

	var only string
	count := 0
	for _, v := range fields {
		if s, ok := v.(string); ok {
			only = s
			count++
		}
	}
	if count == 1 && len(fields) == 1 {
		return strings.TrimSpace(only)
	}

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return string(out)
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return s
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
