package apperrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Canonical user-facing sentences. Backend wording varies release to release,
// so known failure classes are rewritten to exactly one sentence each.
const (
	MsgAnswerTooShort  = "Your answer needs to be at least 10 characters long."
	MsgLoginRequired   = "Please log in to continue."
	MsgUpgradeRequired = "You have reached your free question limit. Upgrade to keep practicing."
	MsgGenericFailure  = "Something went wrong. Please try again."
)

// httpError is satisfied by the API gateway's error type without importing it.
type httpError interface {
	HTTPStatusCode() int
	ResponseBody() []byte
}

// Humanize converts any error reaching the presentation layer into exactly one
// human-readable sentence. It is a pure function of the error's shape: the
// backend's heterogeneous payloads (bare arrays, {error}, {message}) collapse
// to a single string, network failures collapse to a fixed fallback, and
// anything unrecognized passes through verbatim.
func Humanize(err error) string {
	if err == nil {
		return ""
	}

	var he httpError
	if errors.As(err, &he) {
		return rewrite(messageFromBody(he.ResponseBody(), he.HTTPStatusCode()))
	}
	if isNetworkFailure(err) {
		return MsgGenericFailure
	}
	return rewrite(err.Error())
}

func messageFromBody(body []byte, status int) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var arr []any
		if json.Unmarshal(body, &arr) == nil && len(arr) > 0 {
			return fmt.Sprint(arr[0])
		}
		var obj struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &obj) == nil {
			if obj.Error != "" {
				return obj.Error
			}
			if obj.Message != "" {
				return obj.Message
			}
		}
	}
	if status >= 400 {
		if status == 401 {
			return MsgLoginRequired
		}
		return MsgGenericFailure
	}
	return trimmed
}

// rewrite maps known backend substrings onto the canonical sentences.
// First match wins; unmatched messages pass through unchanged.
func rewrite(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "at least 10 characters"),
		strings.Contains(lower, "too short"):
		return MsgAnswerTooShort
	case strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "invalid token"),
		strings.Contains(lower, "jwt"):
		return MsgLoginRequired
	case strings.Contains(lower, "limit reached"),
		strings.Contains(lower, "question limit"):
		return MsgUpgradeRequired
	}
	return msg
}

func isNetworkFailure(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, marker := range []string{"network error", "connection refused", "no such host", "connection reset", "timeout"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
