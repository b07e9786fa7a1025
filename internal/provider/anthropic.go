// Package provider builds the Anthropic client used by the agent loop.
package provider

import (
	"errors"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest
const APIVersion = "2023-06-01"

var ErrMissingAPIKey = errors.New("missing ANTHROPIC_API_KEY; export it before running")

// CheckAPIKey fails fast when the SDK would have no key to send.
func CheckAPIKey() error {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// NewAnthropicClient returns a client using the API key from the env.
// opts are applied after the defaults, so tests can swap the transport.
func NewAnthropicClient(opts ...option.RequestOption) *anthropic.Client {
	c := anthropic.NewClient(opts...)
	return &c
}

// Model maps a configured model id onto the SDK type, defaulting when empty.
func Model(name string) anthropic.Model {
	if name == "" {
		return DefaultModel
	}
	return anthropic.Model(name)
}
