// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/groundit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage judge and generator instances.
func newCompleter(config *ai.Config, model string) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken("none"),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer", "model", model),
	}, nil
}

// NewCompleter creates a completer for the given model using the provided
// configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config, model string) (ai.Completer, error) {
	return newCompleter(config, model)
}

// Complete sends a single prompt to the chat model and returns its raw text
// output. Backend rate limiting is reported as an error satisfying
// ai.IsRateLimit.
func (c *Completer) Complete(ctx context.Context, prompt string, params ai.CompleteParams) (string, error) {
	c.logger.Debug("running completion", "prompt_length", len(prompt), "max_tokens", params.MaxTokens)

	opts := []llms.CallOption{llms.WithTemperature(params.Temperature)}
	if params.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, c.client, prompt, opts...)
	if err != nil {
		c.logger.Error("completion failed", "err", err)
		return "", wrapModelError(err)
	}

	return out, nil
}

// wrapModelError tags backend throttling errors so callers can retry them.
// OpenAI-compatible servers are inconsistent here, some return a typed 429
// and some a plain message, so the check is textual.
func wrapModelError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") {
		return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
	}
	return err
}
