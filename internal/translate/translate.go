// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate localizes paper titles and abstracts. The Google
// backend talks to the public web endpoint; callers that need a different
// backend implement Translator themselves.
package translate

import "context"

// Translator converts text into the target language. Implementations
// should return an error rather than partial output; callers keep the
// original text when translation fails.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, targetLang string) (string, error)

// Translate implements Translator.
func (f Func) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return f(ctx, text, targetLang)
}
