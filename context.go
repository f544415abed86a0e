package cn25519

import (
	"crypto/rand"
	"io"
)

// Context carries the two collaborators the protocol layers need: the hash
// function and the entropy source. A Context is immutable after NewContext
// and safe for concurrent use as long as its entropy source is.
type Context struct {
	hasher Hasher
	random io.Reader
}

// Option configures a Context
type Option func(*Context)

// WithHasher selects the hash used for challenges, derivations and key
// images. The default is Keccak256Hasher.
func WithHasher(h Hasher) Option {
	return func(ctx *Context) {
		ctx.hasher = h
	}
}

// WithRandom selects the entropy source for key generation and signature
// nonces. The default is crypto/rand.Reader.
func WithRandom(r io.Reader) Option {
	return func(ctx *Context) {
		ctx.random = r
	}
}

// NewContext creates a context with the given options applied over the
// defaults
func NewContext(opts ...Option) *Context {
	ctx := &Context{
		hasher: Keccak256Hasher,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// defaultContext backs the package-level functions
var defaultContext = NewContext()

// DefaultContext returns the context used by the package-level functions:
// Keccak-256 and crypto/rand
func DefaultContext() *Context {
	return defaultContext
}

// Hasher returns the hash function of ctx
func (ctx *Context) Hasher() Hasher {
	return ctx.hasher
}

// readEntropy fills b from the entropy source. A short read is an error:
// the caller never proceeds with partially filled buffers.
func (ctx *Context) readEntropy(b []byte) error {
	if _, err := io.ReadFull(ctx.random, b); err != nil {
		return Error{
			Err:         ErrEntropy,
			Description: "entropy source failed: " + err.Error(),
		}
	}
	return nil
}
