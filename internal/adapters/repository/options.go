package repository

// Option applies a configuration option to New and the loaders.
type Option func(*options)

type options struct {
	strictMatrix bool
}

// WithStrictMatrix rejects grids that map one value to several positions
// instead of resolving ties to the smallest position.
func WithStrictMatrix(strict bool) Option {
	return func(o *options) {
		o.strictMatrix = strict
	}
}
