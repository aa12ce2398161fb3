package anvil

import "github.com/deepnoodle-ai/anvil/attrs"

// Option describes a function used to configure a compilation.
type Option func(*config)

// WithName sets the name of the built module. The default is "tinyexpr".
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = name
	}
}

// WithTargetTriple records a target triple on the built module.
func WithTargetTriple(triple string) Option {
	return func(cfg *config) {
		cfg.targetTriple = triple
	}
}

// WithRetcode makes the generated main return the expression value as the
// process exit code instead of printing it.
func WithRetcode() Option {
	return func(cfg *config) {
		cfg.retcode = true
	}
}

// WithFuncAttrs replaces the default attributes on the generated main.
// Calling it with no keys removes them entirely.
func WithFuncAttrs(keys ...attrs.Key) Option {
	return func(cfg *config) {
		cfg.funcAttrs = append([]attrs.Key{}, keys...)
	}
}

// WithoutVerify skips the verification step, returning the module even
// when it would not verify clean.
func WithoutVerify() Option {
	return func(cfg *config) {
		cfg.skipVerify = true
	}
}
