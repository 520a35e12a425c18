package options

// DefaultOptions allows up to two compounded edits of every kind.
var DefaultOptions = CorrectOptions{
	MaxErrors:        2,
	AllowSpace:       true,
	AvoidCapitalized: false,
	Substitution:     true,
	Deletion:         true,
	Insertion:        true,
}

type CorrectOptions struct {
	MaxErrors        int  // Rounds of compounded edits
	AllowSpace       bool // Try inserting a space (missing-space errors)
	AvoidCapitalized bool // Leave words starting with an uppercase letter alone
	Substitution     bool
	Deletion         bool
	Insertion        bool
}

type Options interface {
	Apply(options *CorrectOptions)
}

type FuncConfig struct {
	ops func(options *CorrectOptions)
}

func (w FuncConfig) Apply(conf *CorrectOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *CorrectOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Resolve applies opts on top of DefaultOptions.
func Resolve(opts ...Options) CorrectOptions {
	conf := DefaultOptions
	for _, o := range opts {
		o.Apply(&conf)
	}
	return conf
}

func WithMaxErrors(maxErrors int) Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.MaxErrors = maxErrors
	})
}

func WithSpace(enabled bool) Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.AllowSpace = enabled
	})
}

func WithAvoidCapitalized() Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.AvoidCapitalized = true
	})
}

func WithSubstitution(enabled bool) Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.Substitution = enabled
	})
}

func WithDeletion(enabled bool) Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.Deletion = enabled
	})
}

func WithInsertion(enabled bool) Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.Insertion = enabled
	})
}

// WithoutEdits disables substitution, deletion and insertion, leaving
// space insertion and hyphen removal.
func WithoutEdits() Options {
	return NewFuncOption(func(options *CorrectOptions) {
		options.Substitution = false
		options.Deletion = false
		options.Insertion = false
	})
}

// FromOptions copies every field of conf, for callers that already hold a
// resolved configuration.
func FromOptions(conf CorrectOptions) Options {
	return NewFuncOption(func(options *CorrectOptions) {
		*options = conf
	})
}
