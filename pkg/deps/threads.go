package deps

// Threads represents native threading support. The toolchain supplies the
// actual flags, so the dependency itself is always found and only signals
// that thread flags are needed downstream.
type Threads struct{}

// NewThreads builds the threads dependency. It never fails to be found.
func NewThreads(env *Environment, opts Options) (*Threads, error) {
	if _, err := selectMethods(opts.Method, nil); err != nil {
		return nil, err
	}
	if !opts.Silent {
		env.logger().Info("Dependency found", "name", "threads")
	}
	return &Threads{}, nil
}

// Name returns "threads".
func (t *Threads) Name() string { return "threads" }

// Found always reports true.
func (t *Threads) Found() bool { return true }

// Version returns "unknown": threading support has no version of its own.
func (t *Threads) Version() string { return "unknown" }

// CompileArgs returns nil; the toolchain supplies the thread flags.
func (t *Threads) CompileArgs() []string { return nil }

// LinkArgs returns nil; the toolchain supplies the thread flags.
func (t *Threads) LinkArgs() []string { return nil }

// Sources returns nil.
func (t *Threads) Sources() []string { return nil }

// NeedThreads reports true: this is the dependency's entire purpose.
func (t *Threads) NeedThreads() bool { return true }

// Methods returns the applicable method subset.
func (t *Threads) Methods() []Method { return []Method{MethodAuto} }

// Language returns "".
func (t *Threads) Language() string { return "" }

var _ Dependency = (*Threads)(nil)
