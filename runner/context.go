package runner

const (
	DefaultFilename       = "main"
	DefaultCallStackLimit = 1000
)

type OptimizationLevel uint8

const (
	Debug OptimizationLevel = iota
	Release
)

func (self OptimizationLevel) String() string {
	switch self {
	case Debug:
		return "debug"
	case Release:
		return "release"
	default:
		panic("A new optimization level was added without updating this code")
	}
}

type CompilationOptions struct {
	OptimizationLevel OptimizationLevel
	// Maximum depth of nested function calls; 0 selects the default
	CallStackLimit uint
}

// ScriptContext is the input of a single invocation.
// It is owned by the caller and never modified by the runner.
type ScriptContext struct {
	Code     string
	Filename string
	Args     []string
	Options  CompilationOptions
}

func NewScriptContext(code string, filename string, args []string, options CompilationOptions) ScriptContext {
	argsCopy := make([]string, len(args))
	copy(argsCopy, args)

	if filename == "" {
		filename = DefaultFilename
	}

	if options.CallStackLimit == 0 {
		options.CallStackLimit = DefaultCallStackLimit
	}

	return ScriptContext{
		Code:     code,
		Filename: filename,
		Args:     argsCopy,
		Options:  options,
	}
}
