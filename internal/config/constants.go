package config

const SourceFileExt = ".matrix"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".matrix", ".mlang"}

// MaxRecursionDepth bounds parser and evaluator nesting to keep malformed
// or runaway programs from overflowing the Go stack.
const MaxRecursionDepth = 10000

// Built-in function names
const (
	PrintFuncName   = "print"
	PrintlnFuncName = "println"
	StrFuncName     = "str"
	LenFuncName     = "len"
)

// Built-in module names accepted by import. Anything else is a type-check
// error; there is no file-based module resolution.
var BuiltinModules = []string{"std", "math", "io", "physics", "quantum"}

func IsBuiltinModule(name string) bool {
	for _, m := range BuiltinModules {
		if m == name {
			return true
		}
	}
	return false
}
