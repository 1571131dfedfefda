package reflection

func init() {
	Register(NewJavaScript())
}

// JavaScript reflects JavaScript and TypeScript sources. Only the
// "function name(" and "class Name" forms are recognised; arrow functions and
// object methods are not declarations in this sense.
type JavaScript struct {
	*Engine
}

func NewJavaScript() *JavaScript {
	return &JavaScript{Engine: NewEngine(Rules{
		Language:   "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"},
		IdentStart: `a-zA-Z_$\x{80}-\x{10FFFF}`,
		IdentPart:  `a-zA-Z0-9_$\x{80}-\x{10FFFF}`,
	})}
}
