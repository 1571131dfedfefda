package reflection

func init() {
	Register(NewPHP())
}

// PHP reflects PHP sources. Identifiers follow PHP's label rule: an ASCII
// letter, underscore or any byte from 0x80 up, then the same plus digits.
type PHP struct {
	*Engine
}

func NewPHP() *PHP {
	return &PHP{Engine: NewEngine(Rules{
		Language:   "php",
		Extensions: []string{".php", ".phtml", ".inc"},
		IdentStart: `a-zA-Z_\x{80}-\x{10FFFF}`,
		IdentPart:  `a-zA-Z0-9_\x{80}-\x{10FFFF}`,
	})}
}
