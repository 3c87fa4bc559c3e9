package format

import (
	"io"
	"strings"

	"github.com/stuforbes/java-compiler/ast"
)

// JavaPrettyPrinter writes a parsed class back out as Java source in a
// canonical layout.
type JavaPrettyPrinter struct {
	w           io.Writer
	err         error
	indent      int
	indentStr   string
	atLineStart bool
}

func NewJavaPrettyPrinter(w io.Writer) *JavaPrettyPrinter {
	return &JavaPrettyPrinter{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

func (p *JavaPrettyPrinter) Print(class *ast.Class) error {
	p.printClass(class)
	return p.err
}

func (p *JavaPrettyPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	p.atLineStart = false
	p.write(strings.Repeat(p.indentStr, p.indent))
}

func (p *JavaPrettyPrinter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *JavaPrettyPrinter) newline() {
	p.write("\n")
	p.atLineStart = true
}

func (p *JavaPrettyPrinter) writeModifiers(v ast.Visibility, static, final bool) {
	for _, mod := range declModifiers(v, static, final) {
		p.write(mod + " ")
	}
}

func (p *JavaPrettyPrinter) printClass(c *ast.Class) {
	p.writeIndent()
	p.writeModifiers(c.Visibility, c.IsStatic, c.IsFinal)
	p.write("class " + c.Name + " {")
	p.newline()

	p.indent++
	for i, m := range c.Methods {
		if i > 0 {
			p.newline()
		}
		p.printMethod(m)
	}
	p.indent--

	p.writeIndent()
	p.write("}")
	p.newline()
}

func (p *JavaPrettyPrinter) printMethod(m *ast.Method) {
	p.writeIndent()
	p.writeModifiers(m.Visibility, m.IsStatic, m.IsFinal)
	p.write(m.Signature() + " {")
	p.newline()

	p.indent++
	for _, s := range m.Statements {
		p.writeIndent()
		p.write(s.String())
		p.newline()
	}
	p.indent--

	p.writeIndent()
	p.write("}")
	p.newline()
}
