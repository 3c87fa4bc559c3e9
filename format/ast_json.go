package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/stuforbes/java-compiler/ast"
)

// ASTJSONEncoder writes a parsed class as a tree of JSON nodes.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(class *ast.Class) error {
	text, err := e.MarshalText(class)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText(class *ast.Class) ([]byte, error) {
	return json.MarshalIndent(classToJSON(class), "", "  ")
}

type astJSONNode struct {
	Kind      string         `json:"kind"`
	Name      string         `json:"name,omitempty"`
	Type      string         `json:"type,omitempty"`
	Value     *string        `json:"value,omitempty"`
	Modifiers []string       `json:"modifiers,omitempty"`
	Children  []*astJSONNode `json:"children,omitempty"`
}

func declModifiers(v ast.Visibility, static, final bool) []string {
	var mods []string
	if v != ast.Default {
		mods = append(mods, v.String())
	}
	if static {
		mods = append(mods, "static")
	}
	if final {
		mods = append(mods, "final")
	}
	return mods
}

func classToJSON(c *ast.Class) *astJSONNode {
	jn := &astJSONNode{
		Kind:      "Class",
		Name:      c.Name,
		Modifiers: declModifiers(c.Visibility, c.IsStatic, c.IsFinal),
	}
	for _, m := range c.Methods {
		jn.Children = append(jn.Children, methodToJSON(m))
	}
	return jn
}

func methodToJSON(m *ast.Method) *astJSONNode {
	ret := m.ReturnType
	if m.ReturnTypeIsArray {
		ret += "[]"
	}
	jn := &astJSONNode{
		Kind:      "Method",
		Name:      m.Name,
		Type:      ret,
		Modifiers: declModifiers(m.Visibility, m.IsStatic, m.IsFinal),
	}
	for _, p := range m.Parameters {
		typ := p.Type
		if p.IsArray {
			typ += "[]"
		}
		jn.Children = append(jn.Children, &astJSONNode{Kind: "Parameter", Name: p.Name, Type: typ})
	}
	for _, s := range m.Statements {
		jn.Children = append(jn.Children, statementToJSON(s))
	}
	return jn
}

func statementToJSON(s ast.Statement) *astJSONNode {
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		return &astJSONNode{Kind: "ExpressionStatement", Children: []*astJSONNode{expressionToJSON(st.Expression)}}
	case *ast.VariableAssignment:
		jn := &astJSONNode{Kind: "VariableAssignment", Name: st.Name, Type: st.Type}
		if st.IsFinal {
			jn.Modifiers = []string{"final"}
		}
		if st.Value != nil {
			jn.Children = []*astJSONNode{expressionToJSON(st.Value)}
		}
		return jn
	case *ast.Return:
		jn := &astJSONNode{Kind: "Return"}
		if st.Value != nil {
			jn.Children = []*astJSONNode{expressionToJSON(st.Value)}
		}
		return jn
	}
	return &astJSONNode{Kind: fmt.Sprintf("%T", s)}
}

func expressionToJSON(x ast.Expression) *astJSONNode {
	switch ex := x.(type) {
	case *ast.StringLiteral:
		value := ex.Value
		return &astJSONNode{Kind: "StringLiteral", Value: &value}
	case *ast.StaticIdentifier:
		return &astJSONNode{Kind: "StaticIdentifier", Name: ex.Name}
	case *ast.Variable:
		return &astJSONNode{Kind: "Variable", Name: ex.Name, Type: ex.TypeDef}
	case *ast.Call:
		jn := &astJSONNode{Kind: "Call", Name: ex.MethodName}
		for _, arg := range ex.Arguments {
			jn.Children = append(jn.Children, expressionToJSON(arg))
		}
		return jn
	case *ast.ObjectExpression:
		return &astJSONNode{Kind: "ObjectExpression", Children: []*astJSONNode{
			expressionToJSON(ex.Parent),
			expressionToJSON(ex.Child),
		}}
	case *ast.Assignment:
		return &astJSONNode{Kind: "Assignment", Name: ex.Name, Type: ex.TypeDef, Children: []*astJSONNode{expressionToJSON(ex.Value)}}
	}
	return &astJSONNode{Kind: fmt.Sprintf("%T", x)}
}
