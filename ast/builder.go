package ast

type classBuilder struct {
	class   Class
	methods []*methodBuilder
}

type methodBuilder struct {
	method     Method
	parameters []*Parameter
}

func (b *classBuilder) newMethod(visibility Visibility) {
	b.methods = append(b.methods, &methodBuilder{method: Method{Visibility: visibility}})
}

func (b *classBuilder) latestMethod() *methodBuilder {
	if len(b.methods) == 0 {
		b.newMethod(Default)
	}
	return b.methods[len(b.methods)-1]
}

func (m *methodBuilder) newParameter(typ string) {
	m.parameters = append(m.parameters, &Parameter{Type: typ})
}

func (m *methodBuilder) latestParameter() *Parameter {
	if len(m.parameters) == 0 {
		m.newParameter("")
	}
	return m.parameters[len(m.parameters)-1]
}

func (b *classBuilder) build() (*Class, error) {
	if b.class.Name == "" {
		return nil, &IncompleteError{What: "class name was not set"}
	}
	class := b.class
	class.Methods = make([]*Method, 0, len(b.methods))
	for _, mb := range b.methods {
		m, err := mb.build()
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, m)
	}
	return &class, nil
}

func (m *methodBuilder) build() (*Method, error) {
	if m.method.Name == "" {
		return nil, &IncompleteError{What: "method name was not set"}
	}
	if m.method.ReturnType == "" {
		return nil, &IncompleteError{What: "return type of " + m.method.Name + " was not set"}
	}
	method := m.method
	method.Parameters = make([]Parameter, 0, len(m.parameters))
	for _, p := range m.parameters {
		if p.Name == "" || p.Type == "" {
			return nil, &IncompleteError{What: "parameter of " + m.method.Name + " is missing a name or type"}
		}
		method.Parameters = append(method.Parameters, *p)
	}
	return &method, nil
}
