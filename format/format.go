// Package format renders compiled class files and parsed classes for the
// jcc dump, ast and compile --print commands.
package format

import (
	"encoding"
	"io"
	"strings"

	"github.com/stuforbes/java-compiler/classfile"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(cf *classfile.ClassFile) error
}

// New returns the encoder registered under name: "line", "json" or "javap".
func New(name string, w io.Writer) (Encoder, bool) {
	switch name {
	case "line":
		return NewLineEncoder(w), true
	case "json":
		return NewJSONEncoder(w), true
	case "javap":
		return NewListingEncoder(w), true
	}
	return nil, false
}

func visibility(f classfile.AccessFlags) string {
	switch {
	case f.IsPublic():
		return "public"
	case f.IsProtected():
		return "protected"
	case f.IsPrivate():
		return "private"
	}
	return "package"
}

func modifiers(f classfile.AccessFlags) []string {
	var mods []string
	if f.IsStatic() {
		mods = append(mods, "static")
	}
	if f.IsFinal() {
		mods = append(mods, "final")
	}
	if f.IsAbstract() {
		mods = append(mods, "abstract")
	}
	if f.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	return mods
}

func joinOrDash(parts []string, sep string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, sep)
}
