//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"strings"

	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// AssemblyInfoBuilder renders AssemblyInfo source text with a fluent interface.
type AssemblyInfoBuilder struct {
	*testkit.BaseBuilder
	language   string
	lineEnding string
	bom        bool
	lines      []string
}

// NewAssemblyInfoBuilder creates a C# builder with the using directives a
// Visual Studio template starts with.
func NewAssemblyInfoBuilder() *AssemblyInfoBuilder {
	b := &AssemblyInfoBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.Reset()
	return b
}

// AsVisualBasic switches the attribute syntax to <Assembly: Name("value")>.
func (b *AssemblyInfoBuilder) AsVisualBasic() *AssemblyInfoBuilder {
	b.language = "vb"
	b.lines = []string{"Imports System.Reflection", ""}
	return b
}

// WithCRLF uses Windows line endings.
func (b *AssemblyInfoBuilder) WithCRLF() *AssemblyInfoBuilder {
	b.lineEnding = "\r\n"
	return b
}

// WithBOM prefixes the content with a UTF-8 byte order mark.
func (b *AssemblyInfoBuilder) WithBOM() *AssemblyInfoBuilder {
	b.bom = true
	return b
}

// WithAttribute declares a quoted string attribute.
func (b *AssemblyInfoBuilder) WithAttribute(name, value string) *AssemblyInfoBuilder {
	if b.language == "vb" {
		b.lines = append(b.lines, fmt.Sprintf(`<Assembly: %s("%s")>`, name, value))
	} else {
		b.lines = append(b.lines, fmt.Sprintf(`[assembly: %s("%s")]`, name, value))
	}
	return b
}

// WithBareAttribute declares an attribute whose argument is not quoted,
// such as ComVisible(false).
func (b *AssemblyInfoBuilder) WithBareAttribute(name, value string) *AssemblyInfoBuilder {
	if b.language == "vb" {
		b.lines = append(b.lines, fmt.Sprintf(`<Assembly: %s(%s)>`, name, value))
	} else {
		b.lines = append(b.lines, fmt.Sprintf(`[assembly: %s(%s)]`, name, value))
	}
	return b
}

// WithLine appends a raw source line.
func (b *AssemblyInfoBuilder) WithLine(line string) *AssemblyInfoBuilder {
	b.lines = append(b.lines, line)
	return b
}

// Build renders the content (satisfies testkit.Builder interface).
func (b *AssemblyInfoBuilder) Build() interface{} {
	return b.BuildContent()
}

// BuildContent renders the content with a concrete return type.
func (b *AssemblyInfoBuilder) BuildContent() string {
	content := strings.Join(b.lines, b.lineEnding) + b.lineEnding
	if b.bom {
		content = "\ufeff" + content
	}
	return content
}

// Reset clears the builder state, allowing it to be reused.
func (b *AssemblyInfoBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.language = "cs"
	b.lineEnding = "\n"
	b.bom = false
	b.lines = []string{
		"using System.Reflection;",
		"using System.Runtime.InteropServices;",
		"",
	}
	return b
}

// Clone creates a deep copy of the AssemblyInfoBuilder.
func (b *AssemblyInfoBuilder) Clone() testkit.Builder {
	return &AssemblyInfoBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		language:    b.language,
		lineEnding:  b.lineEnding,
		bom:         b.bom,
		lines:       append([]string(nil), b.lines...),
	}
}
