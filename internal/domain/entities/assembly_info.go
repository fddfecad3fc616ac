package entities

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"
)

const utf8BOM = "\ufeff"

var (
	// ErrFileNotFound is returned when an AssemblyInfo path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrAttributeNotDeclared is returned by Set for names never matched during parsing.
	ErrAttributeNotDeclared = errors.New("attribute not declared")
)

// assemblyAttributePattern matches C#, VB and F# assembly-level attribute declarations:
//
//	[assembly: AssemblyVersion("1.0.0.0")]
//	<Assembly: AssemblyVersion("1.0.0.0")>
//	[<assembly: System.Reflection.AssemblyVersionAttribute("1.0.0.0")>]
//	[assembly: ComVisible(false)]
//
// Groups: 1 prefix, 2 short name, 3 "Attribute" suffix, 4 open paren,
// 5 quoted value, 6 bare value, 7 remainder.
var assemblyAttributePattern = regexp.MustCompile(
	`^(\s*[\[<]<?\s*[Aa]ssembly\s*:\s*(?:[\w.]+\.)?)(\w+?)(Attribute)?(\s*\(\s*)` +
		`(?:"((?:[^"\\]|\\.)*)"|([^)"\s]*))(\s*\).*)$`,
)

//nolint:gochecknoglobals // static comment syntax tables
var (
	lineCommentPrefixes = []string{"//", "'", "REM ", "rem "}
	blockComments       = []blockComment{{start: "/*", end: "*/"}, {start: "(*", end: "*)"}}
)

type blockComment struct {
	start string
	end   string
}

// AttributeTemplate is the re-insertable text around an attribute value.
type AttributeTemplate struct {
	Prefix string
	Suffix string
}

// Render rebuilds the declaration line for the given value.
func (t AttributeTemplate) Render(value string) string {
	return t.Prefix + value + t.Suffix
}

// AttributeMatch records where an attribute was declared and its current value.
type AttributeMatch struct {
	Template   AttributeTemplate
	Value      string
	LineNumber int
	Quoted     bool
}

// AssemblyInfoFile is an editable, line-addressed view of an AssemblyInfo source file.
type AssemblyInfoFile struct {
	Path       string
	LineEnding string
	HasBOM     bool

	lines      []string
	attributes map[string]*AttributeMatch
	order      []string
}

// ParseAssemblyInfoFile reads and parses the file at path.
func ParseAssemblyInfoFile(path string) (*AssemblyInfoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q: %w", ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return ParseAssemblyInfo(path, string(data)), nil
}

// ParseAssemblyInfo parses in-memory content. Lines that are line comments or
// sit inside a block comment are never matched. The first declaration of a
// given attribute wins.
func ParseAssemblyInfo(path, content string) *AssemblyInfoFile {
	file := &AssemblyInfoFile{
		Path:       path,
		LineEnding: detectLineEnding(content),
		attributes: make(map[string]*AttributeMatch),
	}

	if strings.HasPrefix(content, utf8BOM) {
		file.HasBOM = true
		content = strings.TrimPrefix(content, utf8BOM)
	}
	file.lines = splitLines(content)

	var openBlock *blockComment
	for i, line := range file.lines {
		if openBlock == nil && isLineComment(strings.TrimSpace(line)) {
			continue
		}
		var segments []lineSegment
		segments, openBlock = codeSegments(line, openBlock)
		for _, segment := range segments {
			code := strings.TrimSpace(line[segment.start:segment.end])
			if code == "" || isLineComment(code) {
				continue
			}
			if file.matchAttribute(i, line, segment.start) {
				break
			}
		}
	}

	return file
}

// lineSegment is a byte range of a line that lies outside any block comment.
type lineSegment struct {
	start int
	end   int
}

// codeSegments returns the parts of line outside block comments, given the
// block comment open at the start of the line, and the one still open at its
// end. Markers inside string literals and after a // comment are ignored.
func codeSegments(line string, open *blockComment) ([]lineSegment, *blockComment) {
	var segments []lineSegment
	segmentStart := 0

	for i := 0; i < len(line); {
		if open != nil {
			end := strings.Index(line[i:], open.end)
			if end < 0 {
				return segments, open
			}
			i += end + len(open.end)
			open = nil
			segmentStart = i
			continue
		}

		switch {
		case line[i] == '"':
			closing := strings.IndexByte(line[i+1:], '"')
			if closing < 0 {
				i = len(line)
			} else {
				i += closing + 2
			}
		case strings.HasPrefix(line[i:], "//"):
			i = len(line)
		default:
			if block := blockCommentAt(line[i:]); block != nil {
				segments = append(segments, lineSegment{start: segmentStart, end: i})
				open = block
				i += len(block.start)
				continue
			}
			i++
		}
	}

	if open == nil {
		segments = append(segments, lineSegment{start: segmentStart, end: len(line)})
	}
	return segments, open
}

func blockCommentAt(text string) *blockComment {
	for i := range blockComments {
		if strings.HasPrefix(text, blockComments[i].start) {
			return &blockComments[i]
		}
	}
	return nil
}

// matchAttribute matches a declaration starting at offset and records it
// unless the name was already declared. It reports whether the line matched.
func (f *AssemblyInfoFile) matchAttribute(lineNumber int, line string, offset int) bool {
	idx := assemblyAttributePattern.FindStringSubmatchIndex(line[offset:])
	if idx == nil {
		return false
	}
	for i := range idx {
		if idx[i] >= 0 {
			idx[i] += offset
		}
	}

	name := line[idx[4]:idx[5]]
	if _, exists := f.attributes[name]; exists {
		return true
	}

	match := &AttributeMatch{LineNumber: lineNumber}
	valueStart, valueEnd := idx[12], idx[13]
	if idx[10] >= 0 {
		valueStart, valueEnd = idx[10], idx[11]
		match.Quoted = true
	}
	match.Value = line[valueStart:valueEnd]
	match.Template = AttributeTemplate{Prefix: line[:valueStart], Suffix: line[valueEnd:]}

	f.attributes[name] = match
	f.order = append(f.order, name)
	return true
}

// Get returns the current value of an attribute, or false when it is not declared.
func (f *AssemblyInfoFile) Get(name string) (string, bool) {
	match, ok := f.attributes[name]
	if !ok {
		return "", false
	}
	return match.Value, true
}

// Match returns the full match record for an attribute.
func (f *AssemblyInfoFile) Match(name string) (AttributeMatch, bool) {
	match, ok := f.attributes[name]
	if !ok {
		return AttributeMatch{}, false
	}
	return *match, true
}

// Set replaces the value of a declared attribute and re-renders its line.
func (f *AssemblyInfoFile) Set(name, value string) error {
	match, ok := f.attributes[name]
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrAttributeNotDeclared, name, f.Path)
	}
	if match.Quoted && strings.Contains(value, `"`) {
		return fmt.Errorf("%w: value for %s must not contain a double quote", ErrInvalidArgument, name)
	}
	if !match.Quoted && strings.ContainsAny(value, ") \t\"") {
		return fmt.Errorf("%w: value %q is not a valid bare literal for %s", ErrInvalidArgument, value, name)
	}

	match.Value = value
	f.lines[match.LineNumber] = match.Template.Render(value)
	return nil
}

// Names lists declared attributes in declaration order.
func (f *AssemblyInfoFile) Names() []string {
	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}

// Lines returns a copy of the current line sequence.
func (f *AssemblyInfoFile) Lines() []string {
	lines := make([]string, len(f.lines))
	copy(lines, f.lines)
	return lines
}

// String serialises every line in order, each one terminated.
func (f *AssemblyInfoFile) String() string {
	var sb strings.Builder
	if f.HasBOM {
		sb.WriteString(utf8BOM)
	}
	for _, line := range f.lines {
		sb.WriteString(line)
		sb.WriteString(f.LineEnding)
	}
	return sb.String()
}

// WriteTo implements io.WriterTo.
func (f *AssemblyInfoFile) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.String())
	return int64(n), err
}

func isLineComment(trimmed string) bool {
	for _, prefix := range lineCommentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

func detectLineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// splitLines splits on LF, dropping a trailing CR from each line and the
// empty element produced by a final terminator.
func splitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
