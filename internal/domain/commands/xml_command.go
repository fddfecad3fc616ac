package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

var (
	// ErrMalformedXml is returned when a document is not well-formed.
	ErrMalformedXml = errors.New("malformed xml")
	// ErrNoXmlMatch is returned when a path selects no element.
	ErrNoXmlMatch = errors.New("path matched no element")
)

// XmlAction selects the XML operation.
type XmlAction string

const (
	XmlActionValidate XmlAction = "validate"
	XmlActionPeek     XmlAction = "peek"
	XmlActionPoke     XmlAction = "poke"
)

// Xml is the interface for the XML activity.
type Xml interface {
	Execute(ctx context.Context, opts XmlOptions) (*XmlResult, error)
}

// XmlOptions holds the inputs of the XML activity. Path uses the etree path
// syntax, e.g. "//appSettings/add[@key='Environment']". When Attribute is
// empty, peek and poke work on the element text.
type XmlOptions struct {
	Action     XmlAction
	File       string
	Path       string
	Attribute  string
	Value      string
	DryRun     bool
	DiffOutput io.Writer
}

// XmlResult holds the outputs of the XML activity.
type XmlResult struct {
	Matches int
	Values  []string
	Updated bool
}

// XmlCommand validates, reads and patches XML configuration files.
type XmlCommand struct{}

// NewXmlCommand creates a new XmlCommand.
func NewXmlCommand() *XmlCommand {
	return &XmlCommand{}
}

// Execute runs the selected action against opts.File.
func (it *XmlCommand) Execute(_ context.Context, opts XmlOptions) (*XmlResult, error) {
	if err := entities.RequireArgument("file", opts.File); err != nil {
		return nil, err
	}
	var path etree.Path
	if opts.Action != XmlActionValidate {
		if err := entities.RequireArgument("path", opts.Path); err != nil {
			return nil, err
		}
		compiled, err := etree.CompilePath(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: path %q: %w", entities.ErrInvalidArgument, opts.Path, err)
		}
		path = compiled
	}

	original, err := os.ReadFile(opts.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", entities.ErrFileNotFound, opts.File, err)
	}
	doc, err := parseXml(original)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.File, err)
	}

	switch opts.Action {
	case XmlActionValidate:
		logger.Infof("[xml] %s is well-formed", opts.File)
		return &XmlResult{}, nil
	case XmlActionPeek:
		return it.peek(doc, path, opts)
	case XmlActionPoke:
		return it.poke(doc, path, string(original), opts)
	default:
		return nil, fmt.Errorf("%w: unknown xml action %q", entities.ErrInvalidArgument, opts.Action)
	}
}

func (it *XmlCommand) peek(doc *etree.Document, path etree.Path, opts XmlOptions) (*XmlResult, error) {
	elements := doc.FindElementsPath(path)
	result := &XmlResult{Matches: len(elements)}
	if len(elements) == 0 {
		return result, fmt.Errorf("%w: %s in %s", ErrNoXmlMatch, opts.Path, opts.File)
	}

	for _, element := range elements {
		value := element.Text()
		if opts.Attribute != "" {
			value = element.SelectAttrValue(opts.Attribute, "")
		}
		result.Values = append(result.Values, value)
		entities.LogMessage(entities.ImportanceLow, "[xml] %s = %q", element.GetPath(), value)
	}
	return result, nil
}

func (it *XmlCommand) poke(doc *etree.Document, path etree.Path, original string, opts XmlOptions) (*XmlResult, error) {
	elements := doc.FindElementsPath(path)
	result := &XmlResult{Matches: len(elements)}
	if len(elements) == 0 {
		return result, fmt.Errorf("%w: %s in %s", ErrNoXmlMatch, opts.Path, opts.File)
	}
	before, err := doc.WriteToString()
	if err != nil {
		return result, fmt.Errorf("failed to render %s: %w", opts.File, err)
	}

	for _, element := range elements {
		if opts.Attribute != "" {
			element.CreateAttr(opts.Attribute, opts.Value)
		} else {
			element.SetText(opts.Value)
		}
		result.Values = append(result.Values, opts.Value)
	}

	updated, err := doc.WriteToString()
	if err != nil {
		return result, fmt.Errorf("failed to render %s: %w", opts.File, err)
	}
	if updated == before {
		logger.Infof("[xml] %s: no changes", opts.File)
		return result, nil
	}

	if opts.DryRun {
		printDiff(opts.DiffOutput, opts.File, original, updated)
		logger.Infof("[xml] [DRY RUN] Would update %d element(s) in %s", len(elements), opts.File)
		return result, nil
	}
	if err = writeFile(opts.File, updated); err != nil {
		return result, err
	}
	result.Updated = true
	logger.Infof("[xml] Updated %d element(s) in %s", len(elements), opts.File)
	return result, nil
}

func parseXml(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	doc.ReadSettings.ValidateInput = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXml, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedXml)
	}
	return doc, nil
}
