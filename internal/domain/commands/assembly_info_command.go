package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

const (
	attrAssemblyVersion              = "AssemblyVersion"
	attrAssemblyFileVersion          = "AssemblyFileVersion"
	attrAssemblyInformationalVersion = "AssemblyInformationalVersion"
	attrComVisible                   = "ComVisible"
	attrCLSCompliant                 = "CLSCompliant"
	ownerWritable                    = 0o200
)

// AssemblyInfo is the interface for the AssemblyInfo activity.
type AssemblyInfo interface {
	Execute(ctx context.Context, opts AssemblyInfoOptions) (*AssemblyInfoResult, error)
}

// AssemblyInfoOptions holds the inputs of the AssemblyInfo activity.
type AssemblyInfoOptions struct {
	Files []string

	AssemblyVersion              string // e.g. "$(current).$(current).$(increment).0"
	AssemblyFileVersion          string
	AssemblyInformationalVersion string // may use $(version) and $(fileversion)

	// StringAttributes maps attribute names (AssemblyCompany, AssemblyTitle,
	// Guid, ...) to templates that may use $(version), $(fileversion) and $(date:fmt).
	StringAttributes map[string]string
	ComVisible       *bool
	CLSCompliant     *bool

	FailOnMissingAttribute bool
	DryRun                 bool
	Now                    time.Time
	DiffOutput             io.Writer
}

// AssemblyInfoResult holds the outputs of the AssemblyInfo activity.
type AssemblyInfoResult struct {
	MaxAssemblyVersion              string
	MaxAssemblyFileVersion          string
	MaxAssemblyInformationalVersion string
	UpdatedFiles                    []string
}

// AssemblyInfoCommand rewrites version and metadata attributes in
// AssemblyInfo source files.
type AssemblyInfoCommand struct{}

// NewAssemblyInfoCommand creates a new AssemblyInfoCommand.
func NewAssemblyInfoCommand() *AssemblyInfoCommand {
	return &AssemblyInfoCommand{}
}

// Execute processes every file. A missing file fails before anything is
// parsed; a format error aborts only the file it occurs in.
func (it *AssemblyInfoCommand) Execute(
	_ context.Context,
	opts AssemblyInfoOptions,
) (*AssemblyInfoResult, error) {
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("%w: at least one AssemblyInfo file is required", entities.ErrInvalidArgument)
	}
	for _, path := range opts.Files {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", entities.ErrFileNotFound, path, err)
		}
	}

	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	result := &AssemblyInfoResult{}
	var errs []error

	for _, path := range opts.Files {
		if err := it.processFile(path, opts, result); err != nil {
			logger.Errorf("[assemblyinfo] %s: %v", path, err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}

	return result, errors.Join(errs...)
}

func (it *AssemblyInfoCommand) processFile(
	path string,
	opts AssemblyInfoOptions,
	result *AssemblyInfoResult,
) error {
	file, err := entities.ParseAssemblyInfoFile(path)
	if err != nil {
		return err
	}
	original := file.String()

	version, err := it.updateVersion(file, attrAssemblyVersion, opts.AssemblyVersion, opts)
	if err != nil {
		return err
	}
	fileVersion, err := it.updateVersion(file, attrAssemblyFileVersion, opts.AssemblyFileVersion, opts)
	if err != nil {
		return err
	}

	tokens := entities.TokenValues{Version: version, FileVersion: fileVersion, Now: opts.Now}

	informational, err := it.updateString(file, attrAssemblyInformationalVersion, opts.AssemblyInformationalVersion, tokens, opts)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(opts.StringAttributes) {
		if _, err = it.updateString(file, name, opts.StringAttributes[name], tokens, opts); err != nil {
			return err
		}
	}
	if err = it.updateBool(file, attrComVisible, opts.ComVisible, opts); err != nil {
		return err
	}
	if err = it.updateBool(file, attrCLSCompliant, opts.CLSCompliant, opts); err != nil {
		return err
	}

	result.MaxAssemblyVersion = entities.MaxVersionString(result.MaxAssemblyVersion, version)
	result.MaxAssemblyFileVersion = entities.MaxVersionString(result.MaxAssemblyFileVersion, fileVersion)
	result.MaxAssemblyInformationalVersion = entities.MaxInformationalVersion(
		result.MaxAssemblyInformationalVersion, informational,
	)

	updated := file.String()
	if updated == original {
		logger.Infof("[assemblyinfo] %s: no changes", path)
		return nil
	}

	if opts.DryRun {
		printDiff(opts.DiffOutput, path, original, updated)
		logger.Infof("[assemblyinfo] [DRY RUN] Would update %s", path)
		return nil
	}

	if err = writeFile(path, updated); err != nil {
		return err
	}
	result.UpdatedFiles = append(result.UpdatedFiles, path)
	logger.Infof("[assemblyinfo] Updated %s", path)
	return nil
}

// updateVersion applies a version format and returns the resulting value,
// or the current value when no format is given.
func (it *AssemblyInfoCommand) updateVersion(
	file *entities.AssemblyInfoFile,
	name, format string,
	opts AssemblyInfoOptions,
) (string, error) {
	currentRaw, declared := file.Get(name)
	if format == "" || !declared {
		if format != "" {
			return "", missingAttribute(file, name, opts)
		}
		return currentRaw, nil
	}

	current, err := entities.ParseAssemblyVersion(currentRaw)
	if err != nil {
		return "", fmt.Errorf("current %s: %w", name, err)
	}
	next, err := entities.ExpandVersionFormat(format, current, opts.Now)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if entities.CompareAssemblyVersions(next, current) < 0 {
		logger.Warnf("[assemblyinfo] %s: %s goes down from %s to %s", file.Path, name, current, next)
	}

	value := next.String()
	if err = file.Set(name, value); err != nil {
		return "", err
	}
	entities.LogMessage(entities.ImportanceNormal, "[assemblyinfo] %s: %s %s -> %s", file.Path, name, currentRaw, value)
	return value, nil
}

func (it *AssemblyInfoCommand) updateString(
	file *entities.AssemblyInfoFile,
	name, format string,
	tokens entities.TokenValues,
	opts AssemblyInfoOptions,
) (string, error) {
	current, declared := file.Get(name)
	if format == "" {
		return current, nil
	}
	if !declared {
		return "", missingAttribute(file, name, opts)
	}

	value, err := entities.ExpandStringFormat(format, tokens)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if err = file.Set(name, value); err != nil {
		return "", err
	}
	entities.LogMessage(entities.ImportanceLow, "[assemblyinfo] %s: %s = %q", file.Path, name, value)
	return value, nil
}

func (it *AssemblyInfoCommand) updateBool(
	file *entities.AssemblyInfoFile,
	name string,
	value *bool,
	opts AssemblyInfoOptions,
) error {
	if value == nil {
		return nil
	}
	if _, declared := file.Get(name); !declared {
		return missingAttribute(file, name, opts)
	}

	match, _ := file.Match(name)
	literal := strconv.FormatBool(*value)
	// VB declares booleans as True/False.
	if !match.Quoted && (strings.HasPrefix(match.Value, "T") || strings.HasPrefix(match.Value, "F")) {
		literal = strings.ToUpper(literal[:1]) + literal[1:]
	}
	return file.Set(name, literal)
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// missingAttribute returns nil after a warning unless missing attributes
// are configured to fail the file.
func missingAttribute(file *entities.AssemblyInfoFile, name string, opts AssemblyInfoOptions) error {
	if opts.FailOnMissingAttribute {
		return fmt.Errorf("%w: %s", entities.ErrAttributeNotDeclared, name)
	}
	logger.Warnf("[assemblyinfo] %s: %s is not declared, skipping", file.Path, name)
	return nil
}

func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	mode := info.Mode().Perm()
	if mode&ownerWritable == 0 {
		logger.Debugf("[assemblyinfo] Clearing read-only flag on %s", path)
		if chmodErr := os.Chmod(path, mode|ownerWritable); chmodErr != nil {
			return fmt.Errorf("failed to make %q writable: %w", path, chmodErr)
		}
	}

	if writeErr := os.WriteFile(path, []byte(content), mode|ownerWritable); writeErr != nil {
		return fmt.Errorf("failed to write %q: %w", path, writeErr)
	}
	return nil
}

func printDiff(out io.Writer, path, original, updated string) {
	if out == nil {
		return
	}
	diff := udiff.Unified(path+" (current)", path+" (updated)", original, updated)
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			_, _ = color.New(color.FgGreen).Fprintln(out, line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			_, _ = color.New(color.FgRed).Fprintln(out, line)
		default:
			_, _ = fmt.Fprintln(out, line)
		}
	}
}
