package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DeploymentStatus is one solution, feature or app reported by a Get* command.
type DeploymentStatus struct {
	Name     string
	ID       uuid.UUID
	Deployed bool
}

// keyValuePattern matches "Key : Value" lines produced by Format-List.
var keyValuePattern = regexp.MustCompile(`^\s*([A-Za-z]+)\s*:\s*(.*?)\s*$`)

//nolint:gochecknoglobals // Format-List property aliases
var (
	nameKeys     = map[string]bool{"name": true, "displayname": true, "title": true}
	idKeys       = map[string]bool{"id": true, "solutionid": true, "featureid": true}
	deployedKeys = map[string]bool{"deployed": true, "status": true}
)

// ParseSharePointOutput extracts deployment records from the captured output
// of a Get* command. It understands comma-delimited lines ("name, guid, True")
// and Format-List blocks separated by blank lines. Blank, partial or
// unparseable lines are skipped. Non-query actions yield no records.
func ParseSharePointOutput(action SharePointAction, output string) ([]DeploymentStatus, error) {
	if _, known := sharePointActionNames[action]; !known {
		return nil, fmt.Errorf("%w: %s", ErrActionNotImplemented, action)
	}
	if !action.IsQuery() {
		return nil, nil
	}

	statuses := []DeploymentStatus{}
	block := listBlock{}

	for _, rawLine := range strings.Split(output, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))

		if line == "" {
			statuses = block.flush(statuses)
			continue
		}

		if key, value, ok := parseKeyValue(line); ok {
			block.set(key, value)
			continue
		}

		statuses = block.flush(statuses)
		if status, ok := parseCommaLine(line); ok {
			statuses = append(statuses, status)
		}
	}

	return block.flush(statuses), nil
}

func parseKeyValue(line string) (string, string, bool) {
	groups := keyValuePattern.FindStringSubmatch(line)
	if groups == nil {
		return "", "", false
	}
	key := strings.ToLower(groups[1])
	if !nameKeys[key] && !idKeys[key] && !deployedKeys[key] {
		return "", "", false
	}
	return key, groups[2], true
}

func parseCommaLine(line string) (DeploymentStatus, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 { //nolint:mnd // name, id, deployed
		return DeploymentStatus{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if fields[0] == "" {
		return DeploymentStatus{}, false
	}
	id, err := uuid.Parse(fields[1])
	if err != nil {
		return DeploymentStatus{}, false
	}
	deployed, ok := parseDeployed(fields[2])
	if !ok {
		return DeploymentStatus{}, false
	}

	return DeploymentStatus{Name: fields[0], ID: id, Deployed: deployed}, true
}

// parseDeployed accepts booleans and the Status values of features and apps.
func parseDeployed(value string) (bool, bool) {
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}
	switch strings.ToLower(value) {
	case "online", "installed", "deployed":
		return true, true
	case "offline", "uninstalled", "notdeployed", "installing", "upgrading", "uninstalling", "canceling":
		return false, true
	default:
		return false, false
	}
}

// listBlock accumulates one Format-List record.
type listBlock struct {
	name     string
	id       string
	deployed string
	touched  bool
}

func (b *listBlock) set(key, value string) {
	b.touched = true
	switch {
	case nameKeys[key]:
		b.name = value
	case idKeys[key]:
		b.id = value
	case deployedKeys[key]:
		b.deployed = value
	}
}

// flush appends the block as a record when it is complete, then resets it.
func (b *listBlock) flush(statuses []DeploymentStatus) []DeploymentStatus {
	defer func() { *b = listBlock{} }()

	if !b.touched || b.name == "" {
		return statuses
	}
	id, err := uuid.Parse(b.id)
	if err != nil {
		return statuses
	}
	deployed, _ := parseDeployed(b.deployed)
	return append(statuses, DeploymentStatus{Name: b.name, ID: id, Deployed: deployed})
}
