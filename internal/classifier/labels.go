package classifier

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// LabelMap maps an integer node ID (an index into the model's output
// distribution) to its human-readable label.
type LabelMap map[int]string

// uidLinePattern matches lines like:
//
//	n12557064     kidney bean, frijol, frijole
var uidLinePattern = regexp.MustCompile(`(n\d+)\s+([ \S,]+)`)

// LoadLabelMap joins the UID-to-label table with the node-ID-to-UID table
// into a single node-ID-to-label mapping. A node ID whose UID has no label
// entry is a fatal error, never a silent omission.
func LoadLabelMap(labelLookupPath, uidLookupPath string) (LabelMap, error) {
	uidToLabel, err := loadUIDToLabel(labelLookupPath)
	if err != nil {
		return nil, err
	}

	nodeToUID, err := loadNodeToUID(uidLookupPath)
	if err != nil {
		return nil, err
	}

	result := make(LabelMap, len(nodeToUID))
	for nodeID, uid := range nodeToUID {
		label, ok := uidToLabel[uid]
		if !ok {
			return nil, fmt.Errorf("failed to compose node lookup: no label for uid %q (node %d)", uid, nodeID)
		}
		result[nodeID] = label
	}

	return result, nil
}

// loadUIDToLabel parses the UID table. The first pattern match per line wins;
// when the same UID appears twice the last parsed line wins.
func loadUIDToLabel(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label lookup: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		matches := uidLinePattern.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("label lookup line %d: no uid/label pair in %q", lineNo, line)
		}
		result[matches[1]] = matches[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read label lookup: %w", err)
	}

	return result, nil
}

// loadNodeToUID parses the repeated-block proto text format:
//
//	entry {
//	  target_class: 443
//	  target_class_string: "n01491361"
//	}
//
// A small two-state scan: once a target_class line is seen, the very next
// line must carry its target_class_string. A trailing target_class with no
// following line is a parse error, not an out-of-range access.
func loadNodeToUID(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open uid lookup: %w", err)
	}
	defer f.Close()

	const (
		awaitingClass = iota
		awaitingString
	)

	result := make(map[int]string)
	scanner := bufio.NewScanner(f)
	state := awaitingClass
	pendingID := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case awaitingClass:
			if !strings.HasPrefix(line, "target_class:") {
				continue
			}
			id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "target_class:")))
			if err != nil {
				return nil, fmt.Errorf("uid lookup line %d: bad target_class: %w", lineNo, err)
			}
			pendingID = id
			state = awaitingString

		case awaitingString:
			if !strings.HasPrefix(line, "target_class_string:") {
				return nil, fmt.Errorf("uid lookup line %d: expected target_class_string after target_class %d", lineNo, pendingID)
			}
			uid := strings.Trim(strings.TrimPrefix(line, "target_class_string:"), `" `)
			result[pendingID] = uid
			state = awaitingClass
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read uid lookup: %w", err)
	}
	if state == awaitingString {
		return nil, fmt.Errorf("uid lookup truncated: target_class %d has no target_class_string", pendingID)
	}

	return result, nil
}
