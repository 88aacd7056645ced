package generator

import "fmt"

// ChangeKind classifies a staged mutation.
type ChangeKind int

const (
	ChangeCreate ChangeKind = iota + 1
	ChangeModify
	ChangeDelete
)

// String returns the lowercase name used in reports and logs.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreate:
		return "create"
	case ChangeModify:
		return "modify"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ChangeRecord describes one proposed mutation of a project file.
//
// Path is project-relative and slash-separated; it is the unique key within a run.
// Content holds the full new text for Create and Modify and is empty for Delete.
type ChangeRecord struct {
	Path    string
	Kind    ChangeKind
	Content string
}

// NewCreate returns a record that creates path with content.
func NewCreate(path, content string) ChangeRecord {
	return ChangeRecord{Path: path, Kind: ChangeCreate, Content: content}
}

// NewModify returns a record that replaces the content of an existing path.
func NewModify(path, content string) ChangeRecord {
	return ChangeRecord{Path: path, Kind: ChangeModify, Content: content}
}

// NewDelete returns a record that removes path.
func NewDelete(path string) ChangeRecord {
	return ChangeRecord{Path: path, Kind: ChangeDelete}
}

func (r ChangeRecord) IsCreate() bool { return r.Kind == ChangeCreate }
func (r ChangeRecord) IsModify() bool { return r.Kind == ChangeModify }
func (r ChangeRecord) IsDelete() bool { return r.Kind == ChangeDelete }

// SamePath reports whether both records target the same path. Records are
// identified by path alone; two records for one path never coexist in a Tree.
func (r ChangeRecord) SamePath(other ChangeRecord) bool {
	return r.Path == other.Path
}

// Description returns a human-readable summary (e.g., "Create src/x.ts (12 bytes)").
func (r ChangeRecord) Description() string {
	switch r.Kind {
	case ChangeCreate:
		return fmt.Sprintf("Create %s (%d bytes)", r.Path, len(r.Content))
	case ChangeModify:
		return fmt.Sprintf("Modify %s (%d bytes)", r.Path, len(r.Content))
	case ChangeDelete:
		return fmt.Sprintf("Delete %s", r.Path)
	default:
		return fmt.Sprintf("Unknown change to %s", r.Path)
	}
}
