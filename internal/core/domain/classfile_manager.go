package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ClassFileManagerKind identifies a strategy for adding and deleting class files
// during a single incremental compilation run.
type ClassFileManagerKind uint8

const (
	// DeleteImmediatelyKind deletes invalidated class files as soon as they are invalidated.
	DeleteImmediatelyKind ClassFileManagerKind = iota + 1
	// TransactionalKind backs up invalidated class files and restores them if the run fails.
	TransactionalKind
)

// String returns the configuration name of the kind.
func (k ClassFileManagerKind) String() string {
	switch k {
	case DeleteImmediatelyKind:
		return "delete-immediately"
	case TransactionalKind:
		return "transactional"
	default:
		return "unknown"
	}
}

// ParseClassFileManagerKind parses a configuration name into a ClassFileManagerKind.
// Matching is case-insensitive.
func ParseClassFileManagerKind(s string) (ClassFileManagerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delete-immediately", "deleteimmediately":
		return DeleteImmediatelyKind, nil
	case "transactional":
		return TransactionalKind, nil
	default:
		return 0, zerr.With(ErrUnknownClassFileManager, "kind", s)
	}
}

// ClassFileManagerType is the strategy tag carried by IncOptions.
// It is a comparable value; the backup directory is only meaningful for TransactionalKind.
type ClassFileManagerType struct {
	Kind            ClassFileManagerKind
	BackupDirectory string
}

// DeleteImmediately returns the manager type that deletes class files eagerly.
func DeleteImmediately() ClassFileManagerType {
	return ClassFileManagerType{Kind: DeleteImmediatelyKind}
}

// Transactional returns the manager type that backs class files up into backupDir.
func Transactional(backupDir string) ClassFileManagerType {
	return ClassFileManagerType{Kind: TransactionalKind, BackupDirectory: backupDir}
}

func (t ClassFileManagerType) String() string {
	if t.Kind == TransactionalKind {
		return "transactional(" + t.BackupDirectory + ")"
	}
	return t.Kind.String()
}
