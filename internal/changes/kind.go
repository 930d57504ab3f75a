package changes

// Kind is a bit set describing how one path differs across HEAD, the index, and the working tree.
type Kind uint16

// Index-side and worktree-side change kinds.
const (
	KindIndexNew Kind = 1 << iota
	KindIndexModified
	KindIndexDeleted
	KindIndexRenamed
	KindIndexTypeChanged
	KindWorktreeNew
	KindWorktreeModified
	KindWorktreeDeleted
	KindWorktreeTypeChanged
	KindWorktreeRenamed
	KindConflicted
)

// KindUnchanged marks a path without any recorded divergence.
const KindUnchanged Kind = 0

// Change categories used to decide whether a record is reported and how it is colored.
const (
	IndexChangeCategory    = KindIndexNew | KindIndexModified | KindIndexDeleted | KindIndexRenamed
	WorktreeChangeCategory = KindWorktreeNew | KindWorktreeModified | KindWorktreeDeleted | KindWorktreeTypeChanged | KindWorktreeRenamed
)

// Intersects reports whether the kind shares at least one bit with other.
func (kind Kind) Intersects(other Kind) bool {
	return kind&other != 0
}

// Contains reports whether every bit of other is present in the kind.
func (kind Kind) Contains(other Kind) bool {
	return other != 0 && kind&other == other
}

// Record is one changed path inside a member repository.
type Record struct {
	Path string
	Kind Kind
}

// Reportable reports whether the record belongs in a project report.
func (record Record) Reportable() bool {
	return record.Kind.Intersects(IndexChangeCategory | WorktreeChangeCategory)
}
