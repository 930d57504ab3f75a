package changes

const (
	flagUnchangedCharacterConstant      = '-'
	indexNewCharacterConstant           = 'A'
	indexModifiedCharacterConstant      = 'M'
	indexDeletedCharacterConstant       = 'D'
	indexRenamedCharacterConstant       = 'R'
	worktreeNewCharacterConstant        = 'a'
	worktreeModifiedCharacterConstant   = 'm'
	worktreeDeletedCharacterConstant    = 'd'
	worktreeTypeChangeCharacterConstant = 't'
	worktreeRenamedCharacterConstant    = 'r'
)

// Flag is the derived two-character status code of a record together with its color verdict.
type Flag struct {
	Code   string
	Staged bool
}

// Classify derives the status flag of a change kind.
//
// Each side emits exactly one character. When several bits are set on one side
// the first match wins in the order new, modified, deleted, renamed or type-changed.
func Classify(kind Kind) Flag {
	code := []byte{indexCharacter(kind), worktreeCharacter(kind)}
	return Flag{
		Code:   string(code),
		Staged: kind.Intersects(IndexChangeCategory) && !kind.Intersects(WorktreeChangeCategory),
	}
}

func indexCharacter(kind Kind) byte {
	switch {
	case kind.Contains(KindIndexNew):
		return indexNewCharacterConstant
	case kind.Contains(KindIndexModified):
		return indexModifiedCharacterConstant
	case kind.Contains(KindIndexDeleted):
		return indexDeletedCharacterConstant
	case kind.Contains(KindIndexRenamed):
		return indexRenamedCharacterConstant
	default:
		return flagUnchangedCharacterConstant
	}
}

func worktreeCharacter(kind Kind) byte {
	switch {
	case kind.Contains(KindWorktreeNew):
		return worktreeNewCharacterConstant
	case kind.Contains(KindWorktreeModified):
		return worktreeModifiedCharacterConstant
	case kind.Contains(KindWorktreeDeleted):
		return worktreeDeletedCharacterConstant
	case kind.Contains(KindWorktreeTypeChanged):
		return worktreeTypeChangeCharacterConstant
	case kind.Contains(KindWorktreeRenamed):
		return worktreeRenamedCharacterConstant
	default:
		return flagUnchangedCharacterConstant
	}
}
