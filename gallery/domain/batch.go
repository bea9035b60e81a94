package domain

// Operation identifies a batch operation over a set of image paths.
type Operation string

const (
	OpMove           Operation = "move"
	OpCopy           Operation = "copy"
	OpDelete         Operation = "delete"
	OpSetCaption     Operation = "set_caption"
	OpAppendCaption  Operation = "append_caption"
	OpPrependCaption Operation = "prepend_caption"
	OpClearCaption   Operation = "clear_caption"
	OpReplaceCaption Operation = "replace_caption"
)

// SelectionPolicy narrows a candidate pool before a batch operation runs.
type SelectionPolicy string

const (
	// ApplyAll processes every candidate path.
	ApplyAll SelectionPolicy = "all"

	// ApplySelected processes only paths present in BatchParams.Selected.
	ApplySelected SelectionPolicy = "selected"

	// ApplyCaptioned processes only paths whose current caption is non-empty.
	ApplyCaptioned SelectionPolicy = "captioned"
)

// BatchParams carries the operation-specific inputs for a batch run.
type BatchParams struct {
	// DestDir is the destination folder for move and copy. It must name an
	// existing directory; otherwise every item is skipped.
	DestDir string

	// Text is the caption text for set, append and prepend.
	Text string

	// Search and Replace drive the replace_caption operation.
	Search    string
	Replace   string
	MatchCase bool

	// Policy filters the candidate pool. An empty policy means ApplyAll.
	Policy SelectionPolicy

	// Selected is the caller's chosen subset, used by ApplySelected.
	Selected map[string]bool
}

// ItemFailure records a single path that could not be processed.
type ItemFailure struct {
	Path string
	Err  error
}

// BatchResult reports the outcome of a batch run. Processed counts items
// that succeeded; Failures lists the rest. Skipped items (missing
// destination, policy mismatch, no-op replacements) appear in neither.
type BatchResult struct {
	Processed int
	Failures  []ItemFailure
}
