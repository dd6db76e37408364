package constants

// Severity classifies a validation issue. Errors block import; warnings are
// surfaced for review only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FieldSource tags which strategy produced an extracted value.
type FieldSource string

const (
	SourceLabeled   FieldSource = "labeled"   // explicit "Field:" label matched
	SourcePattern   FieldSource = "pattern"   // unlabeled structural pattern
	SourceFallback  FieldSource = "fallback"  // last-resort positional heuristic
	SourceSynthetic FieldSource = "synthetic" // value synthesized, not read from text
	SourceNone      FieldSource = "none"      // nothing matched
)
