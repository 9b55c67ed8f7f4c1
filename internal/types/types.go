package types

import "strings"

// RawStatement is one span of source text between two top-level separators.
type RawStatement struct {
	Index      int    // position in the statement stream, counting empty spans
	Offset     int    // byte offset in the source where the span starts
	Raw        string // comment-stripped span, untrimmed
	Text       string // Raw with surrounding whitespace removed
	Terminated bool   // a top-level ';' followed the span
}

// Empty reports whether the span holds nothing but whitespace.
func (r RawStatement) Empty() bool {
	return r.Text == ""
}

type Kind int

const (
	KindOther Kind = iota
	KindCreateTable
	KindInsert
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindCreateTable:
		return "create-table"
	case KindInsert:
		return "insert"
	case KindSession:
		return "session"
	default:
		return "other"
	}
}

type ClassifiedStatement struct {
	RawStatement
	Kind      Kind
	TableName string
}

type Constraint int

const (
	ConstraintNotNull Constraint = iota
	ConstraintPrimaryKey
	ConstraintAutoIncrement
	ConstraintUnique
	ConstraintDefault
	ConstraintCheck
)

type ColumnDefinition struct {
	Name        string
	SourceType  string
	TargetType  string
	Constraints []Constraint // ordered, no duplicates
	Default     string       // rendered target-dialect value when ConstraintDefault is set
	Check       string       // rendered CHECK (...) group when ConstraintCheck is set
}

func (c *ColumnDefinition) Has(k Constraint) bool {
	for _, x := range c.Constraints {
		if x == k {
			return true
		}
	}
	return false
}

func (c *ColumnDefinition) Add(k Constraint) {
	if !c.Has(k) {
		c.Constraints = append(c.Constraints, k)
	}
}

func (c *ColumnDefinition) Remove(k Constraint) {
	out := c.Constraints[:0]
	for _, x := range c.Constraints {
		if x != k {
			out = append(out, x)
		}
	}
	c.Constraints = out
}

type TableSchema struct {
	Name       string
	Temporary  bool
	IfNotExist bool
	Columns    []ColumnDefinition
	PrimaryKey []string // table-level PRIMARY KEY column names
	Checks     []string // table-level CHECK clauses, already rendered
}

// Column returns the named column, matching case-insensitively as MySQL does.
func (t *TableSchema) Column(name string) *ColumnDefinition {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i]
		}
	}
	return nil
}

type Outcome int

const (
	Success Outcome = iota
	SkippedDuplicate
	SkippedMissingTable
	SkippedColumnMismatch
	SkippedConstraint
	SkippedSyntaxError
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SkippedDuplicate:
		return "skipped-duplicate"
	case SkippedMissingTable:
		return "skipped-missing-table"
	case SkippedColumnMismatch:
		return "skipped-column-mismatch"
	case SkippedConstraint:
		return "skipped-constraint"
	case SkippedSyntaxError:
		return "skipped-syntax-error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Skipped reports whether the outcome is a recoverable skip.
func (o Outcome) Skipped() bool {
	return o != Success && o != Fatal
}

// ExecutionOutcome is produced once per executed statement.
type ExecutionOutcome struct {
	Index     int
	Kind      Kind
	TableName string
	Outcome   Outcome
	Message   string
	Repaired  bool
}
