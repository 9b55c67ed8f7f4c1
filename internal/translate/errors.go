package translate

import "fmt"

// SchemaTranslationError reports a CREATE TABLE that could not be rewritten.
// Callers pass the statement through unmodified.
type SchemaTranslationError struct {
	Table  string
	Column string
	Token  string
	Reason string
}

func (e *SchemaTranslationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("table %q column %q: %s %q", e.Table, e.Column, e.Reason, e.Token)
	}
	return fmt.Sprintf("table %q: %s", e.Table, e.Reason)
}

// LiteralTranslationError reports an INSERT whose quoting is unbalanced at
// the end of the statement. Callers skip the statement.
type LiteralTranslationError struct {
	Table  string
	Offset int
}

func (e *LiteralTranslationError) Error() string {
	return fmt.Sprintf("insert into %q: string literal opened at byte %d is never closed", e.Table, e.Offset)
}
