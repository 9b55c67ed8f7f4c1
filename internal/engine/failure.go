package engine

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/Rana718/liteport/internal/types"
)

type failurePattern struct {
	match   func(msg string) bool
	outcome types.Outcome
}

func contains(subs ...string) func(string) bool {
	return func(msg string) bool {
		for _, s := range subs {
			if strings.Contains(msg, s) {
				return true
			}
		}
		return false
	}
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// failurePatterns are tried in order against the lower-cased message.
var failurePatterns = []failurePattern{
	{contains("unique constraint failed", "primary key must be unique", "already exists", "duplicate column name", "duplicate entry"), types.SkippedDuplicate},
	{contains("no such table"), types.SkippedMissingTable},
	{matches(regexp.MustCompile(`has \d+ columns but \d+ values|\d+ values for \d+ columns|same number of terms|column count doesn't match`)), types.SkippedColumnMismatch},
	{contains("constraint failed", "datatype mismatch"), types.SkippedConstraint},
	{contains("syntax error", "near \"", "unrecognized token", "no such column", "incomplete input", "no such function", "has no column named"), types.SkippedSyntaxError},
}

func classifyMessage(msg string, fallback types.Outcome) types.Outcome {
	msg = strings.ToLower(msg)
	for _, p := range failurePatterns {
		if p.match(msg) {
			return p.outcome
		}
	}
	return fallback
}

// ClassifyFailure maps a store error to the outcome of the statement that
// produced it. SQLite result codes decide where they can; the message
// decides otherwise, so stores other than go-sqlite3 classify the same way.
func ClassifyFailure(err error) types.Outcome {
	if err == nil {
		return types.Success
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return types.Fatal
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrConstraint:
			switch se.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintRowID:
				return types.SkippedDuplicate
			}
			return types.SkippedConstraint
		case sqlite3.ErrMismatch:
			return types.SkippedConstraint
		case sqlite3.ErrError:
			return classifyMessage(se.Error(), types.SkippedSyntaxError)
		case sqlite3.ErrRange, sqlite3.ErrTooBig:
			return types.SkippedSyntaxError
		default:
			return types.Fatal
		}
	}
	return classifyMessage(err.Error(), types.Fatal)
}
