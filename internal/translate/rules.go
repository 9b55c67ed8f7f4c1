package translate

import (
	"regexp"
	"strings"
)

// Target column types. None of them is rewritten by MapType, which makes
// the mapping idempotent.
const (
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeNumeric = "NUMERIC"
	TypeText    = "TEXT"
	TypeBlob    = "BLOB"
)

var terminalTypes = map[string]bool{
	TypeInteger: true,
	TypeReal:    true,
	TypeNumeric: true,
	TypeText:    true,
	TypeBlob:    true,
}

type TypeRule struct {
	Pattern *regexp.Regexp
	Target  string
}

func rule(expr, target string) TypeRule {
	return TypeRule{Pattern: regexp.MustCompile(`(?is)^` + expr + `$`), Target: target}
}

const (
	intNames = `(tiny|small|medium|big)?int(eger)?`
	size     = `\s*\(\s*\d+\s*\)`
	scale    = `\s*\(\s*\d+\s*(,\s*\d+\s*)?\)`
	sign     = `(\s+(un)?signed)?(\s+zerofill)?`
)

// TypeRules is evaluated top to bottom and the first match wins. Sized and
// signed forms of a type come before its bare form.
var TypeRules = []TypeRule{
	rule(intNames+size+`\s+(un)?signed(\s+zerofill)?`, TypeInteger),
	rule(intNames+size+`(\s+zerofill)?`, TypeInteger),
	rule(intNames+`\s+(un)?signed(\s+zerofill)?`, TypeInteger),
	rule(intNames+`(\s+zerofill)?`, TypeInteger),
	rule(`(int[1248]|middleint)`+sign, TypeInteger),
	rule(`bit`+size, TypeInteger),
	rule(`(bit|bool|boolean)`, TypeInteger),
	rule(`year`+size, TypeInteger),
	rule(`year`, TypeInteger),

	rule(`(decimal|dec|numeric|fixed)`+scale+sign, TypeNumeric),
	rule(`(decimal|dec|numeric|fixed)`+sign, TypeNumeric),
	rule(`(float|double(\s+precision)?|real)`+scale+sign, TypeReal),
	rule(`(float|double(\s+precision)?|real)`+sign, TypeReal),

	rule(`(national\s+)?n?(var)?char(acter)?(\s+varying)?`+size+`(\s+binary)?`, TypeText),
	rule(`(national\s+)?n?(var)?char(acter)?(\s+varying)?(\s+binary)?`, TypeText),
	rule(`(tiny|medium|long)?text(`+size+`)?(\s+binary)?`, TypeText),
	rule(`(enum|set)\s*\(.*\)`, TypeText),
	rule(`json`, TypeText),
	rule(`(datetime|timestamp|time)`+size, TypeText),
	rule(`(datetime|timestamp|time|date)`, TypeText),

	rule(`(var)?binary`+size, TypeBlob),
	rule(`(tiny|medium|long)?blob(`+size+`)?`, TypeBlob),
	rule(`binary`, TypeBlob),
	rule(`(geometry|point|linestring|polygon|multipoint|multilinestring|multipolygon|geometrycollection)`, TypeBlob),
}

// MapType maps one source column type token to its target type. A token that
// is already a target type maps to itself.
func MapType(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if up := strings.ToUpper(token); terminalTypes[up] {
		return up, true
	}
	for _, r := range TypeRules {
		if r.Pattern.MatchString(token) {
			return r.Target, true
		}
	}
	return "", false
}
