package translate

import (
	"regexp"
	"strings"

	"github.com/Rana718/liteport/internal/sqlscan"
	"github.com/Rana718/liteport/internal/types"
)

// Options tune the schema rewrite.
type Options struct {
	CreateIfNotExists bool
}

var (
	numericLiteral  = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)
	nowCall         = regexp.MustCompile(`(?i)^(current_timestamp|now|localtime|localtimestamp)(\s*\(\s*\d*\s*\))?$`)
	bitLiteral      = regexp.MustCompile(`(?i)^b'([01]+)'$`)
	charsetPrefixed = regexp.MustCompile(`^_[A-Za-z0-9]+(['"].*)$`)
)

// typeModifiers may follow a column type and belong to its token.
var typeModifiers = map[string]bool{
	"UNSIGNED":  true,
	"SIGNED":    true,
	"ZEROFILL":  true,
	"PRECISION": true,
	"VARYING":   true,
	"BINARY":    true,
}

// TranslateSchema rewrites a CREATE TABLE into the target dialect. On a
// *SchemaTranslationError the original text is returned with the error so
// the caller can pass it through.
func TranslateSchema(cs types.ClassifiedStatement, opts Options) (string, error) {
	table, err := ParseTable(cs.Text)
	if err != nil {
		return cs.Text, err
	}
	if opts.CreateIfNotExists {
		table.IfNotExist = true
	}
	foldPrimaryKey(table)
	return RenderTable(table), nil
}

// ParseTable builds the transient schema of one CREATE TABLE statement.
func ParseTable(text string) (*types.TableSchema, error) {
	words, after := sqlscan.SkipWords(text, "CREATE", "TEMPORARY", "TABLE", "IF", "NOT", "EXISTS")
	table := &types.TableSchema{}
	isTable := false
	for _, w := range words {
		switch w {
		case "TABLE":
			isTable = true
		case "TEMPORARY":
			table.Temporary = true
		case "EXISTS":
			table.IfNotExist = true
		}
	}

	if !isTable {
		return nil, &SchemaTranslationError{Reason: "not a CREATE TABLE statement"}
	}

	name, rest, ok := sqlscan.ReadIdent(after)
	if !ok {
		return nil, &SchemaTranslationError{Reason: "missing table name"}
	}
	table.Name = name

	open := sqlscan.IndexTopLevel(rest, '(')
	if open < 0 || strings.TrimSpace(rest[:open]) != "" {
		return nil, &SchemaTranslationError{Table: name, Reason: "no column definitions"}
	}
	end := sqlscan.MatchingParen(rest, open)
	if end < 0 {
		return nil, &SchemaTranslationError{Table: name, Reason: "unbalanced column list"}
	}

	// everything after the closing paren is table options and is dropped
	for _, item := range sqlscan.SplitTopLevel(rest[open+1:end], ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if err := parseItem(table, item); err != nil {
			return nil, err
		}
	}
	if len(table.Columns) == 0 {
		return nil, &SchemaTranslationError{Table: name, Reason: "no column definitions"}
	}
	return table, nil
}

func parseItem(table *types.TableSchema, item string) error {
	lead, _ := sqlscan.LeadingWord(item)
	switch strings.ToUpper(lead) {
	case "PRIMARY":
		table.PrimaryKey = keyColumns(item)
		return nil
	case "KEY", "INDEX", "UNIQUE", "FULLTEXT", "SPATIAL", "FOREIGN":
		return nil
	case "CHECK":
		table.Checks = append(table.Checks, renderCheck(item))
		return nil
	case "CONSTRAINT":
		words := sqlscan.Words(item)
		for i, w := range words {
			switch strings.ToUpper(w) {
			case "PRIMARY":
				table.PrimaryKey = keyColumns(item)
				return nil
			case "CHECK":
				table.Checks = append(table.Checks, renderCheck(strings.Join(words[i:], " ")))
				return nil
			case "UNIQUE", "FOREIGN":
				return nil
			}
		}
		return nil
	}

	col, err := parseColumn(item)
	if err != nil {
		err.Table = table.Name
		return err
	}
	table.Columns = append(table.Columns, *col)
	return nil
}

// keyColumns returns the column names of the first parenthesised list in a
// key clause, without prefix lengths or sort order.
func keyColumns(item string) []string {
	open := sqlscan.IndexTopLevel(item, '(')
	if open < 0 {
		return nil
	}
	end := sqlscan.MatchingParen(item, open)
	if end < 0 {
		return nil
	}
	var cols []string
	for _, part := range sqlscan.SplitTopLevel(item[open+1:end], ',') {
		if name, _, ok := sqlscan.ReadIdent(part); ok {
			cols = append(cols, name)
		}
	}
	return cols
}

func renderCheck(item string) string {
	return sqlscan.NormalizeIdents(strings.TrimSpace(item))
}

func parseColumn(item string) (*types.ColumnDefinition, *SchemaTranslationError) {
	name, rest, ok := sqlscan.ReadIdent(item)
	if !ok {
		return nil, &SchemaTranslationError{Token: item, Reason: "unreadable column definition"}
	}
	col := &types.ColumnDefinition{Name: name}

	words := sqlscan.Words(rest)
	if len(words) == 0 {
		return nil, &SchemaTranslationError{Column: name, Reason: "missing column type"}
	}

	// type token: first word, an optional detached "(n)" and trailing modifiers
	n := 1
	typeTok := words[0]
	if strings.EqualFold(typeTok, "NATIONAL") && len(words) > 1 {
		typeTok += " " + words[1]
		n++
	}
	if n < len(words) && strings.HasPrefix(words[n], "(") {
		typeTok += words[n]
		n++
	}
	for n < len(words) && typeModifiers[strings.ToUpper(words[n])] {
		typeTok += " " + words[n]
		n++
	}
	col.SourceType = typeTok

	target, ok := MapType(typeTok)
	if !ok {
		return nil, &SchemaTranslationError{Column: name, Token: typeTok, Reason: "unmapped column type"}
	}
	col.TargetType = target

	zeroDefault := false
	for i := n; i < len(words); i++ {
		w := strings.ToUpper(words[i])
		next := func() string {
			if i+1 < len(words) {
				i++
				return words[i]
			}
			return ""
		}
		switch w {
		case "NOT":
			if strings.EqualFold(next(), "NULL") {
				col.Add(types.ConstraintNotNull)
			}
		case "NULL", "UNSIGNED", "SIGNED", "ZEROFILL", "VISIBLE", "INVISIBLE", "VIRTUAL", "STORED":
		case "DEFAULT":
			v, zero := normalizeDefault(next())
			col.Default = v
			col.Add(types.ConstraintDefault)
			zeroDefault = zero
		case "AUTO_INCREMENT", "AUTOINCREMENT":
			col.Add(types.ConstraintAutoIncrement)
		case "PRIMARY":
			if i+1 < len(words) && strings.EqualFold(words[i+1], "KEY") {
				i++
			}
			col.Add(types.ConstraintPrimaryKey)
		case "KEY":
			col.Add(types.ConstraintPrimaryKey)
		case "UNIQUE":
			if i+1 < len(words) && strings.EqualFold(words[i+1], "KEY") {
				i++
			}
			col.Add(types.ConstraintUnique)
		case "CHECK":
			col.Check = "CHECK " + sqlscan.NormalizeIdents(next())
			col.Add(types.ConstraintCheck)
		case "COMMENT", "COLLATE", "CHARSET", "COLUMN_FORMAT", "STORAGE", "SRID", "ENGINE_ATTRIBUTE", "SECONDARY_ENGINE_ATTRIBUTE":
			next()
		case "CHARACTER":
			if strings.EqualFold(next(), "SET") {
				next()
			}
		case "ON":
			// ON UPDATE x / ON DELETE x, including two-word actions
			next()
			switch strings.ToUpper(next()) {
			case "SET", "NO":
				next()
			}
		case "GENERATED":
			// GENERATED ALWAYS AS (expr)
			next()
			next()
			next()
		case "AS":
			next()
		case "REFERENCES":
			next()
			if i+1 < len(words) && strings.HasPrefix(words[i+1], "(") {
				i++
			}
		case "MATCH":
			next()
		default:
			if strings.HasPrefix(w, "CHECK(") {
				col.Check = "CHECK " + sqlscan.NormalizeIdents(words[i][len("CHECK"):])
				col.Add(types.ConstraintCheck)
			}
		}
	}

	if zeroDefault {
		col.Remove(types.ConstraintNotNull)
	}
	return col, nil
}

// normalizeDefault renders a DEFAULT value in the target dialect and reports
// whether it was a zero date.
func normalizeDefault(v string) (string, bool) {
	if m := charsetPrefixed.FindStringSubmatch(v); m != nil {
		v = m[1]
	}
	switch {
	case v == "":
		return "NULL", false
	case strings.EqualFold(v, "NULL"):
		return "NULL", false
	case nowCall.MatchString(v):
		return "CURRENT_TIMESTAMP", false
	case bitLiteral.MatchString(v):
		return bitsToDecimal(bitLiteral.FindStringSubmatch(v)[1]), false
	case sqlscan.IsQuote(v[0]):
		content, n, ok := sqlscan.ReadString(v)
		if !ok || n != len(v) {
			return v, false
		}
		if IsZeroDate(content) {
			return "NULL", true
		}
		if numericLiteral.MatchString(content) {
			return content, false
		}
		enc := EncodeString(content)
		if strings.Contains(enc, " || ") {
			enc = "(" + enc + ")"
		}
		return enc, false
	}
	return v, false
}

// foldPrimaryKey makes an auto-increment column the table's only primary
// key, or folds a single-column table key into its column.
func foldPrimaryKey(t *types.TableSchema) {
	auto := -1
	for i := range t.Columns {
		if t.Columns[i].Has(types.ConstraintAutoIncrement) {
			if auto < 0 {
				auto = i
				continue
			}
			t.Columns[i].Remove(types.ConstraintAutoIncrement)
		}
	}

	if auto >= 0 {
		t.PrimaryKey = nil
		for i := range t.Columns {
			if i != auto {
				t.Columns[i].Remove(types.ConstraintPrimaryKey)
			}
		}
		c := &t.Columns[auto]
		c.TargetType = TypeInteger
		c.Constraints = []types.Constraint{types.ConstraintPrimaryKey, types.ConstraintAutoIncrement}
		c.Default = ""
		c.Check = ""
		return
	}

	if len(t.PrimaryKey) != 1 {
		return
	}
	for i := range t.Columns {
		if t.Columns[i].Has(types.ConstraintPrimaryKey) {
			return
		}
	}
	if c := t.Column(t.PrimaryKey[0]); c != nil {
		c.Add(types.ConstraintPrimaryKey)
		t.PrimaryKey = nil
	}
}

// RenderTable prints a schema as a target-dialect CREATE TABLE. Parts are
// joined rather than edited in place, so no dangling comma can survive.
func RenderTable(t *types.TableSchema) string {
	parts := make([]string, 0, len(t.Columns)+len(t.Checks)+1)
	for i := range t.Columns {
		parts = append(parts, renderColumn(&t.Columns[i]))
	}
	if len(t.PrimaryKey) > 0 {
		quoted := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			quoted[i] = sqlscan.QuoteIdent(c)
		}
		parts = append(parts, "PRIMARY KEY ("+strings.Join(quoted, ", ")+")")
	}
	parts = append(parts, t.Checks...)

	var b strings.Builder
	b.WriteString("CREATE ")
	if t.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	if t.IfNotExist {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(sqlscan.QuoteIdent(t.Name))
	b.WriteString(" (\n  ")
	b.WriteString(strings.Join(parts, ",\n  "))
	b.WriteString("\n)")
	return b.String()
}

func renderColumn(c *types.ColumnDefinition) string {
	name := sqlscan.QuoteIdent(c.Name)
	if c.Has(types.ConstraintAutoIncrement) {
		return name + " INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(c.TargetType)
	if c.Has(types.ConstraintNotNull) {
		b.WriteString(" NOT NULL")
	}
	if c.Has(types.ConstraintDefault) {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if c.Has(types.ConstraintPrimaryKey) {
		b.WriteString(" PRIMARY KEY")
	}
	if c.Has(types.ConstraintUnique) {
		b.WriteString(" UNIQUE")
	}
	if c.Has(types.ConstraintCheck) {
		b.WriteByte(' ')
		b.WriteString(c.Check)
	}
	return b.String()
}
