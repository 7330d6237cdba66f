package codegen

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	edgeUnderscores  = regexp.MustCompile(`(^_+|_+$)`)
	digitPrefix      = regexp.MustCompile(`^[0-9]`)
)

// CleanSchemaName makes a name safe for identifier use: runs of
// characters outside [A-Za-z0-9_] collapse to one underscore, leading
// and trailing underscores are stripped, and a leading digit gets an
// underscore prefix.
func CleanSchemaName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = edgeUnderscores.ReplaceAllString(name, "")
	if digitPrefix.MatchString(name) {
		name = "_" + name
	}
	return name
}

// IsStd reports whether a path argument means a standard stream rather
// than a file.
func IsStd(path string) bool {
	return path == "" || path == "-"
}

// SchemaName derives the schema name: the output file's base name when
// writing to a file, else the input file's base name, else
// "generated_schema". The result is cleaned for identifier use.
func SchemaName(outPath, inPath string) string {
	if !IsStd(outPath) {
		return CleanSchemaName(baseNoExt(outPath))
	}
	if !IsStd(inPath) {
		return CleanSchemaName(baseNoExt(inPath))
	}
	return "generated_schema"
}

// OutPath derives the output path beside the input file. Reading from
// stdin writes to stdout, reported as the empty path.
func OutPath(schemaName, inPath string) string {
	if IsStd(inPath) {
		return ""
	}
	return filepath.Join(filepath.Dir(inPath), schemaName+".go")
}

func baseNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Exported derives the Go identifier for a declaration: the name with
// its first letter upper-cased. GraphQL names are ASCII by grammar.
func Exported(name string) string {
	if name == "" {
		return ""
	}
	if c := name[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return name
}

// SchemaVar derives the Go identifier of the schema variable from the
// cleaned schema name: underscore segments joined CamelCase.
func SchemaVar(name string) string {
	var sb strings.Builder
	for _, part := range strings.Split(name, "_") {
		sb.WriteString(Exported(part))
	}
	out := sb.String()
	if out == "" {
		return "Schema"
	}
	if digitPrefix.MatchString(out) {
		out = "_" + out
	}
	return out
}

// PackageName derives the package clause from the cleaned schema name:
// lowered with underscores dropped.
func PackageName(name string) string {
	pkg := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	if pkg == "" {
		return "schema"
	}
	if digitPrefix.MatchString(pkg) {
		pkg = "_" + pkg
	}
	return pkg
}
