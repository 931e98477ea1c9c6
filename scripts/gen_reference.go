package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type constEntry struct {
	Name  string
	Label string
	Notes string
}

type structField struct {
	Name  string
	Type  string
	YAML  string
	Notes string
}

func main() {
	var taxonomyOut string
	var profileOut string
	flag.StringVar(&taxonomyOut, "taxonomy-out", "docs/reference/error-taxonomy.md", "output markdown path for the error taxonomy")
	flag.StringVar(&profileOut, "profiles-out", "docs/reference/profile-schema.md", "output markdown path for the profile file schema")
	flag.Parse()

	root, err := os.Getwd()
	if err != nil {
		fail(err)
	}

	if err := generateTaxonomy(root, taxonomyOut); err != nil {
		fail(err)
	}
	if err := generateProfileSchema(root, profileOut); err != nil {
		fail(err)
	}
}

// generateTaxonomy renders the error kinds, retry decisions, and budget
// reasons straight from the source so the doc cannot drift.
func generateTaxonomy(root, outPath string) error {
	kinds, err := collectEnum(filepath.Join(root, "classify", "kind.go"), "Kind")
	if err != nil {
		return err
	}
	decisions, err := collectEnum(filepath.Join(root, "retry", "policy.go"), "Decision")
	if err != nil {
		return err
	}
	reasons, err := collectStringConsts(filepath.Join(root, "budget", "budget.go"), "Reason")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("<!-- Generated by scripts/gen_reference.go; do not edit by hand. -->\n")
	buf.WriteString("# Error taxonomy and retry decisions\n\n")
	buf.WriteString("Generated from: `classify/kind.go`, `retry/policy.go`, `budget/budget.go`.\n\n")
	buf.WriteString("Kind and decision strings appear in logs and as metric label values; changes are breaking.\n\n")

	buf.WriteString("## Error kinds\n\n")
	buf.WriteString("These values appear in `observe.AttemptRecord.Kind` and the `kind` label of `vela_attempt_errors_total`.\n\n")
	writeConstTable(&buf, kinds)

	buf.WriteString("## Retry decisions\n\n")
	buf.WriteString("These values appear in `observe.AttemptRecord.Decision` and the `decision` label of `vela_retry_decisions_total`.\n\n")
	writeConstTable(&buf, decisions)

	buf.WriteString("## Budget reasons\n\n")
	buf.WriteString("These values appear in `budget.Decision.Reason`.\n\n")
	for _, r := range reasons {
		buf.WriteString("- `" + r + "`\n")
	}
	buf.WriteString("\n")

	return writeOutput(outPath, buf.Bytes())
}

// generateProfileSchema renders the YAML profile file schema from the
// structs in config/file.go.
func generateProfileSchema(root, outPath string) error {
	path := filepath.Join(root, "config", "file.go")
	structs, err := collectStructFields(path, []string{"fileSchema", "fileProfile", "fileOptions"})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("<!-- Generated by scripts/gen_reference.go; do not edit by hand. -->\n")
	buf.WriteString("# Profile file schema\n\n")
	buf.WriteString("Generated from: `config/file.go`.\n\n")
	buf.WriteString("Execution profiles are loaded with `config.Load` / `config.LoadFile`. Retry and speculative policies are referenced by registry name.\n\n")

	writeStructTable(&buf, "profiles file", structs["fileSchema"])
	writeStructTable(&buf, "profile", structs["fileProfile"])
	writeStructTable(&buf, "options", structs["fileOptions"])

	return writeOutput(outPath, buf.Bytes())
}

func writeOutput(outPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, content, 0o644)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// collectEnum gathers the constants of an integer enum type along with
// the string each maps to in the type's String method.
func collectEnum(path, typeName string) ([]constEntry, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	labels := collectStringMethod(f, typeName)

	var entries []constEntry
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		if !constBlockHasType(gen, typeName) {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, name := range vs.Names {
				entries = append(entries, constEntry{
					Name:  name.Name,
					Label: labels[name.Name],
					Notes: joinComments(vs.Doc, vs.Comment),
				})
			}
		}
	}
	return entries, nil
}

// constBlockHasType reports whether any spec in the block is explicitly
// typed typeName (iota blocks type only the first spec).
func constBlockHasType(gen *ast.GenDecl, typeName string) bool {
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if ident, ok := vs.Type.(*ast.Ident); ok && ident.Name == typeName {
			return true
		}
	}
	return false
}

// collectStringMethod maps enum constant names to the literal returned
// for them in the type's String switch.
func collectStringMethod(f *ast.File, typeName string) map[string]string {
	out := make(map[string]string)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil || fn.Name.Name != "String" || fn.Recv == nil {
			continue
		}
		if recvTypeName(fn.Recv) != typeName {
			continue
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			cc, ok := n.(*ast.CaseClause)
			if !ok || len(cc.Body) == 0 {
				return true
			}
			ret, ok := cc.Body[0].(*ast.ReturnStmt)
			if !ok || len(ret.Results) == 0 {
				return true
			}
			lit, ok := ret.Results[0].(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				return true
			}
			val, err := strconv.Unquote(lit.Value)
			if err != nil {
				return true
			}
			for _, expr := range cc.List {
				if ident, ok := expr.(*ast.Ident); ok {
					out[ident.Name] = val
				}
			}
			return true
		})
	}
	return out
}

func recvTypeName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	switch t := recv.List[0].Type.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}

// collectStringConsts gathers string constants whose name carries the
// given prefix, returning their values sorted.
func collectStringConsts(path, prefix string) ([]string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}
	values := make(map[string]struct{})
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if !strings.HasPrefix(name.Name, prefix) || len(vs.Values) <= i {
					continue
				}
				lit, ok := vs.Values[i].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				val, err := strconv.Unquote(lit.Value)
				if err != nil {
					return nil, err
				}
				values[val] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func collectStructFields(path string, names []string) (map[string][]structField, error) {
	want := make(map[string]struct{})
	for _, name := range names {
		want[name] = struct{}{}
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]structField)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, ok := want[ts.Name.Name]; !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			fields := make([]structField, 0, len(st.Fields.List))
			for _, field := range st.Fields.List {
				typeStr := exprString(field.Type)
				yamlTag := ""
				if field.Tag != nil {
					if tag, err := strconv.Unquote(field.Tag.Value); err == nil {
						yamlTag = strings.Split(reflect.StructTag(tag).Get("yaml"), ",")[0]
					}
				}
				notes := joinComments(field.Doc, field.Comment)
				for _, name := range field.Names {
					fields = append(fields, structField{Name: name.Name, Type: typeStr, YAML: yamlTag, Notes: notes})
				}
			}
			out[ts.Name.Name] = fields
		}
	}
	return out, nil
}

func writeConstTable(buf *bytes.Buffer, entries []constEntry) {
	buf.WriteString("| Constant | String | Notes |\n")
	buf.WriteString("|---|---|---|\n")
	for _, e := range entries {
		label := e.Label
		if label == "" {
			label = "-"
		}
		notes := e.Notes
		if notes == "" {
			notes = "-"
		}
		buf.WriteString("| `" + e.Name + "` | `" + label + "` | " + escapePipes(notes) + " |\n")
	}
	buf.WriteString("\n")
}

func writeStructTable(buf *bytes.Buffer, title string, fields []structField) {
	if len(fields) == 0 {
		return
	}
	buf.WriteString("## " + title + "\n\n")
	buf.WriteString("| YAML key | Type | Notes |\n")
	buf.WriteString("|---|---|---|\n")
	for _, field := range fields {
		key := field.YAML
		if key == "" {
			key = field.Name
		}
		notes := field.Notes
		if notes == "" {
			notes = "-"
		}
		buf.WriteString("| `" + key + "` | `" + field.Type + "` | " + escapePipes(notes) + " |\n")
	}
	buf.WriteString("\n")
}

func joinComments(groups ...*ast.CommentGroup) string {
	var parts []string
	for _, g := range groups {
		if g == nil {
			continue
		}
		text := strings.TrimSpace(g.Text())
		if text != "" {
			parts = append(parts, strings.ReplaceAll(text, "\n", " "))
		}
	}
	return strings.Join(parts, " ")
}

func exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, token.NewFileSet(), expr)
	return buf.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
