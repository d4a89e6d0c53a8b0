package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const modulePrefix = "emoji-transfer/internal/"

var allowed = map[string]map[string]bool{
	"cli": {
		"logging":    true,
		"model":      true,
		"reportfile": true,
		"settings":   true,
		"slack":      true,
		"transfer":   true,
	},
	"transfer": {
		"model": true,
		"slack": true,
	},
	"slack":      {"model": true},
	"reportfile": {"model": true},
	"settings":   {"model": true},
	"logging":    {},
	"model":      {},
}

// terminal UI libraries stay in the command layer.
var uiOnly = map[string][]string{
	"cli": {"github.com/charmbracelet/"},
}

const uiPrefix = "github.com/charmbracelet/"

func main() {
	violations := []string{}

	err := filepath.WalkDir("internal", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		srcPkg := sourcePackage(path)
		if srcPkg == "" {
			return nil
		}
		allowMap, ok := allowed[srcPkg]
		if !ok {
			violations = append(violations, fmt.Sprintf("%s: unknown source package %q", path, srcPkg))
			return nil
		}

		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}

		for _, imp := range file.Imports {
			impPath := strings.Trim(imp.Path.Value, "\"")
			if strings.HasPrefix(impPath, uiPrefix) && !uiAllowed(srcPkg, impPath) {
				violations = append(violations, fmt.Sprintf("%s: %s imports %s outside the command layer", path, srcPkg, impPath))
				continue
			}
			tgtPkg, ok := targetPackage(impPath)
			if !ok {
				continue
			}
			if tgtPkg == srcPkg {
				continue
			}
			if !allowMap[tgtPkg] {
				violations = append(violations, fmt.Sprintf("%s: %s -> %s is forbidden", path, srcPkg, tgtPkg))
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "boundary walk failed: %v\n", err)
		os.Exit(1)
	}

	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "architecture boundary violations detected:")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "- %s\n", v)
		}
		os.Exit(1)
	}

	fmt.Println("architecture boundary check: OK")
}

func sourcePackage(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) < 2 || parts[0] != "internal" {
		return ""
	}
	return parts[1]
}

func uiAllowed(srcPkg, importPath string) bool {
	for _, p := range uiOnly[srcPkg] {
		if strings.HasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func targetPackage(importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, modulePrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(importPath, modulePrefix)
	if rest == "" {
		return "", false
	}
	parts := strings.Split(rest, "/")
	return parts[0], true
}
