package app

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_ExportedFuncsDocumented(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "hooks.go", nil, parser.ParseComments)
	require.NoError(t, err)

	var missing []string

	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.IsExported() && fn.Doc == nil {
			missing = append(missing, fn.Name.Name)
		}
	}

	assert.Empty(t, missing, "exported functions without a doc comment")
}
