package engine_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/skuldlang/skuld/internal/engine"
	"github.com/skuldlang/skuld/internal/parser"
	"github.com/skuldlang/skuld/internal/prettyprinter"
)

func TestRewriteGolden(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "rewrite.txtar"))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range archive.Files {
		files[f.Name] = string(f.Data)
	}

	for name, src := range files {
		if !strings.HasSuffix(name, ".sk") {
			continue
		}
		base := strings.TrimSuffix(name, ".sk")
		golden, ok := files[base+".golden"]
		require.True(t, ok, "missing golden entry for %s", name)

		t.Run(base, func(t *testing.T) {
			stmt, err := parser.ParseFunctionSource(src)
			require.NoError(t, err)
			require.NoError(t, engine.Rewrite(stmt))

			got := prettyprinter.Print(stmt)
			assert.Equal(t, strings.TrimRight(golden, "\n"), got)
		})
	}
}
