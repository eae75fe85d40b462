package fileserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchCGIPattern(t *testing.T) {
	patterns := []string{"*.cgi", "*.pl"}
	require.True(t, MatchCGIPattern(patterns, "report.cgi"))
	require.True(t, MatchCGIPattern(patterns, "script.pl"))
	require.False(t, MatchCGIPattern(patterns, "index.html"))
}

func TestSplitCGIPath_FindsScriptAndTrailer(t *testing.T) {
	scriptPath, pathInfo, found := SplitCGIPath([]string{"*.cgi"}, "/cgi-bin/report.cgi/extra/path")
	require.True(t, found)
	require.Equal(t, "cgi-bin/report.cgi", scriptPath)
	require.Equal(t, "extra/path", pathInfo)
}

func TestSplitCGIPath_NoMatchReturnsFalse(t *testing.T) {
	_, _, found := SplitCGIPath([]string{"*.cgi"}, "/static/index.html")
	require.False(t, found)
}

func TestSplitCGIPath_ScriptAtRootHasNoTrailer(t *testing.T) {
	scriptPath, pathInfo, found := SplitCGIPath([]string{"*.cgi"}, "/report.cgi")
	require.True(t, found)
	require.Equal(t, "report.cgi", scriptPath)
	require.Equal(t, "", pathInfo)
}
