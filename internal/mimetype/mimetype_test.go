package mimetype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_PlainType(t *testing.T) {
	r := Classify("index.html", "UTF-8")
	require.Equal(t, "text/html", r.Type)
	require.Empty(t, r.Encodings)
}

func TestClassify_DefaultsToTextPlain(t *testing.T) {
	r := Classify("README", "UTF-8")
	require.Equal(t, "text/plain; charset=UTF-8", r.Type)
	require.Empty(t, r.Encodings)
}

func TestClassify_UnknownExtensionDefaultsToTextPlain(t *testing.T) {
	r := Classify("archive.foobar", "UTF-8")
	require.Equal(t, "text/plain; charset=UTF-8", r.Type)
}

func TestClassify_SingleEncoding(t *testing.T) {
	r := Classify("data.tar.gz", "UTF-8")
	require.Equal(t, "application/x-tar", r.Type)
	require.Equal(t, []string{"gzip"}, r.Encodings)
}

func TestClassify_EncodingOrderIsApplicationOrder(t *testing.T) {
	// Peeling happens right-to-left (uu outermost, Z innermost in storage
	// order), but the result must list encodings innermost-first.
	r := Classify("payload.tar.Z.uu", "UTF-8")
	require.Equal(t, "application/x-tar", r.Type)
	require.Equal(t, []string{"x-compress", "x-uuencode"}, r.Encodings)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	r := Classify("page.HTML", "UTF-8")
	require.Equal(t, "text/html", r.Type)

	r2 := Classify("archive.TAR.GZ", "UTF-8")
	require.Equal(t, "application/x-tar", r2.Type)
	require.Equal(t, []string{"gzip"}, r2.Encodings)
}

func TestClassify_NoExtensionAtAll(t *testing.T) {
	r := Classify("Makefile", "ISO-8859-1")
	require.Equal(t, "text/plain; charset=ISO-8859-1", r.Type)
	require.Empty(t, r.Encodings)
}

func TestMatchType_ExactAndPrefixDisambiguation(t *testing.T) {
	// "htm" and "html" are both present; binary search must not conflate them.
	v, ok := matchType("htm")
	require.True(t, ok)
	require.Equal(t, "text/html", v)

	v, ok = matchType("html")
	require.True(t, ok)
	require.Equal(t, "text/html", v)
}

func TestTypTabIsSorted(t *testing.T) {
	for i := 1; i < len(typTab); i++ {
		require.LessOrEqual(t, typTab[i-1].ext, typTab[i].ext, "typTab must stay sorted for binary search")
	}
}
