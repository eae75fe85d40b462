package cgi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEnv_CoreCGIVariables(t *testing.T) {
	r := Request{
		Method:       "GET",
		Protocol:     "HTTP/1.1",
		ServerName:   "example.com",
		ServerPort:   8080,
		ServerCWD:    "/srv/www",
		OrigFilename: "cgi-bin/report.cgi",
		ExpnFilename: "/srv/www/cgi-bin/report.cgi",
		Query:        "a=1&b=2",
		RemoteAddr:   "10.0.0.1",
	}
	env := BuildEnv(r)

	require.Contains(t, env, "GATEWAY_INTERFACE=CGI/1.1")
	require.Contains(t, env, "SERVER_NAME=example.com")
	require.Contains(t, env, "SERVER_PROTOCOL=HTTP/1.1")
	require.Contains(t, env, "SERVER_PORT=8080")
	require.Contains(t, env, "REQUEST_METHOD=GET")
	require.Contains(t, env, "SCRIPT_NAME=/cgi-bin/report.cgi")
	require.Contains(t, env, "SCRIPT_FILENAME=/srv/www/cgi-bin/report.cgi")
	require.Contains(t, env, "QUERY_STRING=a=1&b=2")
	require.Contains(t, env, "REMOTE_ADDR=10.0.0.1")
}

func TestBuildEnv_PathInfoAddsTranslated(t *testing.T) {
	r := Request{
		ServerCWD:    "/srv/www",
		PathInfo:     "extra/path",
		OrigFilename: "cgi-bin/report.cgi",
		ExpnFilename: "/srv/www/cgi-bin/report.cgi",
	}
	env := BuildEnv(r)
	require.Contains(t, env, "PATH_INFO=/extra/path")
	require.Contains(t, env, "PATH_TRANSLATED=/srv/wwwextra/path")
}

func TestBuildEnv_OmitsAbsentOptionalHeaders(t *testing.T) {
	env := BuildEnv(Request{})
	for _, key := range []string{"HTTP_REFERER=", "HTTP_USER_AGENT=", "HTTP_COOKIE=", "CONTENT_LENGTH=", "AUTH_TYPE="} {
		for _, e := range env {
			require.NotContains(t, e, key)
		}
	}
}

func TestBuildEnv_IncludesHTTPMirrorsWhenPresent(t *testing.T) {
	r := Request{
		Referer:       "http://example.com/",
		UserAgent:     "test-agent",
		Cookie:        "session=abc",
		ContentType:   "application/x-www-form-urlencoded",
		ContentLength: 42,
		HTTPHost:      "example.com",
		RemoteUser:    "alice",
		HasAuth:       true,
		CGIPattern:    "*.cgi",
	}
	env := BuildEnv(r)
	require.Contains(t, env, "HTTP_REFERER=http://example.com/")
	require.Contains(t, env, "HTTP_USER_AGENT=test-agent")
	require.Contains(t, env, "HTTP_COOKIE=session=abc")
	require.Contains(t, env, "CONTENT_TYPE=application/x-www-form-urlencoded")
	require.Contains(t, env, "CONTENT_LENGTH=42")
	require.Contains(t, env, "HTTP_HOST=example.com")
	require.Contains(t, env, "REMOTE_USER=alice")
	require.Contains(t, env, "AUTH_TYPE=Basic")
	require.Contains(t, env, "CGI_PATTERN=*.cgi")
}

func TestBuildArgs_NoEqualsSplitsOnPlus(t *testing.T) {
	args := BuildArgs("/srv/www/cgi-bin/search.cgi", "hello+world")
	require.Equal(t, []string{"search.cgi", "hello", "world"}, args)
}

func TestBuildArgs_EqualsDisablesCommandLine(t *testing.T) {
	args := BuildArgs("/srv/www/cgi-bin/search.cgi", "q=hello+world")
	require.Equal(t, []string{"search.cgi"}, args)
}

func TestBuildArgs_PercentDecodesWords(t *testing.T) {
	args := BuildArgs("/srv/www/cgi-bin/search.cgi", "hello%20world")
	require.Equal(t, []string{"search.cgi", "hello world"}, args)
}

func TestBuildArgs_EmptyQueryIsJustArgv0(t *testing.T) {
	args := BuildArgs("/srv/www/cgi-bin/search.cgi", "")
	require.Equal(t, []string{"search.cgi"}, args)
}
