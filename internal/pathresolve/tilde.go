package pathresolve

import (
	"fmt"
	"os/user"
	"strings"
)

// ErrNoSuchUser is returned when home-directory tilde mapping cannot find
// the named user (spec §4.4.2: "failure → 404").
var ErrNoSuchUser = fmt.Errorf("pathresolve: no such user")

// TildeMapPrefix implements the prefix style: "~user/rest" -> "<prefix>/user/rest".
func TildeMapPrefix(path, prefix string) (string, bool) {
	rest, ok := splitTilde(path)
	if !ok {
		return path, false
	}
	return strings.TrimSuffix(prefix, "/") + "/" + rest, true
}

// TildeMapHomeDir implements the home-directory style: "~user/rest" ->
// "<user.home>/<postfix>/rest", looking the user up in the system user
// database. Returns ErrNoSuchUser if the named user does not exist.
func TildeMapHomeDir(path, postfix string) (mapped string, tildeMapped bool, err error) {
	rest, ok := splitTilde(path)
	if !ok {
		return path, false, nil
	}
	slash := strings.IndexByte(rest, '/')
	var userName, tail string
	if slash < 0 {
		userName, tail = rest, ""
	} else {
		userName, tail = rest[:slash], rest[slash+1:]
	}
	u, lookErr := user.Lookup(userName)
	if lookErr != nil {
		return "", true, ErrNoSuchUser
	}
	home := strings.TrimSuffix(u.HomeDir, "/")
	out := home
	if postfix != "" {
		out += "/" + strings.Trim(postfix, "/")
	}
	if tail != "" {
		out += "/" + tail
	}
	// out is an absolute path (the user's home directory); containment
	// checking accepts it only if it lies under one of the configured
	// ApprovedAltRoots (spec §4.4.5).
	return out, true, nil
}

// splitTilde strips a "~user" or "~user/..." prefix, returning the
// "user[/rest]" remainder.
func splitTilde(path string) (string, bool) {
	if !strings.HasPrefix(path, "~") {
		return "", false
	}
	return path[1:], true
}
