// Package flagx holds small argument-parsing helpers: picking a subset of
// process flags so several loaders can share os.Args, and splitting REPL
// arguments of the form name=value.
package flagx

import (
	"errors"
	"flag"
	"io"
	"strings"
)

// ErrBadPair is returned by ParsePairs for an argument without '='.
var ErrBadPair = errors.New("argument must be name=value")

// FilterArgs keeps only the flags listed in allowedFlags, together with
// their values. Both "-c conf.json" and "-config=conf.json" forms are
// recognised; a following token that starts with '-' is never taken as a
// value. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag returns the config file path given with -c or -config in
// args (usually os.Args[1:]), or "" when neither is present. The last
// occurrence wins.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// ParsePairs splits REPL arguments like "page=2 search=rex" into a map.
// Names are lower-cased; values are kept verbatim and may be empty.
func ParsePairs(args []string) (map[string]string, error) {
	pairs := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, ErrBadPair
		}
		pairs[strings.ToLower(name)] = value
	}
	return pairs, nil
}
