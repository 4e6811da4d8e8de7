package config

import "strings"

// ArgValue returns the value of flag name in args, accepting both
// "--name value" and "--name=value". The first occurrence wins. A trailing
// "--name" with nothing after it does not count as an occurrence.
func ArgValue(args []string, name string) (string, bool) {
	prefix := name + "="
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1], true
		}
		if value, ok := strings.CutPrefix(arg, prefix); ok {
			return value, true
		}
	}
	return "", false
}
