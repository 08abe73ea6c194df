package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// rewriteArgs adapts the original command line to the cobra layout:
//
//   - the legacy "-rt <v>" and "-rt=<v>" spellings become "--retweets=<bool>"
//   - an invocation that starts with a flag and names no subcommand runs search
func rewriteArgs(root *cobra.Command, args []string) []string {
	out := make([]string, 0, len(args)+1)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			out = append(out, args[i:]...)
			i = len(args)
		case arg == "-rt":
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				out = append(out, "--retweets="+normalizeBool(args[i+1]))
				i++
			} else {
				out = append(out, "--retweets")
			}
		case strings.HasPrefix(arg, "-rt="):
			out = append(out, "--retweets="+normalizeBool(strings.TrimPrefix(arg, "-rt=")))
		default:
			out = append(out, arg)
		}
	}

	if len(out) == 0 || !strings.HasPrefix(out[0], "-") {
		return out
	}
	switch out[0] {
	case "-h", "--help", "--version":
		return out
	}

	if cmd, _, err := root.Find(out); err == nil && cmd == root {
		return append([]string{"search"}, out...)
	}
	return out
}

// normalizeBool parses v strictly; values that are not booleans are passed
// through so flag parsing rejects them
func normalizeBool(v string) string {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v
	}
	return strconv.FormatBool(b)
}
