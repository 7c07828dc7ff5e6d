package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Set with -ldflags "-X github.com/fzft/go-chainset/cmd.gitSHA1=...".
var (
	version   = "0.1.0"
	gitSHA1   = "unknown"
	gitDirty  = "unknown"
	buildDate = "unknown"
)

// Version returns the shell version with git information when available.
func Version() string {
	v := fmt.Sprintf("chainset %s", version)
	// Add git commit and working tree status when available
	if isCommitHash(gitSHA1) {
		v = fmt.Sprintf("%s (git:%s", v, gitSHA1)
		if dirtyInt, err := strconv.ParseInt(gitDirty, 10, 64); err == nil && dirtyInt != 0 {
			v += "-dirty"
		}
		v += ")"
	}
	if buildDate != "unknown" {
		v += " built " + buildDate
	}
	return v
}

// isCommitHash reports whether s is a non-zero hex string, short or full.
func isCommitHash(s string) bool {
	if strings.Trim(s, "0") == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789abcdefABCDEF", r)
	}) < 0
}
