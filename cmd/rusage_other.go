//go:build !unix

package cmd

func maxRSS() (uint64, bool) {
	return 0, false
}
