package cmd

import (
	"sort"
	"strings"
)

type commandGroup string

const (
	groupKeys  commandGroup = "keys"
	groupTable commandGroup = "table"
	groupShell commandGroup = "shell"
)

// commandDocs is one entry of the command table. Arity counts the command
// name: a positive arity is exact, a negative one is a minimum.
type commandDocs struct {
	name    string
	params  string
	summary string
	group   commandGroup
	arity   int
	proc    func(cli *Cli, args []string) error
}

var commandTable = map[string]*commandDocs{}

func init() {
	for _, c := range []*commandDocs{
		{"INSERT", "key [key ...]", "Insert keys, reply with the number added", groupKeys, -2, insertCommand},
		{"ERASE", "key [key ...]", "Erase keys, reply with the number removed", groupKeys, -2, eraseCommand},
		{"FIND", "key", "Reply with the stored key or nil", groupKeys, 2, findCommand},
		{"COUNT", "key", "Reply 1 if the key is present, 0 otherwise", groupKeys, 2, countCommand},
		{"KEYS", "", "List keys in sorted order", groupKeys, 1, keysCommand},
		{"SCAN", "", "List keys in iteration order", groupKeys, 1, scanCommand},
		{"LOAD", "file", "Insert every non-empty line of a file", groupKeys, 2, loadCommand},
		{"SIZE", "", "Number of keys", groupTable, 1, sizeCommand},
		{"EMPTY", "", "Reply 1 if the set is empty", groupTable, 1, emptyCommand},
		{"CAPACITY", "", "Number of buckets", groupTable, 1, capacityCommand},
		{"CLEAR", "", "Remove every key and reset the buckets", groupTable, 1, clearCommand},
		{"DUMP", "", "Print every bucket chain", groupTable, 1, dumpCommand},
		{"TREE", "", "Print non-empty buckets as a tree", groupTable, 1, treeCommand},
		{"STATS", "", "Print table statistics", groupTable, 1, statsCommand},
		{"SNAPSHOT", "", "Keep a copy of the current set", groupTable, 1, snapshotCommand},
		{"DIFF", "", "Reply 1 if the set equals the snapshot", groupTable, 1, diffCommand},
		{"SWAP", "", "Exchange the set and the snapshot", groupTable, 1, swapCommand},
		{"HELP", "[command]", "Show help", groupShell, -1, helpCommand},
		{"QUIT", "", "Leave the shell", groupShell, 1, nil},
		{"EXIT", "", "Leave the shell", groupShell, 1, nil},
	} {
		commandTable[c.name] = c
	}
}

func lookupCommand(name string) *commandDocs {
	return commandTable[strings.ToUpper(name)]
}

func (c *commandDocs) arityOK(argc int) bool {
	if c.arity >= 0 {
		return argc == c.arity
	}
	return argc >= -c.arity
}

func (c *commandDocs) usage() string {
	if c.params == "" {
		return c.name
	}
	return c.name + " " + c.params
}

// commandNames returns the table's command names, sorted.
func commandNames() []string {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// completeCommand returns the command names starting with line.
func completeCommand(line string) []string {
	prefix := strings.ToUpper(line)
	var out []string
	for _, name := range commandNames() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}
