package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
)

/* Command procs run with cli.mu held. They must use cli.set directly and
 * never call cli.Stats(). */

func insertCommand(cli *Cli, args []string) error {
	n := 0
	for _, key := range args[1:] {
		_, inserted, err := cli.set.TryInsert(key)
		if err != nil {
			return errors.Wrapf(err, "%d of %d keys inserted", n, len(args)-1)
		}
		if inserted {
			n++
		}
	}
	cli.replyInteger(n)
	return nil
}

func eraseCommand(cli *Cli, args []string) error {
	n := 0
	for _, key := range args[1:] {
		n += cli.set.Erase(key)
	}
	cli.replyInteger(n)
	return nil
}

func findCommand(cli *Cli, args []string) error {
	it := cli.set.Find(args[1])
	if it.Done() {
		cli.replyNil()
		return nil
	}
	cli.replyString(it.Key())
	return nil
}

func countCommand(cli *Cli, args []string) error {
	cli.replyInteger(cli.set.Count(args[1]))
	return nil
}

func keysCommand(cli *Cli, args []string) error {
	sorted := treeset.NewWithStringComparator()
	for key := range cli.set.All() {
		sorted.Add(key)
	}
	keys := make([]string, 0, sorted.Size())
	for _, v := range sorted.Values() {
		keys = append(keys, v.(string))
	}
	cli.replyList(keys)
	return nil
}

func scanCommand(cli *Cli, args []string) error {
	cli.replyList(cli.set.Keys())
	return nil
}

func loadCommand(cli *Cli, args []string) error {
	n, err := cli.load(args[1])
	if err != nil {
		return errors.Wrapf(err, "%d keys inserted", n)
	}
	cli.replyInteger(n)
	return nil
}

func sizeCommand(cli *Cli, args []string) error {
	cli.replyInteger(cli.set.Len())
	return nil
}

func emptyCommand(cli *Cli, args []string) error {
	cli.replyBool(cli.set.Empty())
	return nil
}

func capacityCommand(cli *Cli, args []string) error {
	cli.replyInteger(cli.set.Capacity())
	return nil
}

func clearCommand(cli *Cli, args []string) error {
	cli.set.Clear()
	cli.replyStatus("OK")
	return nil
}

func dumpCommand(cli *Cli, args []string) error {
	return cli.set.Dump(cli.out)
}

func treeCommand(cli *Cli, args []string) error {
	if !cli.pretty {
		return dumpCommand(cli, args)
	}
	var ll pterm.LeveledList
	for i, chain := range cli.set.Buckets() {
		if len(chain) == 0 {
			continue
		}
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: fmt.Sprintf("Position[%d]", i)})
		for _, key := range chain {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: key})
		}
	}
	if len(ll) == 0 {
		cli.replyList(nil)
		return nil
	}
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
	return nil
}

func statsCommand(cli *Cli, args []string) error {
	st := cli.set.Stats()
	maxMemory := "unlimited"
	if n, _ := cli.config.MaxMemoryBytes(); n > 0 {
		maxMemory = humanize.Bytes(uint64(n))
	}

	fmt.Fprintln(cli.out, "# Table")
	fmt.Fprintf(cli.out, "size:%s\n", humanize.Comma(int64(st.Size)))
	fmt.Fprintf(cli.out, "capacity:%s\n", humanize.Comma(int64(st.Capacity)))
	fmt.Fprintf(cli.out, "base_capacity:%d\n", st.BaseCapacity)
	fmt.Fprintf(cli.out, "used_buckets:%s\n", humanize.Comma(int64(st.UsedBuckets)))
	fmt.Fprintf(cli.out, "longest_chain:%d\n", st.LongestChain)
	fmt.Fprintf(cli.out, "load_factor:%.2f\n", st.LoadFactor)
	fmt.Fprintf(cli.out, "rehashes:%d\n", st.Rehashes)
	fmt.Fprintf(cli.out, "last_rehash:%s\n", st.LastRehash)
	fmt.Fprintln(cli.out, "# Memory")
	fmt.Fprintf(cli.out, "used_memory:%s\n", humanize.Bytes(uint64(st.MemoryUsed)))
	fmt.Fprintf(cli.out, "maxmemory:%s\n", maxMemory)
	if rss, ok := maxRSS(); ok {
		fmt.Fprintf(cli.out, "process_max_rss:%s\n", humanize.Bytes(rss))
	}
	return nil
}

func snapshotCommand(cli *Cli, args []string) error {
	cli.snapshot = cli.set.Clone()
	cli.replyStatus("OK")
	return nil
}

func diffCommand(cli *Cli, args []string) error {
	if cli.snapshot == nil {
		return errNoSnapshot
	}
	cli.replyBool(cli.set.Equal(cli.snapshot))
	return nil
}

func swapCommand(cli *Cli, args []string) error {
	if cli.snapshot == nil {
		return errNoSnapshot
	}
	cli.set.Swap(cli.snapshot)
	cli.replyStatus("OK")
	return nil
}

func helpCommand(cli *Cli, args []string) error {
	if len(args) > 1 {
		c := lookupCommand(args[1])
		if c == nil {
			return errors.Errorf("no help for '%s'", args[1])
		}
		fmt.Fprintf(cli.out, "  %s\n  summary: %s\n  group: %s\n", c.usage(), c.summary, c.group)
		return nil
	}
	for _, name := range commandNames() {
		c := commandTable[name]
		fmt.Fprintf(cli.out, "  %-24s %s\n", c.usage(), c.summary)
	}
	return nil
}
