package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fzft/go-chainset/deps/linenoise"
	"github.com/fzft/go-chainset/metrics"
	"github.com/fzft/go-chainset/set"
)

const prompt = "chainset> "

var (
	errNoSnapshot       = errors.New("no snapshot, run SNAPSHOT first")
	errUnbalancedQuotes = errors.New("unbalanced quotes")
)

// Cli is an interactive shell over one set of string keys.
type Cli struct {
	config *Config
	fs     afero.Fs
	out    io.Writer
	pretty bool
	logger *zap.Logger

	// mu guards set and snapshot against the metrics scrape goroutine.
	mu       sync.Mutex
	set      *set.Set[string]
	snapshot *set.Set[string]

	line        *linenoise.LineNoise
	metrics     *http.Server
	metricsAddr string
}

// NewCli builds the shell's set from cfg, loads cfg.Load if set and starts
// the metrics endpoint if cfg.MetricsAddr is set.
func NewCli(cfg *Config, fs afero.Fs, out io.Writer, logger *zap.Logger) (*Cli, error) {
	maxMemory, err := cfg.MaxMemoryBytes()
	if err != nil {
		return nil, err
	}

	cli := &Cli{
		config: cfg,
		fs:     fs,
		out:    out,
		logger: logger,
		set: set.New[string](
			set.WithCapacity(cfg.Capacity),
			set.WithMaxMemory(maxMemory),
			set.WithLogger(logger.Named("set"))),
	}
	if f, ok := out.(*os.File); ok {
		cli.pretty = isTerminal(f)
	}

	if cfg.Load != "" {
		n, err := cli.load(cfg.Load)
		if err != nil {
			return nil, err
		}
		logger.Info("keys loaded", zap.String("file", cfg.Load), zap.Int("keys", n))
	}

	if cfg.MetricsAddr != "" {
		if err := cli.serveMetrics(cfg.MetricsAddr); err != nil {
			return nil, err
		}
	}
	return cli, nil
}

// Stats returns the statistics of the current set.
func (cli *Cli) Stats() set.Stats {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.set.Stats()
}

// Run reads commands from in until EOF, QUIT or ctx is cancelled. When in is
// a terminal the prompt supports history and command completion.
func (cli *Cli) Run(ctx context.Context, in io.Reader) error {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return cli.runInteractive(ctx)
	}
	return cli.runScript(ctx, in)
}

func (cli *Cli) runScript(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if cli.Execute(sc.Text()) {
			return nil
		}
	}
	return errors.Wrap(sc.Err(), "read")
}

func (cli *Cli) runInteractive(ctx context.Context) error {
	cli.line = linenoise.New(cli.fs)
	cli.line.SetCompleter(completeCommand)
	if err := cli.line.HistoryLoad(cli.config.History); err != nil {
		cli.logger.Warn("history not loaded", zap.String("file", cli.config.History), zap.Error(err))
	}

	fmt.Fprintln(cli.out, pterm.Info.Sprint(Version()))
	return cli.promptLoop(ctx, cli.line)
}

// prompter is the part of the line editor the prompt loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// promptLoop returns as soon as ctx is cancelled, even while a prompt is
// waiting for input. The terminal read cannot be interrupted, so the reader
// goroutine is left blocked and Close restores the terminal.
func (cli *Cli) promptLoop(ctx context.Context, p prompter) error {
	done := make(chan error, 1)
	go func() {
		done <- cli.readPrompts(ctx, p)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (cli *Cli) readPrompts(ctx context.Context, p prompter) error {
	for ctx.Err() == nil {
		input, err := p.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "prompt")
		}
		if ctx.Err() != nil {
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		p.AppendHistory(input)
		if cli.Execute(input) {
			return nil
		}
	}
	return nil
}

// Execute runs one command line and writes its reply. It returns true when
// the command asks the shell to stop.
func (cli *Cli) Execute(line string) (quit bool) {
	args, err := splitArgs(line)
	if err != nil {
		cli.replyError(err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	c := lookupCommand(args[0])
	if c == nil {
		cli.replyError(errors.Errorf("unknown command '%s'", args[0]))
		return false
	}
	if !c.arityOK(len(args)) {
		cli.replyError(errors.Errorf("wrong number of arguments for '%s' command", strings.ToLower(c.name)))
		return false
	}
	if c.proc == nil {
		return true
	}

	cli.logger.Debug("command", zap.String("name", c.name), zap.Int("argc", len(args)))
	cli.mu.Lock()
	err = c.proc(cli, args)
	cli.mu.Unlock()
	if err != nil {
		cli.replyError(err)
	}
	return false
}

// Close saves the history and stops the metrics endpoint.
func (cli *Cli) Close() error {
	var err error
	if cli.line != nil {
		err = multierr.Append(err, cli.line.HistorySave(cli.config.History))
		err = multierr.Append(err, cli.line.Close())
		cli.line = nil
	}
	if cli.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, cli.metrics.Shutdown(ctx))
		cli.metrics = nil
	}
	return err
}

func (cli *Cli) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("chainset", cli)); err != nil {
		return errors.Wrap(err, "metrics.register")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "metrics.listen")
	}
	cli.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	cli.metricsAddr = ln.Addr().String()
	cli.logger.Info("serving metrics", zap.String("addr", cli.metricsAddr))

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cli.logger.Error("metrics server", zap.Error(err))
		}
	}(cli.metrics)
	return nil
}

// load inserts every non-empty, trimmed line of path.
func (cli *Cli) load(path string) (int, error) {
	f, err := cli.fs.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "load")
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key := strings.TrimSpace(sc.Text())
		if key == "" {
			continue
		}
		_, inserted, err := cli.set.TryInsert(key)
		if err != nil {
			return n, err
		}
		if inserted {
			n++
		}
	}
	return n, errors.Wrap(sc.Err(), "load")
}

/* ============================== Replies ================================== */

func (cli *Cli) replyInteger(n int) {
	fmt.Fprintf(cli.out, "(integer) %d\n", n)
}

func (cli *Cli) replyBool(b bool) {
	if b {
		cli.replyInteger(1)
	} else {
		cli.replyInteger(0)
	}
}

func (cli *Cli) replyNil() {
	fmt.Fprintln(cli.out, "(nil)")
}

func (cli *Cli) replyString(s string) {
	fmt.Fprintln(cli.out, strconv.Quote(s))
}

func (cli *Cli) replyStatus(s string) {
	fmt.Fprintln(cli.out, s)
}

func (cli *Cli) replyList(items []string) {
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "(empty array)")
		return
	}
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		fmt.Fprintf(cli.out, "%*d) %s\n", width, i+1, strconv.Quote(item))
	}
}

func (cli *Cli) replyError(err error) {
	if cli.pretty {
		fmt.Fprintln(cli.out, pterm.Error.Sprint(err.Error()))
		return
	}
	fmt.Fprintf(cli.out, "(error) ERR %v\n", err)
}

/* =============================== Helpers ================================= */

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// splitArgs splits a command line into words. Double quoted words use Go
// escapes, single quoted words are taken literally.
func splitArgs(line string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(line) && unicode.IsSpace(rune(line[i])) {
			i++
		}
		if i == len(line) {
			return args, nil
		}

		switch line[i] {
		case '"':
			j := i + 1
			for ; j < len(line); j++ {
				if line[j] == '\\' {
					j++
					continue
				}
				if line[j] == '"' {
					break
				}
			}
			if j >= len(line) {
				return nil, errUnbalancedQuotes
			}
			word, err := strconv.Unquote(line[i : j+1])
			if err != nil {
				return nil, errors.Wrapf(err, "bad quoted word %s", line[i:j+1])
			}
			args = append(args, word)
			i = j + 1
		case '\'':
			j := strings.IndexByte(line[i+1:], '\'')
			if j < 0 {
				return nil, errUnbalancedQuotes
			}
			args = append(args, line[i+1:i+1+j])
			i += j + 2
		default:
			j := i
			for j < len(line) && !unicode.IsSpace(rune(line[j])) {
				j++
			}
			args = append(args, line[i:j])
			i = j
		}
	}
}
