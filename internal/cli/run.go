package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/openact/openact/pkg/action"
	"github.com/openact/openact/pkg/config"
	"github.com/openact/openact/pkg/log"
	"github.com/openact/openact/pkg/rule"
)

const (
	OutputText = "text"
	OutputYAML = "yaml"
)

var allOutputs = []string{OutputText, OutputYAML}

type RunArgs struct {
	*RootArgs

	ConfigPath string
	RulesPath  string
	Output     string
	Watch      bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the openact configuration file")
	cmd.Flags().StringVar(&ra.RulesPath, "rules", "", "Path to the open-actions rules file")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", OutputText,
		fmt.Sprintf("Output format, one of: %s", allOutputs))
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false,
		"Watch the rules file and reload on change (filter mode)")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.MarkFlagFilename("rules", "conf")
	if err != nil {
		panic(fmt.Errorf("mark rules flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(allOutputs, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func run(cmd *cobra.Command, ra *RunArgs, urls []string) error {
	cfgPath := ra.ConfigPath
	if cfgPath == "" {
		cfgPath = config.GetPath()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	err = applyConfigLogging(cmd, ra.RootArgs, cfg.Log)
	if err != nil {
		return err
	}

	rulesPath := ra.RulesPath
	if rulesPath == "" {
		rulesPath = cfg.Rules.Path
	}

	p, err := newPrinter(cmd.OutOrStdout(), ra.Output)
	if err != nil {
		return err
	}

	cache := rule.NewCache(cfg.Rules.CacheSize)

	if len(urls) > 0 {
		for _, u := range urls {
			err := resolve(cache, rulesPath, u, p)
			if err != nil {
				return err
			}
		}

		return nil
	}

	// Filter mode: read URLs from stdin until EOF.
	if ra.Watch {
		w, err := rule.NewWatcher(rulesPath, cache)
		if err != nil {
			return fmt.Errorf("watch rules: %w", err)
		}
		defer w.Close() //nolint:errcheck // Watcher teardown.

		go w.Run(cmd.Context())
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		u := strings.TrimSpace(scanner.Text())
		if u == "" {
			continue
		}

		err := resolve(cache, rulesPath, u, p)
		if err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	return nil
}

// resolve matches one URL against the (cached) rules and prints the result.
// A URL with no matching block prints nothing; that is not an error.
func resolve(cache *rule.Cache, rulesPath, rawURL string, p printer) error {
	rs, err := cache.Get(rulesPath)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	invs := rs.ActionsFor(rawURL)

	slog.Debug("resolved url",
		slog.String("url", rawURL),
		slog.Int("actions", len(invs)),
	)

	return p.print(rawURL, invs)
}

// applyConfigLogging reapplies log settings from the configuration file for
// flags the user did not set explicitly. Flags and environment variables
// take precedence over the config file.
func applyConfigLogging(cmd *cobra.Command, ra *RootArgs, lc *config.LogConfig) error {
	if lc == nil {
		return nil
	}

	changed := false

	if lc.Level != "" && !cmd.Flags().Changed("log-level") && lc.Level != ra.LogLevel {
		ra.LogLevel = lc.Level
		changed = true
	}
	if lc.Format != "" && !cmd.Flags().Changed("log-format") && lc.Format != ra.LogFormat {
		ra.LogFormat = lc.Format
		changed = true
	}

	if !changed {
		return nil
	}

	logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	return nil
}

type printer interface {
	print(url string, invs []action.Invocation) error
}

func newPrinter(w io.Writer, output string) (printer, error) {
	switch output {
	case OutputText:
		return textPrinter{w: w}, nil
	case OutputYAML:
		return yamlPrinter{w: w}, nil
	}

	return nil, fmt.Errorf("unknown output format: %q", output)
}

type textPrinter struct {
	w io.Writer
}

func (p textPrinter) print(_ string, invs []action.Invocation) error {
	for _, inv := range invs {
		_, err := fmt.Fprintln(p.w, inv.String())
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return nil
}

type yamlPrinter struct {
	w io.Writer
}

// yamlResult is one YAML document per resolved URL.
type yamlResult struct {
	URL     string              `json:"url"`
	Actions []action.Invocation `json:"actions,omitempty"`
}

func (p yamlPrinter) print(url string, invs []action.Invocation) error {
	b, err := yaml.Marshal(yamlResult{URL: url, Actions: invs})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = fmt.Fprintf(p.w, "---\n%s", b)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
