// Command interpres runs the pipeline from the command line and manages the
// SQLite user lexicon.
//
//	interpres parse "Did you see that?"
//	interpres tokenize "I don't know"
//	interpres forms eat
//	interpres userdb add 'zeppelin|NN||noun/vehicle/aircraft'
//	interpres userdb remove zeppelin NN
//	interpres userdb list
//	interpres config init interpres.yaml
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/interpres"
)

var (
	dataDir    string
	configPath string
	userDB     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "interpres",
	Short:         "Tag and interpret English sentences",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var parseCmd = &cobra.Command{
	Use:   "parse <text>...",
	Short: "Print the full interpretation of the text as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), e.Interpret(strings.Join(args, " ")))
	},
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <text>...",
	Short: "Print the tagged tokens of the text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		in := e.Tokenize(strings.Join(args, " "))
		e.Tag(in)
		out := cmd.OutOrStdout()
		for _, t := range in.Tokens {
			line := t.Word + "\t" + t.Tag.String()
			if t.Negative {
				line += "\tneg"
			}
			if t.Correction != "" {
				line += "\t(" + t.Correction + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var formsCmd = &cobra.Command{
	Use:   "forms <stem>",
	Short: "List the inflected forms of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		forms, ok := e.Forms(args[0])
		if !ok {
			return fmt.Errorf("%q is not in the lexicon", args[0])
		}
		return printJSON(cmd.OutOrStdout(), forms)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) == 1 {
			path = args[0]
		}
		if err := interpres.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := interpres.LoadConfig(configPath)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "path to the lexicon data directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "interpres.yaml", "YAML configuration file (defaults if absent)")
	rootCmd.PersistentFlags().StringVar(&userDB, "userdb", "", "SQLite user lexicon")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(parseCmd, tokenizeCmd, formsCmd, configCmd, userdbCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "interpres:", err)
		os.Exit(1)
	}
}

func loadEngine() (*interpres.Engine, error) {
	cfg, err := interpres.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Logging.Level = "warn"
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := interpres.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	opts := []interpres.Option{interpres.WithConfig(cfg), interpres.WithLogger(logger)}
	if userDB != "" {
		opts = append(opts, interpres.WithLexiconDB(userDB))
	}
	e, err := interpres.New(dataDir, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("engine ready", zap.String("data", dataDir))
	return e, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
