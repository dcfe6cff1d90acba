// internal/commands/run.go
package perfrun

import (
	"log"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/perfrun/perfrun/internal/appconfig"
	"github.com/perfrun/perfrun/internal/gitinfo"
	"github.com/perfrun/perfrun/internal/perfstat"
	"github.com/perfrun/perfrun/internal/report"
	"github.com/perfrun/perfrun/internal/runner"
	"github.com/perfrun/perfrun/internal/sysinfo"
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the benchmark and report aggregated statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmarks()
	},
}

func init() {
	runCmd.Flags().StringP("bench", "p", "", "path of the benchmark executable")
	runCmd.Flags().StringP("env", "e", "", "environment prefix prepended to the benchmark invocation")
	runCmd.Flags().StringP("test", "t", "", "path of the benchmark test to execute")
	runCmd.Flags().StringP("outfile", "o", "", "path of the file to write test output to")
	runCmd.Flags().BoolP("brief", "b", false, "brief (not detailed) test output")
	runCmd.Flags().IntP("runmax", "m", 1, "maximum number of times to run the test")
	runCmd.Flags().String("home", "", `path of the "home" directory the benchmark will use`)
	runCmd.Flags().Bool("reuse", false, "reuse and reanalyze results from previous runs rather than running again")
	runCmd.Flags().StringP("git-root", "g", "", "path of the git working directory")
	runCmd.Flags().StringP("json-info", "i", "", "additional test information as a JSON object string")
	runCmd.Flags().String("batch-file", "", "run all specified configurations for a single test")
	runCmd.Flags().String("args", "", "additional arguments to pass to the benchmark (JSON array string)")
	runCmd.Flags().String("ops", "", "operations to report metrics for (JSON array string)")
	runCmd.Flags().BoolP("verbose", "v", false, "be verbose")

	for _, name := range []string{"bench", "env", "test", "outfile", "brief", "runmax", "home",
		"reuse", "git-root", "json-info", "batch-file", "args", "ops", "verbose"} {
		_ = viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(runCmd)
}

// buildConfig assembles the run configuration from the bound flags and
// loads the optional batch file. All configuration failures surface here,
// before any benchmark process is launched.
func buildConfig() (appconfig.Config, []appconfig.BatchEntry, error) {
	jsonInfo, err := appconfig.ParseJSONInfo(viper.GetString("json-info"))
	if err != nil {
		return appconfig.Config{}, nil, err
	}
	arguments, err := appconfig.ParseStringList(viper.GetString("args"))
	if err != nil {
		return appconfig.Config{}, nil, err
	}
	operations, err := appconfig.ParseStringList(viper.GetString("ops"))
	if err != nil {
		return appconfig.Config{}, nil, err
	}

	cfg := appconfig.Config{
		BenchPath:   viper.GetString("bench"),
		Environment: viper.GetString("env"),
		TestPath:    viper.GetString("test"),
		HomeDir:     viper.GetString("home"),
		OutFile:     viper.GetString("outfile"),
		Brief:       viper.GetBool("brief"),
		RunMax:      viper.GetInt("runmax"),
		Reuse:       viper.GetBool("reuse"),
		GitRoot:     viper.GetString("git-root"),
		BatchFile:   viper.GetString("batch-file"),
		Arguments:   arguments,
		Operations:  operations,
		JSONInfo:    jsonInfo,
		Verbose:     viper.GetBool("verbose"),
		LogFile:     viper.GetString("logFile"),
	}
	if err := cfg.Validate(); err != nil {
		return appconfig.Config{}, nil, err
	}

	var entries []appconfig.BatchEntry
	if cfg.BatchFile != "" {
		if cfg.Verbose {
			log.Printf("Reading batch file %s", cfg.BatchFile)
		}
		entries, err = appconfig.LoadBatchFile(cfg.BatchFile)
		if err != nil {
			return appconfig.Config{}, nil, err
		}
	}
	return cfg, entries, nil
}

// validateRequestedOperations runs the fail-fast operation gate over every
// requested list before any process spawns.
func validateRequestedOperations(cfg appconfig.Config, entries []appconfig.BatchEntry) error {
	if len(entries) > 0 {
		for _, entry := range entries {
			if err := perfstat.ValidateOperations(entry.Operations); err != nil {
				return err
			}
		}
		return nil
	}
	return perfstat.ValidateOperations(cfg.Operations)
}

func runBenchmarks() error {
	cfg, entries, err := buildConfig()
	if err != nil {
		return err
	}

	if cfg.Verbose {
		log.Println("perfrun")
		log.Println("=======")
		log.Println("Configuration:")
		pp.Println(cfg)
		if len(entries) > 0 {
			log.Printf("Batch tests to run: %d", len(entries))
		}
	}

	if err := validateRequestedOperations(cfg, entries); err != nil {
		return err
	}

	records, err := runner.Run(cfg, entries)
	if err != nil {
		return err
	}

	renderer := report.Renderer{System: sysinfo.Provider{}, Git: gitinfo.Provider{}}
	var result any
	if cfg.Brief {
		if cfg.Verbose {
			log.Println("Brief stats output:")
		}
		result = renderer.Brief(cfg, records)
	} else {
		if cfg.Verbose {
			log.Println("Detailed stats output:")
		}
		result, err = renderer.Detailed(cfg, records)
		if err != nil {
			return err
		}
	}

	return report.Write(result, cfg.OutFile, cfg.Verbose)
}
