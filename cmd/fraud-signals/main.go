package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gyeh/fraud-signals/internal/cloud"
	"github.com/gyeh/fraud-signals/internal/config"
	"github.com/gyeh/fraud-signals/internal/engine"
	"github.com/gyeh/fraud-signals/internal/ingest"
	"github.com/gyeh/fraud-signals/internal/npi"
	"github.com/gyeh/fraud-signals/internal/progress"
	"github.com/gyeh/fraud-signals/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fraud-signals",
		Short: "Detect Medicaid billing fraud signals from claims, LEIE, and NPPES data",
	}

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newScanCmd() *cobra.Command {
	var (
		dataDir    string
		outputFile string
		configFile string
		workers    int
		noProgress bool
		logLevel   string
		s3Bucket   string
		s3Key      string
		s3Region   string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run all six fraud signal detectors and write a JSON report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			log := hclog.New(&hclog.LoggerOptions{
				Name:   "fraud-signals",
				Level:  hclog.LevelFromString(logLevel),
				Output: os.Stderr,
			})

			var mgr progress.Manager
			switch {
			case noProgress:
				mgr = &progress.NoopManager{}
			case isTerminal(os.Stderr):
				mgr = progress.NewMPBManager()
			default:
				mgr = progress.NewLogManager()
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
				cancel()
			}()

			startTime := time.Now()

			eng := &engine.Engine{
				Log:        log,
				Progress:   mgr,
				Workers:    workers,
				Thresholds: cfg.Thresholds,
			}

			ds, err := eng.LoadDatasets(dataDir, cfg.Files)
			if err != nil {
				return err
			}

			rep, err := eng.Scan(ctx, ds)
			if err != nil {
				return err
			}

			if err := rep.Write(outputFile); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}

			if s3Bucket != "" {
				if err := uploadReport(ctx, rep, s3Bucket, s3Key, s3Region); err != nil {
					return err
				}
				log.Info("report uploaded", "bucket", s3Bucket, "key", s3Key)
			}

			duration := time.Since(startTime)
			fmt.Fprintf(os.Stderr, "\nScan complete: %d providers scanned, %d flagged in %.1fs\n",
				rep.TotalProvidersScanned, rep.TotalProvidersFlagged, duration.Seconds())
			if outputFile != "-" {
				fmt.Fprintf(os.Stderr, "Report written to %s\n", outputFile)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory containing the three dataset files")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "fraud_signals_report.json", "Report file path (use '-' for stdout)")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML file overriding thresholds and dataset file names")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of concurrent signal evaluators")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "Upload the report to this S3 bucket after writing")
	cmd.Flags().StringVar(&s3Key, "s3-key", "fraud_signals_report.json", "S3 object key for the uploaded report")
	cmd.Flags().StringVar(&s3Region, "s3-region", "", "AWS region for the upload (default: AWS config chain)")

	cmd.MarkFlagRequired("data-dir")

	return cmd
}

func uploadReport(ctx context.Context, rep *report.Report, bucket, key, region string) error {
	data, err := rep.Marshal()
	if err != nil {
		return err
	}
	client, err := cloud.NewS3Client(ctx, bucket, region)
	if err != nil {
		return err
	}
	return client.UploadReport(ctx, key, data)
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup NPI [NPI...]",
		Short: "Query the live NPPES registry for flagged providers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			npis := make([]string, 0, len(args))
			for _, a := range args {
				n := ingest.NormalizeNPI(a)
				if !ingest.ValidNPI(n) || len(n) != 10 {
					return fmt.Errorf("invalid NPI %q", a)
				}
				npis = append(npis, n)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			results, errs := npi.LookupAll(ctx, npis)
			for i, n := range npis {
				if errs[i] != nil {
					fmt.Fprintf(os.Stderr, "Error looking up %s: %v\n", n, errs[i])
					continue
				}
				printProvider(n, results[i])
			}
			return nil
		},
	}
	return cmd
}

func printProvider(n string, p *npi.Provider) {
	if p == nil {
		fmt.Printf("%s: not found in NPPES registry\n", n)
		return
	}
	fmt.Printf("%s  %s (%s)\n", p.NPI, p.Name, p.EntityType)
	if p.Taxonomy != "" {
		fmt.Printf("  Taxonomy:   %s (%s)\n", p.Taxonomy, p.TaxonomyCode)
	}
	if p.PracticeAddress != "" {
		fmt.Printf("  Location:   %s\n", p.PracticeAddress)
	}
	if p.PracticePhone != "" {
		fmt.Printf("  Phone:      %s\n", p.PracticePhone)
	}
	if p.EnumerationDate != "" {
		fmt.Printf("  Enumerated: %s\n", p.EnumerationDate)
	}
	if p.Status != "" {
		fmt.Printf("  Status:     %s\n", p.Status)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(report.Version)
		},
	}
}

// isTerminal reports whether f is attached to a terminal. Progress bars are
// only useful on TTYs.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
