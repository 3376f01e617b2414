package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/dashboard"
)

var (
	flagPort       int
	flagNoGenerate bool
	flagDataDir    string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the project dashboard",
	Long:  "Dashboard generates static JSON from the saved reports and serves it together with a small API for browsing projects and reports.",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var dashboardGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the dashboard data without serving",
	Args:  cobra.NoArgs,
	RunE:  runDashboardGenerate,
}

func init() {
	dashboardCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "reports data directory")
	dashboardCmd.PersistentFlags().StringVar(&flagRegistry, "registry", "", "path to the project registry file")
	dashboardCmd.Flags().IntVarP(&flagPort, "port", "p", 0, fmt.Sprintf("listen port (default %d)", dashboard.DefaultPort))
	dashboardCmd.Flags().BoolVar(&flagNoGenerate, "no-generate", false, "serve without regenerating the data first")
	dashboardCmd.AddCommand(dashboardGenerateCmd)
}

// dashboardOverrides extends the shared overrides with the data
// directory flag, which only the dashboard commands expose.
func dashboardOverrides() map[string]string {
	o := buildOverrides()
	if flagDataDir != "" {
		o["dataDir"] = flagDataDir
	}
	return o
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(dashboardOverrides())
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	st := openStore(cfg)
	gen := &dashboard.Generator{Store: st}

	if !flagNoGenerate {
		res, err := gen.Generate(reg.List())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		dimColor.Fprintf(os.Stderr, "Generated data for %d project(s), %d report(s) in %s\n",
			res.Projects, res.Reports, res.OutDir)
	}

	port := flagPort
	if port <= 0 {
		port = cfg.DashboardPort
	}

	titleColor.Fprintln(os.Stderr, "📊 DevBots Dashboard")
	dimColor.Fprintf(os.Stderr, "Listening on http://localhost:%d\n", port)
	if err := dashboard.NewServer(reg, st, gen).Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
	}
	return nil
}

func runDashboardGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(dashboardOverrides())
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	gen := &dashboard.Generator{Store: openStore(cfg)}
	res, err := gen.Generate(reg.List())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}
	successColor.Printf("✓ Dashboard data generated: %d project(s), %d report(s) → %s\n",
		res.Projects, res.Reports, res.OutDir)
	return nil
}
