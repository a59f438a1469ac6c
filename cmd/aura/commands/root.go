package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	seedFlag     int64
	profilesFlag string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "AURA - 모의 재무제표 백엔드",
	Long: `AURA Finance CLI

프로필 기반으로 재무상태표/손익계산서/현금흐름표와 재무비율을 생성하고
/finance_data API로 제공합니다.

Usage:
  go run ./cmd/aura [command]

Examples:
  go run ./cmd/aura api
  go run ./cmd/aura generate --company crisis --sheet bs
  go run ./cmd/aura profiles
  go run ./cmd/aura snapshot list`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags (환경변수보다 우선)
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "generator seed (0 = GENERATOR_SEED or time based)")
	rootCmd.PersistentFlags().StringVar(&profilesFlag, "profiles", "", "profile table YAML (default: embedded)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
