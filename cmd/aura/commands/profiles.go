package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "회사 프로필 조회/검증",
	Long: `프로필 표를 읽어 검증하고 요약을 출력합니다.
--profiles 로 외부 YAML 을 지정하면 배포 전 검증 용도로 쓸 수 있습니다.

Example:
  go run ./cmd/aura profiles
  go run ./cmd/aura profiles --profiles ./profiles.yaml`,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	// initDeps 가 파싱 + 라벨 검증까지 수행
	d, err := initDeps()
	if err != nil {
		PrintError(err.Error())
		return err
	}

	columns := []string{"ID", "Name", "Type", "Assets x", "Growth", "Leverage", "Margin", "Vol"}
	widths := []int{8, 12, 10, 9, 8, 9, 8, 6}
	PrintTableHeader(columns, widths)

	for _, p := range d.table.All() {
		PrintTableRow([]string{
			p.ID,
			p.Name,
			p.Type,
			fmt.Sprintf("%.2f", p.BaseAssetMultiplier),
			fmt.Sprintf("%.1f%%", p.AssetGrowth*100),
			fmt.Sprintf("%.1f%%", p.LiabilityRatio*100),
			fmt.Sprintf("%.1f%%", p.ProfitMargin*100),
			fmt.Sprintf("%.2f", p.Volatility),
		}, widths)
	}

	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d profiles valid", d.table.Len()))
	return nil
}
