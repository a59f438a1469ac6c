package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "데이터셋 생성 후 출력",
	Long: `서버 없이 데이터셋을 생성하고 한 시트를 출력합니다.
같은 --seed 는 같은 숫자를 만듭니다.

Example:
  go run ./cmd/aura generate
  go run ./cmd/aura generate --company crisis --sheet cf --periods 2024,2025_Q1
  go run ./cmd/aura generate --sheet ratios --seed 42
  go run ./cmd/aura generate --output json > dataset.json`,
	RunE: runGenerate,
}

var (
	genCompany string
	genSheet   string
	genPeriods string
	genOutput  string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genCompany, "company", store.DefaultCompany, "company id")
	generateCmd.Flags().StringVar(&genSheet, "sheet", string(store.DefaultSheet), "sheet (合并-bs, 合并-is, 合并-cf, financial_ratios or bs/is/cf/ratios)")
	generateCmd.Flags().StringVar(&genPeriods, "periods", "", "comma separated periods (default: all)")
	generateCmd.Flags().StringVar(&genOutput, "output", "text", "출력 형식 (text, json, dataset)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	ds, err := d.gen.Generate(d.seed)
	if err != nil {
		return fmt.Errorf("generate dataset: %w", err)
	}

	// 전체 데이터셋 덤프
	if genOutput == "dataset" {
		return writeJSON(ds)
	}

	resp, err := store.New(d.table, ds).Query(genCompany, genSheet, genPeriods)
	if err != nil {
		return err
	}

	if genOutput == "json" {
		return writeJSON(resp)
	}

	PrintDoubleSeparator()
	fmt.Printf("  %s (%s) · %s\n", resp.CompanyName, resp.CompanyID, resp.SheetType)
	PrintSeparator()
	fmt.Printf("  Dataset   : %s\n", ds.ID)
	fmt.Printf("  Seed      : %d\n", ds.Seed)
	PrintDoubleSeparator()

	switch data := resp.Data.(type) {
	case []contracts.RowView:
		printStatement(data, resp.PeriodsRequested)
	case contracts.RatioTable:
		printRatios(data, resp.PeriodsRequested)
	}
	return nil
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatement(rows []contracts.RowView, periods []contracts.Period) {
	columns := []string{"항목"}
	widths := []int{itemWidth(rows)}
	for _, p := range periods {
		columns = append(columns, string(p))
		widths = append(widths, valueWidth)
	}
	PrintTableHeader(columns, widths)

	for _, row := range rows {
		values := []string{row.Item}
		for _, v := range row.Values {
			values = append(values, formatAmount(v))
		}
		PrintTableRow(values, widths)
	}
}

func printRatios(table contracts.RatioTable, periods []contracts.Period) {
	var names []string
	if len(periods) > 0 {
		for name := range table[periods[0]] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	columns := []string{"비율"}
	widths := []int{20}
	for _, p := range periods {
		columns = append(columns, string(p))
		widths = append(widths, 12)
	}
	PrintTableHeader(columns, widths)

	for _, name := range names {
		values := []string{name}
		for _, p := range periods {
			values = append(values, formatRatio(table[p][name]))
		}
		PrintTableRow(values, widths)
	}
}

func itemWidth(rows []contracts.RowView) int {
	w := 10
	for _, row := range rows {
		if n := displayWidth(row.Item); n > w {
			w = n
		}
	}
	return w
}

func joinPeriods(periods []contracts.Period) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
