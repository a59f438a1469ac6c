package statements

import (
	"strings"

	"github.com/wonny/aura/backend/internal/contracts"
)

// Template is the fixed, ordered label list of one statement.
// Labels ending in "：" are section headers and carry null values.
type Template struct {
	Sheet contracts.SheetType
	Items []string
}

// IsHeader reports whether label is a section title
func (t Template) IsHeader(label string) bool {
	return strings.HasSuffix(label, "：")
}

// Contains reports whether label is part of the template
func (t Template) Contains(label string) bool {
	for _, item := range t.Items {
		if item == label {
			return true
		}
	}
	return false
}

// Between returns the labels strictly after `from` and before `to`.
// nil if either bound is missing or out of order.
func (t Template) Between(from, to string) []string {
	start, end := -1, -1
	for i, item := range t.Items {
		switch item {
		case from:
			start = i
		case to:
			end = i
		}
	}
	if start < 0 || end <= start {
		return nil
	}
	return t.Items[start+1 : end]
}

// Balance sheet labels referenced by the generators and the ratio engine
const (
	bsCash                  = "货币资金"
	bsReceivables           = "应收账款"
	bsInventory             = "存货"
	bsOtherCurrentAssets    = "其他流动资产"
	bsCurrentAssetsTotal    = "流动资产合计"
	bsOtherNonCurrentAssets = "其他非流动资产"
	bsNonCurrentAssetsTotal = "非流动资产合计"
	bsTotalAssets           = "资产总计"

	bsShortTermLoans          = "短期借款"
	bsCurrentPortionLTDebt    = "一年内到期的非流动负债"
	bsOtherCurrentLiabilities = "其他流动负债"
	bsCurrentLiabilitiesTotal = "流动负债合计"
	bsLongTermLoans           = "长期借款"
	bsBondsPayable            = "应付债券"
	bsOtherNonCurrentLiabs    = "其他非流动负债"
	bsNonCurrentLiabsTotal    = "非流动负债合计"
	bsTotalLiabilities        = "负债合计"

	bsUndistributedProfit = "未分配利润"
	bsParentEquity        = "归属于母公司股东权益合计"
	bsMinorityInterest    = "少数股东权益"
	bsTotalEquity         = "所有者权益（或股东权益）合计"
	bsLiabilitiesEquity   = "负债和所有者权益（或股东权益）总计"
)

// Income statement labels
const (
	isTotalRevenue      = "一、营业总收入"
	isRevenue           = "其中：营业收入"
	isTotalCost         = "二、营业总成本"
	isCOGS              = "其中：营业成本"
	isSurcharges        = "税金及附加"
	isOperatingProfit   = "营业利润"
	isNonOpIncome       = "营业外收入"
	isNonOpExpense      = "营业外支出"
	isProfitBeforeTax   = "利润总额"
	isIncomeTax         = "所得税费用"
	isNetProfit         = "净利润"
	isParentNetProfit   = "归属于母公司所有者的净利润"
	isMinorityNetProfit = "少数股东损益"
)

// Cash flow labels
const (
	cfOperatingNet    = "经营活动产生的现金流量净额"
	cfInvestingNet    = "投资活动产生的现金流量净额"
	cfFinancingNet    = "筹资活动产生的现金流量净额"
	cfNetCashIncrease = "五、现金及现金等价物净增加额"
)

// BalanceSheetTemplate 资产负债表 (合并)
var BalanceSheetTemplate = Template{
	Sheet: contracts.SheetBalanceSheet,
	Items: []string{
		"流动资产：", "货币资金", "交易性金融资产", "以公允价值计量且其变动计入当期损益的金融资产",
		"衍生金融资产", "应收票据", "应收账款", "应收款项融资", "预付款项", "应收保费", "应收分保账款",
		"应收分保合同准备金", "其他应收款", "买入返售金融资产", "存货", "合同资产", "持有待售资产",
		"一年内到期的非流动资产", "其他流动资产", "流动资产合计", "非流动资产：", "发放贷款和垫款",
		"债权投资", "可供出售金融资产", "其他债权投资", "持有至到期投资", "长期应收款", "长期股权投资",
		"其他权益工具投资", "其他非流动金融资产", "投资性房地产", "固定资产", "在建工程", "生产性生物资产",
		"油气资产", "无形资产", "开发支出", "商誉", "长期待摊费用", "递延所得税资产", "其他非流动资产",
		"非流动资产合计", "资产总计", "流动负债：", "短期借款", "交易性金融负债",
		"以公允价值计量且其变动计入当期损益的金融负债", "衍生金融负债", "应付票据", "应付账款", "预收款项",
		"合同负债", "应付职工薪酬", "应交税费", "其他应付款", "担保业务准备金", "持有待售负债",
		"一年内到期的非流动负债", "其他流动负债", "流动负债合计", "非流动负债：", "长期借款", "应付债券",
		"租赁负债", "长期应付款", "预计负债", "递延收益", "递延所得税负债", "其他非流动负债",
		"非流动负债合计", "负债合计", "所有者权益（或股东权益）：", "实收资本（或股本）", "其他权益工具",
		"其中：优先股", "永续债", "资本公积", "减：库存股", "其他综合收益", "专项储备", "盈余公积",
		"未分配利润", "归属于母公司股东权益合计", "少数股东权益", "所有者权益（或股东权益）合计",
		"负债和所有者权益（或股东权益）总计",
	},
}

// IncomeStatementTemplate 利润表 (合并)
var IncomeStatementTemplate = Template{
	Sheet: contracts.SheetIncomeStatement,
	Items: []string{
		"一、营业总收入", "其中：营业收入", "利息收入", "已赚保费", "手续费及佣金收入",
		"二、营业总成本", "其中：营业成本", "利息支出", "手续费及佣金支出", "提取担保业务准备金",
		"赔付支出净额", "提取保险责任准备金净额", "保单红利支出", "分保费用", "税金及附加", "销售费用",
		"管理费用", "研发费用", "财务费用", "资产减值损失", "信用减值损失", "其他收益", "投资收益",
		"公允价值变动收益", "资产处置收益", "营业利润", "营业外收入", "营业外支出", "利润总额", "所得税费用",
		"净利润", "归属于母公司所有者的净利润", "少数股东损益", "每股收益基本每股收益", "稀释每股收益",
	},
}

// CashFlowTemplate 现金流量表 (合并)
var CashFlowTemplate = Template{
	Sheet: contracts.SheetCashFlow,
	Items: []string{
		"一、经营活动产生的现金流量：", "销售商品、提供劳务收到的现金", "收到的税费返还",
		"收到其他与经营活动有关的现金", "经营活动现金流入小计", "购买商品、接受劳务支付的现金",
		"支付给职工以及为职工支付的现金", "支付的各项税费", "支付其他与经营活动有关的现金",
		"经营活动现金流出小计", "经营活动产生的现金流量净额", "二、投资活动产生的现金流量：",
		"收回投资收到的现金", "取得投资收益收到的现金", "处置固定资产、无形资产和其他长期资产收回的现金净额",
		"收到其他与投资活动有关的现金", "投资活动现金流入小计", "购建固定资产、无形资产和其他长期资产支付的现金",
		"投资支付的现金", "支付其他与投资活动有关的现金", "投资活动现金流出小计",
		"投资活动产生的现金流量净额", "三、筹资活动产生的现金流量：", "吸收投资收到的现金",
		"取得借款收到的现金", "收到其他与筹资活动有关的现金", "筹资活动现金流入小计", "偿还债务支付的现金",
		"分配股利、利润或偿付利息支付的现金", "支付其他与筹资活动有关的现金", "筹资活动现金流出小计",
		"筹资活动产生的现金流量净额", "四、汇率变动对现金及现金等价物的影响", "五、现金及现金等价物净增加额",
	},
}
