package logic

import (
	"fmt"
	"time"

	"github.com/blues/efs/internal/model"
)

// Recommendation 给组织者的运营建议
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// analysisContext 推荐规则的输入快照
type analysisContext struct {
	Event    *model.EventModel
	Summary  FinancialSummary
	Items    ItemAnalysis
	Expenses ExpenseAnalysis
	Now      time.Time
}

// elapsedFraction 活动时间进度，0~1，时长为0时按已结束处理
func (ctx *analysisContext) elapsedFraction() float64 {
	duration := ctx.Event.EndTime.Sub(ctx.Event.StartTime)
	if duration <= 0 {
		return 1
	}
	elapsed := ctx.Now.Sub(ctx.Event.StartTime)
	if elapsed <= 0 {
		return 0
	}
	fraction := float64(elapsed) / float64(duration)
	if fraction > 1 {
		return 1
	}
	return fraction
}

// recommendationRule 单条推荐规则：谓词命中则产出一条建议
// 阈值调整只改这张表，不碰汇总逻辑
type recommendationRule struct {
	Type     string
	Priority string
	Action   string
	When     func(ctx *analysisContext) bool
	Message  func(ctx *analysisContext) string
}

var recommendationRules = []recommendationRule{
	{
		Type:     "funding_risk",
		Priority: "high",
		Action:   "加大宣传或联系大额捐赠人",
		When: func(ctx *analysisContext) bool {
			return ctx.Event.Status == model.EventStatusOngoing &&
				ctx.Summary.TargetAchievement < 50 &&
				ctx.elapsedFraction() > 0.75
		},
		Message: func(ctx *analysisContext) string {
			return fmt.Sprintf("筹款达成率仅 %.1f%%，活动剩余时间不足25%%", ctx.Summary.TargetAchievement)
		},
	},
	{
		Type:     "overspend",
		Priority: "high",
		Action:   "审查支出计划并冻结非必要开支",
		When: func(ctx *analysisContext) bool {
			return ctx.Summary.BudgetVariance < 0
		},
		Message: func(ctx *analysisContext) string {
			return fmt.Sprintf("实际支出已超出预算 %d", -ctx.Summary.BudgetVariance)
		},
	},
	{
		Type:     "negative_balance",
		Priority: "high",
		Action:   "暂停支出入账直到资金到位",
		When: func(ctx *analysisContext) bool {
			return ctx.Summary.AvailableBalance < 0
		},
		Message: func(ctx *analysisContext) string {
			return fmt.Sprintf("支出已超过捐赠收入，缺口 %d", -ctx.Summary.AvailableBalance)
		},
	},
	{
		Type:     "stale_item",
		Priority: "medium",
		Action:   "考虑下调目标或合并到其他物品",
		When: func(ctx *analysisContext) bool {
			return !ctx.Event.Status.IsTerminal() &&
				ctx.Items.PendingCount > 0 &&
				ctx.elapsedFraction() >= 0.75
		},
		Message: func(ctx *analysisContext) string {
			return fmt.Sprintf("仍有 %d 个物品没有收到任何捐赠，活动临近结束", ctx.Items.PendingCount)
		},
	},
	{
		Type:     "target_reached",
		Priority: "low",
		Action:   "向捐赠人发送致谢并公示资金用途",
		When: func(ctx *analysisContext) bool {
			return ctx.Summary.TargetAchievement >= 100
		},
		Message: func(ctx *analysisContext) string {
			return fmt.Sprintf("筹款目标已达成（%.1f%%）", ctx.Summary.TargetAchievement)
		},
	},
}

// evaluateRecommendations 按规则表顺序评估所有规则
func evaluateRecommendations(ctx *analysisContext) []Recommendation {
	result := []Recommendation{}
	for _, rule := range recommendationRules {
		if rule.When(ctx) {
			result = append(result, Recommendation{
				Type:     rule.Type,
				Priority: rule.Priority,
				Message:  rule.Message(ctx),
				Action:   rule.Action,
			})
		}
	}
	return result
}
