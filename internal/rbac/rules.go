package rbac

import (
	"fmt"
	"strconv"
	"strings"

	"admind/internal/entity"
	"admind/internal/errs"
)

// ColumnKind 声明规则可比较的列类型,影响取值的解析方式。
type ColumnKind int

const (
	ColumnString ColumnKind = iota
	ColumnInt
	ColumnBool
)

// ruleColumns 登记每个可挂规则的模型及其可用列。
// 保存规则时校验模型和列,求值时按列类型转换取值。
var ruleColumns = map[string]map[string]ColumnKind{
	"sys_user": {
		"id":       ColumnInt,
		"username": ColumnString,
		"nickname": ColumnString,
		"email":    ColumnString,
		"phone":    ColumnString,
		"status":   ColumnInt,
		"dept_id":  ColumnInt,
		"is_staff": ColumnBool,
	},
	"sys_login_log": {
		"id":       ColumnInt,
		"username": ColumnString,
		"ip":       ColumnString,
		"status":   ColumnInt,
		"code":     ColumnInt,
	},
	"sys_file": {
		"id":           ColumnInt,
		"name":         ColumnString,
		"content_type": ColumnString,
		"uploader_id":  ColumnInt,
	},
	"sys_notice": {
		"id":     ColumnInt,
		"title":  ColumnString,
		"type":   ColumnInt,
		"status": ColumnInt,
	},
}

// ValidateRule 在保存前校验规则指向的模型与列是否登记过。
func ValidateRule(rule *entity.DbDataRule) error {
	cols, ok := ruleColumns[rule.Model]
	if !ok {
		return errs.New(errs.KindBadInput, fmt.Sprintf("未登记的规则模型: %s", rule.Model))
	}
	if _, ok := cols[rule.Column]; !ok {
		return errs.New(errs.KindBadInput, fmt.Sprintf("模型 %s 没有列 %s", rule.Model, rule.Column))
	}
	if rule.Expression < entity.RuleExprEq || rule.Expression > entity.RuleExprNotIn {
		return errs.New(errs.KindBadInput, "非法的规则表达式")
	}
	if rule.Operator != entity.RuleOperatorAnd && rule.Operator != entity.RuleOperatorOr {
		return errs.New(errs.KindBadInput, "非法的规则组合方式")
	}
	return nil
}

// Condition 是规则求值结果,仓储把它拼到 WHERE 上。
type Condition struct {
	Query string
	Args  []interface{}
}

// Empty 表示没有规则落在该模型上。
func (c Condition) Empty() bool { return c.Query == "" }

var exprOps = map[int]string{
	entity.RuleExprEq: "=",
	entity.RuleExprNe: "<>",
	entity.RuleExprGt: ">",
	entity.RuleExprGe: ">=",
	entity.RuleExprLt: "<",
	entity.RuleExprLe: "<=",
}

// BuildCondition 把若干条同模型规则折成一个 SQL 片段。
// 同组合方式的规则用该组合方式连接,AND 组与 OR 组之间再用 AND 连接。
func BuildCondition(model string, rules []entity.DbDataRule) (Condition, error) {
	var andParts, orParts []string
	var andArgs, orArgs []interface{}

	for _, rule := range rules {
		if rule.Model != model {
			continue
		}
		frag, args, err := ruleFragment(rule)
		if err != nil {
			return Condition{}, err
		}
		if rule.Operator == entity.RuleOperatorOr {
			orParts = append(orParts, frag)
			orArgs = append(orArgs, args...)
		} else {
			andParts = append(andParts, frag)
			andArgs = append(andArgs, args...)
		}
	}

	var groups []string
	var args []interface{}
	if len(andParts) > 0 {
		groups = append(groups, "("+strings.Join(andParts, " AND ")+")")
		args = append(args, andArgs...)
	}
	if len(orParts) > 0 {
		groups = append(groups, "("+strings.Join(orParts, " OR ")+")")
		args = append(args, orArgs...)
	}
	if len(groups) == 0 {
		return Condition{}, nil
	}
	return Condition{Query: strings.Join(groups, " AND "), Args: args}, nil
}

func ruleFragment(rule entity.DbDataRule) (string, []interface{}, error) {
	kind := ruleColumns[rule.Model][rule.Column]

	switch rule.Expression {
	case entity.RuleExprIn, entity.RuleExprNotIn:
		tokens := strings.Split(rule.Value, ",")
		values := make([]interface{}, 0, len(tokens))
		for _, token := range tokens {
			v, err := coerceValue(kind, strings.TrimSpace(token))
			if err != nil {
				return "", nil, err
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return "", nil, errs.New(errs.KindBadInput, "集合规则取值为空")
		}
		op := "IN"
		if rule.Expression == entity.RuleExprNotIn {
			op = "NOT IN"
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
		return fmt.Sprintf("%s %s (%s)", rule.Column, op, placeholders), values, nil
	default:
		op, ok := exprOps[rule.Expression]
		if !ok {
			return "", nil, errs.New(errs.KindBadInput, "非法的规则表达式")
		}
		v, err := coerceValue(kind, strings.TrimSpace(rule.Value))
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s ?", rule.Column, op), []interface{}{v}, nil
	}
}

func coerceValue(kind ColumnKind, raw string) (interface{}, error) {
	switch kind {
	case ColumnInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errs.New(errs.KindBadInput, fmt.Sprintf("规则取值 %q 不是整数", raw))
		}
		return n, nil
	case ColumnBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errs.New(errs.KindBadInput, fmt.Sprintf("规则取值 %q 不是布尔值", raw))
		}
		return b, nil
	default:
		return raw, nil
	}
}
