package rbac

import (
	"strings"
	"testing"

	"admind/internal/entity"
	"admind/internal/errs"
)

func TestValidateRule(t *testing.T) {
	ok := &entity.DbDataRule{Model: "sys_user", Column: "dept_id", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorAnd, Value: "3"}
	if err := ValidateRule(ok); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}

	badModel := &entity.DbDataRule{Model: "sys_ghost", Column: "id", Expression: entity.RuleExprEq}
	if err := ValidateRule(badModel); errs.KindOf(err) != errs.KindBadInput {
		t.Fatalf("unknown model should be bad input, got %v", err)
	}

	badColumn := &entity.DbDataRule{Model: "sys_user", Column: "password", Expression: entity.RuleExprEq}
	if err := ValidateRule(badColumn); errs.KindOf(err) != errs.KindBadInput {
		t.Fatalf("unregistered column should be bad input, got %v", err)
	}

	badExpr := &entity.DbDataRule{Model: "sys_user", Column: "id", Expression: 42}
	if err := ValidateRule(badExpr); errs.KindOf(err) != errs.KindBadInput {
		t.Fatalf("out of range expression should be bad input, got %v", err)
	}
}

func TestBuildConditionSingleRule(t *testing.T) {
	rules := []entity.DbDataRule{
		{Model: "sys_user", Column: "dept_id", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorAnd, Value: "3"},
	}
	cond, err := BuildCondition("sys_user", rules)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cond.Query != "(dept_id = ?)" {
		t.Fatalf("query = %q", cond.Query)
	}
	if len(cond.Args) != 1 || cond.Args[0] != int64(3) {
		t.Fatalf("args = %v, want coerced int64 3", cond.Args)
	}
}

func TestBuildConditionMixedCombinators(t *testing.T) {
	rules := []entity.DbDataRule{
		{Model: "sys_user", Column: "status", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorAnd, Value: "1"},
		{Model: "sys_user", Column: "dept_id", Expression: entity.RuleExprGe, Operator: entity.RuleOperatorAnd, Value: "10"},
		{Model: "sys_user", Column: "username", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorOr, Value: "zhang"},
		{Model: "sys_user", Column: "username", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorOr, Value: "li"},
	}
	cond, err := BuildCondition("sys_user", rules)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "(status = ? AND dept_id >= ?) AND (username = ? OR username = ?)"
	if cond.Query != want {
		t.Fatalf("query = %q, want %q", cond.Query, want)
	}
	if len(cond.Args) != 4 {
		t.Fatalf("args = %v", cond.Args)
	}
	if cond.Args[2] != "zhang" || cond.Args[3] != "li" {
		t.Fatalf("or args out of order: %v", cond.Args)
	}
}

func TestBuildConditionInExpressions(t *testing.T) {
	rules := []entity.DbDataRule{
		{Model: "sys_user", Column: "dept_id", Expression: entity.RuleExprIn, Operator: entity.RuleOperatorAnd, Value: "1, 2 ,3"},
		{Model: "sys_user", Column: "username", Expression: entity.RuleExprNotIn, Operator: entity.RuleOperatorAnd, Value: "root,guest"},
	}
	cond, err := BuildCondition("sys_user", rules)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(cond.Query, "dept_id IN (?,?,?)") {
		t.Fatalf("query = %q", cond.Query)
	}
	if !strings.Contains(cond.Query, "username NOT IN (?,?)") {
		t.Fatalf("query = %q", cond.Query)
	}
	if len(cond.Args) != 5 {
		t.Fatalf("args = %v", cond.Args)
	}
	if cond.Args[0] != int64(1) || cond.Args[3] != "root" {
		t.Fatalf("args = %v", cond.Args)
	}
}

func TestBuildConditionSkipsOtherModels(t *testing.T) {
	rules := []entity.DbDataRule{
		{Model: "sys_login_log", Column: "ip", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorAnd, Value: "10.0.0.1"},
	}
	cond, err := BuildCondition("sys_user", rules)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !cond.Empty() {
		t.Fatalf("rules for other models must not leak, got %q", cond.Query)
	}
}

func TestBuildConditionBadValue(t *testing.T) {
	rules := []entity.DbDataRule{
		{Model: "sys_user", Column: "dept_id", Expression: entity.RuleExprEq, Operator: entity.RuleOperatorAnd, Value: "abc"},
	}
	if _, err := BuildCondition("sys_user", rules); errs.KindOf(err) != errs.KindBadInput {
		t.Fatalf("non-numeric value on int column should fail, got %v", err)
	}
}
