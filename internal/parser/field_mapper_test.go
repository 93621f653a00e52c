package parser

import (
	"testing"

	"bigstep/internal/model"
)

func TestFindColumn(t *testing.T) {
	t.Parallel()

	if got := FindColumn([]string{"라이더부담\n고용보험료"}, []string{"라이더부담", "고용보험료"}, nil); got != 0 {
		t.Fatalf("newline header: got %d", got)
	}
	if got := FindColumn([]string{"총 정산금액", "정산금액"}, []string{"정산금액"}, []string{"총"}); got != 1 {
		t.Fatalf("exclude: got %d", got)
	}
	if got := FindColumn([]string{"A", "B"}, []string{"C"}, nil); got != model.NotFound {
		t.Fatalf("missing: got %d", got)
	}
	if got := FindColumn([]string{"A"}, nil, nil); got != model.NotFound {
		t.Fatalf("empty required must not match: got %d", got)
	}
	// 첫 번째로 맞는 열
	if got := FindColumn([]string{"", "기사 고용보험", "기사부담 고용보험"}, []string{"고용보험"}, nil); got != 1 {
		t.Fatalf("leftmost: got %d", got)
	}
}

func TestCombineHeaderRows(t *testing.T) {
	t.Parallel()

	top := []string{"기사명", "기사부담", "", "시간제보험"}
	sub := []string{"", "고용보험", "산재보험", ""}
	got := combineHeaderRows(top, sub)
	want := []string{"기사명", "기사부담고용보험", "기사부담산재보험", "시간제보험"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if CompactText(got[i]) != want[i] {
			t.Fatalf("col %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFieldMapper_RuleOrderBeforeRowOrder(t *testing.T) {
	t.Parallel()

	// 사업주부담 그룹이 왼쪽에 있어도 기사부담 쪽이 선택되어야 한다.
	headers := NewHeaderRows(
		[]string{"기사명", "사업주부담", "", "기사부담", ""},
		[]string{"", "고용보험", "산재보험", "고용보험", "산재보험"},
	)
	m := NewFieldMapper(false)
	schema := DefaultSchemaA()

	rule, _ := schema.FieldRule(model.FieldEmploymentInsurance)
	if got := m.Resolve(rule, headers); got != 3 {
		t.Fatalf("employment = %d, want 3", got)
	}
	rule, _ = schema.FieldRule(model.FieldAccidentInsurance)
	if got := m.Resolve(rule, headers); got != 4 {
		t.Fatalf("accident = %d, want 4", got)
	}
}

func TestFieldMapper_LegacyFallback(t *testing.T) {
	t.Parallel()

	headers := NewHeaderRows([]string{"", "", "", "", "", ""}, nil)
	schema := DefaultSchemaA()

	fields := NewFieldMapper(true).Map(schema, headers)
	if fields.Index(model.FieldWorkerName) != 2 || fields.Index(model.FieldOrderCount) != 5 {
		t.Fatalf("legacy fallback not applied: %+v", fields)
	}
	if fields.Has(model.FieldGrossTotal) {
		t.Fatalf("gross total has no legacy column")
	}

	fields = NewFieldMapper(false).Map(schema, headers)
	if fields.Has(model.FieldWorkerName) {
		t.Fatalf("fallback disabled but name mapped")
	}
	missing := MissingFields(schema, fields)
	if len(missing) != len(schema.Fields) {
		t.Fatalf("missing = %v", missing)
	}
}
