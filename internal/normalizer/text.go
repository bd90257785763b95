package normalizer

import (
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

// entityKeywords maps domain nouns (English and Korean) to canonical
// entity identifiers. First match in declaration order wins, so entries
// are ordered most-specific first.
var entityKeywords = []struct {
	keyword string
	entity  string
}{
	{"customer", "customer"},
	{"고객", "customer"},
	{"order", "order"},
	{"주문", "order"},
	{"product", "product"},
	{"상품", "product"},
	{"제품", "product"},
	{"employee", "employee"},
	{"직원", "employee"},
	{"사원", "employee"},
	{"user", "user"},
	{"사용자", "user"},
	{"회원", "user"},
	{"department", "department"},
	{"부서", "department"},
	{"board", "board"},
	{"게시판", "board"},
	{"notice", "notice"},
	{"공지", "notice"},
	{"code", "code"},
	{"코드", "code"},
}

// kindKeywords maps kind-indicating phrases to a screen kind.
var kindKeywords = []struct {
	keyword string
	kind    models.ScreenKind
}{
	{"popup", models.KindPopup},
	{"팝업", models.KindPopup},
	{"detail", models.KindDetail},
	{"상세", models.KindDetail},
	{"crud", models.KindCrud},
	{"등록", models.KindCrud},
	{"관리", models.KindCrud},
	{"list", models.KindList},
	{"목록", models.KindList},
	{"조회", models.KindList},
	{"grid", models.KindList},
}

// fromText is the heuristic path: it must always produce a syntactically
// valid Intent for non-empty input. It never invents a field list; the
// model proposes structure and the validator checks the result.
func fromText(in Input, kind models.ScreenKind) (*models.Intent, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, &NormalizationError{Reason: "text input", Err: ErrEmptyText}
	}
	lower := strings.ToLower(desc)

	entity := "screen"
	for _, e := range entityKeywords {
		if strings.Contains(lower, e.keyword) {
			entity = e.entity
			break
		}
	}

	// An explicit kind from the caller wins over keyword matching.
	matchedKind := kind
	if in.Kind == "" {
		for _, k := range kindKeywords {
			if strings.Contains(lower, k.keyword) {
				matchedKind = k.kind
				break
			}
		}
	}

	actions := in.Actions
	if len(actions) == 0 {
		actions = defaultActions(matchedKind)
	}

	return &models.Intent{
		Name:    intentName(entity, matchedKind),
		Product: in.Product,
		Kind:    matchedKind,
		Actions: actions,
	}, nil
}
