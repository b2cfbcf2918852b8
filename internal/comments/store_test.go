package comments

import (
	"errors"
	"strings"
	"testing"

	"tuitionmap/internal/models"
)

func strptr(s string) *string { return &s }
func uptr(u uint) *uint       { return &u }

func TestFetchCommentsFallsBackOnFilteredFailure(t *testing.T) {
	basic := []models.Comment{{ID: 1, Content: "from basic"}}

	filteredCalls, basicCalls := 0, 0
	s := &Store{
		fetchFiltered: func(centreID string, limit, offset int, level, subject string) ([]models.Comment, error) {
			filteredCalls++
			return nil, errors.New("function get_centre_comments_filtered does not exist")
		},
		fetchBasic: func(centreID string, limit, offset int) ([]models.Comment, error) {
			basicCalls++
			return basic, nil
		},
	}

	rows, err := s.FetchComments("bright-minds-learning-centre", 20, 0, "P1", "Mathematics")
	if err != nil {
		t.Fatalf("fallback should hide the filtered-path error, got %v", err)
	}
	if filteredCalls != 1 || basicCalls != 1 {
		t.Errorf("expected 1 filtered + 1 basic call, got %d + %d", filteredCalls, basicCalls)
	}
	if len(rows) != 1 || rows[0].Content != "from basic" {
		t.Errorf("expected basic rows, got %+v", rows)
	}
}

func TestFetchCommentsFilteredPathPreferred(t *testing.T) {
	s := &Store{
		fetchFiltered: func(centreID string, limit, offset int, level, subject string) ([]models.Comment, error) {
			if level != "P1" || subject != "Mathematics" {
				t.Errorf("filter not forwarded: %s/%s", level, subject)
			}
			return []models.Comment{{ID: 2, Content: "filtered"}}, nil
		},
		fetchBasic: func(centreID string, limit, offset int) ([]models.Comment, error) {
			t.Error("basic path should not run when the filtered path succeeds")
			return nil, nil
		},
	}

	rows, err := s.FetchComments("c", 20, 0, "P1", "Mathematics")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Content != "filtered" {
		t.Errorf("expected filtered rows, got %+v", rows)
	}
}

func TestFetchCommentsNoFilterUsesBasic(t *testing.T) {
	s := &Store{
		fetchFiltered: func(string, int, int, string, string) ([]models.Comment, error) {
			t.Error("filtered path should not run without a complete filter")
			return nil, nil
		},
		fetchBasic: func(string, int, int) ([]models.Comment, error) {
			return nil, nil
		},
	}

	// Half a filter is no filter.
	if _, err := s.FetchComments("c", 20, 0, "P1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FetchComments("c", 20, 0, "", ""); err != nil {
		t.Fatal(err)
	}
}

func TestReplyContext(t *testing.T) {
	if _, _, err := replyContext(nil); !errors.Is(err, ErrParentNotFound) {
		t.Errorf("nil parent: got %v, want ErrParentNotFound", err)
	}

	nested := &models.Comment{ID: 5, ParentID: uptr(1)}
	if _, _, err := replyContext(nested); !errors.Is(err, ErrReplyToReply) {
		t.Errorf("nested parent: got %v, want ErrReplyToReply", err)
	}

	parent := &models.Comment{ID: 3, Level: strptr("S2"), Subject: strptr("Science")}
	level, subject, err := replyContext(parent)
	if err != nil {
		t.Fatal(err)
	}
	if level == nil || *level != "S2" || subject == nil || *subject != "Science" {
		t.Errorf("inherited context wrong: %v/%v", level, subject)
	}

	// General parent: reply stays general.
	general := &models.Comment{ID: 4}
	level, subject, err = replyContext(general)
	if err != nil {
		t.Fatal(err)
	}
	if level != nil || subject != nil {
		t.Errorf("general parent should yield nil context, got %v/%v", level, subject)
	}
}

func TestNormalizeScope(t *testing.T) {
	// Level and subject are stored both-or-neither; a half pair could never
	// match the filtered fetch, so it collapses to the general scope.
	cases := []struct {
		name           string
		level, subject *string
		wantGeneral    bool
	}{
		{"complete pair", strptr("P3"), strptr("Science"), false},
		{"level only", strptr("P3"), nil, true},
		{"subject only", nil, strptr("Science"), true},
		{"empty level", strptr(""), strptr("Science"), true},
		{"empty subject", strptr("P3"), strptr(""), true},
		{"general", nil, nil, true},
	}
	for _, tc := range cases {
		level, subject := normalizeScope(tc.level, tc.subject)
		if tc.wantGeneral {
			if level != nil || subject != nil {
				t.Errorf("%s: expected nil/nil, got %v/%v", tc.name, level, subject)
			}
		} else if level == nil || subject == nil || *level != "P3" || *subject != "Science" {
			t.Errorf("%s: pair should survive, got %v/%v", tc.name, level, subject)
		}
	}
}

func TestCreateRejectsInvalidInputBeforeAnyWrite(t *testing.T) {
	// Zero-value store: any DB touch would panic, proving validation runs first.
	s := &Store{}

	_, err := s.Create("c", "amy", "visit www.spam.com for notes", nil, nil, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "links") {
		t.Errorf("expected link violation in message, got %q", err)
	}

	_, err = s.Create("c", "", "", nil, nil, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	// All violations joined into a single message.
	if !strings.Contains(err.Error(), "comment cannot be empty") ||
		!strings.Contains(err.Error(), "name cannot be empty") {
		t.Errorf("expected joined violations, got %q", err)
	}

	long := strings.Repeat("a", 501)
	if _, err := s.Create("c", "amy", long, nil, nil, nil); err == nil {
		t.Error("expected length violation")
	}
}

func TestCreateStripsMarkupBeforeValidating(t *testing.T) {
	// Markup is stripped before the checks run, so markup-only input is
	// rejected as empty, not accepted as 40 chars of tags.
	s := &Store{}
	_, err := s.Create("c", "amy", "<b></b><script>alert(1)</script><i></i>", nil, nil, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty-after-sanitize violation, got %q", err)
	}
}
