package comments

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"tuitionmap/internal/db"
	"tuitionmap/internal/models"
	"tuitionmap/internal/sanitize"
	"tuitionmap/internal/utils"

	"gorm.io/gorm"
)

var (
	ErrParentNotFound = errors.New("parent comment not found")
	ErrReplyToReply   = errors.New("cannot reply to a reply")
)

type fetchFilteredFunc func(centreID string, limit, offset int, level, subject string) ([]models.Comment, error)
type fetchBasicFunc func(centreID string, limit, offset int) ([]models.Comment, error)

// Store is the data-access layer for comments. The regular handle serves
// visitors; the elevated handle serves the moderation surface and bypasses
// the hidden filter. No authorization happens here — callers are gated at
// the HTTP layer.
type Store struct {
	db      *gorm.DB
	adminDB *gorm.DB

	// Query paths as fields so the fallback chain is testable.
	fetchFiltered fetchFilteredFunc
	fetchBasic    fetchBasicFunc
}

func NewStore() *Store {
	s := &Store{
		db:      db.DB,
		adminDB: db.AdminDB,
	}
	s.fetchFiltered = s.queryFiltered
	s.fetchBasic = s.queryBasic
	return s
}

// FetchComments returns one page of top-level comments for a centre, newest
// first, hidden excluded, reply counts filled. With a (level, subject) filter
// it first tries the context-aware query; any failure there falls back to the
// basic query. The fallback is a compatibility shim for backends without the
// context columns, so the error is logged locally and not surfaced — which
// also means a transient outage on the filtered path degrades silently to
// unfiltered results.
func (s *Store) FetchComments(centreID string, limit, offset int, level, subject string) ([]models.Comment, error) {
	if level != "" && subject != "" {
		rows, err := s.fetchFiltered(centreID, limit, offset, level, subject)
		if err == nil {
			return rows, nil
		}
		log.Printf("Filtered comment fetch failed, falling back to basic (centre=%s): %v", centreID, err)
	}
	return s.fetchBasic(centreID, limit, offset)
}

// queryFiltered is the richer path: server-side context filter with reply
// counts computed inline, one round trip.
func (s *Store) queryFiltered(centreID string, limit, offset int, level, subject string) ([]models.Comment, error) {
	type row struct {
		models.Comment
		Replies int
	}
	var rows []row
	err := s.db.Raw(`
		SELECT c.*, (
			SELECT COUNT(*) FROM comments r
			WHERE r.parent_id = c.id AND NOT r.hidden
		) AS replies
		FROM comments c
		WHERE c.centre_id = ? AND c.parent_id IS NULL AND NOT c.hidden
		  AND c.level = ? AND c.subject = ?
		ORDER BY c.created_at DESC
		LIMIT ? OFFSET ?`,
		centreID, level, subject, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Comment, len(rows))
	for i, r := range rows {
		out[i] = r.Comment
		out[i].ReplyCount = r.Replies
	}
	return out, nil
}

// queryBasic is the plain path: unfiltered top-level page plus a second
// grouped query for the reply counts.
func (s *Store) queryBasic(centreID string, limit, offset int) ([]models.Comment, error) {
	var rows []models.Comment
	err := s.db.
		Where("centre_id = ? AND parent_id IS NULL AND NOT hidden", centreID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if err := s.fillReplyCounts(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// fillReplyCounts batch-fills ReplyCount for a page of top-level comments.
func (s *Store) fillReplyCounts(rows []models.Comment) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]uint, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}

	type countResult struct {
		ParentID uint
		Count    int
	}
	var results []countResult
	err := s.db.Model(&models.Comment{}).
		Select("parent_id, COUNT(*) as count").
		Where("parent_id IN ? AND NOT hidden", ids).
		Group("parent_id").
		Scan(&results).Error
	if err != nil {
		return err
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.ParentID] = r.Count
	}
	for i := range rows {
		rows[i].ReplyCount = countMap[rows[i].ID]
	}
	return nil
}

// FetchReplies returns one page of a comment's replies in posting order.
func (s *Store) FetchReplies(parentID uint, limit, offset int) ([]models.Comment, error) {
	var rows []models.Comment
	err := s.db.
		Where("parent_id = ? AND NOT hidden", parentID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplyCount counts the visible replies under a top-level comment.
func (s *Store) ReplyCount(parentID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Comment{}).
		Where("parent_id = ? AND NOT hidden", parentID).
		Count(&count).Error
	return count, err
}

// replyContext enforces the reply rules: the parent must exist and be
// top-level (nesting depth is exactly 1), and a reply always inherits the
// parent's level/subject regardless of what the caller supplied.
func replyContext(parent *models.Comment) (level, subject *string, err error) {
	if parent == nil {
		return nil, nil, ErrParentNotFound
	}
	if parent.ParentID != nil {
		return nil, nil, ErrReplyToReply
	}
	return parent.Level, parent.Subject, nil
}

// normalizeScope keeps the stored context all-or-nothing: level and subject
// are either both set or both null. A half pair (or an empty-string value)
// could never match the filtered fetch, so it collapses to the general scope.
func normalizeScope(level, subject *string) (*string, *string) {
	if level != nil && *level == "" {
		level = nil
	}
	if subject != nil && *subject == "" {
		subject = nil
	}
	if level == nil || subject == nil {
		return nil, nil
	}
	return level, subject
}

// Create sanitizes, validates and stores a comment. Every failure comes back
// as an error with no row written; validation problems are joined into one
// message so the caller can show them all.
func (s *Store) Create(centreID, username, text string, parentID *uint, level, subject *string) (*models.Comment, error) {
	text = sanitize.CleanText(text)
	username = sanitize.CleanText(username)

	if reasons := sanitize.ValidateComment(text, username); len(reasons) > 0 {
		return nil, errors.New(strings.Join(reasons, "; "))
	}

	if parentID != nil {
		var parent models.Comment
		err := s.db.First(&parent, *parentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("look up parent comment: %w", err)
		}
		// Inheritance, not caller choice.
		level, subject, err = replyContext(&parent)
		if err != nil {
			return nil, err
		}
	}

	level, subject = normalizeScope(level, subject)

	comment := models.Comment{
		Cid:      utils.ShortID(8),
		CentreID: centreID,
		Username: username,
		Content:  text,
		ParentID: parentID,
		Level:    level,
		Subject:  subject,
		Hidden:   false,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}
	return &comment, nil
}

// AdminFetchAll lists every comment for a centre, hidden included, on the
// elevated handle.
func (s *Store) AdminFetchAll(centreID string, limit, offset int) ([]models.Comment, error) {
	var rows []models.Comment
	q := s.adminDB.Order("created_at DESC").Limit(limit).Offset(offset)
	if centreID != "" {
		q = q.Where("centre_id = ?", centreID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AdminToggleHidden flips the soft-delete flag on one comment.
func (s *Store) AdminToggleHidden(cid string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.adminDB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		return nil, err
	}
	comment.Hidden = !comment.Hidden
	if err := s.adminDB.Model(&comment).Update("hidden", comment.Hidden).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// AdminDelete hard-deletes a comment and its replies.
func (s *Store) AdminDelete(cid string) error {
	var comment models.Comment
	if err := s.adminDB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		return err
	}
	if err := s.adminDB.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return s.adminDB.Delete(&comment).Error
}
