package breaks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recon-manager/core/metrics"
	"recon-manager/feature/reconciliation/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRecorder receives workflow events for the system activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, eventType, details string)
}

// Service owns all reads and mutations of persisted breaks. Status is
// never mutated outside Transition.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	activity ActivityRecorder
}

// NewService creates the break workflow service. activity may be nil.
func NewService(db *gorm.DB, logger *zap.Logger, activity ActivityRecorder) *Service {
	return &Service{db: db, logger: logger, activity: activity}
}

// EntriesFor resolves the access-control entries granted to the given
// LDAP groups for a definition.
func (s *Service) EntriesFor(ctx context.Context, definitionID uint64, groups []string) ([]AccessControlEntry, error) {
	if len(groups) == 0 {
		return []AccessControlEntry{}, nil
	}
	var entries []AccessControlEntry
	err := s.db.WithContext(ctx).
		Where("definition_id = ? AND ldap_group_dn IN ?", definitionID, groups).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("loading access entries: %w", err)
	}
	return entries, nil
}

// BreakDetail is a break together with the caller's permitted actions.
type BreakDetail struct {
	Break           *BreakItem    `json:"break"`
	AllowedStatuses []BreakStatus `json:"allowedStatuses"`
	CanComment      bool          `json:"canComment"`
}

// Get loads a break with its classifications, audit trail and comments,
// gated by the caller's view scope.
func (s *Service) Get(ctx context.Context, id uint64, actor Actor) (*BreakDetail, error) {
	var b BreakItem
	err := s.db.WithContext(ctx).
		Preload("ClassificationValues").
		Preload("Audits", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	def, entries, err := s.definitionAndEntries(ctx, s.db, b.DefinitionID, actor)
	if err != nil {
		return nil, err
	}
	if !CanView(&b, entries) {
		return nil, fmt.Errorf("%w: no scoped entries for break %d", ErrAccessDenied, id)
	}

	return &BreakDetail{
		Break:           &b,
		AllowedStatuses: AllowedStatuses(&b, def, entries),
		CanComment:      CanComment(&b, entries),
	}, nil
}

// AddComment records a free-form comment. Maker or checker scope is
// required; viewers cannot comment.
func (s *Service) AddComment(ctx context.Context, id uint64, actor Actor, comment string) (*BreakComment, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}

	var b BreakItem
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entries, err := s.EntriesFor(ctx, b.DefinitionID, actor.Groups)
	if err != nil {
		return nil, err
	}
	if !CanComment(&b, entries) {
		return nil, fmt.Errorf("%w: commenting requires maker or checker scope", ErrAccessDenied)
	}

	created := BreakComment{
		BreakItemID: b.ID,
		ActorDn:     actor.Dn,
		Comment:     comment,
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}

	s.record(ctx, "BREAK_COMMENT", fmt.Sprintf("comment added to break %d by %s", b.ID, actor.Dn))
	return &created, nil
}

// Transition applies a status change to one break. The allowed status
// set is recomputed inside the same transaction that mutates the row,
// under a row lock, so concurrent conflicting transitions cannot both
// succeed. Exactly one audit record is appended per applied transition;
// nothing is mutated on rejection.
func (s *Service) Transition(ctx context.Context, id uint64, actor Actor, target BreakStatus, comment string) (*BreakItem, error) {
	comment = strings.TrimSpace(comment)
	if (target == StatusClosed || target == StatusRejected) && comment == "" {
		return nil, ErrCommentRequired
	}

	var updated *BreakItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b BreakItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		def, entries, err := s.definitionAndEntries(ctx, tx, b.DefinitionID, actor)
		if err != nil {
			return err
		}

		if err := AssertTransitionAllowed(&b, def, entries, target); err != nil {
			return err
		}
		if (target == StatusClosed || target == StatusRejected) &&
			b.SubmittedByDn != nil && *b.SubmittedByDn == actor.Dn {
			return ErrSelfApproval
		}

		now := time.Now()
		prev := b.Status
		b.Status = target

		switch target {
		case StatusPendingApproval:
			group := submittingGroup(&b, entries)
			b.SubmittedByDn = &actor.Dn
			b.SubmittedByGroup = &group
			b.SubmittedAt = &now
		case StatusOpen:
			b.SubmittedByDn = nil
			b.SubmittedByGroup = nil
			b.SubmittedAt = nil
		}
		b.UpdatedAt = now

		if err := tx.Omit(clause.Associations).Save(&b).Error; err != nil {
			return err
		}

		audit := BreakWorkflowAudit{
			BreakItemID:    b.ID,
			PreviousStatus: prev,
			NewStatus:      target,
			ActorDn:        actor.Dn,
			ActorRole:      effectiveRole(&b, def, entries),
			Comment:        comment,
			CorrelationID:  uuid.NewString(),
			CreatedAt:      now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		updated = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BreakTransitions.WithLabelValues(string(target)).Inc()
	s.logger.Info("Break transitioned",
		zap.Uint64("break_id", updated.ID),
		zap.String("status", string(target)),
		zap.String("actor", actor.Dn),
	)
	s.record(ctx, "BREAK_STATUS_CHANGE", fmt.Sprintf("break %d -> %s by %s", updated.ID, target, actor.Dn))

	return updated, nil
}

// BulkFailure reports one break a bulk update could not apply to.
type BulkFailure struct {
	BreakID uint64 `json:"breakId"`
	Reason  string `json:"reason"`
}

// BulkResult reports the outcome of a bulk update. Partial success is
// expected; failures never roll back the breaks that did apply.
type BulkResult struct {
	Updated  []uint64      `json:"updated"`
	Failures []BulkFailure `json:"failures"`
}

// BulkUpdate applies a status change and/or comment across many breaks,
// each under its own transaction, collecting per-break failures.
func (s *Service) BulkUpdate(ctx context.Context, ids []uint64, actor Actor, target BreakStatus, comment string) *BulkResult {
	result := &BulkResult{Updated: []uint64{}, Failures: []BulkFailure{}}
	for _, id := range ids {
		var err error
		if target == "" {
			_, err = s.AddComment(ctx, id, actor, comment)
		} else {
			_, err = s.Transition(ctx, id, actor, target, comment)
		}
		if err != nil {
			result.Failures = append(result.Failures, BulkFailure{BreakID: id, Reason: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, id)
	}

	s.record(ctx, "BREAK_BULK_UPDATE",
		fmt.Sprintf("bulk update by %s: %d applied, %d failed", actor.Dn, len(result.Updated), len(result.Failures)))
	return result
}

// ApprovalQueue lists the PENDING_APPROVAL breaks of a definition the
// actor can act on as an effective checker.
func (s *Service) ApprovalQueue(ctx context.Context, definitionID uint64, actor Actor) ([]BreakItem, error) {
	entries, err := s.EntriesFor(ctx, definitionID, actor.Groups)
	if err != nil {
		return nil, err
	}

	var pending []BreakItem
	err = s.db.WithContext(ctx).
		Where("definition_id = ? AND status = ?", definitionID, StatusPendingApproval).
		Order("submitted_at ASC").
		Find(&pending).Error
	if err != nil {
		return nil, err
	}

	queue := make([]BreakItem, 0, len(pending))
	for _, b := range pending {
		scoped := ScopedEntries(&b, entries)
		maker := hasRole(scoped, RoleMaker)
		if CheckerMaskedByMaker(maker, hasRole(scoped, RoleChecker)) {
			queue = append(queue, b)
		}
	}
	return queue, nil
}

// definitionAndEntries loads the break's definition and the actor's
// entries using the given handle, so Transition can resolve both inside
// its transaction.
func (s *Service) definitionAndEntries(ctx context.Context, db *gorm.DB, definitionID uint64, actor Actor) (*models.Definition, []AccessControlEntry, error) {
	var def models.Definition
	if err := db.WithContext(ctx).First(&def, definitionID).Error; err != nil {
		return nil, nil, fmt.Errorf("loading definition %d: %w", definitionID, err)
	}

	var entries []AccessControlEntry
	if len(actor.Groups) > 0 {
		err := db.WithContext(ctx).
			Where("definition_id = ? AND ldap_group_dn IN ?", definitionID, actor.Groups).
			Find(&entries).Error
		if err != nil {
			return nil, nil, fmt.Errorf("loading access entries: %w", err)
		}
	}
	return &def, entries, nil
}

// submittingGroup picks the maker group recorded on a submission.
func submittingGroup(b *BreakItem, entries []AccessControlEntry) string {
	for _, e := range ScopedEntries(b, entries) {
		if e.Role == RoleMaker {
			return e.LdapGroupDn
		}
	}
	return ""
}

func (s *Service) record(ctx context.Context, eventType, details string) {
	if s.activity != nil {
		s.activity.Record(ctx, eventType, details)
	}
}
