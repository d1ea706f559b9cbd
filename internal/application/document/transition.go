package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Action is a workflow step requested on a document
type Action string

const (
	ActionPreload  Action = "preload"
	ActionObserve  Action = "observe"
	ActionResubmit Action = "resubmit"
	ActionReject   Action = "reject"
	ActionPay      Action = "pay"
	ActionCancel   Action = "cancel"
)

// actionRoles lists the roles allowed to run each action
var actionRoles = map[Action][]identity.Role{
	ActionPreload:  {identity.RoleAdministrator, identity.RoleSociety},
	ActionObserve:  {identity.RoleAdministrator, identity.RoleSociety},
	ActionReject:   {identity.RoleAdministrator, identity.RoleSociety},
	ActionPay:      {identity.RoleAdministrator, identity.RoleSociety},
	ActionResubmit: {identity.RoleAdministrator, identity.RoleProvider, identity.RoleSociety},
	ActionCancel:   {identity.RoleAdministrator, identity.RoleProvider, identity.RoleSociety},
}

// ParseAction validates a path action
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actionRoles[a]; !ok {
		return "", shared.NewDomainError("INVALID_ACTION", "Unknown document action "+s)
	}
	return a, nil
}

// Allows reports whether role may run the action
func (a Action) Allows(role identity.Role) bool {
	for _, r := range actionRoles[a] {
		if r == role {
			return true
		}
	}
	return false
}

// Transition runs a workflow action on a document under its lock
func (s *DocumentService) Transition(ctx context.Context, p identity.Principal, id uuid.UUID, action Action, req TransitionRequest) (resp *DocumentResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "document.transition",
		attribute.String("document_id", id.String()),
		attribute.String("action", string(action)))
	defer func() { telemetry.EndSpan(span, err) }()

	if !action.Allows(p.Role) {
		return nil, shared.ErrForbidden
	}
	if _, err := s.findVisible(ctx, p, id); err != nil {
		return nil, err
	}

	doc, err := s.withDocumentLock(ctx, id, func(d *document.Document) error {
		return apply(d, action, req)
	})
	if err != nil {
		return nil, err
	}

	logger.With(ctx, s.logger).Info("Document transitioned",
		zap.String("document_id", id.String()),
		zap.String("action", string(action)),
		zap.String("status", doc.Status.String()))

	out := ToDocumentResponse(doc)
	return &out, nil
}

func apply(d *document.Document, action Action, req TransitionRequest) error {
	switch action {
	case ActionPreload:
		return d.Preload()
	case ActionObserve:
		return d.Observe(req.Reason)
	case ActionResubmit:
		return d.Resubmit()
	case ActionReject:
		return d.Reject(req.Reason)
	case ActionPay:
		var at time.Time
		if req.PaidAt != nil {
			at = *req.PaidAt
		}
		return d.MarkPaid(at)
	case ActionCancel:
		return d.Cancel()
	}
	return shared.NewDomainError("INVALID_ACTION", "Unknown document action "+string(action))
}

// withDocumentLock reloads the document under its lock, applies mutate and
// saves it with the version check. Events are published after the save.
func (s *DocumentService) withDocumentLock(ctx context.Context, id uuid.UUID, mutate func(*document.Document) error) (*document.Document, error) {
	lk, err := s.locker.Obtain(ctx, "document:"+id.String(), s.config.LockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil {
			logger.With(ctx, s.logger).Warn("Failed to release document lock",
				zap.String("document_id", id.String()), zap.Error(err))
		}
	}()

	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(doc); err != nil {
		return nil, err
	}

	events := doc.GetDomainEvents()
	doc.ClearDomainEvents()
	if err := s.documentRepo.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	s.publish(ctx, events)
	return doc, nil
}
