package auditlog

import (
	"go.uber.org/zap"

	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

// AuditRepository is the persistence capability the sink writes through.
type AuditRepository interface {
	PersistAuditEntry(entry models.AuditEntry) error
}

type Auditlog struct {
	r   AuditRepository
	log *zap.Logger
}

// Auditable lets domain models describe their own audit view.
type Auditable interface {
	CreateLogView() models.AuditEntry
}

// Log records a mutation against the audit trail. Failures are logged and
// swallowed: the audit sink never fails the request that triggered it.
func (a *Auditlog) Log(actorID int, action string, details map[string]interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.ActorID = actorID
	entry.Action = action
	entry.Details = details

	if err := a.r.PersistAuditEntry(entry); err != nil {
		a.log.Warn("unable to create audit entry",
			zap.String("action", action),
			zap.Int("resource_id", entry.ResourceID),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("created audit entry",
		zap.String("action", action),
		zap.String("resource_type", entry.ResourceType),
		zap.Int("resource_id", entry.ResourceID),
	)
}

func NewAuditLog(repository AuditRepository, logger *zap.Logger) *Auditlog {
	return &Auditlog{r: repository, log: logger}
}
