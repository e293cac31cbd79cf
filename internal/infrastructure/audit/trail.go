package audit

import (
	"context"

	"go.uber.org/multierr"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
)

var _ service.AuditSink = (*Trail)(nil)

// Trail signs each event once and hands it to every sink. A failing sink does not keep the
// event from the others.
type Trail struct {
	signer *Signer
	sinks  []service.AuditSink
}

// NewTrail combines sinks; nil sinks are skipped and a nil signer leaves events unsigned.
func NewTrail(signer *Signer, sinks ...service.AuditSink) *Trail {
	t := &Trail{signer: signer}
	for _, s := range sinks {
		if s != nil {
			t.sinks = append(t.sinks, s)
		}
	}
	return t
}

// Empty reports whether the trail has no sinks.
func (t *Trail) Empty() bool {
	return len(t.sinks) == 0
}

func (t *Trail) Record(ctx context.Context, event models.AuditEvent) error {
	if t.signer != nil {
		sig, err := t.signer.Sign(event)
		if err != nil {
			return err
		}
		event.Signature = sig
	}
	var errs error
	for _, s := range t.sinks {
		errs = multierr.Append(errs, s.Record(ctx, event))
	}
	return errs
}
