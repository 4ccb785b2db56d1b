package telemetry

import (
	"github.com/argus-network/argus/database"
	"github.com/argus-network/argus/types"
)

// DbSink keeps a bounded in-memory window and additionally persists every
// classified error through the database layer.
type DbSink struct {
	*RingSink
	db database.Database
}

func NewDbSink(capacity int, db database.Database) *DbSink {
	return &DbSink{
		RingSink: NewRingSink(capacity),
		db:       db,
	}
}

func (s *DbSink) Record(ce *types.ClassifiedError, raw error) {
	if ce == nil {
		return
	}

	s.RingSink.Record(ce, raw)
	s.db.SaveError(ce)
}
