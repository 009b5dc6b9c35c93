package syslogrepo

import (
	"context"
	"strings"

	"go.uber.org/zap/zapcore"
)

// dbCore is a zapcore.Core that appends every enabled entry as a system_logs
// row. Tee it next to the console core so persisted history never replaces
// terminal output.
type dbCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	repo Repo
}

var _ zapcore.Core = (*dbCore)(nil)

// NewCore builds the persisting core. Entries below enab are skipped.
func NewCore(repo Repo, enab zapcore.LevelEnabler) zapcore.Core {
	encConf := zapcore.EncoderConfig{
		MessageKey: "", // message and level are table columns, keep only fields
		LevelKey:   "",
		TimeKey:    "",
	}

	return &dbCore{
		LevelEnabler: enab,
		enc:          zapcore.NewJSONEncoder(encConf),
		repo:         repo,
	}
}

func (c *dbCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &dbCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		repo:         c.repo,
	}

	for i := range fields {
		fields[i].AddTo(clone.enc)
	}
	return clone
}

func (c *dbCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *dbCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	return c.repo.Append(context.Background(), SystemLog{
		Level:     ent.Level.String(),
		Message:   ent.Message,
		Fields:    strings.TrimSpace(buf.String()),
		CreatedAt: ent.Time,
	})
}

func (c *dbCore) Sync() error {
	return nil
}
