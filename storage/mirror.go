package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SnapshotSource отдаёт сериализованное состояние табло.
type SnapshotSource interface {
	ExportSnapshot() ([]byte, error)
}

// SnapshotMirror периодически выгружает полный снапшот табло во внешнее
// объектное хранилище. Чисто best-effort: любая ошибка логируется и
// следующая попытка идёт по расписанию.
type SnapshotMirror struct {
	uploader FileUploader
	source   SnapshotSource
	interval time.Duration
	logger   *slog.Logger
}

func NewSnapshotMirror(uploader FileUploader, source SnapshotSource, interval time.Duration, logger *slog.Logger) *SnapshotMirror {
	return &SnapshotMirror{
		uploader: uploader,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run выгружает снапшот раз в interval до отмены контекста.
func (m *SnapshotMirror) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.upload(ctx)
		}
	}
}

func (m *SnapshotMirror) upload(ctx context.Context) {
	data, err := m.source.ExportSnapshot()
	if err != nil {
		m.logger.Warn("snapshot mirror: export failed", slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("snapshots/sj-games-%d.json", time.Now().Unix())
	result, err := m.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data))
	if err != nil {
		m.logger.Warn("snapshot mirror: upload failed", slog.Any("error", err))
		return
	}
	m.logger.Info("snapshot mirrored", slog.String("key", result.Key), slog.String("location", result.Location))
}
