package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const (
	table = "settings"

	keySystem    = "system_settings"
	keyTimeSlots = "time_slot_settings"
)

// Repository хранит документы настроек (singleton строки по ключу)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSystemSettings получает документ системных настроек
func (r *Repository) GetSystemSettings(ctx context.Context) (*SystemSettingsDocument, error) {
	var doc SystemSettingsDocument
	if err := r.get(ctx, keySystem, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveSystemSettings сохраняет документ системных настроек целиком
func (r *Repository) SaveSystemSettings(ctx context.Context, doc *SystemSettingsDocument) error {
	return r.save(ctx, keySystem, doc)
}

// GetTimeSlotSettings получает документ настроек расписания
func (r *Repository) GetTimeSlotSettings(ctx context.Context) (*TimeSlotDocument, error) {
	var doc TimeSlotDocument
	if err := r.get(ctx, keyTimeSlots, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveTimeSlotSettings сохраняет документ настроек расписания целиком
func (r *Repository) SaveTimeSlotSettings(ctx context.Context, doc *TimeSlotDocument) error {
	return r.save(ctx, keyTimeSlots, doc)
}

func (r *Repository) get(ctx context.Context, key string, dest interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From(table).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: get %s - build select query: %v", ErrBuildQuery, key, err)
	}

	var raw []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSettingsNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: get %s - scan value: %v", ErrScanRow, key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecodeDocument, key, err)
	}

	return nil
}

func (r *Repository) save(ctx context.Context, key string, doc interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeDocument, key, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("key", "value").
		Values(key, string(raw)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: save %s - build upsert query: %v", ErrBuildQuery, key, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: save %s - execute upsert: %v", ErrExecQuery, key, err)
	}

	return nil
}
