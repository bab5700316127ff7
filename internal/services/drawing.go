package services

import (
	"context"
	"errors"
	"fmt"

	"progress-tracker-go/internal/logger"
	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

func (t *Tracker) ListDrawings(ctx context.Context, filter store.Filter) ([]models.DrawingEntry, error) {
	if err := checkStatusFilter(filter.Status, models.DrawingStatuses); err != nil {
		return nil, err
	}
	return t.Store.ListDrawings(ctx, filter)
}

func (t *Tracker) GetDrawing(ctx context.Context, id int64) (models.DrawingEntry, error) {
	entry, err := t.Store.GetDrawing(ctx, id)
	return entry, fromStore(err, "Drawing entry not found")
}

func (t *Tracker) CreateDrawing(ctx context.Context, patch models.DrawingPatch) (models.DrawingEntry, error) {
	if err := validation.Required(map[string]bool{
		"user_id": patch.UserID != nil,
		"title":   patch.Title != nil,
	}); err != nil {
		return models.DrawingEntry{}, invalid(err)
	}
	if err := t.requireOwner(ctx, *patch.UserID); err != nil {
		return models.DrawingEntry{}, err
	}
	if err := t.checkImage(ctx, patch.ImageFilename, 0); err != nil {
		return models.DrawingEntry{}, err
	}

	now := t.now()
	entry := models.DrawingEntry{
		Status:    models.DrawingPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.ApplyTo(&entry)
	inferDrawingDates(entry, &patch, now)
	patch.ApplyTo(&entry)

	created, err := t.Store.InsertDrawing(ctx, entry)
	if err != nil {
		return created, fromStore(err, "User not found")
	}
	t.publish(models.CategoryDrawing, "created", created.ID, created.UserID)
	return created, nil
}

// UpdateDrawing applies patch and, when the patch replaces the image, removes
// the previously stored file after the row points at the new one.
func (t *Tracker) UpdateDrawing(ctx context.Context, id int64, patch models.DrawingPatch) (models.DrawingEntry, error) {
	current, err := t.Store.GetDrawing(ctx, id)
	if err != nil {
		return current, fromStore(err, "Drawing entry not found")
	}
	if patch.UserID != nil {
		if err := t.requireOwner(ctx, *patch.UserID); err != nil {
			return current, err
		}
	}
	if patch.ImageFilename != nil && (current.ImageFilename == nil || *current.ImageFilename != *patch.ImageFilename) {
		if err := t.checkImage(ctx, patch.ImageFilename, id); err != nil {
			return current, err
		}
	}

	now := t.now()
	if patch.Status != nil {
		merged := current
		patch.ApplyTo(&merged)
		inferDrawingDates(merged, &patch, now)
	}

	updated, err := t.Store.UpdateDrawing(ctx, id, patch, now)
	if err != nil {
		return updated, fromStore(err, "Drawing entry not found")
	}
	if replaced(current.ImageFilename, patch.ImageFilename) {
		t.removeImage(ctx, *current.ImageFilename)
	}
	t.publish(models.CategoryDrawing, "updated", updated.ID, updated.UserID)
	return updated, nil
}

// AttachDrawingImage stores upload and links it to the entry. The file is
// written before the row is updated; if the update fails the new file is
// removed again so no row references a missing or foreign file.
func (t *Tracker) AttachDrawingImage(ctx context.Context, id int64, upload Upload) (models.DrawingEntry, error) {
	if _, err := t.Store.GetDrawing(ctx, id); err != nil {
		return models.DrawingEntry{}, fromStore(err, "Drawing entry not found")
	}
	image, err := t.Images.Save(upload)
	if err != nil {
		return models.DrawingEntry{}, err
	}
	updated, err := t.UpdateDrawing(ctx, id, models.DrawingPatch{
		ImageURL:      &image.URL,
		ImageFilename: &image.Filename,
	})
	if err != nil {
		t.removeImage(ctx, image.Filename)
		return updated, err
	}
	return updated, nil
}

// DeleteDrawing removes the row, then its image. A missing or undeletable
// file does not fail the call.
func (t *Tracker) DeleteDrawing(ctx context.Context, id int64) error {
	current, err := t.Store.GetDrawing(ctx, id)
	if err != nil {
		return fromStore(err, "Drawing entry not found")
	}
	if err := t.Store.DeleteDrawing(ctx, id); err != nil {
		return fromStore(err, "Drawing entry not found")
	}
	if current.ImageFilename != nil {
		t.removeImage(ctx, *current.ImageFilename)
	}
	t.publish(models.CategoryDrawing, "deleted", id, current.UserID)
	return nil
}

// checkImage refuses an image reference that does not name a stored file
// or that a drawing other than self already holds.
func (t *Tracker) checkImage(ctx context.Context, filename *string, self int64) error {
	if filename == nil {
		return nil
	}
	if t.Images != nil && !t.Images.Exists(*filename) {
		return ErrFileUpload(fmt.Sprintf("Image %q is not a stored upload", *filename))
	}
	holder, err := t.Store.DrawingByImage(ctx, *filename)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case holder.ID != self:
		return ErrConflict(fmt.Sprintf("Image %q is already attached to drawing %d", *filename, holder.ID))
	}
	return nil
}

// removeImage deletes filename unless a remaining drawing still
// references it.
func (t *Tracker) removeImage(ctx context.Context, filename string) {
	if t.Images == nil {
		return
	}
	if holder, err := t.Store.DrawingByImage(ctx, filename); err == nil {
		logger.Warn("image still referenced, keeping file", "file", filename, "drawing", holder.ID)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Warn("image reference check failed, keeping file", "file", filename, "err", err)
		return
	}
	if err := t.Images.Delete(filename); err != nil {
		logger.Warn("image cleanup failed", "file", filename, "err", err)
	}
}

func replaced(previous, next *string) bool {
	return previous != nil && next != nil && *previous != *next
}
