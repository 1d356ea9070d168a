package repository

import (
	"context"
	"errors"
	"time"

	"creator-planner-backend/internal/domains/idea/model"
	"creator-planner-backend/internal/infrastructure/docstore"
	"creator-planner-backend/internal/infrastructure/metrics"

	"github.com/rs/zerolog/log"
)

// splitStorageRepository giữ record nhỏ trong primary store và đẩy thumbnail
// (field lớn duy nhất) sang secondary store, chỉ để lại marker has_thumbnail.
//
// Concurrent writes to the same id are last-write-wins; there is no per-id lock.
type splitStorageRepository struct {
	primary    docstore.Store
	thumbnails ThumbnailStore
	fallback   FallbackCache
}

func NewSplitStorageRepository(primary docstore.Store, thumbnails ThumbnailStore, fallback FallbackCache) Repository {
	return &splitStorageRepository{
		primary:    primary,
		thumbnails: thumbnails,
		fallback:   fallback,
	}
}

// Save persists a new idea. A primary rejection for size is retried once without
// assets and reported as SaveWithoutAssets; a secondary fault never fails the save.
func (r *splitStorageRepository) Save(ctx context.Context, idea *model.Idea) (*model.SaveResult, error) {
	working := idea.Clone()
	payload, hasPayload := working.Assets.ExtractThumbnail()

	data, err := model.ToDocument(working)
	if err != nil {
		return nil, model.NewSaveIdeaError(err)
	}

	result := &model.SaveResult{Status: model.SaveComplete}

	id, err := r.primary.Add(ctx, model.CollectionIdeas, data)
	if errors.Is(err, docstore.ErrDocumentTooLarge) {
		log.Warn().Err(err).Str("title", working.Title).Msg("[IDEA] Primary store rejected record, retrying without assets")
		delete(data, "assets")
		id, err = r.primary.Add(ctx, model.CollectionIdeas, data)
		if err == nil {
			markWithoutAssets(result)
		}
	}
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentTooLarge) {
			return nil, model.NewIdeaTooLarge(err)
		}
		return nil, model.NewSaveIdeaError(err)
	}

	if hasPayload {
		r.storeThumbnail(ctx, id, payload, result)
		if result.Status == model.SaveWithoutAssets {
			// record đã mất assets, ghi lại riêng marker để load vẫn tìm được thumbnail
			r.restoreMarker(ctx, id, model.Assets{model.AssetHasThumbnail: true})
		}
	}

	stored, err := r.reconstitute(ctx, id, payload, hasPayload)
	if err != nil {
		// record đã nằm trong primary store: trả lỗi thì client retry sẽ tạo bản trùng
		log.Warn().Err(err).Str("idea_id", id).Msg("[IDEA] Could not re-read saved idea, answering from the written record")
		stored = fromWritten(id, working, result.Status)
	}
	if hasPayload {
		// marker có thể chưa restore được, payload vẫn thuộc về idea vừa lưu
		if stored.Assets == nil {
			stored.Assets = model.Assets{}
		}
		stored.Assets[model.AssetHasThumbnail] = true
		stored.Assets[model.AssetThumbnail] = payload
	}
	result.Idea = stored

	log.Info().Str("idea_id", id).Str("status", string(result.Status)).Bool("thumbnail", hasPayload).Msg("[IDEA] Saved")
	return result, nil
}

// Load re-joins the primary record with its thumbnail: secondary store, then
// fallback cache, then the marker alone. A thumbnail miss is never an error.
func (r *splitStorageRepository) Load(ctx context.Context, id string) (*model.Idea, error) {
	idea, err := r.reconstitute(ctx, id, "", false)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, model.NewIdeaNotFound(id)
	}
	if err != nil {
		return nil, model.NewLoadIdeaError(err)
	}
	return idea, nil
}

// Update applies the same extraction rule as Save to the patch. A patch without
// assets keeps the stored assets; a patch with assets but no thumbnail keeps the
// existing marker unless it sets has_thumbnail to false.
func (r *splitStorageRepository) Update(ctx context.Context, id string, patch *model.IdeaPatch) (*model.SaveResult, error) {
	existingDoc, err := r.primary.Get(ctx, model.CollectionIdeas, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, model.NewIdeaNotFound(id)
	}
	if err != nil {
		return nil, model.NewLoadIdeaError(err)
	}
	existing, err := model.FromDocument(existingDoc.ID, existingDoc.Data, existingDoc.CreatedAt, existingDoc.UpdatedAt)
	if err != nil {
		return nil, model.NewLoadIdeaError(err)
	}
	hadThumbnail := existing.Assets.HasThumbnail()

	fields := patch.Fields()

	var (
		payload         string
		hasPayload      bool
		dropAssociation bool
	)
	if patch.Assets != nil {
		assets := patch.Assets.Clone()
		payload, hasPayload = assets.ExtractThumbnail()
		if !hasPayload {
			marker, explicit := assets[model.AssetHasThumbnail]
			keep, _ := marker.(bool)
			switch {
			case explicit && !keep:
				dropAssociation = hadThumbnail
				delete(assets, model.AssetHasThumbnail)
			case hadThumbnail:
				assets[model.AssetHasThumbnail] = true
			default:
				// không có payload thì không được tự set marker
				delete(assets, model.AssetHasThumbnail)
			}
		}
		fields["assets"] = map[string]interface{}(assets)
	}

	result := &model.SaveResult{Status: model.SaveComplete}

	if len(fields) > 0 {
		err = r.primary.Update(ctx, model.CollectionIdeas, id, fields)
		if errors.Is(err, docstore.ErrDocumentTooLarge) {
			if _, ok := fields["assets"]; ok {
				log.Warn().Err(err).Str("idea_id", id).Msg("[IDEA] Primary store rejected update, retrying without assets")
				delete(fields, "assets")
				if err = r.primary.Update(ctx, model.CollectionIdeas, id, fields); err == nil {
					markWithoutAssets(result)
				}
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, docstore.ErrNotFound):
			return nil, model.NewIdeaNotFound(id)
		case errors.Is(err, docstore.ErrDocumentTooLarge):
			return nil, model.NewIdeaTooLarge(err)
		default:
			return nil, model.NewSaveIdeaError(err)
		}
	}

	if hasPayload {
		r.storeThumbnail(ctx, id, payload, result)
		if result.Status == model.SaveWithoutAssets && !hadThumbnail {
			marker := existing.Assets.Clone()
			if marker == nil {
				marker = model.Assets{}
			}
			marker[model.AssetHasThumbnail] = true
			r.restoreMarker(ctx, id, marker)
		}
	}
	if dropAssociation && result.Status == model.SaveComplete {
		r.dropThumbnail(ctx, id)
	}

	stored, err := r.reconstitute(ctx, id, payload, hasPayload)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, model.NewIdeaNotFound(id)
	}
	if err != nil {
		return nil, model.NewLoadIdeaError(err)
	}
	result.Idea = stored
	return result, nil
}

// Delete removes the primary record, then best-effort removes the thumbnail
// from the secondary store and the fallback cache.
func (r *splitStorageRepository) Delete(ctx context.Context, id string) error {
	err := r.primary.Delete(ctx, model.CollectionIdeas, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return model.NewIdeaNotFound(id)
	}
	if err != nil {
		return model.NewDeleteIdeaError(err)
	}

	r.dropThumbnail(ctx, id)
	log.Info().Str("idea_id", id).Msg("[IDEA] Deleted")
	return nil
}

// List trả về ideas mới nhất trước
func (r *splitStorageRepository) List(ctx context.Context, opts ListOptions) ([]*model.Idea, error) {
	docs, err := r.primary.List(ctx, model.CollectionIdeas, docstore.OrderByCreatedAt, docstore.Descending)
	if err != nil {
		return nil, model.NewLoadIdeaError(err)
	}

	ideas := make([]*model.Idea, 0, len(docs))
	for _, doc := range docs {
		idea, err := model.FromDocument(doc.ID, doc.Data, doc.CreatedAt, doc.UpdatedAt)
		if err != nil {
			return nil, model.NewLoadIdeaError(err)
		}
		if opts.WithThumbnails && idea.Assets.HasThumbnail() {
			r.attachThumbnail(ctx, idea)
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

// ============================================
// HELPERS
// ============================================

// reconstitute đọc lại primary record; payload đã biết thì gắn thẳng, không thì đi đường Load
func (r *splitStorageRepository) reconstitute(ctx context.Context, id, payload string, known bool) (*model.Idea, error) {
	doc, err := r.primary.Get(ctx, model.CollectionIdeas, id)
	if err != nil {
		return nil, err
	}
	idea, err := model.FromDocument(doc.ID, doc.Data, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if !idea.Assets.HasThumbnail() {
		return idea, nil
	}

	if known {
		idea.Assets[model.AssetThumbnail] = payload
		return idea, nil
	}
	r.attachThumbnail(ctx, idea)
	return idea, nil
}

func (r *splitStorageRepository) attachThumbnail(ctx context.Context, idea *model.Idea) {
	payload, err := r.thumbnails.Get(ctx, idea.ID)
	if err == nil {
		idea.Assets[model.AssetThumbnail] = payload
		return
	}
	if !errors.Is(err, ErrThumbnailNotFound) {
		log.Warn().Err(err).Str("idea_id", idea.ID).Msg("[IDEA] Secondary store read failed, trying fallback cache")
	}

	if cached, ok := r.fallback.Get(idea.ID); ok {
		idea.Assets[model.AssetThumbnail] = cached
		return
	}

	metrics.ThumbnailDegradations.WithLabelValues(metrics.DegradationMissingPayload).Inc()
	log.Debug().Str("idea_id", idea.ID).Msg("[IDEA] Thumbnail marked but payload unavailable")
}

// storeThumbnail: secondary store trước, lỗi thì rơi về fallback cache. Không bao giờ trả lỗi.
func (r *splitStorageRepository) storeThumbnail(ctx context.Context, id, payload string, result *model.SaveResult) {
	err := r.thumbnails.Put(ctx, id, payload)
	if err == nil {
		r.fallback.Remove(id)
		return
	}

	log.Warn().Err(err).Str("idea_id", id).Msg("[IDEA] Secondary store write failed, keeping thumbnail in fallback cache")
	metrics.ThumbnailDegradations.WithLabelValues(metrics.DegradationFallbackCache).Inc()

	if evicted := r.fallback.Set(id, payload); evicted {
		log.Warn().Str("idea_id", id).Msg("[IDEA] Fallback cache full, evicted least recently used thumbnail")
	}
	// bản cũ trong secondary (nếu còn) sẽ che mất bản mới trong fallback khi load
	if delErr := r.thumbnails.Delete(ctx, id); delErr != nil {
		log.Debug().Err(delErr).Str("idea_id", id).Msg("[IDEA] Could not clear stale secondary thumbnail")
	}
	result.Warnings = append(result.Warnings, model.WarningThumbnailCached)
}

func (r *splitStorageRepository) restoreMarker(ctx context.Context, id string, assets model.Assets) {
	err := r.primary.Update(ctx, model.CollectionIdeas, id, map[string]interface{}{
		"assets": map[string]interface{}(assets),
	})
	if err != nil {
		log.Warn().Err(err).Str("idea_id", id).Msg("[IDEA] Could not restore thumbnail marker")
	}
}

func (r *splitStorageRepository) dropThumbnail(ctx context.Context, id string) {
	if err := r.thumbnails.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("idea_id", id).Msg("[IDEA] Thumbnail cleanup failed, secondary record orphaned")
	}
	r.fallback.Remove(id)
}

// fromWritten dựng lại idea từ dữ liệu vừa ghi khi không đọc lại được primary store
func fromWritten(id string, written *model.Idea, status model.SaveStatus) *model.Idea {
	idea := written.Clone()
	idea.ID = id
	if status == model.SaveWithoutAssets {
		idea.Assets = nil
	}
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	return idea
}

func markWithoutAssets(result *model.SaveResult) {
	result.Status = model.SaveWithoutAssets
	result.Warnings = append(result.Warnings, model.WarningSavedNoAssets)
	metrics.ThumbnailDegradations.WithLabelValues(metrics.DegradationWithoutAssets).Inc()
}
