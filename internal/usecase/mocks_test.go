//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"media-analysis-api/internal/domain"
	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockTxManager runs the callback directly; unit tests don't need a real
// transaction boundary.
type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// MockStatsCache records cache traffic for assertions.
type MockStatsCache struct {
	mu          sync.Mutex
	stats       *model.JobStatistics
	Invalidated int
	Sets        int
}

func NewMockStatsCache() *MockStatsCache { return &MockStatsCache{} }

func (m *MockStatsCache) Get(ctx context.Context) (*model.JobStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, nil
}

func (m *MockStatsCache) Set(ctx context.Context, stats *model.JobStatistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
	m.Sets++
	return nil
}

func (m *MockStatsCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = nil
	m.Invalidated++
	return nil
}

// MockJobRepo is an in-memory JobRepository.
type MockJobRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.AnalysisJob
	createErr error
}

func NewMockJobRepo() *MockJobRepo {
	return &MockJobRepo{store: make(map[string]*model.AnalysisJob)}
}

func (m *MockJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.AnalysisJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *MockJobRepo) get(id string, includeDeleted bool) (*model.AnalysisJob, error) {
	j, ok := m.store[id]
	if !ok || (!includeDeleted && j.IsDeleted) {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(id, false)
}

func (m *MockJobRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(id, true)
}

func (m *MockJobRepo) live() []*model.AnalysisJob {
	var out []*model.AnalysisJob
	for _, j := range m.store {
		if !j.IsDeleted {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out
}

func matchJob(j *model.AnalysisJob, filters map[string]interface{}) bool {
	for k, v := range filters {
		switch k {
		case "status":
			if string(j.Status) != v.(string) {
				return false
			}
		case "media_type":
			if string(j.MediaType) != v.(string) {
				return false
			}
		}
	}
	return true
}

func (m *MockJobRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisJob
	for _, j := range m.live() {
		if matchJob(j, opts.Filters) {
			out = append(out, j)
		}
	}
	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MockJobRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, j := range m.live() {
		if matchJob(j, filters) {
			n++
		}
	}
	return n, nil
}

func (m *MockJobRepo) Exists(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (bool, error) {
	n, _ := m.Count(ctx, tx, filters)
	return n > 0, nil
}

func (m *MockJobRepo) Update(ctx context.Context, tx repository.Tx, id string, patch repository.JobPatch) (*model.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok || j.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if patch.Status != nil {
		j.Status = *patch.Status
	}
	if patch.CompletedAt != nil {
		j.CompletedAt = patch.CompletedAt
	}
	if patch.ErrorMessage != nil {
		j.ErrorMessage = *patch.ErrorMessage
	}
	if patch.Metadata != nil {
		j.Metadata = patch.Metadata
	}
	j.UpdatedAt = time.Now()
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if j.IsDeleted {
		return domain.ErrAlreadyDeleted
	}
	now := time.Now()
	j.IsDeleted = true
	j.DeletedAt = &now
	return nil
}

func (m *MockJobRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockJobRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !j.IsDeleted {
		return nil, domain.ErrNotDeleted
	}
	j.IsDeleted = false
	j.DeletedAt = nil
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) FindByStatus(ctx context.Context, tx repository.Tx, status model.JobStatus, offset, limit int) ([]*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisJob
	for _, j := range m.live() {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *MockJobRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.JobStatus) (int, error) {
	jobs, _ := m.FindByStatus(ctx, tx, status, 0, 0)
	return len(jobs), nil
}

func (m *MockJobRepo) FindByMediaType(ctx context.Context, tx repository.Tx, mediaType model.MediaType, offset, limit int) ([]*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisJob
	for _, j := range m.live() {
		if j.MediaType == mediaType {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *MockJobRepo) FindRecent(ctx context.Context, tx repository.Tx, limit int, includeCompleted bool, since *time.Time) ([]*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisJob
	for _, j := range m.live() {
		if !includeCompleted && j.IsTerminal() {
			continue
		}
		if since != nil && j.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, j)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *MockJobRepo) FindPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.AnalysisJob, error) {
	return m.FindByStatus(ctx, tx, model.JobStatusPending, 0, limit)
}

func (m *MockJobRepo) FindProcessing(ctx context.Context, tx repository.Tx, limit int) ([]*model.AnalysisJob, error) {
	return m.FindByStatus(ctx, tx, model.JobStatusProcessing, 0, limit)
}

func (m *MockJobRepo) FindFailed(ctx context.Context, tx repository.Tx, since *time.Time, limit int) ([]*model.AnalysisJob, error) {
	return m.FindByStatus(ctx, tx, model.JobStatusFailed, 0, limit)
}

func (m *MockJobRepo) FindCompleted(ctx context.Context, tx repository.Tx, since *time.Time, limit int) ([]*model.AnalysisJob, error) {
	return m.FindByStatus(ctx, tx, model.JobStatusCompleted, 0, limit)
}

func (m *MockJobRepo) FindStaleProcessing(ctx context.Context, tx repository.Tx, olderThan time.Duration) ([]*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().Add(-olderThan)
	var out []*model.AnalysisJob
	for _, j := range m.live() {
		if j.Status == model.JobStatusProcessing && j.UpdatedAt.Before(cutoff) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *MockJobRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus, errorMessage string) (*model.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok || j.IsDeleted {
		return nil, domain.ErrNotFound
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	if status == model.JobStatusCompleted {
		now := time.Now()
		j.CompletedAt = &now
	}
	if status == model.JobStatusFailed {
		j.ErrorMessage = errorMessage
	}
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) MarkAsProcessing(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return m.UpdateStatus(ctx, tx, id, model.JobStatusProcessing, "")
}

func (m *MockJobRepo) MarkAsCompleted(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return m.UpdateStatus(ctx, tx, id, model.JobStatusCompleted, "")
}

func (m *MockJobRepo) MarkAsFailed(ctx context.Context, tx repository.Tx, id string, errorMessage string) (*model.AnalysisJob, error) {
	if errorMessage == "" {
		errorMessage = "Unknown error"
	}
	return m.UpdateStatus(ctx, tx, id, model.JobStatusFailed, errorMessage)
}

func (m *MockJobRepo) ClaimNextPending(ctx context.Context) (*model.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *model.AnalysisJob
	for _, j := range m.store {
		if j.IsDeleted || j.Status != model.JobStatusPending {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, domain.ErrNoPendingJobs
	}
	oldest.Status = model.JobStatusProcessing
	oldest.UpdatedAt = time.Now()
	cp := *oldest
	return &cp, nil
}

func (m *MockJobRepo) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for _, j := range m.store {
		if !j.IsDeleted && j.Status == model.JobStatusProcessing && j.UpdatedAt.Before(cutoff) {
			j.Status = model.JobStatusPending
			j.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (m *MockJobRepo) FailStale(ctx context.Context, olderThan time.Duration, errorMessage string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for _, j := range m.store {
		if !j.IsDeleted && j.Status == model.JobStatusProcessing && j.UpdatedAt.Before(cutoff) {
			j.Status = model.JobStatusFailed
			j.ErrorMessage = errorMessage
			j.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (m *MockJobRepo) Statistics(ctx context.Context, tx repository.Tx) (*model.JobStatistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &model.JobStatistics{}
	for _, j := range m.live() {
		switch j.Status {
		case model.JobStatusPending:
			stats.Pending++
		case model.JobStatusProcessing:
			stats.Processing++
		case model.JobStatusCompleted:
			stats.Completed++
		case model.JobStatusFailed:
			stats.Failed++
		}
		stats.Total++
	}
	return stats, nil
}

func (m *MockJobRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.AnalysisJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	var out []*model.AnalysisJob
	for _, j := range m.live() {
		desc, _ := j.Metadata["description"].(string)
		if strings.Contains(strings.ToLower(j.SourceURL), q) || strings.Contains(strings.ToLower(desc), q) {
			out = append(out, j)
		}
	}
	return out, nil
}

// MockMediaFileRepo is an in-memory MediaFileRepository.
type MockMediaFileRepo struct {
	mu    sync.RWMutex
	store map[string]*model.MediaFile
}

func NewMockMediaFileRepo() *MockMediaFileRepo {
	return &MockMediaFileRepo{store: make(map[string]*model.MediaFile)}
}

func (m *MockMediaFileRepo) Create(ctx context.Context, tx repository.Tx, file *model.MediaFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *file
	m.store[file.ID] = &cp
	return nil
}

func (m *MockMediaFileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.store[id]
	if !ok || f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MockMediaFileRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MockMediaFileRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MediaFile
	for _, f := range m.store {
		if !f.IsDeleted {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMediaFileRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	files, _ := m.List(ctx, tx, repository.ListOptions{})
	return len(files), nil
}

func (m *MockMediaFileRepo) Update(ctx context.Context, tx repository.Tx, id string, patch repository.MediaFilePatch) (*model.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok || f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if patch.OriginalURL != nil {
		f.OriginalURL = *patch.OriginalURL
	}
	if patch.CDNURL != nil {
		f.CDNURL = *patch.CDNURL
	}
	if patch.MimeType != nil {
		f.MimeType = *patch.MimeType
	}
	if patch.FileSize != nil {
		f.FileSize = patch.FileSize
	}
	if patch.Filename != nil {
		f.Filename = *patch.Filename
	}
	if patch.Status != nil {
		f.Status = *patch.Status
	}
	f.UpdatedAt = time.Now()
	cp := *f
	return &cp, nil
}

func (m *MockMediaFileRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if f.IsDeleted {
		return domain.ErrAlreadyDeleted
	}
	now := time.Now()
	f.IsDeleted = true
	f.DeletedAt = &now
	return nil
}

func (m *MockMediaFileRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockMediaFileRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !f.IsDeleted {
		return nil, domain.ErrNotDeleted
	}
	f.IsDeleted = false
	f.DeletedAt = nil
	cp := *f
	return &cp, nil
}

func (m *MockMediaFileRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MediaFile
	for _, f := range m.store {
		if !f.IsDeleted && f.JobID == jobID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (m *MockMediaFileRepo) FindByStatus(ctx context.Context, tx repository.Tx, status model.MediaFileStatus, offset, limit int) ([]*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MediaFile
	for _, f := range m.store {
		if !f.IsDeleted && f.Status == status {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMediaFileRepo) FindByFileType(ctx context.Context, tx repository.Tx, fileType model.FileType, offset, limit int) ([]*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MediaFile
	for _, f := range m.store {
		if !f.IsDeleted && f.FileType == fileType {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMediaFileRepo) FindByMimeType(ctx context.Context, tx repository.Tx, mimeType string, offset, limit int) ([]*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MediaFile
	for _, f := range m.store {
		if !f.IsDeleted && f.MimeType == mimeType {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMediaFileRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	files, _ := m.FindByJobID(ctx, tx, jobID, 0, 0)
	return len(files), nil
}

func (m *MockMediaFileRepo) TotalSizeByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	files, _ := m.FindByJobID(ctx, tx, jobID, 0, 0)
	var total int64
	for _, f := range files {
		if f.FileSize != nil {
			total += *f.FileSize
		}
	}
	return total, nil
}

func (m *MockMediaFileRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.MediaFileStatus) (*model.MediaFile, error) {
	return m.Update(ctx, tx, id, repository.MediaFilePatch{Status: &status})
}

func (m *MockMediaFileRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.MediaFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	var out []*model.MediaFile
	for _, f := range m.store {
		if f.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(f.Filename), q) || strings.Contains(strings.ToLower(f.OriginalURL), q) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockResultRepo is an in-memory ResultRepository.
type MockResultRepo struct {
	mu    sync.RWMutex
	store map[string]*model.AnalysisResult
}

func NewMockResultRepo() *MockResultRepo {
	return &MockResultRepo{store: make(map[string]*model.AnalysisResult)}
}

func (m *MockResultRepo) Create(ctx context.Context, tx repository.Tx, result *model.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *result
	m.store[result.ID] = &cp
	return nil
}

func (m *MockResultRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
	if !ok || r.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockResultRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockResultRepo) byJob(jobID string) []*model.AnalysisResult {
	var out []*model.AnalysisResult
	for _, r := range m.store {
		if !r.IsDeleted && r.JobID == jobID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out
}

func (m *MockResultRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisResult
	for _, r := range m.store {
		if !r.IsDeleted {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockResultRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	rs, _ := m.List(ctx, tx, repository.ListOptions{})
	return len(rs), nil
}

func (m *MockResultRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.IsDeleted {
		return domain.ErrAlreadyDeleted
	}
	now := time.Now()
	r.IsDeleted = true
	r.DeletedAt = &now
	return nil
}

func (m *MockResultRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockResultRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !r.IsDeleted {
		return nil, domain.ErrNotDeleted
	}
	r.IsDeleted = false
	r.DeletedAt = nil
	cp := *r
	return &cp, nil
}

func (m *MockResultRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byJob(jobID), nil
}

func (m *MockResultRepo) FindByProvider(ctx context.Context, tx repository.Tx, provider model.AnalysisProvider, offset, limit int) ([]*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisResult
	for _, r := range m.store {
		if !r.IsDeleted && r.Provider == provider {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockResultRepo) FindByModel(ctx context.Context, tx repository.Tx, modelName string, offset, limit int) ([]*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisResult
	for _, r := range m.store {
		if !r.IsDeleted && r.Model == modelName {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockResultRepo) FindHighConfidence(ctx context.Context, tx repository.Tx, minConfidence float64, limit int) ([]*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisResult
	for _, r := range m.store {
		if !r.IsDeleted && r.Confidence != nil && *r.Confidence >= minConfidence {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockResultRepo) FindByJobAndProvider(ctx context.Context, tx repository.Tx, jobID string, provider model.AnalysisProvider) ([]*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AnalysisResult
	for _, r := range m.byJob(jobID) {
		if r.Provider == provider {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockResultRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byJob(jobID)), nil
}

func (m *MockResultRepo) TotalTokensByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, r := range m.byJob(jobID) {
		if r.TokensUsed != nil {
			total += int64(*r.TokensUsed)
		}
	}
	return total, nil
}

func (m *MockResultRepo) TotalLatencyByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, r := range m.byJob(jobID) {
		if r.LatencyMs != nil {
			total += int64(*r.LatencyMs)
		}
	}
	return total, nil
}

func (m *MockResultRepo) AverageConfidenceByJob(ctx context.Context, tx repository.Tx, jobID string) (*float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	n := 0
	for _, r := range m.byJob(jobID) {
		if r.Confidence != nil {
			sum += *r.Confidence
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (m *MockResultRepo) StatisticsByProvider(ctx context.Context, tx repository.Tx) ([]*model.ProviderStatistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byProvider := map[string]*model.ProviderStatistics{}
	for _, r := range m.store {
		if r.IsDeleted {
			continue
		}
		s, ok := byProvider[string(r.Provider)]
		if !ok {
			s = &model.ProviderStatistics{Provider: string(r.Provider)}
			byProvider[string(r.Provider)] = s
		}
		s.Count++
		if r.TokensUsed != nil {
			s.TotalTokens += int64(*r.TokensUsed)
		}
	}
	var out []*model.ProviderStatistics
	for _, s := range byProvider {
		out = append(out, s)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Provider < out[k].Provider })
	return out, nil
}

func (m *MockResultRepo) FindLatest(ctx context.Context, tx repository.Tx, limit int) ([]*model.AnalysisResult, error) {
	out, _ := m.List(ctx, tx, repository.ListOptions{})
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockTranscriptionRepo is an in-memory TranscriptionRepository.
type MockTranscriptionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Transcription
}

func NewMockTranscriptionRepo() *MockTranscriptionRepo {
	return &MockTranscriptionRepo{store: make(map[string]*model.Transcription)}
}

func (m *MockTranscriptionRepo) Create(ctx context.Context, tx repository.Tx, tr *model.Transcription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tr
	m.store[tr.ID] = &cp
	return nil
}

func (m *MockTranscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok || t.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTranscriptionRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTranscriptionRepo) byJob(jobID string) []*model.Transcription {
	var out []*model.Transcription
	for _, t := range m.store {
		if !t.IsDeleted && t.JobID == jobID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out
}

func (m *MockTranscriptionRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transcription
	for _, t := range m.store {
		if !t.IsDeleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTranscriptionRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	ts, _ := m.List(ctx, tx, repository.ListOptions{})
	return len(ts), nil
}

func (m *MockTranscriptionRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.IsDeleted {
		return domain.ErrAlreadyDeleted
	}
	now := time.Now()
	t.IsDeleted = true
	t.DeletedAt = &now
	return nil
}

func (m *MockTranscriptionRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockTranscriptionRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !t.IsDeleted {
		return nil, domain.ErrNotDeleted
	}
	t.IsDeleted = false
	t.DeletedAt = nil
	cp := *t
	return &cp, nil
}

func (m *MockTranscriptionRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byJob(jobID), nil
}

func (m *MockTranscriptionRepo) FindByProvider(ctx context.Context, tx repository.Tx, provider model.TranscriptionProvider, offset, limit int) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transcription
	for _, t := range m.store {
		if !t.IsDeleted && t.Provider == provider {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTranscriptionRepo) FindByLanguage(ctx context.Context, tx repository.Tx, language string, offset, limit int) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transcription
	for _, t := range m.store {
		if !t.IsDeleted && t.Language == language {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTranscriptionRepo) FindHighConfidence(ctx context.Context, tx repository.Tx, minConfidence float64, limit int) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transcription
	for _, t := range m.store {
		if !t.IsDeleted && t.Confidence != nil && *t.Confidence >= minConfidence {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTranscriptionRepo) FindWithSegments(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transcription
	for _, t := range m.byJob(jobID) {
		if len(t.Segments) > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTranscriptionRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byJob(jobID)), nil
}

func (m *MockTranscriptionRepo) TotalWordsByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, t := range m.byJob(jobID) {
		if t.WordCount != nil {
			total += int64(*t.WordCount)
		}
	}
	return total, nil
}

func (m *MockTranscriptionRepo) TotalDurationByJob(ctx context.Context, tx repository.Tx, jobID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, t := range m.byJob(jobID) {
		total += t.DurationSeconds
	}
	return total, nil
}

func (m *MockTranscriptionRepo) AverageConfidenceByJob(ctx context.Context, tx repository.Tx, jobID string) (*float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	n := 0
	for _, t := range m.byJob(jobID) {
		if t.Confidence != nil {
			sum += *t.Confidence
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (m *MockTranscriptionRepo) LanguageDistributionByJob(ctx context.Context, tx repository.Tx, jobID string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dist := map[string]int{}
	for _, t := range m.byJob(jobID) {
		dist[t.Language]++
	}
	return dist, nil
}

func (m *MockTranscriptionRepo) StatisticsByProvider(ctx context.Context, tx repository.Tx) ([]*model.ProviderStatistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byProvider := map[string]*model.ProviderStatistics{}
	for _, t := range m.store {
		if t.IsDeleted {
			continue
		}
		s, ok := byProvider[string(t.Provider)]
		if !ok {
			s = &model.ProviderStatistics{Provider: string(t.Provider)}
			byProvider[string(t.Provider)] = s
		}
		s.Count++
	}
	var out []*model.ProviderStatistics
	for _, s := range byProvider {
		out = append(out, s)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Provider < out[k].Provider })
	return out, nil
}

func (m *MockTranscriptionRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.Transcription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	var out []*model.Transcription
	for _, t := range m.store {
		if !t.IsDeleted && strings.Contains(strings.ToLower(t.Text), q) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTranscriptionRepo) UpdateText(ctx context.Context, tx repository.Tx, id, text string, wordCount *int) (*model.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok || t.IsDeleted {
		return nil, domain.ErrNotFound
	}
	t.Text = text
	if wordCount != nil {
		t.WordCount = wordCount
	} else {
		n := len(strings.Fields(text))
		t.WordCount = &n
	}
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

// MockProcessingLogRepo is an in-memory ProcessingLogRepository.
type MockProcessingLogRepo struct {
	mu      sync.RWMutex
	entries []*model.ProcessingLog
}

func NewMockProcessingLogRepo() *MockProcessingLogRepo { return &MockProcessingLogRepo{} }

func (m *MockProcessingLogRepo) Append(ctx context.Context, tx repository.Tx, entry *model.ProcessingLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockProcessingLogRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ProcessingLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockProcessingLogRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.ProcessingLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ProcessingLog
	for _, e := range m.entries {
		if e.JobID == jobID {
			cp := *e
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockProcessingLogRepo) FindByStage(ctx context.Context, tx repository.Tx, jobID string, stage model.ProcessingStage) ([]*model.ProcessingLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ProcessingLog
	for _, e := range m.entries {
		if e.JobID == jobID && e.Stage == stage {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockProcessingLogRepo) LatestByStage(ctx context.Context, tx repository.Tx, jobID string, stage model.ProcessingStage) (*model.ProcessingLog, error) {
	entries, _ := m.FindByStage(ctx, tx, jobID, stage)
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}
	return entries[len(entries)-1], nil
}

func (m *MockProcessingLogRepo) FindFailures(ctx context.Context, tx repository.Tx, jobID string) ([]*model.ProcessingLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ProcessingLog
	for _, e := range m.entries {
		if e.JobID == jobID && e.Status == model.LogStatusFailed {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockProcessingLogRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	entries, _ := m.FindByJobID(ctx, tx, jobID, 0, 0)
	return len(entries), nil
}
