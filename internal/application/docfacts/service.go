// Package docfacts is the application layer tying the extraction engine to
// storage, caching, and event publishing.
package docfacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/DocFacts/internal/infrastructure/database/redis"
	"github.com/turtacn/DocFacts/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	storageminio "github.com/turtacn/DocFacts/internal/infrastructure/storage/minio"
	factextractor "github.com/turtacn/DocFacts/internal/intelligence/fact_extractor"
	"github.com/turtacn/DocFacts/pkg/errors"
	commontypes "github.com/turtacn/DocFacts/pkg/types/common"
)

// JobStatus is the lifecycle state of a batch extraction job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ---------------------------------------------------------------------------
// Request / Response DTOs
// ---------------------------------------------------------------------------

// ExtractTextRequest extracts facts from raw text.
type ExtractTextRequest struct {
	Text string `json:"text"`
	// DocumentID labels the published event; optional for ad-hoc text.
	DocumentID string `json:"document_id,omitempty"`
	// SkipCache bypasses the result cache for this call.
	SkipCache bool `json:"skip_cache,omitempty"`
}

// ExtractDocumentRequest extracts facts from a stored document.
type ExtractDocumentRequest struct {
	ObjectKey string `json:"object_key"`
}

// BatchExtractRequest starts an asynchronous job over many stored documents.
type BatchExtractRequest struct {
	ObjectKeys []string `json:"object_keys"`
}

// ExtractResponse is the result of a single text or document extraction.
type ExtractResponse struct {
	RequestID        string                 `json:"request_id"`
	DocumentID       string                 `json:"document_id,omitempty"`
	Entities         []factextractor.Entity `json:"entities"`
	EntityCount      int                    `json:"entity_count"`
	DroppedCount     int                    `json:"dropped_count"`
	TextLength       int                    `json:"text_length"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	CacheHit         bool                   `json:"cache_hit"`
	ExtractedAt      time.Time              `json:"extracted_at"`
}

// JobDocumentError records one failed document inside a batch job.
type JobDocumentError struct {
	ObjectKey string `json:"object_key"`
	Error     string `json:"error"`
}

// Job tracks the state of an asynchronous batch extraction.
type Job struct {
	JobID          string             `json:"job_id"`
	Status         JobStatus          `json:"status"`
	TotalDocuments int                `json:"total_documents"`
	ProcessedCount int                `json:"processed_count"`
	SucceededCount int                `json:"succeeded_count"`
	FailedCount    int                `json:"failed_count"`
	EntityCount    int                `json:"entity_count"`
	Errors         []JobDocumentError `json:"errors,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

// JobPage is one page of jobs, newest first.
type JobPage struct {
	Items      []*Job                 `json:"items"`
	Pagination commontypes.Pagination `json:"pagination"`
	Total      int64                  `json:"total"`
}

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

// EventPublisher is the slice of the Kafka producer the service uses.
// Satisfied by *kafka.Producer; nil disables publishing.
type EventPublisher interface {
	PublishFactsExtracted(ctx context.Context, payload kafka.FactsExtractedPayload) error
	PublishJobCompleted(ctx context.Context, payload kafka.JobCompletedPayload) error
}

// ServiceConfig tunes caching and batch execution.
type ServiceConfig struct {
	CacheTTL      time.Duration
	Concurrency   int
	PerDocTimeout time.Duration
	MaxBatchSize  int
	JobRetention  time.Duration
}

// DefaultServiceConfig returns production-ready defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		CacheTTL:      15 * time.Minute,
		Concurrency:   8,
		PerDocTimeout: 2 * time.Minute,
		MaxBatchSize:  100,
		JobRetention:  24 * time.Hour,
	}
}

// Service is the application-layer contract for fact extraction.
type Service interface {
	ExtractText(ctx context.Context, req *ExtractTextRequest) (*ExtractResponse, error)
	ExtractDocument(ctx context.Context, req *ExtractDocumentRequest) (*ExtractResponse, error)
	BatchExtract(ctx context.Context, req *BatchExtractRequest) (*Job, error)
	GetJob(ctx context.Context, jobID string) (*Job, error)
	ListJobs(ctx context.Context, page commontypes.Pagination) (*JobPage, error)
}

type serviceImpl struct {
	extractor factextractor.FactExtractor
	documents storageminio.DocumentRepository
	cache     redis.Cache
	publisher EventPublisher
	logger    logging.Logger
	config    ServiceConfig

	jobs   map[string]*Job
	jobsMu sync.RWMutex
}

var _ Service = (*serviceImpl)(nil)

// NewService constructs the extraction service.  The extractor and document
// repository are required; cache and publisher are optional and disabled
// when nil.
func NewService(
	extractor factextractor.FactExtractor,
	documents storageminio.DocumentRepository,
	cache redis.Cache,
	publisher EventPublisher,
	logger logging.Logger,
	cfg ServiceConfig,
) (Service, error) {
	if extractor == nil {
		return nil, errors.InvalidParam("extractor is required")
	}
	if documents == nil {
		return nil, errors.InvalidParam("document repository is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	def := DefaultServiceConfig()
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.PerDocTimeout == 0 {
		cfg.PerDocTimeout = def.PerDocTimeout
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = def.MaxBatchSize
	}
	if cfg.JobRetention == 0 {
		cfg.JobRetention = def.JobRetention
	}
	return &serviceImpl{
		extractor: extractor,
		documents: documents,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		config:    cfg,
		jobs:      make(map[string]*Job),
	}, nil
}

// ---------------------------------------------------------------------------
// ExtractText
// ---------------------------------------------------------------------------

func (s *serviceImpl) ExtractText(ctx context.Context, req *ExtractTextRequest) (*ExtractResponse, error) {
	if req == nil || req.Text == "" {
		return nil, errors.New(errors.ErrCodeEmptyText, "text is required")
	}

	resp, cacheHit, err := s.extractCached(ctx, req.Text, req.SkipCache)
	if err != nil {
		return nil, err
	}
	resp.RequestID = string(commontypes.NewID())
	resp.DocumentID = req.DocumentID
	resp.CacheHit = cacheHit

	s.publishExtraction(ctx, "text", resp)

	s.logger.Info("text extraction completed",
		logging.Int("entity_count", resp.EntityCount),
		logging.Bool("cache_hit", cacheHit),
		logging.Int64("duration_ms", resp.ProcessingTimeMs))
	return resp, nil
}

// extractCached runs the engine, serving repeated inputs from the result
// cache keyed by text hash.  Concurrent misses on the same text share one
// engine run via the cache's singleflight.
func (s *serviceImpl) extractCached(ctx context.Context, text string, skipCache bool) (*ExtractResponse, bool, error) {
	run := func() *ExtractResponse {
		stats := s.extractor.ExtractWithStats(text)
		return &ExtractResponse{
			Entities:         stats.Entities,
			EntityCount:      stats.EntityCount,
			DroppedCount:     stats.DroppedCount,
			TextLength:       stats.TextLength,
			ProcessingTimeMs: stats.ProcessingTimeMs,
			ExtractedAt:      time.Now().UTC(),
		}
	}

	if s.cache == nil || skipCache {
		return run(), false, nil
	}

	key := cacheKey(text)
	var cached ExtractResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, true, nil
	} else if err != redis.ErrCacheMiss {
		// A broken cache must not break extraction.
		s.logger.Warn("result cache unavailable", logging.Err(err))
		return run(), false, nil
	}

	resp := run()
	if err := s.cache.Set(ctx, key, resp, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache extraction result", logging.Err(err))
	}
	return resp, false, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "extract:" + hex.EncodeToString(sum[:])
}

// ---------------------------------------------------------------------------
// ExtractDocument
// ---------------------------------------------------------------------------

func (s *serviceImpl) ExtractDocument(ctx context.Context, req *ExtractDocumentRequest) (*ExtractResponse, error) {
	if req == nil || req.ObjectKey == "" {
		return nil, errors.InvalidParam("object_key is required")
	}

	doc, err := s.documents.GetDocument(ctx, req.ObjectKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound,
				fmt.Sprintf("document not found: %s", req.ObjectKey))
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to fetch document")
	}

	resp, cacheHit, err := s.extractCached(ctx, string(doc.Data), false)
	if err != nil {
		return nil, err
	}
	resp.RequestID = string(commontypes.NewID())
	resp.DocumentID = req.ObjectKey
	resp.CacheHit = cacheHit

	s.publishExtraction(ctx, "document", resp)

	s.logger.Info("document extraction completed",
		logging.String("object_key", req.ObjectKey),
		logging.Int("entity_count", resp.EntityCount),
		logging.Int64("duration_ms", resp.ProcessingTimeMs))
	return resp, nil
}

// publishExtraction emits a facts.extracted event; publish failures are
// logged, never surfaced to the caller.
func (s *serviceImpl) publishExtraction(ctx context.Context, source string, resp *ExtractResponse) {
	if s.publisher == nil {
		return
	}
	payload := kafka.FactsExtractedPayload{
		DocumentID:     resp.DocumentID,
		Source:         source,
		EntityCount:    resp.EntityCount,
		CategoryCounts: categoryCounts(resp.Entities),
		DroppedCount:   resp.DroppedCount,
		ExtractedAt:    resp.ExtractedAt,
	}
	if err := s.publisher.PublishFactsExtracted(ctx, payload); err != nil {
		s.logger.Warn("failed to publish extraction event",
			logging.String("document_id", resp.DocumentID),
			logging.Err(err))
	}
}

func categoryCounts(entities []factextractor.Entity) map[string]int {
	if len(entities) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, e := range entities {
		counts[string(e.Category)]++
	}
	return counts
}

// ---------------------------------------------------------------------------
// BatchExtract
// ---------------------------------------------------------------------------

func (s *serviceImpl) BatchExtract(ctx context.Context, req *BatchExtractRequest) (*Job, error) {
	if req == nil || len(req.ObjectKeys) == 0 {
		return nil, errors.InvalidParam("at least one object_key is required")
	}
	if len(req.ObjectKeys) > s.config.MaxBatchSize {
		return nil, errors.New(errors.ErrCodeJobQueueFull,
			fmt.Sprintf("batch size %d exceeds limit %d", len(req.ObjectKeys), s.config.MaxBatchSize))
	}
	for i, key := range req.ObjectKeys {
		if key == "" {
			return nil, errors.InvalidParam(fmt.Sprintf("object_keys[%d] is empty", i))
		}
	}

	now := time.Now().UTC()
	job := &Job{
		JobID:          string(commontypes.NewID()),
		Status:         JobStatusPending,
		TotalDocuments: len(req.ObjectKeys),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.jobsMu.Lock()
	s.pruneJobsLocked(now)
	s.jobs[job.JobID] = job
	s.jobsMu.Unlock()

	s.logger.Info("batch extraction job created",
		logging.String("job_id", job.JobID),
		logging.Int("total_documents", job.TotalDocuments))

	// The job outlives the request; it gets a fresh root context with
	// per-document timeouts applied inside the workers.
	go s.runBatchJob(job, req.ObjectKeys)

	return s.snapshotJob(job.JobID)
}

// runBatchJob fans the object keys out over a bounded worker pool.
func (s *serviceImpl) runBatchJob(job *Job, keys []string) {
	start := time.Now()
	s.setJobStatus(job.JobID, JobStatusRunning)

	ctx := context.Background()
	keyCh := make(chan string)

	var wg sync.WaitGroup
	workers := s.config.Concurrency
	if workers > len(keys) {
		workers = len(keys)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range keyCh {
				s.processBatchDocument(ctx, job.JobID, key)
			}
		}()
	}
	for _, key := range keys {
		keyCh <- key
	}
	close(keyCh)
	wg.Wait()

	now := time.Now().UTC()
	s.jobsMu.Lock()
	job.CompletedAt = &now
	job.UpdatedAt = now
	if job.FailedCount == job.TotalDocuments {
		job.Status = JobStatusFailed
	} else {
		job.Status = JobStatusCompleted
	}
	final := *job
	s.jobsMu.Unlock()

	s.logger.Info("batch extraction job finished",
		logging.String("job_id", final.JobID),
		logging.String("status", string(final.Status)),
		logging.Int("succeeded", final.SucceededCount),
		logging.Int("failed", final.FailedCount))

	if s.publisher != nil {
		payload := kafka.JobCompletedPayload{
			JobID:         final.JobID,
			Status:        string(final.Status),
			TotalDocs:     final.TotalDocuments,
			SucceededDocs: final.SucceededCount,
			FailedDocs:    final.FailedCount,
			EntityCount:   final.EntityCount,
			DurationMs:    time.Since(start).Milliseconds(),
			CompletedAt:   now,
		}
		if err := s.publisher.PublishJobCompleted(ctx, payload); err != nil {
			s.logger.Warn("failed to publish job event",
				logging.String("job_id", final.JobID), logging.Err(err))
		}
	}
}

func (s *serviceImpl) processBatchDocument(ctx context.Context, jobID, key string) {
	docCtx, cancel := context.WithTimeout(ctx, s.config.PerDocTimeout)
	resp, err := s.ExtractDocument(docCtx, &ExtractDocumentRequest{ObjectKey: key})
	cancel()

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.ProcessedCount++
	job.UpdatedAt = time.Now().UTC()
	if err != nil {
		job.FailedCount++
		job.Errors = append(job.Errors, JobDocumentError{ObjectKey: key, Error: err.Error()})
		s.logger.Error("batch document failed",
			logging.String("job_id", jobID),
			logging.String("object_key", key),
			logging.Err(err))
		return
	}
	job.SucceededCount++
	job.EntityCount += resp.EntityCount
}

// ---------------------------------------------------------------------------
// Job queries
// ---------------------------------------------------------------------------

func (s *serviceImpl) GetJob(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, errors.InvalidParam("job_id is required")
	}
	job, err := s.snapshotJob(jobID)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *serviceImpl) ListJobs(ctx context.Context, page commontypes.Pagination) (*JobPage, error) {
	page = page.Normalize()

	s.jobsMu.RLock()
	all := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		snapshot := *job
		all = append(all, &snapshot)
	}
	s.jobsMu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].JobID < all[j].JobID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	start := page.Offset()
	if start >= len(all) {
		return &JobPage{Items: []*Job{}, Pagination: page, Total: total}, nil
	}
	end := start + page.PageSize
	if end > len(all) {
		end = len(all)
	}
	return &JobPage{Items: all[start:end], Pagination: page, Total: total}, nil
}

// ---------------------------------------------------------------------------
// Job registry helpers
// ---------------------------------------------------------------------------

func (s *serviceImpl) snapshotJob(jobID string) (*Job, error) {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, errors.New(errors.ErrCodeJobNotFound, fmt.Sprintf("job not found: %s", jobID))
	}
	snapshot := *job
	return &snapshot, nil
}

func (s *serviceImpl) setJobStatus(jobID string, status JobStatus) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
		job.UpdatedAt = time.Now().UTC()
	}
}

// pruneJobsLocked drops finished jobs past the retention window.  Caller
// holds jobsMu.
func (s *serviceImpl) pruneJobsLocked(now time.Time) {
	for id, job := range s.jobs {
		if job.CompletedAt == nil {
			continue
		}
		if now.Sub(*job.CompletedAt) > s.config.JobRetention {
			delete(s.jobs, id)
		}
	}
}
