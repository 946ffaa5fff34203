package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Schema is applied idempotently at startup. Enum-like columns are plain TEXT
// guarded by CHECK constraints so adding a value is a constraint swap, not a
// type migration.
const Schema = `
CREATE TABLE IF NOT EXISTS analysis_jobs (
    id            UUID PRIMARY KEY,
    status        TEXT NOT NULL DEFAULT 'pending'
                  CHECK (status IN ('pending','processing','completed','failed')),
    media_type    TEXT NOT NULL
                  CHECK (media_type IN ('video','audio','image')),
    source_url    TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at  TIMESTAMPTZ,
    error_message TEXT,
    metadata      JSONB NOT NULL DEFAULT '{}'::jsonb,
    is_deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_status      ON analysis_jobs (status);
CREATE INDEX IF NOT EXISTS idx_jobs_media_type  ON analysis_jobs (media_type);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at  ON analysis_jobs (created_at);
CREATE INDEX IF NOT EXISTS idx_jobs_live        ON analysis_jobs (id) WHERE is_deleted = FALSE;
CREATE INDEX IF NOT EXISTS idx_jobs_pending     ON analysis_jobs (created_at)
    WHERE status = 'pending' AND is_deleted = FALSE;
CREATE INDEX IF NOT EXISTS idx_jobs_metadata    ON analysis_jobs USING GIN (metadata);

CREATE TABLE IF NOT EXISTS media_files (
    id           UUID PRIMARY KEY,
    job_id       UUID NOT NULL REFERENCES analysis_jobs(id) ON DELETE CASCADE,
    file_type    TEXT NOT NULL
                 CHECK (file_type IN ('source','downloaded','extracted','cached','output')),
    original_url TEXT,
    cdn_url      TEXT,
    mime_type    TEXT,
    file_size    BIGINT,
    filename     TEXT,
    status       TEXT NOT NULL DEFAULT 'pending'
                 CHECK (status IN ('pending','downloading','downloaded','processing','completed','failed')),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_deleted   BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_media_files_job_id ON media_files (job_id);
CREATE INDEX IF NOT EXISTS idx_media_files_status ON media_files (status);
CREATE INDEX IF NOT EXISTS idx_media_files_live   ON media_files (id) WHERE is_deleted = FALSE;

CREATE TABLE IF NOT EXISTS analysis_results (
    id          UUID PRIMARY KEY,
    job_id      UUID NOT NULL REFERENCES analysis_jobs(id) ON DELETE CASCADE,
    provider    TEXT NOT NULL
                CHECK (provider IN ('minimax','groq','gemini','openai','anthropic','local')),
    model       TEXT NOT NULL,
    result      JSONB NOT NULL DEFAULT '{}'::jsonb,
    confidence  DOUBLE PRECISION,
    tokens_used INTEGER,
    latency_ms  INTEGER,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_results_job_id   ON analysis_results (job_id);
CREATE INDEX IF NOT EXISTS idx_results_provider ON analysis_results (provider);
CREATE INDEX IF NOT EXISTS idx_results_live     ON analysis_results (id) WHERE is_deleted = FALSE;
CREATE INDEX IF NOT EXISTS idx_results_result   ON analysis_results USING GIN (result);

CREATE TABLE IF NOT EXISTS transcriptions (
    id               UUID PRIMARY KEY,
    job_id           UUID NOT NULL REFERENCES analysis_jobs(id) ON DELETE CASCADE,
    provider         TEXT NOT NULL
                     CHECK (provider IN ('whisper','whisper_local','google','azure','deepgram','assemblyai','elevenlabs','minimax')),
    model            TEXT,
    text             TEXT NOT NULL,
    segments         JSONB,
    language         TEXT NOT NULL DEFAULT 'en',
    duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
    word_count       INTEGER,
    confidence       DOUBLE PRECISION,
    tokens_used      INTEGER,
    latency_ms       INTEGER,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_deleted       BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at       TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_transcriptions_job_id   ON transcriptions (job_id);
CREATE INDEX IF NOT EXISTS idx_transcriptions_language ON transcriptions (language);
CREATE INDEX IF NOT EXISTS idx_transcriptions_live     ON transcriptions (id) WHERE is_deleted = FALSE;

CREATE TABLE IF NOT EXISTS processing_logs (
    id          UUID PRIMARY KEY,
    job_id      UUID NOT NULL REFERENCES analysis_jobs(id) ON DELETE CASCADE,
    stage       TEXT NOT NULL
                CHECK (stage IN ('upload','download','validation','transcription','analysis','completion','cleanup')),
    status      TEXT NOT NULL
                CHECK (status IN ('started','completed','failed','warning','skipped')),
    message     TEXT,
    details     JSONB,
    duration_ms INTEGER,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_processing_logs_job_id ON processing_logs (job_id, created_at);
`

// EnsureSchema creates all tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
