package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/db"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/dberrors"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

const (
	jobsTable         = "jobs"
	jobCodeConstraint = "jobs_job_code_key"
)

var jobColumns = []string{
	"id", "job_code", "company_name", "department", "title", "description",
	"skills", "openings", "posted_on", "created_by", "created_at",
}

// JobFilter narrows a job listing
type JobFilter struct {
	Department string
	Offset     uint64
	Limit      int
}

// JobRepository handles job database operations
type JobRepository struct {
	db    *pgxpool.Pool
	begin db.TxBeginner
	sb    squirrel.StatementBuilderType
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{
		db:    db,
		begin: db,
		sb:    statementBuilder(),
	}
}

// FindMatchingIdentifiers returns every stored job code matching the pattern
func (r *JobRepository) FindMatchingIdentifiers(ctx context.Context, pattern idgen.Pattern) ([]string, error) {
	return newCodeSource(r.db, r.sb, jobsTable, "job_code").FindMatchingIdentifiers(ctx, pattern)
}

// CreateWithCode serializes on partition, computes the job code with next and inserts the job,
// all in one transaction. A collision on the code column is reported as apperrors.ErrUniquenessViolation.
func (r *JobRepository) CreateWithCode(ctx context.Context, job *models.Job, partition string, next idgen.NextFunc) error {
	return db.WithTransaction(ctx, r.begin, func(ctx context.Context, tx pgx.Tx) error {
		if err := db.LockPartition(ctx, tx, partition); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
		}

		code, err := next(ctx, newCodeSource(tx, r.sb, jobsTable, "job_code"))
		if err != nil {
			return err
		}
		job.JobCode = code

		sql, args, err := r.sb.Insert(jobsTable).
			Columns("job_code", "company_name", "department", "title", "description",
				"skills", "openings", "posted_on", "created_by", "created_at").
			Values(job.JobCode, job.CompanyName, job.Department, job.Title, job.Description,
				nonNilSkills(job.Skills), job.Openings, job.PostedOn, job.CreatedBy, time.Now()).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create job query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&job.ID, &job.CreatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, jobCodeConstraint) {
				logger.Warn().Str("jobCode", job.JobCode).Msg("Job code collision on insert")
				return fmt.Errorf("%w: job code %s", apperrors.ErrUniquenessViolation, job.JobCode)
			}
			logger.Error().Err(err).Str("jobCode", job.JobCode).Msg("Error inserting job")
			return fmt.Errorf("error creating job: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	sql, args, err := r.sb.Select(jobColumns...).
		From(jobsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job query: %w", err)
	}

	job, err := scanJob(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Int64("jobID", id).Msg("Error scanning job row")
		return nil, fmt.Errorf("error retrieving job: %w", err)
	}
	return job, nil
}

// List returns a page of jobs, newest first, plus the total count
func (r *JobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error) {
	where := squirrel.And{}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		where = append(where, squirrel.Expr("LOWER(department) = LOWER(?)", dept))
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From(jobsTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count jobs query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting jobs")
		return nil, 0, fmt.Errorf("error counting jobs: %w", err)
	}

	sql, args, err := r.sb.Select(jobColumns...).
		From(jobsTable).
		Where(where).
		OrderBy("posted_on DESC", "job_code DESC").
		Offset(filter.Offset).
		Limit(uint64(filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list jobs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying jobs")
		return nil, 0, fmt.Errorf("error querying jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating job rows: %w", err)
	}
	return jobs, total, nil
}

// Delete removes a job
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete(jobsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete job query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("jobID", id).Msg("Error deleting job")
		return fmt.Errorf("error deleting job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID, &j.JobCode, &j.CompanyName, &j.Department, &j.Title, &j.Description,
		&j.Skills, &j.Openings, &j.PostedOn, &j.CreatedBy, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return &j, nil
}
