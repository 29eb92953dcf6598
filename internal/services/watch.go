package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"foresterswatch/internal/domain"
)

// WatchService runs one complete check: acquire a token, fetch the
// current events, diff them against the stored snapshot, notify on new
// events, and persist the updated snapshot.
type WatchService struct {
	acquirer domain.TokenAcquirer
	fetcher  domain.EventFetcher
	store    domain.SnapshotStore
	notifier domain.Notifier
	creds    domain.Credentials
	params   domain.SearchParams
	logger   *slog.Logger
	now      func() time.Time
}

// NewWatchService wires a WatchService from its collaborators.
func NewWatchService(
	acquirer domain.TokenAcquirer,
	fetcher domain.EventFetcher,
	store domain.SnapshotStore,
	notifier domain.Notifier,
	creds domain.Credentials,
	params domain.SearchParams,
	logger *slog.Logger,
) *WatchService {
	return &WatchService{
		acquirer: acquirer,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		creds:    creds,
		params:   params,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one check. Anything preventing correct data acquisition is
// fatal: it is reported through the error alert and returned as a
// stage-labelled RunError. Storage and mail failures are logged and the
// run continues, so a partial run still leaves a consistent snapshot for
// the next invocation.
func (s *WatchService) Run(ctx context.Context) (err error) {
	runID := uuid.NewString()
	logger := s.logger.With("runId", runID)

	defer func() {
		if r := recover(); r != nil {
			err = domain.NewRunError("run", fmt.Errorf("panic: %v", r))
			s.reportFailure(ctx, runID, err, string(debug.Stack()))
		} else if err != nil {
			s.reportFailure(ctx, runID, err, "")
		}
	}()

	logger.Info("starting events check", "postcode", s.params.PostalCode)

	if s.creds.Username == "" || s.creds.Password == "" {
		return domain.NewRunError(domain.StageConfiguration, domain.ErrMissingCredentials)
	}

	token, err := s.acquirer.AcquireToken(ctx, s.creds)
	if err != nil {
		return domain.NewRunError(domain.StageAcquisition, err)
	}

	current, err := s.fetcher.FetchEvents(ctx, token, s.params)
	if err != nil {
		return domain.NewRunError(domain.StageRequest, err)
	}
	logger.Info("events fetched", "count", len(current))

	now := s.now()
	stored, loadErr := s.store.Load(now)
	if loadErr != nil {
		// History is gone but the run can still complete; the next
		// snapshot write rebuilds it.
		logger.Warn("stored snapshot unreadable, continuing without history", "err", loadErr)
	}

	prunedStored := domain.PruneExpired(stored.Events, now)
	prunedCurrent := domain.PruneExpired(current, now)
	newEvents := domain.FindNew(prunedCurrent, prunedStored)

	if len(newEvents) > 0 {
		logger.Info("new events found", "count", len(newEvents))
		if sendErr := s.notifier.SendNewEvents(ctx, newEvents); sendErr != nil {
			logger.Error("digest delivery failed", "err", sendErr)
		}
	} else {
		logger.Info("no new events")
	}

	next := &domain.Snapshot{
		LastUpdated: now.Format(time.RFC3339),
		Events:      append(prunedStored, newEvents...),
	}
	if saveErr := s.store.Save(next); saveErr != nil {
		logger.Error("failed to persist snapshot", "err", saveErr)
	}

	logger.Info("events check finished", "stored", len(next.Events))
	return nil
}

// reportFailure sends the error alert for a fatal run error. Transport
// problems are swallowed by the notifier; a failure to report a failure
// must not mask the original error.
func (s *WatchService) reportFailure(ctx context.Context, runID string, runErr error, stack string) {
	report := &domain.ErrorReportEmailData{
		RunID:      runID,
		Stage:      domain.StageOf(runErr),
		OccurredAt: s.now().Format(time.RFC3339),
		Message:    runErr.Error(),
		StackTrace: stack,
	}
	_ = s.notifier.SendErrorReport(ctx, report)
}
